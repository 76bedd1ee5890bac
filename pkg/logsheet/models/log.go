package models

// LogLine is one line of a log file.
type LogLine struct {
	// Index is the 0-based line position in its file.
	Index int `json:"index"`
	// Text is the line without its terminator.
	Text string `json:"text"`
}

// LogPair is a source/target pair of logs captured from the same server.
type LogPair struct {
	// ServerID is the identifier shared by both sides; it names the sheet.
	ServerID string `json:"server_id"`
	// SourceHost is the host label of the source side (e.g. "web01s").
	SourceHost string `json:"source_host"`
	// TargetHost is the host label of the target side (e.g. "web01p").
	TargetHost string `json:"target_host"`
	// Source holds the source-side lines.
	Source []LogLine `json:"source"`
	// Target holds the target-side lines.
	Target []LogLine `json:"target"`
}

// NewLogLines numbers texts from zero.
func NewLogLines(texts []string) []LogLine {
	lines := make([]LogLine, len(texts))
	for i, t := range texts {
		lines[i] = LogLine{Index: i, Text: t}
	}
	return lines
}

// Texts returns the text of every line, in order.
func Texts(lines []LogLine) []string {
	texts := make([]string, len(lines))
	for i, l := range lines {
		texts[i] = l.Text
	}
	return texts
}
