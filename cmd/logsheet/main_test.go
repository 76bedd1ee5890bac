package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/logsheet-go/pkg/logsheet"
	"github.com/ukaji3/logsheet-go/pkg/logsheet/archive"
)

func run(t *testing.T, fs afero.Fs, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(fs)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func seed(t *testing.T, fs afero.Fs, files map[string]string) {
	t.Helper()
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fs, name, []byte(content), 0o644))
	}
}

func TestBuildAndVerify(t *testing.T) {
	fs := afero.NewMemMapFs()
	seed(t, fs, map[string]string{
		"/in/web01s.log":  "A\nB\nC\n",
		"/in/web01p.log":  "A\nX\nC\n",
		"/ref/web01s.log": "A\nB\nC\n",
		"/ref/web01p.log": "A\nX\nC\n",
	})

	out, err := run(t, fs, "build", "--input-dir", "/in", "-o", "/out/book.xlsx", "--log-level", "none")
	require.NoError(t, err)
	assert.Contains(t, out, "Added sheet web01: 3 rows, 1 differing")
	assert.Contains(t, out, "Workbook generated: /out/book.xlsx")

	out, err = run(t, fs, "verify", "--input-dir", "/ref", "--workbook", "/out/book.xlsx", "--log-level", "none")
	require.NoError(t, err)
	assert.Contains(t, out, "Verification result: PASSED")

	out, err = run(t, fs, "verify", "--input-dir", "/ref", "--workbook", "/out/book.xlsx", "--reader", "excelize", "--log-level", "none")
	require.NoError(t, err)
	assert.Contains(t, out, "Verification result: PASSED")
}

func TestVerifyFailure(t *testing.T) {
	fs := afero.NewMemMapFs()
	seed(t, fs, map[string]string{
		"/in/web01s.log":  "A\n",
		"/in/web01p.log":  "A\n",
		"/ref/web01s.log": "A\nB\n",
		"/ref/web01p.log": "A\n",
	})
	_, err := run(t, fs, "build", "--input-dir", "/in", "-o", "/book.xlsx", "--log-level", "none")
	require.NoError(t, err)

	out, err := run(t, fs, "verify", "--input-dir", "/ref", "--workbook", "/book.xlsx", "--log-level", "none")
	assert.ErrorIs(t, err, logsheet.ErrVerificationFailed)
	assert.Contains(t, out, "[SOURCE MISSING] web01: B")
	assert.Contains(t, out, "Verification result: FAILED")

	out, err = run(t, fs, "verify", "--input-dir", "/ref", "--workbook", "/book.xlsx", "--json", "--log-level", "none")
	assert.ErrorIs(t, err, logsheet.ErrVerificationFailed)
	var report logsheet.VerifyReport
	require.NoError(t, json.Unmarshal([]byte(out[:bytes.LastIndexByte([]byte(out), '}')+1]), &report))
	require.Len(t, report.Missing, 1)
	assert.Equal(t, 1, report.Missing[0].LineIndex)
}

func TestConfigFileAndEnvironment(t *testing.T) {
	fs := afero.NewMemMapFs()
	seed(t, fs, map[string]string{
		"/in/web01s.log": "A\n",
		"/in/web01p.log": "A\n",
		"/cfg/logsheet.yaml": `input-dir: /in
output: /from-config.xlsx
log-level: none
header:
  project: Migration 2026
`,
	})
	t.Setenv("LOGSHEET_HEADER_TITLE", "Set from env")

	_, err := run(t, fs, "build", "--config", "/cfg/logsheet.yaml")
	require.NoError(t, err)

	wb, err := archive.ReadFile(fs, "/from-config.xlsx")
	require.NoError(t, err)
	a1, ok := wb.Sheets[0].Cell(0, 0)
	require.True(t, ok)
	assert.Equal(t, "Migration 2026", a1.Value)
	a2, ok := wb.Sheets[0].Cell(1, 0)
	require.True(t, ok)
	assert.Equal(t, "Set from env", a2.Value)
}

func TestSampleConfig(t *testing.T) {
	sample, err := afero.ReadFile(afero.NewOsFs(), "../../configs/logsheet.yaml")
	require.NoError(t, err)

	fs := afero.NewMemMapFs()
	seed(t, fs, map[string]string{
		"/in/web01s.log":     "A\nB\n",
		"/in/web01p.log":     "A\nC\n",
		"/cfg/logsheet.yaml": string(sample),
	})

	_, err = run(t, fs, "build", "--config", "/cfg/logsheet.yaml", "--input-dir", "/in", "-o", "/out/comparison.xlsx")
	require.NoError(t, err)

	wb, err := archive.ReadFile(fs, "/out/comparison.xlsx")
	require.NoError(t, err)
	sheet := wb.Sheets[0]
	expected := map[[2]int]string{
		{0, 0}: "InfoOne延命プロジェクト",
		{3, 1}: "対象サーバ",
		{6, 1}: "現行サーバ (web01s)",
		{6, 2}: "差分有無",
		{6, 3}: "新基盤 (web01p)",
		{8, 4}: "差異あり",
	}
	for pos, text := range expected {
		c, ok := sheet.Cell(pos[0], pos[1])
		require.True(t, ok, "cell %v", pos)
		assert.Equal(t, text, c.Value, "cell %v", pos)
	}
}

func TestConfigErrors(t *testing.T) {
	fs := afero.NewMemMapFs()
	seed(t, fs, map[string]string{"/in/web01s.log": "A\n", "/in/web01p.log": "A\n"})

	_, err := run(t, fs, "build", "--input-dir", "/in", "--log-level", "loud")
	assert.Error(t, err)

	_, err = run(t, fs, "build", "--config", "/missing.yaml")
	assert.Error(t, err)

	_, err = run(t, fs, "verify", "--input-dir", "/in", "--reader", "openpyxl", "--log-level", "none")
	assert.Error(t, err)

	_, err = run(t, fs, "build", "extra-arg")
	assert.Error(t, err)
}
