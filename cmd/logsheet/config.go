package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/ukaji3/logsheet-go/internal/dlogger"
	"github.com/ukaji3/logsheet-go/pkg/logsheet"
	"github.com/ukaji3/logsheet-go/pkg/logsheet/builder"
	"github.com/ukaji3/logsheet-go/pkg/logsheet/verify"
)

const (
	envPrefix  = "LOGSHEET"
	configName = "logsheet"
)

// Config keys.
const (
	keyConfig   = "config"
	keyLogLevel = "log-level"
	keyInputDir = "input-dir"
	keyRefDir   = "ref-dir"
	keyOutput   = "output"
	keyWorkbook = "workbook"
	keyEncoding = "encoding"
	keyWorkers  = "workers"
	keyReader   = "reader"
	keyHeader   = "header"
)

// Config is the merged view of flags, environment and config file.
type Config struct {
	LogLevel string                 `mapstructure:"log-level"`
	InputDir string                 `mapstructure:"input-dir"`
	RefDir   string                 `mapstructure:"ref-dir"`
	Output   string                 `mapstructure:"output"`
	Workbook string                 `mapstructure:"workbook"`
	Encoding string                 `mapstructure:"encoding"`
	Workers  int                    `mapstructure:"workers"`
	Reader   string                 `mapstructure:"reader"`
	Header   builder.HeaderTemplate `mapstructure:"header"`
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv() // read in environment variables that match

	v.SetDefault(keyLogLevel, dlogger.LogLevelWarn)
	v.SetDefault(keyInputDir, logsheet.DefaultInputDir)
	v.SetDefault(keyRefDir, logsheet.DefaultVerifyInputDir)
	v.SetDefault(keyOutput, logsheet.DefaultOutput)
	v.SetDefault(keyWorkbook, logsheet.DefaultOutput)
	v.SetDefault(keyReader, string(verify.ReaderNative))
	for key, value := range headerDefaults(builder.DefaultHeaderTemplate()) {
		v.SetDefault(keyHeader+"."+key, value)
	}
	return v
}

// headerDefaults lists the header keys so they can be set from the environment.
func headerDefaults(h builder.HeaderTemplate) map[string]string {
	return map[string]string{
		"project":        h.Project,
		"title":          h.Title,
		"server-label":   h.ServerLabel,
		"remarks-label":  h.RemarksLabel,
		"server-formula": h.ServerFormula,
		"source-label":   h.SourceLabel,
		"diff-label":     h.DiffLabel,
		"target-label":   h.TargetLabel,
		"note-label":     h.NoteLabel,
		"diff-note":      h.DiffNote,
	}
}

// readConfigFile reads the file named by --config or LOGSHEET_CONFIG, or
// looks for logsheet.{yaml,json,toml} in the working directory and
// $HOME/.logsheet. A missing default file is not an error.
func readConfigFile(v *viper.Viper) error {
	if file := v.GetString(keyConfig); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config %s: %w", file, err)
		}
		return nil
	}

	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.logsheet")
	v.SetConfigName(configName)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}

// bindFlags binds every flag of the command, including inherited ones, to
// the key of the same name unless remapped.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet, remap map[string]string) error {
	var err error
	flags.VisitAll(func(f *pflag.Flag) {
		key := f.Name
		if k, ok := remap[f.Name]; ok {
			key = k
		}
		if bindErr := v.BindPFlag(key, f); bindErr != nil && err == nil {
			err = bindErr
		}
	})
	return err
}

// loadConfig binds the running command's flags and resolves the configuration.
func loadConfig(v *viper.Viper, cmd *cobra.Command, remap map[string]string) (*Config, error) {
	if err := bindFlags(v, cmd.Flags(), remap); err != nil {
		return nil, err
	}
	if err := readConfigFile(v); err != nil {
		return nil, err
	}
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	if config.LogLevel == "" {
		config.LogLevel = dlogger.LogLevelWarn
	}
	return &config, nil
}

// options turns the configuration into pipeline options.
func (c *Config) options() (logsheet.Options, error) {
	logger, err := dlogger.GetLogger(c.LogLevel)
	if err != nil {
		return logsheet.Options{}, fmt.Errorf("log level %q: %w", c.LogLevel, err)
	}
	reader, err := verify.ParseReader(c.Reader)
	if err != nil {
		return logsheet.Options{}, err
	}
	return logsheet.Options{
		InputDir: c.InputDir,
		Output:   c.Output,
		Workbook: c.Workbook,
		Encoding: c.Encoding,
		Workers:  c.Workers,
		Header:   c.Header,
		Reader:   reader,
		Logger:   logger,
	}, nil
}
