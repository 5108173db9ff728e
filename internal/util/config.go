package util

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/BurntSushi/toml"
)

const (
	DefaultConfigFile   = "small.toml"
	DefaultMaxCallDepth = 10000
)

type Configuration struct {
	Version   string `toml:"-"`
	BuildDate string `toml:"-"`
	Commit    string `toml:"-"`

	// DebugAST selects an AST dump written beside the source file: "", "text", "json" or "yaml".
	DebugAST     string `toml:"debug_ast"`
	MaxCallDepth int    `toml:"max_call_depth"`

	Log     LogConfiguration     `toml:"log"`
	Journal JournalConfiguration `toml:"journal"`
}

type LogConfiguration struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type JournalConfiguration struct {
	Driver string `toml:"driver"` // sqlite3, mysql or postgres
	DSN    string `toml:"dsn"`
}

func DefaultConfiguration() Configuration {
	return Configuration{
		MaxCallDepth: DefaultMaxCallDepth,
		Log:          LogConfiguration{Level: "none"},
	}
}

// LoadConfigFile decodes a TOML file on top of the defaults. A missing file is not an error
// when optional is set.
func LoadConfigFile(path string, optional bool) (Configuration, error) {
	config := DefaultConfiguration()
	md, err := toml.DecodeFile(path, &config)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return DefaultConfiguration(), nil
		}
		return config, fmt.Errorf("failed to load config '%s': %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return config, fmt.Errorf("unknown config key '%s' in '%s'", undecoded[0], path)
	}
	if config.MaxCallDepth <= 0 {
		config.MaxCallDepth = DefaultMaxCallDepth
	}
	switch config.DebugAST {
	case "", "text", "json", "yaml":
	default:
		return config, fmt.Errorf("invalid debug_ast '%s' in '%s', expected text, json or yaml", config.DebugAST, path)
	}
	return config, nil
}
