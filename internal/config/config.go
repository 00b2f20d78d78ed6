package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"checklist/internal/todo"
)

const (
	AppName               = "checklist"
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "todo.db"
	DefaultLogFileName    = "checklist.log"
	EnvConfigPath         = "TODO_CONFIG"
)

type Keymap struct {
	Quit           string `toml:"quit"`
	Add            string `toml:"add"`
	Up             string `toml:"up"`
	Down           string `toml:"down"`
	Toggle         string `toml:"toggle"`
	ToggleAll      string `toml:"toggle_all"`
	Delete         string `toml:"delete"`
	Edit           string `toml:"edit"`
	Confirm        string `toml:"confirm"`
	Cancel         string `toml:"cancel"`
	Filter         string `toml:"filter"`
	ClearCompleted string `toml:"clear_completed"`
}

type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type Config struct {
	DBPath        string    `toml:"db_path"`
	DefaultFilter string    `toml:"default_filter"`
	Log           LogConfig `toml:"log"`
	Keys          Keymap    `toml:"keys"`
}

// ResolveConfigPath picks the config file location: $TODO_CONFIG, then the
// user config dir, then the working directory.
func ResolveConfigPath() string {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return DefaultConfigFileName
	}
	return filepath.Join(dir, AppName, DefaultConfigFileName)
}

// LoadOrCreate reads the config at path, writing the defaults there first if
// the file does not exist yet. Relative paths inside the file are resolved
// against the directory holding it.
func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg.resolve(filepath.Dir(path)), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		cfg.DBPath = DefaultDBName
	}
	cfg = cfg.resolve(filepath.Dir(path))
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("validate %s: %w", path, err)
	}
	return cfg, nil
}

// Filter returns the parsed default filter mode.
func (c Config) Filter() todo.Filter {
	f, err := todo.ParseFilter(c.DefaultFilter)
	if err != nil {
		return todo.FilterAll
	}
	return f
}

func (c Config) Validate() error {
	if _, err := todo.ParseFilter(c.DefaultFilter); err != nil {
		return fmt.Errorf("default_filter: %w", err)
	}
	v := reflect.ValueOf(c.Keys)
	for i := 0; i < v.NumField(); i++ {
		if v.Field(i).String() == "" {
			return fmt.Errorf("keys.%s is empty", v.Type().Field(i).Tag.Get("toml"))
		}
	}
	return nil
}

func (c Config) resolve(base string) Config {
	if !filepath.IsAbs(c.DBPath) && !strings.HasPrefix(c.DBPath, "file:") {
		c.DBPath = filepath.Join(base, c.DBPath)
	}
	if c.Log.File != "" && !filepath.IsAbs(c.Log.File) {
		c.Log.File = filepath.Join(base, c.Log.File)
	}
	return c
}

func write(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultConfig() Config {
	return Config{
		DBPath:        DefaultDBName,
		DefaultFilter: "all",
		Log: LogConfig{
			Level: "info",
			File:  DefaultLogFileName,
		},
		Keys: Keymap{
			Quit:           "q",
			Add:            "a",
			Up:             "k",
			Down:           "j",
			Toggle:         " ",
			ToggleAll:      "t",
			Delete:         "d",
			Edit:           "e",
			Confirm:        "enter",
			Cancel:         "esc",
			Filter:         "f",
			ClearCompleted: "c",
		},
	}
}
