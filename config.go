package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
	"gopkg.in/yaml.v3"

	"github.com/svlang/lspdev/launcher"
)

// Defaults match the slang-lsp dev setup this tool grew out of. Anything
// can be overridden in lspdev.yaml.
var (
	DefaultEditor            = "kate"
	DefaultEditorArgs        = []string{"-b"}
	DefaultLoggingFilterName = "QT_LOGGING_RULES"
	DefaultLoggingFilter     = "katelspclientplugin=true"
	DefaultDebugFlagName     = "DEBUG_GDB"
	DefaultServerPattern     = "slang-lsp"
	DefaultDebugger          = "gdb"
	DefaultDebuggerCommands  = []string{"up 3", "set var _done = 1", "b startServer()"}
	DefaultStartupDelay      = time.Second
)

var debugLogger = zerolog.New(&lumberjack.Logger{
	Filename:   filepath.Join(getConfigDir(), "lspdev.log"),
	MaxSize:    50,
	MaxBackups: 10,
}).Level(zerolog.DebugLevel).With().Timestamp().Logger()

type LspDevConfig struct {
	TargetFile        string   `yaml:"target_file"`
	Editor            string   `yaml:"editor"`
	EditorArgs        []string `yaml:"editor_args"`
	LoggingFilterName string   `yaml:"logging_filter_name"`
	LoggingFilter     string   `yaml:"logging_filter"`
	DebugFlagName     string   `yaml:"debug_flag_name"`
	ServerPattern     string   `yaml:"server_pattern"`
	Debugger          string   `yaml:"debugger"`
	DebuggerCommands  []string `yaml:"debugger_commands"`
	DebuggerInitFile  string   `yaml:"debugger_init_file"`
	StartupDelay      string   `yaml:"startup_delay"`
	ProcessExclude    []string `yaml:"process_exclude"`
}

func (c *LspDevConfig) InitDefaults() error {
	if c.Editor == "" {
		c.Editor = DefaultEditor
	}
	if c.EditorArgs == nil {
		c.EditorArgs = DefaultEditorArgs
	}
	if c.LoggingFilterName == "" {
		c.LoggingFilterName = DefaultLoggingFilterName
	}
	if c.LoggingFilter == "" {
		c.LoggingFilter = DefaultLoggingFilter
	}
	if c.DebugFlagName == "" {
		c.DebugFlagName = DefaultDebugFlagName
	}
	if c.ServerPattern == "" {
		c.ServerPattern = DefaultServerPattern
	}
	if c.Debugger == "" {
		c.Debugger = DefaultDebugger
	}
	if c.DebuggerCommands == nil {
		c.DebuggerCommands = DefaultDebuggerCommands
	}
	if c.DebuggerInitFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		c.DebuggerInitFile = filepath.Join(home, ".gdbinit")
	}

	c.TargetFile = os.ExpandEnv(c.TargetFile)
	c.DebuggerInitFile = os.ExpandEnv(c.DebuggerInitFile)

	return nil
}

// LauncherConfig converts the file-facing config into the structure the
// launcher is constructed with.
func (c *LspDevConfig) LauncherConfig() (launcher.Config, error) {
	delay := DefaultStartupDelay
	if c.StartupDelay != "" {
		parsed, err := time.ParseDuration(c.StartupDelay)
		if err != nil {
			return launcher.Config{}, fmt.Errorf("'startup_delay': '%s' is invalid: %w", c.StartupDelay, err)
		}
		delay = parsed
	}

	return launcher.Config{
		TargetFile:        c.TargetFile,
		Editor:            c.Editor,
		EditorArgs:        c.EditorArgs,
		LoggingFilterName: c.LoggingFilterName,
		LoggingFilter:     c.LoggingFilter,
		DebugFlagName:     c.DebugFlagName,
		ServerPattern:     c.ServerPattern,
		Debugger:          c.Debugger,
		DebuggerCommands:  c.DebuggerCommands,
		DebuggerInitFile:  c.DebuggerInitFile,
		StartupDelay:      delay,
	}, nil
}

func getConfigFromFile(path string) (*LspDevConfig, error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := &LspDevConfig{}

	err = yaml.Unmarshal(bs, config)
	if err != nil {
		return nil, err
	}

	err = config.InitDefaults()
	if err != nil {
		return nil, err
	}

	return config, nil
}

// getConfigFile resolves the active config: lspdev.yaml in the working
// directory wins, otherwise the file in the config dir, created empty
// on first run.
func getConfigFile() (*LspDevConfig, error) {
	configDir := getConfigDir()

	wd, err := os.Getwd()
	if err != nil {
		panic(err)
	}

	wdPath := filepath.Join(wd, "lspdev.yaml")
	info, err := os.Stat(wdPath)
	if err == nil && !info.IsDir() {
		return getConfigFromFile(wdPath)
	}

	configPath := filepath.Join(configDir, "config.yaml")
	info, err = os.Stat(configPath)
	if os.IsNotExist(err) {
		err = os.WriteFile(configPath, []byte("\n"), 0755)
		if err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	return getConfigFromFile(configPath)
}

func getWorkspaceDir(projectDir string) string {
	wsDir := filepath.Join(getConfigDir(), "workspaces", projectDir)
	err := os.MkdirAll(wsDir, 0755)
	if err != nil {
		panic(err)
	}

	return wsDir
}

func getConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		panic(err)
	}

	path := filepath.Join(home, ".config", "lspdev")

	err = os.MkdirAll(path, 0755)
	if err != nil {
		panic(err)
	}

	return path
}
