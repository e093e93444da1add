package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "lspdev.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	return path
}

func TestGetConfigFromFile(t *testing.T) {
	path := writeConfig(t, `
target_file: /work/rtl/compr42.sv
editor: kwrite
server_pattern: my-lsp
startup_delay: 250ms
process_exclude: ["*lspdev*"]
`)

	config, err := getConfigFromFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if config.TargetFile != "/work/rtl/compr42.sv" {
		t.Errorf("Expected target file to be read, got %q", config.TargetFile)
	}
	if config.Editor != "kwrite" {
		t.Errorf("Expected editor override, got %q", config.Editor)
	}
	if config.ServerPattern != "my-lsp" {
		t.Errorf("Expected server pattern override, got %q", config.ServerPattern)
	}
	if len(config.ProcessExclude) != 1 || config.ProcessExclude[0] != "*lspdev*" {
		t.Errorf("Expected exclude patterns, got %v", config.ProcessExclude)
	}

	// Untouched fields fall back to defaults
	if config.DebugFlagName != DefaultDebugFlagName {
		t.Errorf("Expected default debug flag name, got %q", config.DebugFlagName)
	}
	if config.LoggingFilter != DefaultLoggingFilter {
		t.Errorf("Expected default logging filter, got %q", config.LoggingFilter)
	}

	launcherConfig, err := config.LauncherConfig()
	if err != nil {
		t.Fatal(err)
	}
	if launcherConfig.StartupDelay != 250*time.Millisecond {
		t.Errorf("Expected 250ms startup delay, got %v", launcherConfig.StartupDelay)
	}
}

func TestGetConfigFromFileEmpty(t *testing.T) {
	path := writeConfig(t, "\n")

	config, err := getConfigFromFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if config.Editor != DefaultEditor {
		t.Errorf("Expected default editor, got %q", config.Editor)
	}
	if config.ServerPattern != DefaultServerPattern {
		t.Errorf("Expected default server pattern, got %q", config.ServerPattern)
	}
	if len(config.DebuggerCommands) != len(DefaultDebuggerCommands) {
		t.Errorf("Expected default debugger commands, got %v", config.DebuggerCommands)
	}
	if config.DebuggerInitFile == "" {
		t.Error("Expected a default debugger init file")
	}

	launcherConfig, err := config.LauncherConfig()
	if err != nil {
		t.Fatal(err)
	}
	if launcherConfig.StartupDelay != DefaultStartupDelay {
		t.Errorf("Expected default startup delay, got %v", launcherConfig.StartupDelay)
	}
}

func TestLauncherConfigRejectsBadDelay(t *testing.T) {
	config := &LspDevConfig{StartupDelay: "soonish"}
	if err := config.InitDefaults(); err != nil {
		t.Fatal(err)
	}

	_, err := config.LauncherConfig()
	if err == nil {
		t.Fatal("Expected an error for an unparseable startup_delay, got none")
	}
}

func TestConfigExpandsEnv(t *testing.T) {
	t.Setenv("LSPDEV_TEST_ROOT", "/srv/rtl")

	path := writeConfig(t, "target_file: $LSPDEV_TEST_ROOT/compr42.sv\n")

	config, err := getConfigFromFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if config.TargetFile != "/srv/rtl/compr42.sv" {
		t.Errorf("Expected env expansion in target_file, got %q", config.TargetFile)
	}
}
