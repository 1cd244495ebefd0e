package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hls/internal/buildinfo"
	"hls/internal/config"
)

func execute(t *testing.T, in string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(in))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRoot_Version(t *testing.T) {
	out, err := execute(t, "", "--version")
	require.NoError(t, err)
	assert.Equal(t, buildinfo.Short()+"\n", out)
}

func TestRoot_TerminalSession(t *testing.T) {
	out, err := execute(t, "test\ncc\nhistory\n", "--display", "terminal")
	require.NoError(t, err)

	assert.Contains(t, out, "HighlightOS v")
	assert.Contains(t, out, "2:returned general error")
	assert.Contains(t, out, "Copyright (C) 2025 Adam Perkowski")
	assert.Contains(t, out, "\ntest\ncc\n")
}

func TestRoot_ShutdownEndsSession(t *testing.T) {
	out, err := execute(t, "shutdown\ntest\n", "--display", "terminal")
	require.NoError(t, err)
	assert.Contains(t, out, "Shutting down system...")
	assert.NotContains(t, out, "2:returned general error")
}

func TestRoot_RejectsBadFlags(t *testing.T) {
	_, err := execute(t, "", "--display", "vga")
	assert.ErrorContains(t, err, "invalid flags")

	_, err = execute(t, "", "extra")
	assert.Error(t, err)
}

func TestLoadConfig_FlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hls.yaml")
	require.NoError(t, os.WriteFile(path, []byte("display: terminal\nlog:\n  level: debug\n"), 0o644))

	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--config", path, "--ports", "devport"}))

	opts := rootOptions{configPath: path, ports: "devport", display: config.DisplayWindow}
	cfg, err := loadConfig(cmd, opts)
	require.NoError(t, err)
	assert.Equal(t, config.DisplayTerminal, cfg.Display, "unset flag keeps the file value")
	assert.Equal(t, config.PortsDevPort, cfg.Ports)
	assert.Equal(t, "debug", cfg.Log.Level)
}
