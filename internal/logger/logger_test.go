package logger_test

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Norgate-AV/wizql/internal/logger"
)

func TestNewLogger_DefaultOptions(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("LOCALAPPDATA", tmpDir)

	log, err := logger.NewLogger(logger.LoggerOptions{})
	require.NoError(t, err)
	defer log.Close()

	assert.Equal(t, filepath.Join(tmpDir, "wizql", "wizql.log"), log.GetLogPath())
	assert.DirExists(t, filepath.Join(tmpDir, "wizql"))
}

func TestNewLogger_CustomLogDir(t *testing.T) {
	tmpDir := t.TempDir()

	log, err := logger.NewLogger(logger.LoggerOptions{LogDir: tmpDir, Compress: true})
	require.NoError(t, err)
	defer log.Close()

	assert.Equal(t, filepath.Join(tmpDir, "wizql.log"), log.GetLogPath())
}

func TestNewLogger_FallbackToUserProfile(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("LOCALAPPDATA", "")
	t.Setenv("USERPROFILE", tmpDir)

	log, err := logger.NewLogger(logger.LoggerOptions{})
	require.NoError(t, err)
	defer log.Close()

	expectedPath := filepath.Join(tmpDir, "AppData", "Local", "wizql", "wizql.log")
	assert.Equal(t, expectedPath, log.GetLogPath())
}

func TestLogger_FileReceivesAllLevels(t *testing.T) {
	tmpDir := t.TempDir()
	var console bytes.Buffer

	log, err := logger.NewLogger(logger.LoggerOptions{LogDir: tmpDir, Console: &console})
	require.NoError(t, err)

	log.Trace("trace message")
	log.Debug("debug message", slog.String("key", "value"))
	log.Info("info message", slog.Int("count", 42))
	log.Warn("warn message", slog.Bool("flag", true))
	log.Error("error message", slog.Any("error", assert.AnError))
	log.Close()

	data, err := os.ReadFile(log.GetLogPath())
	require.NoError(t, err)

	content := string(data)
	assert.Contains(t, content, "level=TRACE")
	assert.Contains(t, content, "debug message")
	assert.Contains(t, content, "count=42")
	assert.Contains(t, content, "error message")
}

func TestLogger_ConsoleFiltersByVerbosity(t *testing.T) {
	tests := []struct {
		name        string
		verbose     bool
		expectDebug bool
	}{
		{name: "quiet", verbose: false, expectDebug: false},
		{name: "verbose", verbose: true, expectDebug: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			var console bytes.Buffer

			log, err := logger.NewLogger(logger.LoggerOptions{
				LogDir:  t.TempDir(),
				Console: &console,
				Verbose: tt.verbose,
			})
			require.NoError(t, err)
			defer log.Close()

			log.Trace("never on console")
			log.Debug("debug line")
			log.Info("info line")
			log.Warn("warn line")

			output := console.String()
			assert.NotContains(t, output, "never on console")
			assert.Contains(t, output, "info line")
			assert.Contains(t, output, "WARNING: warn line")

			if tt.expectDebug {
				assert.Contains(t, output, "VERBOSE: debug line")
			} else {
				assert.NotContains(t, output, "debug line")
			}
		})
	}
}

func TestConsoleHandler_EnumeratedInfoOmitsAttrs(t *testing.T) {
	var console bytes.Buffer

	log, err := logger.NewLogger(logger.LoggerOptions{LogDir: t.TempDir(), Console: &console})
	require.NoError(t, err)
	defer log.Close()

	log.Info("  1. alice", slog.String("hwnd", "0x1"))
	log.Info("Launching account", slog.String("username", "bob"))

	output := console.String()
	assert.Contains(t, output, "  1. alice\n")
	assert.NotContains(t, output, "hwnd=0x1")
	assert.Contains(t, output, "Launching account username=bob")
}

func TestPrintLogFile(t *testing.T) {
	tmpDir := t.TempDir()
	opts := logger.LoggerOptions{LogDir: tmpDir}

	require.NoError(t, os.WriteFile(logger.GetLogPath(opts), []byte("line 1\nline 2\n"), 0o644))

	var out bytes.Buffer
	require.NoError(t, logger.PrintLogFile(&out, opts))
	assert.Equal(t, "line 1\nline 2\n", out.String())
}

func TestPrintLogFile_Missing(t *testing.T) {
	err := logger.PrintLogFile(&bytes.Buffer{}, logger.LoggerOptions{LogDir: t.TempDir()})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestNoOpLogger(t *testing.T) {
	log := logger.NewNoOpLogger()

	assert.NotPanics(t, func() {
		log.Trace("test")
		log.Debug("test")
		log.Info("test")
		log.Warn("test")
		log.Error("test")
		log.Close()
	})
	assert.Empty(t, log.GetLogPath())
}
