package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/aleister1102/doccrawler/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DefaultLogger(t *testing.T) {
	_, err := New(config.NewDefaultLogConfig())
	require.NoError(t, err)
}

func TestLoggerBuilder_Default(t *testing.T) {
	logger, err := NewLoggerBuilder().Build()
	require.NoError(t, err)

	cfg := logger.GetConfig()
	assert.Equal(t, zerolog.InfoLevel, cfg.Level)
	assert.Equal(t, FormatConsole, cfg.Format)
	assert.True(t, cfg.EnableConsole)
	assert.False(t, cfg.EnableFile)
}

func TestLoggerBuilder_ConsoleWriter(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLoggerBuilder().
		WithFormat(FormatJSON).
		WithConsoleWriter(&buf).
		Build()
	require.NoError(t, err)

	logger.GetZerolog().Info().Str("component", "URLEngine").Msg("hello")
	assert.Contains(t, buf.String(), `"component":"URLEngine"`)
	assert.Contains(t, buf.String(), `"message":"hello"`)
}

func TestLoggerBuilder_FileLogging(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "test.log")

	logger, err := NewLoggerBuilder().
		WithLevel(zerolog.DebugLevel).
		WithFormat(FormatJSON).
		WithFile(logFile, 1, 1).
		WithConsole(false).
		Build()
	require.NoError(t, err)

	logger.GetZerolog().Debug().Msg("this is a test")
	require.NoError(t, logger.Close())

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"level":"debug"`)
	assert.Contains(t, string(content), `"message":"this is a test"`)
}

func TestNewWithRunID(t *testing.T) {
	logDir := t.TempDir()
	cfg := config.NewDefaultLogConfig()
	cfg.LogFile = filepath.Join(logDir, "doccrawler.log")
	cfg.LogFormat = "json"

	logger, err := NewWithRunID(cfg, "run-42")
	require.NoError(t, err)
	logger.GetZerolog().Warn().Msg("testing run id")
	require.NoError(t, logger.Close())

	content, err := os.ReadFile(filepath.Join(logDir, "runs", "run-42", "doccrawler.log"))
	require.NoError(t, err, "log file should be created in the run directory")
	assert.Contains(t, string(content), `"run_id":"run-42"`)
}

func TestLoggerBuilder_Errors(t *testing.T) {
	_, err := NewLoggerBuilder().WithConsole(false).Build()
	assert.Error(t, err, "no writers")

	_, err = NewLoggerBuilder().WithFile("", 1, 1).Build()
	assert.Error(t, err)

	_, err = NewLoggerBuilder().WithConfig(config.LogConfig{LogLevel: "loud"}).Build()
	assert.Error(t, err)
}

func TestParsers(t *testing.T) {
	levels := map[string]zerolog.Level{
		"":      zerolog.InfoLevel,
		"debug": zerolog.DebugLevel,
		"WARN":  zerolog.WarnLevel,
		"error": zerolog.ErrorLevel,
	}
	for in, want := range levels {
		got, err := NewLogLevelParser().ParseLevel(in)
		require.NoError(t, err)
		assert.Equal(t, want, got, in)
	}

	formats := map[string]LogFormat{
		"json":    FormatJSON,
		"text":    FormatText,
		"console": FormatConsole,
		"bogus":   FormatConsole,
	}
	for in, want := range formats {
		assert.Equal(t, want, NewLogFormatParser().ParseFormat(in), in)
	}
}
