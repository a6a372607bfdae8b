package config_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memozise/memozise/internal/config"
)

func validConfig() config.Config {
	return config.Config{
		Addr:            ":8080",
		DBPath:          "test.db",
		LogLevel:        "INFO",
		SaveWorkerCount: 2,
		SaveQueueSize:   32,
		AdvanceDelayMs:  300,
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_EmptyAddr(t *testing.T) {
	cfg := validConfig()
	cfg.Addr = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ADDR cannot be empty")
}

func TestValidate_EmptyDBPath(t *testing.T) {
	cfg := validConfig()
	cfg.DBPath = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_PATH cannot be empty")
}

func TestValidate_LogLevels(t *testing.T) {
	tests := []struct {
		level string
		ok    bool
	}{
		{"DEBUG", true},
		{"INFO", true},
		{"WARN", true},
		{"ERROR", true},
		{"debug", true}, // case-insensitive
		{"INVALID", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := validConfig()
			cfg.LogLevel = tt.level

			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "LOG_LEVEL")
			}
		})
	}
}

func TestValidate_WorkerAndQueueBounds(t *testing.T) {
	tests := []struct {
		name          string
		mutate        func(*config.Config)
		expectedError string
	}{
		{
			name:          "zero save workers",
			mutate:        func(c *config.Config) { c.SaveWorkerCount = 0 },
			expectedError: "SAVE_WORKER_COUNT",
		},
		{
			name:          "negative save workers",
			mutate:        func(c *config.Config) { c.SaveWorkerCount = -1 },
			expectedError: "SAVE_WORKER_COUNT",
		},
		{
			name:          "zero queue size",
			mutate:        func(c *config.Config) { c.SaveQueueSize = 0 },
			expectedError: "SAVE_QUEUE_SIZE",
		},
		{
			name:          "negative advance delay",
			mutate:        func(c *config.Config) { c.AdvanceDelayMs = -1 },
			expectedError: "ADVANCE_DELAY_MS",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedError)
		})
	}
}

func TestValidate_MultipleErrors(t *testing.T) {
	cfg := config.Config{
		Addr:            "",
		DBPath:          "",
		LogLevel:        "INVALID",
		SaveWorkerCount: 0,
		SaveQueueSize:   0,
		AdvanceDelayMs:  -1,
	}

	err := cfg.Validate()
	require.Error(t, err)

	errStr := err.Error()
	assert.Contains(t, errStr, "ADDR cannot be empty")
	assert.Contains(t, errStr, "DB_PATH cannot be empty")
	assert.Contains(t, errStr, "LOG_LEVEL")
	assert.Contains(t, errStr, "SAVE_WORKER_COUNT")
	assert.Contains(t, errStr, "SAVE_QUEUE_SIZE")
	assert.Contains(t, errStr, "ADVANCE_DELAY_MS")
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	t.Setenv("ADDR", ":9090")
	t.Setenv("DB_PATH", "custom.db")
	t.Setenv("SAVE_WORKER_COUNT", "4")

	cfg := config.Load()

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "custom.db", cfg.DBPath)
	assert.Equal(t, 4, cfg.SaveWorkerCount)
}

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"ADDR", "DB_PATH", "LOG_LEVEL", "SAVE_WORKER_COUNT", "SAVE_QUEUE_SIZE", "ADVANCE_DELAY_MS"} {
		os.Unsetenv(key)
	}

	cfg := config.Load()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.Equal(t, 2, cfg.SaveWorkerCount)
	assert.Equal(t, 32, cfg.SaveQueueSize)
	assert.Equal(t, 300, cfg.AdvanceDelayMs)
}
