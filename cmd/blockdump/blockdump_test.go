package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The purpose of these tests is to ensure the precedence of config values is
// respected: flags over config file over defaults. Since viper offers this feature
// only a select few combinations are tested for sanity.
func TestNewCmd(t *testing.T) {
	defaultCfg := &Config{
		Endpoint:         defaultEndpoint,
		OutDir:           defaultOutDir,
		StartBlock:       defaultStart,
		EndBlock:         defaultEnd,
		Follow:           defaultFollow,
		Timeout:          defaultTimeout,
		FullTransactions: defaultFullTx,
		MetricsPort:      defaultMetrics,
		Verbosity:        defaultVerbosity,
	}

	cfgFile := func(t *testing.T, contents string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "blockdump.yaml")
		require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
		return path
	}

	tests := map[string]struct {
		inputArgs      func(t *testing.T) []string
		expectedConfig *Config
	}{
		"default config with no flags": {
			inputArgs:      func(t *testing.T) []string { return nil },
			expectedConfig: defaultCfg,
		},
		"flags only": {
			inputArgs: func(t *testing.T) []string {
				return []string{
					"--endpoint", "ws://localhost:8546",
					"--out-dir", "/tmp/blocks",
					"--start-block", "100",
					"--end-block", "102",
					"--timeout", "30s",
					"--verbosity", "debug",
				}
			},
			expectedConfig: &Config{
				Endpoint:         "ws://localhost:8546",
				OutDir:           "/tmp/blocks",
				StartBlock:       100,
				EndBlock:         102,
				Follow:           defaultFollow,
				Timeout:          30 * time.Second,
				FullTransactions: defaultFullTx,
				MetricsPort:      defaultMetrics,
				Verbosity:        "debug",
			},
		},
		"config file only": {
			inputArgs: func(t *testing.T) []string {
				path := cfgFile(t, "endpoint: ws://localhost:8546\nstart-block: 5\nend-block: 5\nfollow: true\nmetrics-port: 9090\n")
				return []string{"--config", path}
			},
			expectedConfig: &Config{
				Endpoint:         "ws://localhost:8546",
				OutDir:           defaultOutDir,
				StartBlock:       5,
				EndBlock:         5,
				Follow:           true,
				Timeout:          defaultTimeout,
				FullTransactions: defaultFullTx,
				MetricsPort:      9090,
				Verbosity:        defaultVerbosity,
			},
		},
		"flags take precedence over config file": {
			inputArgs: func(t *testing.T) []string {
				path := cfgFile(t, "endpoint: ws://localhost:8546\nstart-block: 5\nend-block: 5\n")
				return []string{"--config", path, "--end-block", "9"}
			},
			expectedConfig: &Config{
				Endpoint:         "ws://localhost:8546",
				OutDir:           defaultOutDir,
				StartBlock:       5,
				EndBlock:         9,
				Follow:           defaultFollow,
				Timeout:          defaultTimeout,
				FullTransactions: defaultFullTx,
				MetricsPort:      defaultMetrics,
				Verbosity:        defaultVerbosity,
			},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			var got *Config
			cmd := NewCmd(func(ctx context.Context, cfg *Config) error {
				got = cfg
				return nil
			})
			cmd.SetArgs(tc.inputArgs(t))
			require.NoError(t, cmd.ExecuteContext(context.Background()))
			assert.Equal(t, tc.expectedConfig, got)
		})
	}
}

func TestNewCmd_MissingConfigFile(t *testing.T) {
	cmd := NewCmd(func(ctx context.Context, cfg *Config) error { return nil })
	cmd.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "nope.yaml")})
	require.Error(t, cmd.ExecuteContext(context.Background()))
}

func TestNewLogger_UnknownVerbosity(t *testing.T) {
	_, err := newLogger("chatty")
	require.Error(t, err)
}
