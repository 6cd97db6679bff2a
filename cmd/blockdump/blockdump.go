package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version is set at build time
var Version string

const (
	configF    = "config"
	endpointF  = "endpoint"
	outDirF    = "out-dir"
	startF     = "start-block"
	endF       = "end-block"
	followF    = "follow"
	timeoutF   = "timeout"
	fullTxF    = "full-transactions"
	metricsF   = "metrics-port"
	verbosityF = "verbosity"

	defaultConfig    = ""
	defaultEndpoint  = "http://localhost:8545"
	defaultOutDir    = "."
	defaultStart     = uint64(0)
	defaultEnd       = uint64(0)
	defaultFollow    = false
	defaultTimeout   = 15 * time.Second
	defaultFullTx    = true
	defaultMetrics   = uint16(0)
	defaultVerbosity = "info"

	configUsage    = "The yaml configuration file."
	endpointUsage  = "The node endpoint to pull blocks from. http(s), ws(s) and ipc endpoints are supported; follow mode needs ws(s) or ipc."
	outDirUsage    = "The directory that receives one <blockNumber>.json file per block. Must exist and be writable."
	startUsage     = "The first block of the range to extract."
	endUsage       = "The last block of the range to extract, included."
	followUsage    = "Follow the chain head instead of extracting a fixed range, dumping every new block until interrupted."
	timeoutUsage   = "Timeout of a single node operation."
	fullTxUsage    = "Include full transaction objects in block files instead of transaction hashes only."
	metricsUsage   = "Serve Prometheus metrics on this port while following the chain head. 0 disables the metrics server."
	verbosityUsage = "Verbosity of the logs. Options: debug, info, warn, error."
)

// Config holds one invocation's parameters, merged from the config file and flags
type Config struct {
	Endpoint         string        `mapstructure:"endpoint"`
	OutDir           string        `mapstructure:"out-dir"`
	StartBlock       uint64        `mapstructure:"start-block"`
	EndBlock         uint64        `mapstructure:"end-block"`
	Follow           bool          `mapstructure:"follow"`
	Timeout          time.Duration `mapstructure:"timeout"`
	FullTransactions bool          `mapstructure:"full-transactions"`
	MetricsPort      uint16        `mapstructure:"metrics-port"`
	Verbosity        string        `mapstructure:"verbosity"`
}

// runFn runs one invocation with the merged config, it is injectable for testing
type runFn func(ctx context.Context, cfg *Config) error

// NewCmd builds the blockdump command, flags take precedence over the config file
func NewCmd(run runFn) *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:     "blockdump [flags]",
		Short:   "Dump ethereum blocks to per-block JSON files.",
		Version: Version,
	}

	cmd.Flags().StringVar(&cfgFile, configF, defaultConfig, configUsage)
	cmd.Flags().String(endpointF, defaultEndpoint, endpointUsage)
	cmd.Flags().String(outDirF, defaultOutDir, outDirUsage)
	cmd.Flags().Uint64(startF, defaultStart, startUsage)
	cmd.Flags().Uint64(endF, defaultEnd, endUsage)
	cmd.Flags().Bool(followF, defaultFollow, followUsage)
	cmd.Flags().Duration(timeoutF, defaultTimeout, timeoutUsage)
	cmd.Flags().Bool(fullTxF, defaultFullTx, fullTxUsage)
	cmd.Flags().Uint16(metricsF, defaultMetrics, metricsUsage)
	cmd.Flags().String(verbosityF, defaultVerbosity, verbosityUsage)

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		v := viper.New()
		if cfgFile != "" {
			v.SetConfigType("yaml")
			v.SetConfigFile(cfgFile)
			if err := v.ReadInConfig(); err != nil {
				return err
			}
		}

		if err := v.BindPFlags(cmd.Flags()); err != nil {
			return err
		}

		cfg := new(Config)
		if err := v.Unmarshal(cfg); err != nil {
			return err
		}

		return run(cmd.Context(), cfg)
	}

	return cmd
}
