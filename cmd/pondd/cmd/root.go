// Package cmd wires the pondd command tree: configuration loading, the
// long-running exchange daemon, and version reporting.
package cmd

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version is set at build time via -ldflags.
var Version = "dev"

const flagConfig = "config"

// NewRootCmd creates the root command for pondd. It is called once in the
// main function.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pondd",
		Short: "Pond Exchange Daemon",
		Long: `Pond is a standalone constant-product exchange engine with an
embedded asset ledger, multi-hop routing, and Prometheus telemetry.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		NewStartCmd(),
		NewQuoteCmd(),
		NewVersionCmd(),
	)
	return rootCmd
}

// NewVersionCmd reports the build version.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the pondd version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "pondd %s (%s %s/%s)\n",
				Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
			return nil
		},
	}
}

// loadConfig reads the YAML config named by --config, falling back to
// pond.yaml in the working directory, and returns defaults when neither
// exists.
func loadConfig(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault("native_denom", "upond")
	v.SetDefault("wrapped_denom", "wpond")
	v.SetDefault("fee_numerator", 997)
	v.SetDefault("fee_denominator", 1000)
	v.SetDefault("minimum_liquidity", 1000)
	v.SetDefault("metrics_port", 26680)
	v.SetEnvPrefix("POND")
	v.AutomaticEnv()

	path, err := cmd.Flags().GetString(flagConfig)
	if err != nil {
		return nil, err
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		return v, nil
	}

	v.SetConfigName("pond")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}
	return v, nil
}
