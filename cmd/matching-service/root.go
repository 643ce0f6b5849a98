package main

import (
	"caregiver-matcher/internal/common/config"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type rootOptions struct {
	configFile string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "matching-service",
		Short:         "Rank caregivers for client care requests",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "config file (default: configs/config.yaml)")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.String("candidate-source", "", "candidate source: memory, postgres, elasticsearch")
	flags.String("algorithm-registry", "", "path to an algorithm preset file")

	_ = viper.BindPFlag("logging.level", flags.Lookup("log-level"))
	_ = viper.BindPFlag("matching.candidate_source", flags.Lookup("candidate-source"))
	_ = viper.BindPFlag("matching.algorithm_registry_path", flags.Lookup("algorithm-registry"))

	cmd.AddCommand(newServeCmd(opts), newMatchCmd(opts))
	return cmd
}

func (o *rootOptions) load() (*config.Config, error) {
	if o.configFile != "" {
		return config.LoadFromFile(o.configFile)
	}
	return config.Load()
}
