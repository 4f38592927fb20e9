package main

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"github.com/robaho/go-combinations/pkg/combinations"
	"github.com/robaho/go-combinations/pkg/common"
	"github.com/robaho/go-combinations/pkg/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type options struct {
	config   string
	rules    string
	logLevel string
	pretty   bool
}

// env is what every command needs once flags and the properties file are merged
type env struct {
	props   common.Properties
	log     zerolog.Logger
	library *combinations.Combinations
}

func Execute(ctx context.Context) error {
	return rootCmd().ExecuteContext(ctx)
}

func rootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "combos",
		Short:         "Classify multi-leg option and future orders into named strategies",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags := root.PersistentFlags()
	flags.StringVar(&opts.config, "config", "configs/combos.properties", "properties file")
	flags.StringVar(&opts.rules, "rules", "", "combination rules, .xml or .yaml (overrides 'rules')")
	flags.StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error (overrides 'log.level')")
	flags.BoolVar(&opts.pretty, "pretty", false, "console log output (overrides 'log.pretty')")

	root.AddCommand(classifyCmd(opts), patternsCmd(opts), serveCmd(opts), sendCmd(opts))
	return root
}

// setup reads the properties file, a missing default file is not an error
func (opts *options) setup(cmd *cobra.Command) (*env, error) {
	props := common.EmptyProperties()
	if opts.config != "" {
		p, err := common.NewProperties(opts.config)
		switch {
		case err == nil:
			props = p
		case cmd.Flags().Changed("config") || !errors.Is(err, os.ErrNotExist):
			return nil, err
		}
	}
	flags := cmd.Flags()
	if flags.Changed("rules") {
		props.SetString("rules", opts.rules)
	}
	if flags.Changed("log-level") {
		props.SetString("log.level", opts.logLevel)
	}
	if flags.Changed("pretty") {
		props.SetString("log.pretty", "false")
		if opts.pretty {
			props.SetString("log.pretty", "true")
		}
	}

	log := logger.New(logger.Config{
		Level:  props.GetString("log.level", "info"),
		Pretty: props.GetBool("log.pretty", false),
	})
	logger.SetGlobalLogger(log)

	rules := props.GetString("rules", "configs/combinations.xml")
	library, err := combinations.Load(rules)
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", rules)
	}
	log.Debug().Str("rules", rules).Int("combinations", library.Len()).Msg("rules loaded")

	return &env{props: props, log: log, library: library}, nil
}
