package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vic/gosk/pkg/config"
)

// app holds the state shared by all subcommands of one invocation.
type app struct {
	configPath string
	logLevel   string
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:   "gosk",
		Short: "Reduce lambda terms with built-in combinators to normal form",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.before(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	fl := rootCmd.PersistentFlags()
	fl.StringVar(&a.configPath, "config", os.Getenv("GOSK_CONFIG"), "path to a TOML configuration file (GOSK_CONFIG)")
	fl.StringVar(&a.logLevel, "log-level", "", "logging level, overrides the configuration file")

	rootCmd.AddCommand(newReduceCmd(a), newDemoCmd(a))
	return rootCmd
}

func (a *app) before(cmd *cobra.Command) error {
	cfg := config.Default()
	if a.configPath != "" {
		loaded, err := config.Load(a.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		return errors.Wrapf(err, "parsing log level %q", cfg.Log.Level)
	}
	logrus.SetLevel(level)
	logrus.SetOutput(cmd.ErrOrStderr())
	a.cfg = cfg
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
