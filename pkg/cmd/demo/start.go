package demo

import (
	"flag"
	"fmt"
	"io"
	"log"
	"strconv"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"
	"k8s.io/utils/clock"

	"observer-patterns/internal/app/demo"
	"observer-patterns/internal/app/render"
	"observer-patterns/internal/config"
)

type options struct {
	configPath string
	output     string
}

// NewCommandDemo creates the root command of the observer demo
func NewCommandDemo(out, errOut io.Writer) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "observer-demo",
		Short:         "Run the observer pattern demos",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(c *cobra.Command, args []string) error {
			runner, err := opts.runner(c, out, errOut)
			if err != nil {
				return err
			}
			return runner.RunAll()
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to configuration file")
	cmd.PersistentFlags().StringVarP(&opts.output, "output", "o", "", fmt.Sprintf("Output format (overrides config), one of %v", render.Formats))
	// Make Go standard flags (including klog) available so users can use -v, --v etc.
	cmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)

	for _, name := range demo.Scenarios {
		cmd.AddCommand(newScenarioCommand(name, opts, out, errOut))
	}

	return cmd
}

func newScenarioCommand(name string, opts *options, out, errOut io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   name,
		Short: fmt.Sprintf("Run the %s demo", name),
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			runner, err := opts.runner(c, out, errOut)
			if err != nil {
				return err
			}
			return runner.Run(name)
		},
	}
}

func (o *options) runner(c *cobra.Command, out, errOut io.Writer) (*demo.Runner, error) {
	cfg, err := config.NewConfig(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if o.output != "" {
		cfg.Demo.Output = o.output
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	logger := newLogger(c, cfg, errOut)
	logger.V(1).Info("configuration loaded", "app", cfg.App.Name, "version", cfg.App.Version, "output", cfg.Demo.Output)

	printer, err := render.NewPrinter(out, cfg.Demo.Output)
	if err != nil {
		return nil, err
	}
	return demo.NewRunner(printer, cfg.Demo, clock.RealClock{}, logger), nil
}

func newLogger(c *cobra.Command, cfg *config.Config, errOut io.Writer) logr.Logger {
	if cfg.Log.Backend == config.LogBackendStd {
		stdr.SetVerbosity(cfg.Verbosity())
		return stdr.New(log.New(errOut, "", log.LstdFlags))
	}

	// -v on the command line wins over the configured level
	if f := c.Flags().Lookup("v"); f != nil && !f.Changed {
		if err := f.Value.Set(strconv.Itoa(cfg.Verbosity())); err != nil {
			klog.ErrorS(err, "Failed to apply configured log level", "level", cfg.Log.Level)
		}
	}
	return klog.NewKlogr()
}
