// Package cli runs the calculators from the command line.
package cli

import (
	"io"
	"os"

	"github.com/kudiwise/kudicore/config"
	"github.com/kudiwise/kudicore/logger"
	"github.com/spf13/cobra"
)

type CLI struct {
	reporter   *Reporter
	rootCmd    *cobra.Command
	output     string
	configFile string
	cfg        config.Config
}

type Options struct {
	Output io.Writer
}

func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	cli := &CLI{
		reporter: NewReporter(opts.Output),
	}

	cli.rootCmd = cli.newRootCmd()
	cli.rootCmd.SetOut(opts.Output)
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

// Run executes the command line given by args instead of os.Args.
func (cli *CLI) Run(args ...string) error {
	cli.rootCmd.SetArgs(args)
	return cli.Execute()
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "kudictl",
		Short:         "Nigerian tax calculations (Nigeria Tax Act 2025)",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cli.reporter.SetFormat(cli.output); err != nil {
				return err
			}

			cfg, err := config.Load(cli.configFile)
			if err != nil {
				return err
			}
			cli.cfg = cfg

			return logger.InitLogger(logger.Config{Level: cfg.LogLevel, Stage: cfg.Stage})
		},
	}

	cmd.PersistentFlags().StringVarP(&cli.output, "output", "o", FormatJSON, "Output format: json or yaml")
	cmd.PersistentFlags().StringVar(&cli.configFile, "config", "", "Path to a config file")

	cmd.AddCommand(
		cli.newPITCmd(),
		cli.newPAYECmd(),
		cli.newCITCmd(),
		cli.newVATCmd(),
		cli.newWHTCmd(),
		cli.newClassifyCmd(),
		cli.newConvertCmd(),
		cli.newScenarioCmd(),
		cli.newChecklistCmd(),
	)

	return cmd
}
