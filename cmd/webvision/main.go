package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/v0xg/webvision/internal/config"
	"github.com/v0xg/webvision/internal/logger"
)

// cli holds what every subcommand needs once flags are parsed
type cli struct {
	v       *viper.Viper
	cfgFile string
	verbose bool

	cfg *config.Config
	log logger.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	c := newCLI()
	err := c.rootCmd(os.Stdout).ExecuteContext(ctx)
	c.sync()
	if err != nil {
		stop()
		os.Exit(1)
	}
}

func newCLI() *cli {
	return &cli{v: viper.New()}
}

func newRootCmd(out io.Writer) *cobra.Command {
	return newCLI().rootCmd(out)
}

func (c *cli) rootCmd(out io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "webvision",
		Short: "Extract page structure and correlate it with requirements",
		Long: `webvision opens a web page in a headless browser, extracts its forms,
landmarks and controls into a JSON snapshot, and maps a requirements
document onto the extracted fields.

Example:
  webvision extract "https://myapp.com/register" --srs srs.json
  webvision correlate --srs srs.json --ui target/extractor_output/page.json`,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	rootCmd.SetOut(out)

	rootCmd.PersistentFlags().StringVar(&c.cfgFile, "config", "", "Config file (YAML)")
	rootCmd.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Show detailed progress")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	c.bind(rootCmd.PersistentFlags().Lookup("log-level"), "log.level")

	rootCmd.AddCommand(
		c.extractCmd(),
		c.correlateCmd(),
		c.promptCmd(),
		c.suggestCmd(),
	)
	return rootCmd
}

// setup loads configuration and the logger before any subcommand runs
func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(c.v, c.cfgFile)
	if err != nil {
		return err
	}
	if c.verbose {
		cfg.Log.Level = "debug"
	}

	log, err := logger.New(logger.Config{Level: cfg.Log.Level, Development: cfg.Log.Development})
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.log = log

	c.logVerbose(cmd.OutOrStdout(), "Starting webvision %s", cmd.Name())
	if c.cfgFile != "" {
		c.logVerbose(cmd.OutOrStdout(), "  Config: %s", c.cfgFile)
	}
	return nil
}

// bind ties a flag to a config key so flags override file and env values
func (c *cli) bind(flag *pflag.Flag, key string) {
	if err := c.v.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("bind flag %s: %v", key, err))
	}
}

// sync flushes the logger once the command has finished. Before setup
// there is nothing to flush.
func (c *cli) sync() {
	if c.log == nil {
		return
	}
	_ = c.log.Sync()
}

func (c *cli) logVerbose(w io.Writer, format string, args ...any) {
	if c.verbose {
		fmt.Fprintf(w, format+"\n", args...)
	}
}
