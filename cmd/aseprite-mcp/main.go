// Command aseprite-mcp serves Aseprite editing tools over the Model
// Context Protocol.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	asepritemcp "github.com/deixis/aseprite-mcp"
	"github.com/deixis/aseprite-mcp/internal/config"
	"github.com/deixis/aseprite-mcp/internal/history"
	"github.com/deixis/aseprite-mcp/internal/locate"
	"github.com/deixis/aseprite-mcp/internal/logging"
	"github.com/deixis/aseprite-mcp/internal/runner"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// errFailed makes the process exit 1 after the command has already
// reported the failure.
var errFailed = errors.New("failed")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := newRootCmd().ExecuteContext(ctx)
	if err != nil && !errors.Is(err, errFailed) {
		fmt.Fprintln(os.Stderr, "aseprite-mcp:", err)
	}
	if err != nil {
		stop()
		os.Exit(1)
	}
}

// options is shared by all subcommands.
type options struct {
	configPath string
	debug      bool

	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	o := &options{}
	root := &cobra.Command{
		Use:           "aseprite-mcp",
		Short:         "MCP server for the Aseprite sprite editor",
		Version:       asepritemcp.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return o.load()
		},
	}
	root.PersistentFlags().StringVarP(&o.configPath, "config", "c", "", "config file (default: ./"+config.FileName+")")
	root.PersistentFlags().BoolVar(&o.debug, "debug", false, "verbose logs")

	root.AddCommand(
		newServeCmd(o),
		newLocateCmd(o),
		newRunCmd(o),
		newVersionCmd(),
	)
	return root
}

// load reads the config file and initialises logging.
func (o *options) load() error {
	dir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("determining working directory: %w", err)
	}
	cfg, err := config.Load(o.configPath, dir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	o.cfg = cfg
	return logging.Init(cfg.Log.Level, cfg.Log.Format, o.debug)
}

// executable resolves Aseprite once. A configured path must exist.
func (o *options) executable(ctx context.Context) (string, error) {
	l := &locate.Locator{Explicit: o.cfg.Executable}
	return l.Locate(ctx)
}

func (o *options) newRunner(ctx context.Context, obs runner.Observer) (*runner.Runner, error) {
	exe, err := o.executable(ctx)
	if err != nil {
		return nil, err
	}
	r, err := runner.New(exe, runner.DefaultTempDir())
	if err != nil {
		return nil, err
	}
	r.Observer = obs
	log.Info().Str("executable", exe).Str("temp_dir", r.TempDir).Msg("aseprite located")
	return r, nil
}

func (o *options) newStore() history.Store {
	var back history.Store
	if o.cfg.History.Persist {
		back = history.NewDiskStore()
	}
	return history.NewLRUStore(o.cfg.HistoryCapacity(), back)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), asepritemcp.Version)
		},
	}
}

func newLocateCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "locate",
		Short: "Print the Aseprite executable that would be used",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			exe, err := o.executable(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), exe)
			return nil
		},
	}
}
