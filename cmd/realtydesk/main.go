package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	"github.com/talkincode/realtydesk/config"
	"github.com/talkincode/realtydesk/internal/app"
	"github.com/talkincode/realtydesk/internal/domain"
)

// Exit codes
const (
	exitOK         = 0
	exitFailure    = 1
	exitValidation = 2
	exitNotFound   = 3
)

// annotationStandalone marks commands that run without opening a store.
const annotationStandalone = "standalone"

type cli struct {
	cfgFile string
	workdir string
	storage string
	verbose bool

	cfg *config.AppConfig
	app app.AppContext
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:   "realtydesk",
		Short: "Real estate listings, clients and deals from the command line",
		Long: `realtydesk keeps property listings, clients and transactions in a local
store (JSONL files by default) and provides reports, market trends, a mortgage
calculator and client-property matching.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return domain.NewValidationError("", "%v", err)
	})

	root.PersistentFlags().StringVarP(&c.cfgFile, "config", "c", "", "YAML config file")
	root.PersistentFlags().StringVar(&c.workdir, "workdir", "", "working directory (overrides config)")
	root.PersistentFlags().StringVar(&c.storage, "storage", "", "storage backend: memory, file, bolt or postgres")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(c.propertyCommands()...)
	root.AddCommand(c.clientCommands()...)
	root.AddCommand(c.agentCommands()...)
	root.AddCommand(c.reportCommands()...)
	root.AddCommand(c.analyticsCommands()...)
	root.AddCommand(c.dealCommand())
	root.AddCommand(c.adminCommands()...)
	return root
}

// setup loads the configuration and, unless the command is standalone,
// opens the store.
func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig(c.cfgFile)
	if err != nil {
		return err
	}
	if c.workdir != "" {
		cfg.System.Workdir = c.workdir
	}
	if c.storage != "" {
		cfg.Database.Type = strings.ToLower(c.storage)
	}
	if c.verbose {
		cfg.Logger.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return domain.NewValidationError("config", "%v", err)
	}
	c.cfg = cfg

	if cmd.Annotations[annotationStandalone] != "" || cmd.Name() == "help" {
		return nil
	}
	a := app.NewApplication(cfg)
	if err := a.Init(); err != nil {
		a.Release()
		return err
	}
	c.app = a
	return nil
}

func (c *cli) release() {
	if c.app != nil {
		c.app.Release()
		c.app = nil
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	c := &cli{}
	defer c.release()

	root := newRootCmd(c)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitCode(err)
	}
	return exitOK
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case domain.IsValidation(err):
		return exitValidation
	case domain.IsNotFound(err):
		return exitNotFound
	}
	return exitFailure
}

// exactArgs is cobra.ExactArgs reporting a ValidationError.
func exactArgs(n int) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) != n {
			return domain.NewValidationError("", "expected %d argument(s), got %d", n, len(args))
		}
		return nil
	}
}

func minArgs(n int) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) < n {
			return domain.NewValidationError("", "expected at least %d argument(s), got %d", n, len(args))
		}
		return nil
	}
}

func parseID(s string) (int64, error) {
	id, err := cast.ToInt64E(strings.TrimSpace(s))
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError("id", "%q is not a valid id", s)
	}
	return id, nil
}

// parseAssignments turns key=value arguments into an update map. Dotted keys
// build nested maps, e.g. preferences.city=Austin.
func parseAssignments(args []string) (map[string]interface{}, error) {
	fields := make(map[string]interface{})
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, domain.NewValidationError("", "expected key=value, got %q", arg)
		}
		parts := strings.Split(key, ".")
		m := fields
		for _, p := range parts[:len(parts)-1] {
			next, ok := m[p].(map[string]interface{})
			if !ok {
				next = make(map[string]interface{})
				m[p] = next
			}
			m = next
		}
		m[parts[len(parts)-1]] = value
	}
	return fields, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
