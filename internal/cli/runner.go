package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Makepad-fr/artspot/internal/ui"
)

// Options tune output behavior from root flags.
type Options struct {
	Group   bool   // list grouped by unfound/found
	Verbose bool   // debug logging
	Config  string // config file; empty uses ~/.artspot/config.yaml
}

// usageError maps to exit code 2.
type usageError struct{ msg string }

func (e *usageError) Error() string { return e.msg }

func usagef(format string, a ...any) error { return &usageError{msg: fmt.Sprintf(format, a...)} }

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(args []string, opt Options) int {
	if len(args) == 0 {
		PrintHelp()
		return 2
	}
	root := newRootCmd(&opt)
	root.SetArgs(args)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	var ue *usageError
	if errors.As(err, &ue) {
		ui.Fail(ue.msg)
		return 2
	}
	// cobra reports unknown subcommands as plain errors
	if strings.HasPrefix(err.Error(), "unknown command") {
		ui.Fail(err.Error())
		return 2
	}
	ui.Fail(err.Error())
	return 1
}

func newRootCmd(opt *Options) *cobra.Command {
	root := &cobra.Command{
		Use:   "artspot",
		Short: "artspot - find street art near you",
		Long: `artspot finds street art near a postcode, address or "lat,lng" pair,
ranks it by distance and keeps track of the pieces you've found.`,
		Example: `  artspot map
  artspot search "SW1A 1AA"
  artspot search 51.5074,-0.1278 --limit 5
  artspot found leake-street-tunnel
  artspot browse`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVar(&opt.Group, "group", opt.Group, "group output by unfound/found")
	root.PersistentFlags().BoolVarP(&opt.Verbose, "verbose", "v", opt.Verbose, "debug logging")
	root.PersistentFlags().StringVar(&opt.Config, "config", opt.Config, "config file (default ~/.artspot/config.yaml)")
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{msg: err.Error()}
	})

	root.AddCommand(
		newMapCmd(opt),
		newSearchCmd(opt),
		newFoundCmd(opt),
		newShowCmd(opt),
		newBrowseCmd(opt),
		newServeCmd(opt),
		newKeyCmd(opt),
	)
	return root
}

// exactArgs is cobra.ExactArgs with a usage line and exit code 2.
func exactArgs(n int, usage string) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) != n {
			return usagef("usage: %s", usage)
		}
		return nil
	}
}

func minArgs(n int, usage string) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) < n {
			return usagef("usage: %s", usage)
		}
		return nil
	}
}

func PrintHelp() {
	fmt.Printf(`artspot - find street art near you

Usage:
  artspot <subcommand> [args]

Subcommands:
  map                     List artworks by map location, with found progress
  search <query...>       Rank artworks by distance from a postcode, address or "lat,lng"
  found <id|index>        Mark an artwork as found (index is 1-based, as shown by map)
  show <id|index>         Show details of an artwork you've found
  browse                  Interactive browser
  serve                   JSON API for a map widget
  key <set|clear|status>  Google Maps API key used for geocoding

Examples:
  artspot search "SW1A 1AA"
  artspot search 51.5074,-0.1278 --limit 5
  artspot found 3
  artspot map --group
`)
}

func syncLogger(l *zap.Logger) {
	if l != nil {
		_ = l.Sync()
	}
}
