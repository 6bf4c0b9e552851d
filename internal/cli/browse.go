package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/artspot/internal/logging"
	"github.com/Makepad-fr/artspot/internal/tui"
	"github.com/Makepad-fr/artspot/internal/ui"
)

func newBrowseCmd(opt *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Interactive browser: map view, search, mark found",
		Args:  exactArgs(0, "artspot browse"),
		RunE: func(cmd *cobra.Command, _ []string) error {
			// the TUI owns the terminal; logs go to logging.file or nowhere
			e, err := setup(cmd.Context(), opt, logging.Discard)
			if err != nil {
				return err
			}
			defer syncLogger(e.logger)

			before, _ := e.session.Progress()
			if err := tui.Run(cmd.Context(), e.session, e.cfg.Geocoder.RequestTimeout()); err != nil {
				return fmt.Errorf("tui: %w", err)
			}
			after, total := e.session.Progress()
			if after > before {
				ui.OK(fmt.Sprintf("found %d new (%d/%d)", after-before, after, total))
			}
			return nil
		},
	}
}
