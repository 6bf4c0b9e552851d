package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/artspot/internal/app"
	"github.com/Makepad-fr/artspot/internal/geocode"
	"github.com/Makepad-fr/artspot/internal/logging"
	"github.com/Makepad-fr/artspot/internal/model"
	"github.com/Makepad-fr/artspot/internal/ui"
)

func newMapCmd(opt *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "map",
		Short: "List artworks by map location, with found progress",
		Args:  exactArgs(0, "artspot map [--group]"),
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := setup(cmd.Context(), opt, logging.Stderr)
			if err != nil {
				return err
			}
			defer syncLogger(e.logger)
			doMap(e.session, *opt)
			return nil
		},
	}
}

func newSearchCmd(opt *Options) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "search <query...>",
		Short: `Rank artworks by distance from a postcode, address or "lat,lng"`,
		Args:  minArgs(1, `artspot search <postcode|address|"lat,lng">`),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd.Context(), opt, logging.Stderr)
			if err != nil {
				return err
			}
			defer syncLogger(e.logger)
			if limit < 0 {
				return usagef("--limit must be >= 0")
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), e.cfg.Geocoder.RequestTimeout())
			defer cancel()
			return doSearch(ctx, e.session, strings.Join(args, " "), limit)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "show at most n results (0 for all)")
	return cmd
}

func newFoundCmd(opt *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "found <id|index>",
		Short: "Mark an artwork as found",
		Args:  exactArgs(1, "artspot found <id|index>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd.Context(), opt, logging.Stderr)
			if err != nil {
				return err
			}
			defer syncLogger(e.logger)
			return doFound(e.session, args[0])
		},
	}
}

func newShowCmd(opt *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id|index>",
		Short: "Show details of an artwork you've found",
		Args:  exactArgs(1, "artspot show <id|index>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd.Context(), opt, logging.Stderr)
			if err != nil {
				return err
			}
			defer syncLogger(e.logger)
			return doShow(e.session, args[0])
		},
	}
}

// -------------- subcommand impls ----------------

func doMap(s *app.Session, opt Options) {
	d, total := s.Progress()
	t := ui.Current()
	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		t.Title.Render("Street art"),
		t.Success.Render("✔"), d,
		t.Pending.Render("•"), total-d,
		t.Accent.Render("Total"), total,
	)

	var lines []string
	lines = append(lines, header)
	lines = append(lines, t.Muted.Render(ui.ProgressBar(d, total, 28)))
	lines = append(lines, "")
	if opt.Group {
		lines = append(lines, groupLines(s)...)
	} else {
		lines = append(lines, clusterLines(s)...)
	}
	lines = append(lines, "")
	lines = append(lines, t.Muted.Render("Tip: mark one with `artspot found <index>`"))
	ui.Panel(lines)
}

func doSearch(ctx context.Context, s *app.Session, query string, limit int) error {
	res, err := s.Search(ctx, query, limit)
	if err != nil {
		if errors.Is(err, app.ErrEmptyQuery) {
			return usagef("%s", err.Error())
		}
		var ge *geocode.Error
		if errors.As(err, &ge) && ge.Status == geocode.StatusNoAPIKey {
			ui.Hint("Hint: run `artspot key set` or set " + geocode.EnvAPIKey + ", or search by \"lat,lng\"")
		}
		return err
	}

	t := ui.Current()
	lines := []string{
		fmt.Sprintf("%s  %s", t.Title.Render("Nearest to"), t.Accent.Render(res.Origin.String())),
		"",
	}
	if len(res.Artworks) == 0 {
		lines = append(lines, t.Muted.Render("no artworks with a location"))
	}
	for i, r := range res.Artworks {
		lines = append(lines, fmt.Sprintf("%s %s %s  %s",
			t.Muted.Render(fmt.Sprintf("%2d.", i+1)),
			box(s.IsFound(r.ID)),
			ui.Truncate(r.Title, 60),
			t.Accent.Render(ui.Miles(r.Distance)),
		))
		lines = append(lines, "     "+t.Muted.Render(byline(r.Artwork)))
	}
	ui.Panel(lines)
	return nil
}

func doFound(s *app.Session, ref string) error {
	a, err := s.Lookup(ref)
	if err != nil {
		ui.Hint("Hint: run `artspot map` to see valid indexes")
		return usagef("%s", err.Error())
	}
	changed, err := s.MarkFound(a.ID)
	if err != nil {
		return fmt.Errorf("save: %w", err)
	}
	if !changed {
		ui.OK("already found: " + a.Title)
		return nil
	}
	d, total := s.Progress()
	ui.OK(fmt.Sprintf("found %s (%d/%d)", a.Title, d, total))
	return nil
}

func doShow(s *app.Session, ref string) error {
	a, err := s.Lookup(ref)
	if err != nil {
		return usagef("%s", err.Error())
	}
	a, err = s.Open(a.ID)
	if errors.Is(err, app.ErrNotFoundYet) {
		ui.Notice(err.Error())
		return nil
	}
	if err != nil {
		return err
	}
	ui.Panel(detailLines(a))
	return nil
}

// -------------- rendering helpers --------------

func box(found bool) string {
	t := ui.Current()
	if found {
		return t.Success.Render(t.BoxFound)
	}
	return t.Muted.Render(t.BoxUnfound)
}

func byline(a model.Artwork) string {
	parts := []string{}
	for _, p := range []string{a.Artist, a.City, a.Medium, a.Date} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " · ")
}

func itemLine(i int, a model.Artwork, found bool) string {
	t := ui.Current()
	title := ui.Truncate(a.Title, 60)
	if found {
		title = t.FoundText.Render(title)
	}
	return fmt.Sprintf("%s %s %s  %s",
		t.Muted.Render(fmt.Sprintf("%2d.", i)), box(found), title, t.Muted.Render(a.Artist))
}

func clusterLines(s *app.Session) []string {
	t := ui.Current()
	clusters := s.Catalog().Clusters()
	if s.Catalog().Len() == 0 {
		return []string{t.Muted.Render("no artworks")}
	}
	var lines []string
	n := 0
	for _, c := range clusters {
		d, total := s.ClusterProgress(c)
		lines = append(lines, fmt.Sprintf("%s %s %s",
			t.Pin, t.Accent.Render(c.Position.String()), t.Muted.Render(fmt.Sprintf("(%d/%d found)", d, total))))
		for _, a := range c.Artworks {
			n++
			lines = append(lines, "  "+itemLine(n, a, s.IsFound(a.ID)))
		}
	}
	for _, a := range s.MapOrder()[n:] {
		n++
		lines = append(lines, "  "+itemLine(n, a, s.IsFound(a.ID))+" "+t.Muted.Render("(no location)"))
	}
	return lines
}

func groupLines(s *app.Session) []string {
	t := ui.Current()
	var unfound, done []string
	for i, a := range s.MapOrder() {
		if s.IsFound(a.ID) {
			done = append(done, itemLine(i+1, a, true))
		} else {
			unfound = append(unfound, itemLine(i+1, a, false))
		}
	}
	var lines []string
	lines = append(lines, t.Accent.Render("Unfound"))
	if len(unfound) == 0 {
		lines = append(lines, t.Muted.Render("(none)"))
	} else {
		lines = append(lines, unfound...)
	}
	lines = append(lines, "")
	lines = append(lines, t.Accent.Render("Found"))
	if len(done) == 0 {
		lines = append(lines, t.Muted.Render("(none)"))
	} else {
		lines = append(lines, done...)
	}
	return lines
}

func detailLines(a model.Artwork) []string {
	t := ui.Current()
	lines := []string{t.Title.Render(a.Title)}
	add := func(label, v string) {
		if v != "" {
			lines = append(lines, fmt.Sprintf("%s %s", t.Muted.Render(label+":"), v))
		}
	}
	add("Artist", a.Artist)
	add("Medium", a.Medium)
	add("Date", a.Date)
	add("City", a.City)
	if a.Position != nil {
		add("Location", a.Position.String())
	}
	add("Image", a.Image)
	add("Link", a.Link)
	if a.Description != "" {
		lines = append(lines, "", a.Description)
	}
	return lines
}
