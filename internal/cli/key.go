package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/artspot/internal/geocode"
	"github.com/Makepad-fr/artspot/internal/ui"
)

func newKeyCmd(_ *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key <set|clear|status>",
		Short: "Manage the Google Maps API key used for geocoding",
		Args:  minArgs(1, "artspot key <set|clear|status>"),
		RunE: func(_ *cobra.Command, args []string) error {
			return usagef("usage: artspot key <set|clear|status>")
		},
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "set [key]",
			Short: "Save a key (prompts when omitted)",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				creds, err := credentials()
				if err != nil {
					return err
				}
				key := ""
				if len(args) == 1 {
					key = args[0]
				} else {
					fmt.Fprint(cmd.OutOrStdout(), "Paste your Maps API key: ")
					key, err = readLine(cmd.InOrStdin())
					if err != nil {
						return fmt.Errorf("read key: %w", err)
					}
				}
				return doKeySet(creds, key)
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Delete the saved key",
			Args:  exactArgs(0, "artspot key clear"),
			RunE: func(*cobra.Command, []string) error {
				creds, err := credentials()
				if err != nil {
					return err
				}
				return doKeyClear(creds)
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show where the key comes from",
			Args:  exactArgs(0, "artspot key status"),
			RunE: func(cmd *cobra.Command, _ []string) error {
				creds, err := credentials()
				if err != nil {
					return err
				}
				return doKeyStatus(cmd.OutOrStdout(), creds)
			},
		},
	)
	return cmd
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func doKeySet(creds geocode.Credentials, key string) error {
	if err := creds.SetKey(key); err != nil {
		return fmt.Errorf("save key: %w", err)
	}
	ui.OK("key saved")
	return nil
}

func doKeyClear(creds geocode.Credentials) error {
	ki, _ := creds.GetKey()
	if ki != nil && ki.Source == "env" {
		ui.OK("key is provided by " + geocode.EnvAPIKey + " env var (nothing to delete)")
		return nil
	}
	if err := creds.DeleteKey(); err != nil {
		return fmt.Errorf("clear: %w", err)
	}
	ui.OK("key cleared")
	return nil
}

func doKeyStatus(w io.Writer, creds geocode.Credentials) error {
	ki, err := creds.GetKey()
	if err != nil {
		return err
	}
	if ki == nil {
		fmt.Fprintln(w, ui.Current().Muted.Render("no key configured"))
		fmt.Fprintln(w, `Run: artspot key set   (searching by "lat,lng" works without one)`)
		return nil
	}
	fmt.Fprintf(w, "source: %s\n", ki.Source)
	fmt.Fprintf(w, "key: %s\n", mask(ki.Key))
	if !ki.CreatedAt.IsZero() {
		fmt.Fprintf(w, "saved: %s\n", ki.CreatedAt.UTC().Format(time.RFC3339))
	}
	fmt.Fprintf(w, "env override: %s\n", geocode.EnvAPIKey)
	return nil
}

func mask(key string) string {
	if len(key) <= 6 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + strings.Repeat("*", len(key)-6) + key[len(key)-2:]
}
