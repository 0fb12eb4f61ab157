package main

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/arbordata/saaddr/internal/lookup"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <address>",
	Short: "Look up a free-text address against the SA suburb dataset",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		if e.lookups == nil {
			return eris.New("lookup requires a Mapbox token (SAADDR_MAPBOX_TOKEN)")
		}

		match, err := e.lookups.Lookup(ctx, strings.Join(args, " "))
		if err != nil {
			if eris.Is(err, lookup.ErrNotFound) {
				return eris.New("address not found in South Australia")
			}
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(match)
	},
}

func init() {
	rootCmd.AddCommand(lookupCmd)
}
