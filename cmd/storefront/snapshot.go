package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Inspect or reset the stored catalog and cart",
}

var snapshotShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the stored snapshot as JSON, or the seed data if none is stored",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newReadOnlyApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		out, err := json.MarshalIndent(a.store.Snapshot(), "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return err
	},
}

var snapshotResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Replace the catalog with the seed products and empty the cart",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), nil)
		if err != nil {
			return err
		}
		defer a.Close()

		a.store.Reset()
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "snapshot %q reset to %d seed products\n", a.cfg.Storage.Key, len(a.store.Products()))
		return err
	},
}

func init() {
	snapshotCmd.AddCommand(snapshotShowCmd, snapshotResetCmd)
}
