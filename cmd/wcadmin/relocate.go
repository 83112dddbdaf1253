package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cuemby/wcmeta/pkg/wcdb"
	"github.com/cuemby/wcmeta/pkg/wcops"
)

var relocateCmd = &cobra.Command{
	Use:   "relocate <dir> <new-root-url>",
	Short: "Rewrite repository coordinates under a subtree after its root URL changed",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, store, relpath, err := resolve(args[0], wcdb.ReadWrite)
		if err != nil {
			return err
		}
		defer r.Close()

		if err := wcops.Relocate(store, relpath, args[1]); err != nil {
			return err
		}
		fmt.Printf("relocated %s to %s\n", relpath, args[1])
		return nil
	},
}
