package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cuemby/wcmeta/pkg/wcdb"
	"github.com/cuemby/wcmeta/pkg/wcops"
)

var unlockCmd = &cobra.Command{
	Use:   "unlock <path>",
	Short: "Clear the repository-granted lock cached on a path's BASE row",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, store, relpath, err := resolve(args[0], wcdb.ReadWrite)
		if err != nil {
			return err
		}
		defer r.Close()

		if err := wcops.ClearLock(store, relpath); err != nil {
			return err
		}
		fmt.Printf("unlocked %s\n", relpath)
		return nil
	},
}
