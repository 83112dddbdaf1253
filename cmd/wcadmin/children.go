package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cuemby/wcmeta/pkg/wcdb"
)

var childrenCmd = &cobra.Command{
	Use:   "children <path>",
	Short: "List the union of BASE and WORKING children of a directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, store, relpath, err := resolve(args[0], wcdb.ReadOnly)
		if err != nil {
			return err
		}
		defer r.Close()

		names, err := store.ReadChildren(relpath)
		if err != nil {
			return err
		}
		for _, n := range names {
			fmt.Println(n)
		}
		return nil
	},
}
