package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cuemby/wcmeta/pkg/wcdb"
	"github.com/cuemby/wcmeta/pkg/workqueue"
)

var wqListCmd = &cobra.Command{
	Use:   "wq-list <wcroot>",
	Short: "List every pending work-queue item without removing any of them",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, store, _, err := resolve(args[0], wcdb.ReadOnly)
		if err != nil {
			return err
		}
		defer r.Close()

		items, err := workqueue.List(store.DB)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			fmt.Println("(queue empty)")
			return nil
		}
		for _, it := range items {
			fmt.Printf("%d\t%d bytes\n", it.ID, len(it.Skel))
		}
		return nil
	},
}
