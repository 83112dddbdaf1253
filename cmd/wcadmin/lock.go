package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cuemby/wcmeta/pkg/wcdb"
	"github.com/cuemby/wcmeta/pkg/wcops"
)

var lockCmd = &cobra.Command{
	Use:   "lock <path>",
	Short: "Record a repository-granted lock on a path's BASE row",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		token, _ := cmd.Flags().GetString("token")
		owner, _ := cmd.Flags().GetString("owner")
		comment, _ := cmd.Flags().GetString("comment")

		r, store, relpath, err := resolve(args[0], wcdb.ReadWrite)
		if err != nil {
			return err
		}
		defer r.Close()

		if err := wcops.StoreLock(store, relpath, token, owner, comment, time.Now()); err != nil {
			return err
		}
		fmt.Printf("locked %s (token=%s)\n", relpath, token)
		return nil
	},
}

func init() {
	lockCmd.Flags().String("token", "", "Repository-issued lock token")
	lockCmd.Flags().String("owner", "", "Lock owner")
	lockCmd.Flags().String("comment", "", "Lock comment")
}
