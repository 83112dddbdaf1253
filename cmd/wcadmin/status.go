package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cuemby/wcmeta/pkg/wcdb"
	"github.com/cuemby/wcmeta/pkg/wcnode"
	"github.com/cuemby/wcmeta/pkg/wcscan"
)

var statusCmd = &cobra.Command{
	Use:   "status <path>",
	Short: "Print status plus add/copy/move/delete provenance for a path",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, store, relpath, err := resolve(args[0], wcdb.ReadOnly)
		if err != nil {
			return err
		}
		defer r.Close()

		info, err := store.ReadInfo(relpath)
		if err != nil {
			return err
		}
		fmt.Printf("%-12s %s\n", info.Status, relpath)

		switch info.Status {
		case wcnode.StatusAdded, wcnode.StatusCopied, wcnode.StatusMovedHere:
			add, serr := wcscan.ScanAddition(store.DB, relpath)
			if serr != nil {
				return serr
			}
			fmt.Printf("  op-root: %s\n", add.OpRootRelpath)
			fmt.Printf("  repository: %s (uuid=%s) relpath=%s\n", add.Repos.RootURL, add.Repos.UUID, add.Repos.ReposRelpath)
			if add.CopyFrom.IsSet() {
				fmt.Printf("  copied-from: repos_id=%d relpath=%s rev=%d\n", add.CopyFrom.ReposID, add.CopyFrom.ReposRelpath, add.CopyFrom.Revision)
			}
		case wcnode.StatusDeleted:
			del, serr := wcscan.ScanDeletion(store.DB, relpath)
			if serr != nil {
				return serr
			}
			fmt.Printf("  base-del-root: %s\n", del.BaseDelRoot)
			fmt.Printf("  work-del-root: %s\n", del.WorkDelRoot)
			if del.MovedToPath != "" {
				fmt.Printf("  moved-to: %s\n", del.MovedToPath)
			}
			fmt.Printf("  base-was-replaced: %t\n", del.BaseWasReplaced)
		}
		return nil
	},
}
