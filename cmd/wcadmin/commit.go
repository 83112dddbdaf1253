package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/cuemby/wcmeta/pkg/wcdb"
	"github.com/cuemby/wcmeta/pkg/wcops"
)

var commitCmd = &cobra.Command{
	Use:   "commit <path>",
	Short: "Collapse the WORKING layer onto BASE after a successful push",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rev, _ := cmd.Flags().GetInt64("rev")
		author, _ := cmd.Flags().GetString("author")
		digestText, _ := cmd.Flags().GetString("digest")
		childrenText, _ := cmd.Flags().GetString("children")
		keepChangelist, _ := cmd.Flags().GetBool("keep-changelist")

		r, store, relpath, err := resolve(args[0], wcdb.ReadWrite)
		if err != nil {
			return err
		}
		defer r.Close()

		in := wcops.CommitInput{
			Relpath:        relpath,
			Revision:       rev,
			Date:           time.Now(),
			Author:         author,
			KeepChangelist: keepChangelist,
		}
		if digestText != "" {
			cs, perr := wcdb.ParseChecksum(digestText)
			if perr != nil {
				return perr
			}
			in.Digest = cs
		}
		if childrenText != "" {
			in.Children = strings.Split(childrenText, ",")
		}

		if err := wcops.Commit(store, in); err != nil {
			return err
		}
		fmt.Printf("committed %s at r%d\n", relpath, rev)
		return nil
	},
}

func init() {
	commitCmd.Flags().Int64("rev", 0, "New revision number")
	commitCmd.Flags().String("author", "", "Commit author")
	commitCmd.Flags().String("digest", "", "Content checksum as kind:hex, for a file commit")
	commitCmd.Flags().String("children", "", "Comma-separated child names, for a directory commit")
	commitCmd.Flags().Bool("keep-changelist", false, "Preserve an existing changelist across the commit")
}
