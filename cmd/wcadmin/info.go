package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cuemby/wcmeta/pkg/wcdb"
)

var infoCmd = &cobra.Command{
	Use:   "info <path>",
	Short: "Print the composed three-layer status for a path",
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

		fmt.Printf("path:          %s\n", relpath)
		fmt.Printf("status:        %s\n", info.Status)
		fmt.Printf("kind:          %s\n", info.Kind)
		fmt.Printf("revision:      %d\n", info.Revision)
		fmt.Printf("depth:         %s\n", info.Depth)
		if !info.Checksum.IsZero() {
			fmt.Printf("checksum:      %s\n", info.Checksum)
		}
		if info.ReposRelpath != "" {
			fmt.Printf("repos-relpath: %s (repos_id=%d)\n", info.ReposRelpath, info.ReposID)
		}
		fmt.Printf("base-shadowed: %t\n", info.BaseShadowed)
		fmt.Printf("conflicted:    %t\n", info.Conflicted)
		if info.Changelist != "" {
			fmt.Printf("changelist:    %s\n", info.Changelist)
		}
		if info.Lock != nil {
			fmt.Printf("lock:          token=%s owner=%s\n", info.Lock.Token, info.Lock.Owner)
		}
		if info.CopyFrom.IsSet() {
			fmt.Printf("copyfrom:      repos_id=%d relpath=%s rev=%d moved-here=%t\n",
				info.CopyFrom.ReposID, info.CopyFrom.ReposRelpath, info.CopyFrom.Revision, info.MovedHere)
		}
		return nil
	},
}
