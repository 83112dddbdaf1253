package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cuemby/wcmeta/pkg/wcdb"
	"github.com/cuemby/wcmeta/pkg/wcnode"
	"github.com/cuemby/wcmeta/pkg/wcpath"
)

var (
	initReposRelpath string
	initRootURL      string
	initUUID         string
	initRevision     int64
	initDepth        string
)

var initCmd = &cobra.Command{
	Use:   "init <path>",
	Short: "Create a new working-copy root bound to a repository location",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := wcpath.Init(args[0], wcpath.InitInput{
			ReposRelpath: initReposRelpath,
			RootURL:      initRootURL,
			UUID:         initUUID,
			InitialRev:   initRevision,
			Depth:        wcnode.Depth(initDepth),
		}, wcdb.OpenOptions{})
		if err != nil {
			return err
		}
		defer h.DB.Close()

		fmt.Printf("initialized %s (wcroot_id=%d)\n", h.AbsPath, h.ID)
		return nil
	},
}

func init() {
	initCmd.Flags().StringVar(&initReposRelpath, "repos-relpath", "", "Repository-relative path this root corresponds to")
	initCmd.Flags().StringVar(&initRootURL, "root-url", "", "Repository root URL")
	initCmd.Flags().StringVar(&initUUID, "uuid", "", "Repository UUID")
	initCmd.Flags().Int64Var(&initRevision, "rev", 0, "Initial revision")
	initCmd.Flags().StringVar(&initDepth, "depth", string(wcnode.DepthInfinity), "Initial depth (empty, files, immediates, infinity)")
}
