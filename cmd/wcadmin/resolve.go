package main

import (
	"path/filepath"

	"github.com/cuemby/wcmeta/pkg/wcdb"
	"github.com/cuemby/wcmeta/pkg/wcnode"
	"github.com/cuemby/wcmeta/pkg/wcpath"
)

// resolve opens (or reuses) the WCROOT store enclosing target and returns
// its node-model Store plus target's path relative to that root. The
// caller owns the returned Resolver and must Close it when done; commands
// open one Resolver per invocation rather than sharing a long-lived one,
// since wcadmin is a one-shot CLI, not a resident process.
func resolve(target string, mode wcdb.Mode) (*wcpath.Resolver, *wcnode.Store, string, error) {
	abs, err := filepath.Abs(target)
	if err != nil {
		return nil, nil, "", err
	}

	r := wcpath.New(mode, wcdb.OpenOptions{})
	res, err := r.Resolve(abs)
	if err != nil {
		r.Close()
		return nil, nil, "", err
	}

	store := &wcnode.Store{DB: res.Handle.DB}
	return r, store, res.Relpath, nil
}
