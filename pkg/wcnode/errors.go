package wcnode

import "github.com/cuemby/wcmeta/internal/wcerr"

var (
	errPathNotFound     = wcerr.PathNotFound
	errUnexpectedStatus = wcerr.UnexpectedStatus
)
