package javasrc

import "errors"

// ErrSyntax indicates the file could not be turned into a usable tree.
var ErrSyntax = errors.New("unparseable java source")
