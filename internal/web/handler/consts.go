package handler

import "errors"

const (
	// RootPath is the root path the route group.
	RootPath = "/"

	// RouterRootPath is the root of a mounted route group.
	RouterRootPath = ""

	// APIPath prefixes every JSON endpoint.
	APIPath = "/api"

	// ParamID is the route parameter holding a record id.
	ParamID = "id"
)

// ErrNilDependencies is returned by Init if router, config, db or guard is nil.
var ErrNilDependencies = errors.New("router, config, db or guard is nil")
