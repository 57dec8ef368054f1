package trmc

import (
	_ "embed"
)

// Version is the release version of trmc, embedded from the VERSION file.
//
//go:embed VERSION
var Version string
