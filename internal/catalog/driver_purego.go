// ScreenScout - Semantic Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/screenscout

//go:build !cgo_sqlite
// +build !cgo_sqlite

package catalog

// This file is compiled by default and uses the pure Go SQLite driver.
// No C compiler is required, which keeps cross-compilation and container
// builds simple at the cost of somewhat slower query execution.
//
// Build command:
//   CGO_ENABLED=0 go build ./...
//
// Driver used: modernc.org/sqlite

import (
	_ "modernc.org/sqlite"
)

const (
	// DriverName is the SQLite driver registered for the catalog
	DriverName = "sqlite"

	// BuildMode describes the current build configuration
	BuildMode = "purego"
)
