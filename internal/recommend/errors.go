// ScreenScout - Semantic Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/screenscout

package recommend

import "fmt"

// Pipeline stages that can abort a request. Everything after search
// degrades instead of failing, so no later stage appears here.
const (
	StageEmbedding = "embedding"
	StageSearch    = "search"
)

// FatalError marks a stage failure that ends the pipeline. It reaches
// the client as a payload error string, not a transport error.
type FatalError struct {
	Stage string
	Err   error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *FatalError) Unwrap() error { return e.Err }

func fatal(stage string, err error) error {
	return &FatalError{Stage: stage, Err: err}
}

// userMessage renders the payload error field. The stage label tells
// the operator where to look without exposing internals beyond the
// wrapped error text.
func (e *FatalError) userMessage() string {
	switch e.Stage {
	case StageEmbedding:
		return fmt.Sprintf("EMBEDDING FAILED: %v", e.Err)
	case StageSearch:
		return fmt.Sprintf("VECTOR SEARCH FAILED: %v", e.Err)
	default:
		return fmt.Sprintf("SERVER ERROR: %v", e.Err)
	}
}
