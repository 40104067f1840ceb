// ScreenScout - Semantic Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/screenscout

/*
Package supervisor provides Suture-based process supervision for ScreenScout.

The tree is deliberately small: a root supervisor with an api layer that
runs the HTTP server. Suture restarts a crashed service with exponential
backoff instead of taking the whole process down, and the sutureslog hook
routes its lifecycle events through the zerolog pipeline.

Usage:

	tree, err := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}

	server := &http.Server{Addr: addr, Handler: router}
	tree.AddAPIService(supervisor.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	errCh := tree.ServeBackground(ctx)
	// ... block on signals or errCh ...

Shutdown is context-driven: canceling the context passed to Serve or
ServeBackground stops every service, honoring the configured timeout.
UnstoppedServiceReport names services that failed to stop in time.
*/
package supervisor
