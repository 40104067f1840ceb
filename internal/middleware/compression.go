// ScreenScout - Semantic Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/screenscout

package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"
	"sync"
)

// gzipWriterPool pools gzip writers to reduce allocations
var gzipWriterPool = sync.Pool{
	New: func() interface{} {
		return gzip.NewWriter(io.Discard)
	},
}

// gzipResponseWriter wraps http.ResponseWriter and defers the
// compression decision to WriteHeader. Bodyless statuses (204, 304
// from ETag revalidation) and responses a handler already encoded
// must not gain a gzip body.
type gzipResponseWriter struct {
	http.ResponseWriter
	gz          *gzip.Writer
	compress    bool
	wroteHeader bool
}

func (w *gzipResponseWriter) WriteHeader(status int) {
	if !w.wroteHeader {
		w.wroteHeader = true
		if status == http.StatusNoContent || status == http.StatusNotModified ||
			w.Header().Get("Content-Encoding") != "" {
			w.compress = false
		}
		if w.compress {
			w.Header().Set("Content-Encoding", "gzip")
			w.Header().Del("Content-Length") // Length will be different after compression
		}
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *gzipResponseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	if w.compress {
		return w.gz.Write(b)
	}
	return w.ResponseWriter.Write(b)
}

// Compression adds gzip encoding for clients that accept it.
func Compression(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Accept-Encoding")

		if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
			next.ServeHTTP(w, r)
			return
		}

		gz := gzipWriterPool.Get().(*gzip.Writer)
		defer gzipWriterPool.Put(gz)
		gz.Reset(w) // Reset always succeeds for http.ResponseWriter

		gzw := &gzipResponseWriter{ResponseWriter: w, gz: gz, compress: true}
		defer func() {
			// The gzip footer only belongs on streams that compressed
			if gzw.wroteHeader && gzw.compress {
				_ = gz.Close()
			}
		}()

		next.ServeHTTP(gzw, r)
	})
}
