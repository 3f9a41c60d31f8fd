// SPDX-License-Identifier: MIT

package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	xglog "github.com/ManuGH/deeplinks/internal/log"
	"github.com/ManuGH/deeplinks/internal/metrics"
)

// artifactServer serves regular files that sit directly in the output
// directory. Nested paths, hidden files, symlinks and directories are refused.
func (s *Server) artifactServer() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := xglog.WithComponentFromContext(r.Context(), "api")
		deny := func(status int, reason, msg string) {
			logger.Warn().
				Str(xglog.FieldEvent, "file_req.denied").
				Str(xglog.FieldPath, r.URL.Path).
				Str("reason", reason).
				Msg(msg)
			metrics.IncFileDenied(reason)
			http.Error(w, http.StatusText(status), status)
		}

		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			deny(http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
			return
		}

		if isPathTraversal(r.URL.Path) || isPathTraversal(r.URL.RawPath) {
			deny(http.StatusForbidden, "path_escape", "detected traversal sequence")
			return
		}

		name := strings.TrimPrefix(r.URL.Path, "/")
		if name == "" || strings.HasSuffix(name, "/") {
			deny(http.StatusForbidden, "directory_listing", "directory listing forbidden")
			return
		}
		if strings.ContainsAny(name, `/\`) {
			deny(http.StatusNotFound, "nested_path", "only top-level files are served")
			return
		}
		if strings.HasPrefix(name, ".") {
			deny(http.StatusNotFound, "hidden_file", "hidden files are not served")
			return
		}

		fullPath := filepath.Join(s.cfg.OutDir, name)
		info, err := os.Lstat(fullPath)
		if err != nil {
			if os.IsNotExist(err) {
				logger.Info().Str(xglog.FieldEvent, "file_req.not_found").Str(xglog.FieldPath, fullPath).Msg("file not found")
				metrics.IncFileDenied("not_found")
				http.Error(w, "Not found", http.StatusNotFound)
				return
			}
			logger.Error().Err(err).Str(xglog.FieldEvent, "file_req.internal_error").Str(xglog.FieldPath, fullPath).Msg("could not stat file")
			metrics.IncFileDenied("internal_error")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		if !info.Mode().IsRegular() {
			deny(http.StatusForbidden, "not_regular", "refusing to serve non-regular file")
			return
		}

		// #nosec G304 -- name is a single path element inside OutDir
		f, err := os.Open(fullPath)
		if err != nil {
			logger.Error().Err(err).Str(xglog.FieldEvent, "file_req.internal_error").Str(xglog.FieldPath, fullPath).Msg("could not open file")
			metrics.IncFileDenied("internal_error")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		defer func() {
			if err := f.Close(); err != nil {
				logger.Warn().Err(err).Str(xglog.FieldPath, fullPath).Msg("failed to close file")
			}
		}()

		// Re-stat the handle; the artifact may have been replaced since Lstat.
		info, err = f.Stat()
		if err != nil {
			logger.Error().Err(err).Str(xglog.FieldEvent, "file_req.internal_error").Str(xglog.FieldPath, fullPath).Msg("could not stat opened file")
			metrics.IncFileDenied("internal_error")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		if ct := contentType(name); ct != "" {
			w.Header().Set("Content-Type", ct)
		}

		logger.Debug().Str(xglog.FieldEvent, "file_req.allowed").Str(xglog.FieldPath, name).Msg("serving file")
		metrics.IncFileServed(name)
		http.ServeContent(w, r, info.Name(), info.ModTime(), f)
	})
}

func contentType(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xml":
		return "application/xml; charset=utf-8"
	case ".m3u", ".m3u8":
		return "audio/x-mpegurl; charset=utf-8"
	}
	return ""
}
