// SPDX-License-Identifier: MIT

package jobs

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/google/renameio/v2"

	xglog "github.com/ManuGH/deeplinks/internal/log"
)

// artifact is one output file and the function that renders its content.
type artifact struct {
	path   string
	render func(io.Writer) error
}

// writeArtifacts renders every artifact into a pending file next to its
// path and replaces the targets only once all renders have succeeded.
// A render failure leaves every existing file untouched.
func writeArtifacts(ctx context.Context, artifacts ...artifact) error {
	logger := xglog.FromContext(ctx)

	pending := make([]*renameio.PendingFile, 0, len(artifacts))
	defer func() {
		for i, pf := range pending {
			if err := pf.Cleanup(); err != nil {
				logger.Debug().Err(err).Str(xglog.FieldPath, artifacts[i].path).Msg("cleanup pending file")
			}
		}
	}()

	for _, a := range artifacts {
		pf, err := renameio.NewPendingFile(a.path, renameio.WithPermissions(0o644))
		if err != nil {
			return fmt.Errorf("create pending file %s: %w", a.path, err)
		}
		pending = append(pending, pf)

		if err := a.render(pf); err != nil {
			return fmt.Errorf("render %s: %w", a.path, err)
		}
	}

	// fsync + rename
	for i, pf := range pending {
		if err := pf.CloseAtomicallyReplace(); err != nil {
			return fmt.Errorf("atomically replace %s: %w", artifacts[i].path, err)
		}
	}
	return nil
}

func ensureOutDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	return nil
}
