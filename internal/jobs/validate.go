// SPDX-License-Identifier: MIT

package jobs

import (
	"errors"
	"fmt"
)

// ErrInvalidJobConfig is returned before any work when Config is unusable.
var ErrInvalidJobConfig = errors.New("invalid job config")

func validateConfig(cfg Config) error {
	switch {
	case cfg.OutDir == "":
		return fmt.Errorf("%w: output directory is empty", ErrInvalidJobConfig)
	case cfg.PlaylistFile == "" || cfg.XMLTVFile == "":
		return fmt.Errorf("%w: artifact file names must be set", ErrInvalidJobConfig)
	case cfg.PlaylistFile == cfg.XMLTVFile:
		return fmt.Errorf("%w: playlist and guide share file name %q", ErrInvalidJobConfig, cfg.PlaylistFile)
	case cfg.LookAhead <= 0:
		return fmt.Errorf("%w: look-ahead %s must be positive", ErrInvalidJobConfig, cfg.LookAhead)
	case cfg.DeepLinkBase == "":
		return fmt.Errorf("%w: deep link base is empty", ErrInvalidJobConfig)
	}
	return nil
}
