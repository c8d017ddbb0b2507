// Package fs provides file system adapters for locating and hashing
// compiled artifacts.
package fs

import (
	"context"
	"errors"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/tbrun/internal/core/domain"
	"go.trai.ch/tbrun/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ArtifactLocator = (*Locator)(nil)

// Locator relocates compiled artifacts from the build tree into a working
// directory.
type Locator struct {
	logger ports.Logger
}

// NewLocator creates a new Locator.
func NewLocator(logger ports.Logger) *Locator {
	return &Locator{logger: logger}
}

// Relocate searches searchRoot recursively for files named target
// (case-insensitive) and copies each into destDir.
//
// A destination is only overwritten when the source is strictly newer.
// The source mtime is preserved on the copy, so running Relocate twice
// without an intervening compile performs no second write and returns
// zero. Matches with the same name overwrite each other at destDir; the
// mtime guard keeps the newest one.
func (l *Locator) Relocate(ctx context.Context, target domain.Target, searchRoot, destDir string) (int, error) {
	name := target.String()
	copied := 0

	err := filepath.WalkDir(searchRoot, func(path string, d iofs.DirEntry, err error) error {
		if err != nil {
			// A missing search root just means nothing was compiled yet.
			if errors.Is(err, iofs.ErrNotExist) && path == searchRoot {
				return filepath.SkipAll
			}
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || !strings.EqualFold(d.Name(), name) {
			return nil
		}

		wrote, err := l.copyIfNewer(path, filepath.Join(destDir, d.Name()))
		if err != nil {
			return err
		}
		if wrote {
			copied++
		}
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return copied, errors.Join(domain.ErrInterrupted, ctx.Err())
		}
		return copied, errors.Join(domain.ErrRelocationFailed,
			zerr.With(zerr.Wrap(err, "artifact search failed"), "search_root", searchRoot))
	}

	return copied, nil
}

// copyIfNewer copies src over dst unless dst already exists with an mtime
// at least as recent as src. Reports whether a copy was performed.
func (l *Locator) copyIfNewer(src, dst string) (bool, error) {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return false, zerr.With(zerr.Wrap(err, "failed to stat artifact"), "path", src)
	}

	if dstInfo, err := os.Stat(dst); err == nil {
		if !srcInfo.ModTime().After(dstInfo.ModTime()) {
			return false, nil
		}
	} else if !errors.Is(err, iofs.ErrNotExist) {
		return false, zerr.With(zerr.Wrap(err, "failed to stat destination"), "path", dst)
	}

	if err := l.copyFile(src, dst, srcInfo); err != nil {
		return false, err
	}
	return true, nil
}

func (l *Locator) copyFile(src, dst string, srcInfo os.FileInfo) error {
	in, err := os.Open(src) //nolint:gosec // path comes from the walked tree
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to open artifact"), "path", src)
	}
	defer in.Close() //nolint:errcheck // read-only file

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, srcInfo.Mode().Perm()) //nolint:gosec // destination is the working dir
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create destination"), "path", dst)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return zerr.With(zerr.Wrap(err, "failed to copy artifact"), "path", dst)
	}
	if err := out.Close(); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to close destination"), "path", dst)
	}

	// Carrying the source mtime over makes a re-run compare equal instead
	// of newer, which is what keeps Relocate idempotent.
	if err := os.Chtimes(dst, srcInfo.ModTime(), srcInfo.ModTime()); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to set destination mtime"), "path", dst)
	}
	return nil
}
