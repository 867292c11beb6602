// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"archive/zip"
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/klauspost/compress/flate"

	"github.com/Meow0x7E/DoL-Mods/pkg/modpack"
)

// DefaultLevel is the deflate level used when Writer.Level is out of range.
const DefaultLevel = flate.BestCompression

// Writer packs a modpack.Plan into a ZIP archive.
type Writer struct {
	// Level is the deflate level from 1 (fastest) to 9 (smallest). Other
	// values select DefaultLevel.
	Level int
	// Logger receives one info record per entry. Nil discards them.
	Logger *log.Logger
}

// Write streams every plan entry into dest in plan order. The archive is
// assembled in a temporary file next to dest and renamed into place once
// complete, so dest either holds a full archive or is left untouched.
func (w Writer) Write(ctx context.Context, plan *modpack.Plan, dest string) (err error) {
	absDest, err := filepath.Abs(dest)
	if err != nil {
		return &ArchiveWriteError{Path: dest, Err: err}
	}
	dir := filepath.Dir(absDest)
	if mkErr := os.MkdirAll(dir, 0o755); mkErr != nil {
		return &ArchiveWriteError{Path: absDest, Err: mkErr}
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(absDest)+"-*.tmp")
	if err != nil {
		return &ArchiveWriteError{Path: absDest, Err: err}
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpPath) // Best-effort cleanup
		}
	}()

	zw := zip.NewWriter(tmp)
	level := w.level()
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, level)
	})

	logger := w.logger()
	for _, e := range plan.Entries {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return &ArchiveWriteError{Path: absDest, Err: ctxErr}
		}
		logger.Info("compress", "entry", e.ArchivePath)
		if addErr := addEntry(zw, e); addErr != nil {
			return &ArchiveWriteError{Path: absDest, Entry: e.ArchivePath, Err: addErr}
		}
	}

	if closeErr := zw.Close(); closeErr != nil {
		return &ArchiveWriteError{Path: absDest, Err: closeErr}
	}
	if closeErr := tmp.Close(); closeErr != nil {
		return &ArchiveWriteError{Path: absDest, Err: closeErr}
	}
	if renameErr := os.Rename(tmpPath, absDest); renameErr != nil {
		return &ArchiveWriteError{Path: absDest, Err: renameErr}
	}
	return nil
}

func addEntry(zw *zip.Writer, e modpack.PlanEntry) (err error) {
	src, err := os.Open(e.Source)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := src.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	info, err := src.Stat()
	if err != nil {
		return err
	}
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	header.Name = e.ArchivePath
	header.Method = zip.Deflate
	header.NonUTF8 = false

	out, err := zw.CreateHeader(header)
	if err != nil {
		return err
	}
	_, err = io.Copy(out, src)
	return err
}

func (w Writer) level() int {
	if w.Level < flate.BestSpeed || w.Level > flate.BestCompression {
		return DefaultLevel
	}
	return w.Level
}

func (w Writer) logger() *log.Logger {
	if w.Logger == nil {
		return log.New(io.Discard)
	}
	return w.Logger
}
