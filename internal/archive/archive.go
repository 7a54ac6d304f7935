// Package archive packages an export directory into a zip file.
package archive

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"
	"github.com/specialistvlad/flowexport/internal/ctxlog"
	"github.com/specialistvlad/flowexport/internal/exporterr"
)

// Options controls how an export directory is archived.
type Options struct {
	// Path of the zip file. Defaults to "<dir>.zip".
	Path string
	// KeepDir leaves the source directory in place after archiving.
	KeepDir bool
	// Level is the deflate level, flate.DefaultCompression when zero.
	Level int
}

// Zip writes every regular file under dir into a zip archive with paths
// relative to dir, replacing any previous archive, and returns the archive
// path. Unless opts.KeepDir is set the directory is removed afterwards.
func Zip(ctx context.Context, dir string, opts Options) (string, error) {
	logger := ctxlog.FromContext(ctx)

	dest := Dest(dir, opts)
	if err := CheckDest(dir, dest); err != nil {
		return "", err
	}
	if err := os.Remove(dest); err != nil && !os.IsNotExist(err) {
		return "", exporterr.New(exporterr.IO, "remove previous archive", err)
	}

	level := opts.Level
	if level == 0 {
		level = flate.DefaultCompression
	}

	f, err := os.Create(dest)
	if err != nil {
		return "", exporterr.New(exporterr.IO, "create archive", err)
	}
	zw := zip.NewWriter(f)
	zw.RegisterCompressor(zip.Deflate, func(w io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(w, level)
	})

	files, err := addDir(ctx, zw, dir)
	if err != nil {
		zw.Close()
		f.Close()
		os.Remove(dest)
		return "", err
	}
	if err := zw.Close(); err != nil {
		f.Close()
		return "", exporterr.New(exporterr.IO, "finish archive", err)
	}
	if err := f.Close(); err != nil {
		return "", exporterr.New(exporterr.IO, "close archive", err)
	}
	logger.Info("Archive written.", "path", dest, "files", files)

	if !opts.KeepDir {
		if err := os.RemoveAll(dir); err != nil {
			return "", exporterr.New(exporterr.IO, "remove "+dir, err)
		}
		logger.Debug("Removed export directory.", "dir", dir)
	}
	return dest, nil
}

// Dest returns the archive path Zip writes for dir.
func Dest(dir string, opts Options) string {
	if opts.Path != "" {
		return opts.Path
	}
	return filepath.Clean(dir) + ".zip"
}

// CheckDest rejects an archive path inside the directory being archived.
func CheckDest(dir, dest string) error {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return exporterr.New(exporterr.Config, "resolve "+dir, err)
	}
	absDest, err := filepath.Abs(dest)
	if err != nil {
		return exporterr.New(exporterr.Config, "resolve "+dest, err)
	}
	rel, err := filepath.Rel(absDir, absDest)
	if err != nil {
		return nil
	}
	if rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))) {
		return exporterr.New(exporterr.Config, "archive "+dir,
			fmt.Errorf("archive path %q is inside the archived directory", dest))
	}
	return nil
}

func addDir(ctx context.Context, zw *zip.Writer, dir string) (int, error) {
	files := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		if err := addFile(zw, path, filepath.ToSlash(rel)); err != nil {
			return err
		}
		files++
		return nil
	})
	if err != nil {
		return 0, exporterr.New(exporterr.IO, "archive "+dir, err)
	}
	return files, nil
}

func addFile(zw *zip.Writer, path, name string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	hdr, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	hdr.Name = name
	hdr.Method = zip.Deflate

	w, err := zw.CreateHeader(hdr)
	if err != nil {
		return err
	}
	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()
	_, err = io.Copy(w, src)
	return err
}
