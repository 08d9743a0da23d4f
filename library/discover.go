package library

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	BeatmapExt = ".osu"
	ArchiveExt = ".osz"
)

// Source is one parseable beatmap: either a loose .osu file or a .osu entry
// inside an .osz archive.
type Source struct {
	Path    string // file path, or archive path joined with the entry name
	Archive string // empty for loose files
	Entry   string
	ModTime time.Time
	Size    int64
}

// Open returns the beatmap text. Closing the reader also closes the archive
// it came from.
func (s Source) Open() (io.ReadCloser, error) {
	if s.Archive == "" {
		return os.Open(s.Path)
	}
	zr, err := zip.OpenReader(s.Archive)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", s.Archive, err)
	}
	for _, f := range zr.File {
		if f.Name != s.Entry {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			zr.Close()
			return nil, fmt.Errorf("open %s in %s: %w", s.Entry, s.Archive, err)
		}
		return &archiveEntry{ReadCloser: rc, archive: zr}, nil
	}
	zr.Close()
	return nil, fmt.Errorf("open %s in %s: %w", s.Entry, s.Archive, fs.ErrNotExist)
}

type archiveEntry struct {
	io.ReadCloser
	archive *zip.ReadCloser
}

func (e *archiveEntry) Close() error {
	return errors.Join(e.ReadCloser.Close(), e.archive.Close())
}

// Collect walks root for .osu files and .osz archives, returning at most
// limit sources (no cap when limit <= 0). Unreadable subdirectories and
// broken archives are skipped; only a failure on root itself is returned.
func Collect(root string, limit int) ([]Source, error) {
	var out []Source
	full := func() bool { return limit > 0 && len(out) >= limit }

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(d.Name())) {
		case BeatmapExt:
			info, err := d.Info()
			if err != nil {
				return nil
			}
			out = append(out, Source{Path: path, ModTime: info.ModTime(), Size: info.Size()})
		case ArchiveExt:
			entries, err := archiveSources(path)
			if err != nil {
				return nil
			}
			for _, s := range entries {
				if full() {
					break
				}
				out = append(out, s)
			}
		}
		if full() {
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("collect %s: %w", root, err)
	}
	return out, nil
}

func archiveSources(path string) ([]Source, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	var out []Source
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || !strings.EqualFold(filepath.Ext(f.Name), BeatmapExt) {
			continue
		}
		out = append(out, Source{
			Path:    path + "/" + f.Name,
			Archive: path,
			Entry:   f.Name,
			ModTime: f.Modified,
			Size:    int64(f.UncompressedSize64),
		})
	}
	return out, nil
}
