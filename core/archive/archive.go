// Package archive reads and writes gzipped tar archives on an afero
// filesystem.
package archive

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/josephlewis42/tiks/core/session"
	"github.com/klauspost/compress/gzip"
	"github.com/spf13/afero"
)

// ErrUnsafePath is returned for archive entries that would be extracted
// outside the destination directory.
var ErrUnsafePath = errors.New("entry escapes the destination directory")

// Archiver implements session.Archiver.
type Archiver struct {
	Fs afero.Fs
}

var _ session.Archiver = (*Archiver)(nil)

// New creates an archiver over the filesystem.
func New(filesystem afero.Fs) *Archiver {
	return &Archiver{Fs: filesystem}
}

// Compress writes file, or a directory tree, to a new tar.gz at destination.
// Entries are named relative to the parent of file. The destination itself is
// never added.
func (a *Archiver) Compress(file, destination string) (string, error) {
	out, err := a.Fs.OpenFile(destination, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return "", err
	}
	defer out.Close()

	gz := gzip.NewWriter(out)
	tw := tar.NewWriter(gz)

	count := 0
	base := path.Dir(path.Clean(file))
	self := filepath.Clean(destination)
	err = afero.Walk(a.Fs, file, func(name string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		// The archive may be written inside the tree it archives.
		if filepath.Clean(name) == self {
			return nil
		}

		rel, err := filepath.Rel(base, name)
		if err != nil {
			return err
		}
		if err := a.addEntry(tw, name, filepath.ToSlash(rel), info); err != nil {
			return fmt.Errorf("adding %s: %w", rel, err)
		}
		count++
		return nil
	})
	if err != nil {
		return "", err
	}

	if err := tw.Close(); err != nil {
		return "", err
	}
	if err := gz.Close(); err != nil {
		return "", err
	}
	return fmt.Sprintf("Successfully compressed %d entries into %s", count, path.Base(destination)), nil
}

func (a *Archiver) addEntry(tw *tar.Writer, name, rel string, info fs.FileInfo) error {
	hdr, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return err
	}
	hdr.Name = rel
	if info.IsDir() {
		hdr.Name += "/"
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return nil
	}

	fd, err := a.Fs.Open(name)
	if err != nil {
		return err
	}
	defer fd.Close()

	_, err = io.Copy(tw, fd)
	return err
}

// Decompress extracts the tar.gz archive into directory. Only regular files
// and directories are extracted.
func (a *Archiver) Decompress(archive, directory string) (string, error) {
	in, err := a.Fs.Open(archive)
	if err != nil {
		return "", err
	}
	defer in.Close()

	gz, err := gzip.NewReader(in)
	if err != nil {
		return "", fmt.Errorf("couldn't unzip: %w", err)
	}
	defer gz.Close()

	tarReader := tar.NewReader(gz)
	count := 0
	for {
		hdr, err := tarReader.Next()
		if err == io.EOF {
			break // End of archive
		}
		if err != nil {
			return "", fmt.Errorf("couldn't read archive: %w", err)
		}

		target, err := extractPath(directory, hdr.Name)
		if err != nil {
			return "", err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := a.Fs.MkdirAll(target, 0755); err != nil {
				return "", fmt.Errorf("couldn't extract %q: %w", hdr.Name, err)
			}
		case tar.TypeReg:
			if err := a.extractFile(tarReader, target, fs.FileMode(hdr.Mode).Perm()); err != nil {
				return "", fmt.Errorf("couldn't extract %q: %w", hdr.Name, err)
			}
		default:
			continue
		}
		count++
	}

	return fmt.Sprintf("Successfully decompressed %d entries from %s", count, path.Base(archive)), nil
}

func (a *Archiver) extractFile(r io.Reader, target string, perm fs.FileMode) error {
	if err := a.Fs.MkdirAll(path.Dir(target), 0755); err != nil {
		return err
	}

	fd, err := a.Fs.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, perm)
	if err != nil {
		return err
	}
	defer fd.Close()

	_, err = io.Copy(fd, r)
	return err
}

// extractPath joins an entry name to the directory, rejecting names that
// would leave it.
func extractPath(directory, name string) (string, error) {
	for _, part := range strings.Split(name, "/") {
		if part == ".." {
			return "", fmt.Errorf("%w: %s", ErrUnsafePath, name)
		}
	}
	return path.Join(directory, path.Clean("/"+name)), nil
}
