package backup

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// storeFile is the database file name Backup archives. Restore requires
// it, so a valid archive always brings the sessions and preferences back.
const storeFile = "athenaeum.db"

// maxEntrySize caps extraction of a single entry. The local store and
// config are small; anything bigger is a damaged or hostile archive.
const maxEntrySize = 1 << 30 // 1 GiB

// Restore unpacks a backup archive into dataDir. Backup writes flat,
// base-name entries, so anything nested, absolute, or non-regular is
// rejected rather than skipped. Existing files are only overwritten with
// force.
func Restore(_ context.Context, archivePath, dataDir string, force bool) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer f.Close()

	gr, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("read archive: %w", err)
	}
	defer gr.Close()

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	tr := tar.NewReader(gr)
	var foundStore bool
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("read archive: %w", err)
		}
		if err := checkEntry(hdr); err != nil {
			return err
		}
		if hdr.Name == storeFile {
			foundStore = true
		}

		dest := filepath.Join(dataDir, hdr.Name)
		if !force {
			if _, err := os.Stat(dest); err == nil {
				return fmt.Errorf("%s already exists, pass -force to overwrite", dest)
			}
		}
		if err := writeEntry(tr, dest, hdr); err != nil {
			return fmt.Errorf("restore %s: %w", hdr.Name, err)
		}
	}

	if !foundStore {
		return fmt.Errorf("not a backup archive: missing %s", storeFile)
	}
	return nil
}

// checkEntry enforces the flat layout Backup produces.
func checkEntry(hdr *tar.Header) error {
	if hdr.Typeflag != tar.TypeReg {
		return fmt.Errorf("unexpected entry type in archive: %q", hdr.Name)
	}
	name := hdr.Name
	if name == "" || name == "." || name == ".." ||
		filepath.IsAbs(name) || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("unsafe entry name in archive: %q", name)
	}
	return nil
}

// writeEntry extracts one regular file, preserving its mode bits.
func writeEntry(tr *tar.Reader, dest string, hdr *tar.Header) error {
	out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, os.FileMode(hdr.Mode&0o777))
	if err != nil {
		return err
	}
	n, err := io.Copy(out, io.LimitReader(tr, maxEntrySize+1))
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return err
	}
	if n > maxEntrySize {
		return fmt.Errorf("entry exceeds %d bytes", int64(maxEntrySize))
	}
	return nil
}
