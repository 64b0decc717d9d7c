package transfer

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"strings"
)

// Pack builds a single archive blob containing one entry per export file, in
// the same order as the input collection. Entry names are taken verbatim from
// the file names. Zero-entry and single-entry collections are degenerate but
// valid and produce a well-formed (possibly empty) archive.
func Pack(files FileCollection) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, file := range files {
		entry, err := zw.Create(file.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to create archive entry '%s': %w", file.Name, err)
		}
		if _, err := entry.Write(ToBinary(file.Contents)); err != nil {
			return nil, fmt.Errorf("failed to write archive entry '%s': %w", file.Name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize archive: %w", err)
	}
	return buf.Bytes(), nil
}

// Unpack extracts the file collection from an uploaded archive blob, keeping
// real files only: directory markers and zero-length placeholder entries are
// skipped. Entry contents are decoded to text, so an entry that is not valid
// UTF-8 fails the whole unpack with ErrEncoding. The returned collection
// follows archive enumeration order.
func Unpack(blob []byte) (FileCollection, error) {
	zr, err := zip.NewReader(bytes.NewReader(blob), int64(len(blob)))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrArchiveFormat, err)
	}

	var files FileCollection
	for _, entry := range zr.File {
		if !isRealFile(entry) {
			continue
		}

		data, err := readEntry(entry)
		if err != nil {
			return nil, err
		}
		text, err := ToText(data)
		if err != nil {
			return nil, fmt.Errorf("archive entry '%s': %w", entry.Name, err)
		}
		files = append(files, ExportFile{Name: entry.Name, Contents: text})
	}
	return files, nil
}

// isRealFile filters out directory markers and zero-length placeholders.
func isRealFile(entry *zip.File) bool {
	if entry.FileInfo().IsDir() || strings.HasSuffix(entry.Name, "/") {
		return false
	}
	return entry.UncompressedSize64 > 0
}

func readEntry(entry *zip.File) ([]byte, error) {
	rc, err := entry.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: cannot open entry '%s': %s", ErrArchiveFormat, entry.Name, err)
	}
	defer func() { _ = rc.Close() }()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot read entry '%s': %s", ErrArchiveFormat, entry.Name, err)
	}
	return data, nil
}
