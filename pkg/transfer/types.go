// Package transfer contains the representation-negotiation and packing core
// for moving application definitions between environments. A definition is
// held in memory as an ordered collection of named text documents; the package
// decides whether a request is single-document or archive shaped, and converts
// between the canonical collection and its wire form in either direction.
package transfer

import (
	"errors"
	"fmt"
)

// Wire-format constants shared by the export and import paths.
const (
	// ArchiveExtension is the filename suffix that selects archive mode.
	ArchiveExtension = "zip"
	// DocumentExtension is the filename suffix given to single-document exports.
	DocumentExtension = "sql"

	// ArchiveMediaType is the declared media type of a packed definition.
	ArchiveMediaType = "application/zip"
	// DocumentMediaType is the declared media type of a single-document export.
	DocumentMediaType = "application/sql"

	// DefaultDocumentName is the conventional name given to a single-document
	// upload, which arrives without any filename of its own.
	DefaultDocumentName = "install.sql"
)

// TransferMode identifies the wire representation of one transfer request.
// It is derived per request, never stored.
type TransferMode string

const (
	// ModeSingleDocument transfers the whole definition as one textual script.
	ModeSingleDocument TransferMode = "SINGLE_DOCUMENT"
	// ModeArchive transfers the definition split across named archive entries.
	ModeArchive TransferMode = "ARCHIVE"
)

// ExportFile is one named unit of an application definition. The name includes
// its extension; the contents are always text.
type ExportFile struct {
	Name     string
	Contents string
}

// FileCollection is an ordered sequence of export files. Order matters for
// deterministic archive layout. Names must be unique within a collection.
type FileCollection []ExportFile

// Validate checks the collection invariants: at least one entry, no duplicate
// names, no empty names.
func (fc FileCollection) Validate() error {
	if len(fc) == 0 {
		return errors.New("file collection must contain at least one entry")
	}
	seen := make(map[string]struct{}, len(fc))
	for _, f := range fc {
		if f.Name == "" {
			return errors.New("file collection contains an entry with an empty name")
		}
		if _, ok := seen[f.Name]; ok {
			return fmt.Errorf("file collection contains duplicate entry '%s'", f.Name)
		}
		seen[f.Name] = struct{}{}
	}
	return nil
}

// Names returns the entry names in collection order.
func (fc FileCollection) Names() []string {
	names := make([]string, 0, len(fc))
	for _, f := range fc {
		names = append(names, f.Name)
	}
	return names
}
