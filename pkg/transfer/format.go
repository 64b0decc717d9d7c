package transfer

import "strings"

// ResolveMode decides the transfer mode for one request. A non-empty media-type
// hint is authoritative: a case-insensitive match against the archive media
// type selects archive mode, anything else selects single-document mode, and
// any filename suffix is ignored. Without a hint the filename suffix decides;
// without either the mode defaults to single-document.
func ResolveMode(filenameHint, mediaTypeHint string) TransferMode {
	if hint := normalizeMediaType(mediaTypeHint); hint != "" {
		if strings.EqualFold(hint, ArchiveMediaType) {
			return ModeArchive
		}
		return ModeSingleDocument
	}

	_, suffix := SplitTarget(filenameHint)
	if strings.EqualFold(suffix, ArchiveExtension) {
		return ModeArchive
	}
	return ModeSingleDocument
}

// SplitTarget splits a target filename on its last '.' into a base identifier
// and a suffix. A name without a '.' yields an empty suffix.
func SplitTarget(targetFile string) (base, suffix string) {
	idx := strings.LastIndex(targetFile, ".")
	if idx < 0 {
		return targetFile, ""
	}
	return targetFile[:idx], targetFile[idx+1:]
}

// normalizeMediaType trims whitespace and strips any media-type parameters
// such as "; charset=utf-8".
func normalizeMediaType(mediaType string) string {
	if idx := strings.Index(mediaType, ";"); idx >= 0 {
		mediaType = mediaType[:idx]
	}
	return strings.TrimSpace(mediaType)
}

// ComponentFilter is a caller-supplied allow-list restricting which parts of a
// definition are exported. A nil filter means "export everything".
type ComponentFilter []string

// ParseComponentFilter parses the comma-separated wire form of a component
// filter, trimming whitespace around each selector and dropping empty tokens.
// An input that is empty after trimming yields a nil filter.
func ParseComponentFilter(components string) ComponentFilter {
	if strings.TrimSpace(components) == "" {
		return nil
	}

	parts := strings.Split(components, ",")
	filter := make(ComponentFilter, 0, len(parts))
	for _, part := range parts {
		if selector := strings.TrimSpace(part); selector != "" {
			filter = append(filter, selector)
		}
	}
	if len(filter) == 0 {
		return nil
	}
	return filter
}

// Contains reports whether the filter allows the given component selector.
// A nil filter allows everything.
func (cf ComponentFilter) Contains(selector string) bool {
	if cf == nil {
		return true
	}
	for _, s := range cf {
		if strings.EqualFold(s, selector) {
			return true
		}
	}
	return false
}
