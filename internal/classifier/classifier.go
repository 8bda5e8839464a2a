package classifier

import (
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// textRootMIME is the mimetype tree node every textual format descends from.
const textRootMIME = "text/plain"

var (
	// fileIndicators are content type fragments that mark binary payloads.
	//nolint:gochecknoglobals // Immutable lookup table used as a constant.
	fileIndicators = []string{
		"octet-stream",
		"image",
		"audio",
		"video",
		"pdf",
		"zip",
		"gzip",
		"x-tar",
		"x-7z",
		"x-rar",
		"font",
		"multipart",
		"protobuf",
		"wasm",
		"msword",
		"vnd.ms-",
		"vnd.openxmlformats",
	}

	// textIndicators are content type fragments that mark textual payloads.
	//nolint:gochecknoglobals // Immutable lookup table used as a constant.
	textIndicators = []string{
		"json",
		"xml",
		"html",
		"plain",
		"text",
		"javascript",
		"x-www-form-urlencoded",
		"csv",
		"yaml",
		"graphql",
	}
)

// IsFileRequest reports whether a payload with the given content type should be
// treated as a file. The argument may be a full media type with parameters
// ("application/json; charset=utf-8") or a bare subtype ("json").
// An empty content type is not a file, so bodies sent without a
// Content-Type header are still logged as text.
func IsFileRequest(contentType string) bool {
	normalized := normalize(contentType)
	if normalized == "" {
		return false
	}

	if containsAny(normalized, fileIndicators) {
		return true
	}

	if containsAny(normalized, textIndicators) {
		return false
	}

	return !isTextMIME(normalized)
}

// normalize lowercases the content type and strips its parameters.
func normalize(contentType string) string {
	mediaType, _, _ := strings.Cut(contentType, ";")

	return strings.ToLower(strings.TrimSpace(mediaType))
}

func containsAny(value string, fragments []string) bool {
	for _, fragment := range fragments {
		if strings.Contains(value, fragment) {
			return true
		}
	}

	return false
}

// isTextMIME walks the mimetype hierarchy looking for a textual ancestor.
func isTextMIME(mediaType string) bool {
	for node := mimetype.Lookup(mediaType); node != nil; node = node.Parent() {
		if node.Is(textRootMIME) {
			return true
		}
	}

	return false
}
