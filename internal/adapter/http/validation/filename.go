package validation

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// maxFilenameLength is the maximum allowed filename length (common filesystem limit).
const maxFilenameLength = 200

// defaultUploadName is used when nothing usable is left of the client's name.
const defaultUploadName = "video"

// unsafeRuns matches every run of characters outside [A-Za-z0-9_.-].
var unsafeRuns = regexp.MustCompile(`[^\w.-]+`)

// SanitizeUploadName turns a client-supplied filename into a name safe to
// store on disk. Accents are folded to their base letters first so that
// "vidéo.mp4" becomes "video.mp4" rather than "vid_o.mp4"; every remaining
// run of characters outside [A-Za-z0-9_.-] becomes a single underscore.
// Path components are dropped and the result never starts with a dot.
func SanitizeUploadName(name string) string {
	name = strings.ReplaceAll(name, `\`, "/")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}

	folded, _, err := transform.String(foldAccents(), name)
	if err != nil {
		folded = name
	}

	result := unsafeRuns.ReplaceAllString(folded, "_")
	result = strings.TrimLeft(result, ".")

	if result == "" || isOnlyUnderscores(result) {
		return defaultUploadName
	}

	if len(result) > maxFilenameLength {
		result = truncatePreservingExtension(result)
	}

	return result
}

// foldAccents decomposes characters and drops combining marks. A fresh
// transformer is returned per call because transformers keep state.
func foldAccents() transform.Transformer {
	return transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

// isOnlyUnderscores returns true if the string contains only underscores.
func isOnlyUnderscores(s string) bool {
	for _, r := range s {
		if r != '_' {
			return false
		}
	}
	return true
}

// truncatePreservingExtension truncates a filename to maxFilenameLength while
// preserving the file extension if possible.
func truncatePreservingExtension(name string) string {
	ext := filepath.Ext(name)
	extLen := len(ext)

	// If extension is too long or there's no extension, just truncate
	if extLen == 0 || extLen >= maxFilenameLength {
		return truncateToBytes(name, maxFilenameLength)
	}

	maxBaseLen := maxFilenameLength - extLen
	baseName := name[:len(name)-extLen]

	return truncateToBytes(baseName, maxBaseLen) + ext
}

// truncateToBytes truncates a UTF-8 string to at most maxBytes bytes,
// ensuring we don't cut in the middle of a multi-byte character.
func truncateToBytes(s string, maxBytes int) string {
	if len(s) <= maxBytes {
		return s
	}

	for maxBytes > 0 && !utf8.ValidString(s[:maxBytes]) {
		maxBytes--
	}

	return s[:maxBytes]
}
