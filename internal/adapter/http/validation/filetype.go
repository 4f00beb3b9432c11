// Package validation checks uploaded media and submitted transcripts before
// they reach the job service.
package validation

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/bnema/scribe/internal/domain"
	"github.com/dustin/go-humanize"
)

// DefaultMaxUploadSize suits multi-hour podcast recordings.
const DefaultMaxUploadSize int64 = 3 << 30

// allowedExtensions is the ordered allowlist reported back to clients.
var allowedExtensions = []string{
	".mp3", ".wav", ".m4a", ".flac", ".ogg", ".webm",
	".mp4", ".mpeg", ".mov", ".avi", ".mkv", ".m4v",
}

// allowedMIMETypes is the allowlist for the client-declared content type.
var allowedMIMETypes = []string{
	"audio/mpeg", "audio/mp3", "audio/wav", "audio/m4a", "audio/flac", "audio/ogg", "audio/webm",
	"video/mp4", "video/mpeg", "video/quicktime", "video/x-msvideo", "video/webm", "video/x-matroska", "video/avi",
	// Some browsers send this for media files
	"application/octet-stream",
}

// ValidateUploadName checks the client-declared filename extension and
// content type of an upload. It needs only the part headers, so callers run
// it before reading the body. An empty declared type is accepted.
func ValidateUploadName(filename, declaredType string) error {
	if filename == "" {
		return domain.NewValidationError("file", "Invalid file: missing filename or data")
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !contains(allowedExtensions, ext) {
		return domain.NewValidationError("file", "Invalid file type: %s. Allowed: %s",
			ext, strings.Join(allowedExtensions, ", "))
	}

	if declaredType != "" {
		mt, _, err := mime.ParseMediaType(declaredType)
		if err != nil || !contains(allowedMIMETypes, strings.ToLower(mt)) {
			return domain.NewValidationError("file", "Invalid MIME type: %s. Allowed: %s",
				declaredType, strings.Join(allowedMIMETypes, ", "))
		}
	}

	return nil
}

// ValidateUploadSize checks the number of bytes received against maxSize,
// or DefaultMaxUploadSize when maxSize is not positive.
func ValidateUploadSize(size, maxSize int64) error {
	if maxSize <= 0 {
		maxSize = DefaultMaxUploadSize
	}
	if size > maxSize {
		return domain.NewValidationError("file", "File too large: %s. Maximum allowed: %s",
			humanize.IBytes(uint64(size)), humanize.IBytes(uint64(maxSize)))
	}
	if size == 0 {
		return domain.NewValidationError("file", "File is empty")
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// magicBytesBufferSize is the number of bytes to read for content type detection.
const magicBytesBufferSize = 512

// ValidateMagicBytes validates a file's content type by reading its magic bytes.
// It uses http.DetectContentType for standard detection and includes custom
// detection for formats not well-supported by the standard library.
//
// Audio and video types are allowed. Unrecognized binary content reported as
// application/octet-stream is allowed as well, since several containers
// (Matroska variants, raw AAC) have no signature the detector knows; text,
// images, archives and executables are rejected.
//
// The reader is reset to the beginning before returning.
func ValidateMagicBytes(reader io.ReadSeeker) (mime string, allowed bool, err error) {
	buf := make([]byte, magicBytesBufferSize)
	n, err := io.ReadFull(reader, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", false, err
	}

	if _, err := reader.Seek(0, io.SeekStart); err != nil {
		return "", false, err
	}

	if n == 0 {
		return "application/octet-stream", false, nil
	}
	buf = buf[:n]

	mime = detectCustomMagicBytes(buf)
	if mime == "" {
		mime = http.DetectContentType(buf)
	}

	return mime, isMediaType(mime), nil
}

func isMediaType(mime string) bool {
	switch {
	case strings.HasPrefix(mime, "audio/"), strings.HasPrefix(mime, "video/"):
		return true
	case mime == "application/ogg", mime == "application/octet-stream":
		return true
	}
	return false
}

// detectCustomMagicBytes handles detection of file types that http.DetectContentType
// may not recognize correctly.
func detectCustomMagicBytes(buf []byte) string {
	if len(buf) < 4 {
		return ""
	}

	// WebM/Matroska: EBML header (0x1A 0x45 0xDF 0xA3)
	if buf[0] == 0x1A && buf[1] == 0x45 && buf[2] == 0xDF && buf[3] == 0xA3 {
		return "video/webm"
	}

	// FLAC: starts with "fLaC"
	if buf[0] == 'f' && buf[1] == 'L' && buf[2] == 'a' && buf[3] == 'C' {
		return "audio/flac"
	}

	// MPEG audio frame sync without an ID3 tag
	if buf[0] == 0xFF {
		switch buf[1] & 0xFE {
		case 0xFA, 0xF2: // MPEG1/2 Layer 3
			return "audio/mpeg"
		}
	}

	// ID3 tag (common for MP3): starts with "ID3"
	if buf[0] == 'I' && buf[1] == 'D' && buf[2] == '3' {
		return "audio/mpeg"
	}

	// Executables have no media container and must not be mistaken for
	// unrecognized binary media.
	if buf[0] == 'M' && buf[1] == 'Z' {
		return "application/x-msdownload"
	}
	if buf[0] == 0x7F && buf[1] == 'E' && buf[2] == 'L' && buf[3] == 'F' {
		return "application/x-executable"
	}

	// MP4/QuickTime: ftyp box at offset 4 (bytes 4-7: "ftyp")
	// The format is: [4 bytes size][4 bytes "ftyp"][brand...]
	if len(buf) >= 12 && buf[4] == 'f' && buf[5] == 't' && buf[6] == 'y' && buf[7] == 'p' {
		switch string(buf[8:12]) {
		case "M4A ", "M4B ":
			return "audio/mp4"
		case "qt  ":
			return "video/quicktime"
		default:
			return "video/mp4"
		}
	}

	return ""
}
