package organization

import (
	"path/filepath"
	"strings"

	"github.com/invoicedesk/backend/internal/domain/shared"
)

// MaxLogoSize is the largest accepted logo upload in bytes (2MB)
const MaxLogoSize int64 = 2 * 1024 * 1024

var logoContentTypes = map[string]string{
	"png":  "image/png",
	"jpeg": "image/jpeg",
	"jpg":  "image/jpeg",
	"webp": "image/webp",
}

// Logo validation errors carry the message shown to the user
var (
	ErrInvalidLogoType = shared.NewDomainError("INVALID_LOGO_TYPE", "Logo must be a PNG, JPEG or WebP image")
	ErrLogoTooLarge    = shared.NewDomainError("LOGO_TOO_LARGE", "Logo must be 2MB or smaller")
	ErrEmptyLogo       = shared.NewDomainError("EMPTY_LOGO", "Logo file is empty")
)

// ValidateLogo checks an upload before any storage call and returns the file
// extension and canonical content type to store it under.
func ValidateLogo(filename, contentType string, size int64) (ext string, canonicalType string, err error) {
	ext = strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	canonicalType, ok := logoContentTypes[ext]
	if !ok {
		return "", "", ErrInvalidLogoType
	}
	if ct := normalizeContentType(contentType); ct != "" && ct != canonicalType {
		return "", "", ErrInvalidLogoType
	}
	if size <= 0 {
		return "", "", ErrEmptyLogo
	}
	if size > MaxLogoSize {
		return "", "", ErrLogoTooLarge
	}
	if ext == "jpg" {
		ext = "jpeg"
	}
	return ext, canonicalType, nil
}

func normalizeContentType(ct string) string {
	ct = strings.ToLower(strings.TrimSpace(ct))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if ct == "image/jpg" {
		return "image/jpeg"
	}
	if ct == "application/octet-stream" {
		return ""
	}
	return ct
}
