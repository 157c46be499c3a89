// Package storage provides object storage for organization logos and invoice files.
package storage

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
)

var errKeyRequired = errors.New("storage key is required")

// LogoKey builds the object key of a new logo for an organization
func LogoKey(organizationID uuid.UUID, ext string) string {
	return fmt.Sprintf("organizations/%s/logo-%s.%s", organizationID, uuid.New(), strings.TrimPrefix(ext, "."))
}

// InvoiceFileKey builds the object key of an uploaded invoice document
func InvoiceFileKey(organizationID uuid.UUID, filename string) string {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(filename), "."))
	if ext == "" {
		ext = "bin"
	}
	return fmt.Sprintf("organizations/%s/invoices/%s.%s", organizationID, uuid.New(), ext)
}

// publicURL joins a base URL and an object key
func publicURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}

// keyFromURL strips base from rawURL. It reports false for URLs outside base.
func keyFromURL(base, rawURL string) (string, bool) {
	if base == "" || rawURL == "" {
		return "", false
	}
	prefix := strings.TrimRight(base, "/") + "/"
	if !strings.HasPrefix(rawURL, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(rawURL, prefix)
	if i := strings.IndexAny(key, "?#"); i >= 0 {
		key = key[:i]
	}
	return key, key != ""
}
