package domain

import (
	"path/filepath"
	"strings"
)

// UploadedFile is a file received from a client, fully buffered in memory.
type UploadedFile struct {
	FileName    string
	ContentType string
	Data        []byte
}

// Extension returns the lower-cased file extension without the dot.
func (f UploadedFile) Extension() string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(f.FileName)), ".")
}

// Size returns the number of bytes received.
func (f UploadedFile) Size() int {
	return len(f.Data)
}
