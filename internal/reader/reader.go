// Package reader extracts plain text from the supported document formats.
// Each reader produces raw text with blank lines between paragraphs, ready
// for the segmenter. A failed read is fatal to that load attempt only; the
// caller keeps whatever document was active before.
package reader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned for file extensions no reader handles.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// Extensions lists the supported file extensions, with leading dot.
var Extensions = []string{".txt", ".docx", ".pdf"}

// Read extracts the text of the document at path, dispatching on the file
// extension.
func Read(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt":
		return readText(path)
	case ".docx":
		return readDocx(path)
	case ".pdf":
		return readPDF(path)
	default:
		return "", fmt.Errorf("%w: %s (supported: %s)",
			ErrUnsupportedFormat, filepath.Ext(path), strings.Join(Extensions, ", "))
	}
}

func readText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read text file: %w", err)
	}
	return string(data), nil
}
