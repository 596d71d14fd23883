// Package docparse extracts text and metadata from uploaded resume
// documents. PDF and DOCX are the supported formats; anything else is
// rejected before analysis starts.
package docparse

import (
	"bytes"
	"fmt"
	"strings"
)

// Supported MIME types.
const (
	MIMEPDF  = "application/pdf"
	MIMEDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MIMEZIP  = "application/zip"
)

// Metadata holds the document properties read from a PDF info dictionary or
// DOCX core properties. Absent fields stay empty.
type Metadata struct {
	Title            string
	Author           string
	Subject          string
	Keywords         string
	Creator          string
	Producer         string
	CreationDate     string
	ModificationDate string
	PageCount        int
	PDFVersion       string
	Encrypted        bool
	SoftwareUsed     string
}

// DetectMIME sniffs the document type from magic bytes, falling back to the
// filename extension to split DOCX from plain ZIP archives.
func DetectMIME(content []byte, filename string) string {
	switch {
	case bytes.HasPrefix(content, []byte("%PDF")):
		return MIMEPDF
	case bytes.HasPrefix(content, []byte("PK\x03\x04")):
		if strings.HasSuffix(strings.ToLower(filename), ".docx") {
			return MIMEDOCX
		}
		return MIMEZIP
	default:
		return "application/octet-stream"
	}
}

// ExtractText returns the plain text of a PDF or DOCX document.
func ExtractText(content []byte, filename string) (string, error) {
	switch DetectMIME(content, filename) {
	case MIMEPDF:
		return pdfText(content)
	case MIMEDOCX:
		return docxText(content)
	default:
		return "", fmt.Errorf("unsupported document type for %q", filename)
	}
}

// ExtractMetadata returns the document properties of a PDF or DOCX document.
// Extraction is best effort: a malformed properties section yields partial
// metadata, not an error.
func ExtractMetadata(content []byte, filename string) (Metadata, error) {
	switch DetectMIME(content, filename) {
	case MIMEPDF:
		return pdfMetadata(content), nil
	case MIMEDOCX:
		return docxMetadata(content), nil
	default:
		return Metadata{}, fmt.Errorf("unsupported document type for %q", filename)
	}
}
