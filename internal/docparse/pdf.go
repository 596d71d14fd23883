package docparse

import (
	"bytes"
	"fmt"
	"io"
	"regexp"

	"github.com/ledongthuc/pdf"
)

// pdfText extracts the plain text of every page. The pdf package panics on
// some malformed files, so the whole read runs under a recover.
func pdfText(content []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed PDF: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to read PDF text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", fmt.Errorf("failed to read PDF text: %w", err)
	}
	return buf.String(), nil
}

var (
	pdfVersionRe = regexp.MustCompile(`^%PDF-(\d\.\d)`)

	// Info-dictionary entries as literal strings. Scanning the raw bytes
	// tolerates files whose cross-reference tables the reader rejects.
	pdfInfoRes = map[string]*regexp.Regexp{
		"Title":        regexp.MustCompile(`/Title\s*\(([^)]*)\)`),
		"Author":       regexp.MustCompile(`/Author\s*\(([^)]*)\)`),
		"Subject":      regexp.MustCompile(`/Subject\s*\(([^)]*)\)`),
		"Keywords":     regexp.MustCompile(`/Keywords\s*\(([^)]*)\)`),
		"Creator":      regexp.MustCompile(`/Creator\s*\(([^)]*)\)`),
		"Producer":     regexp.MustCompile(`/Producer\s*\(([^)]*)\)`),
		"CreationDate": regexp.MustCompile(`/CreationDate\s*\(([^)]*)\)`),
		"ModDate":      regexp.MustCompile(`/ModDate\s*\(([^)]*)\)`),
	}

	pdfPageRe = regexp.MustCompile(`/Type\s*/Page[^s]`)
)

func pdfMetadata(content []byte) Metadata {
	meta := Metadata{}

	if m := pdfVersionRe.FindSubmatch(content); m != nil {
		meta.PDFVersion = string(m[1])
	}
	meta.Encrypted = bytes.Contains(content, []byte("/Encrypt"))

	fields := make(map[string]string, len(pdfInfoRes))
	for name, re := range pdfInfoRes {
		if m := re.FindSubmatch(content); m != nil {
			fields[name] = string(m[1])
		}
	}
	meta.Title = fields["Title"]
	meta.Author = fields["Author"]
	meta.Subject = fields["Subject"]
	meta.Keywords = fields["Keywords"]
	meta.Creator = fields["Creator"]
	meta.Producer = fields["Producer"]
	meta.CreationDate = fields["CreationDate"]
	meta.ModificationDate = fields["ModDate"]

	meta.PageCount = pdfPageCount(content)

	if meta.Producer != "" {
		meta.SoftwareUsed = meta.Producer
	} else if meta.Creator != "" {
		meta.SoftwareUsed = meta.Creator
	}
	return meta
}

// pdfPageCount prefers the parsed page tree and falls back to counting page
// objects in the raw bytes.
func pdfPageCount(content []byte) (n int) {
	defer func() {
		if recover() != nil {
			n = len(pdfPageRe.FindAll(content, -1))
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return len(pdfPageRe.FindAll(content, -1))
	}
	return reader.NumPage()
}
