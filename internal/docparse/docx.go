package docparse

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

const maxDocxPartSize = 32 << 20

// docxText extracts the text runs of word/document.xml. Paragraph boundaries
// become newlines so downstream claim extraction sees line structure.
func docxText(content []byte) (string, error) {
	part, err := docxPart(content, "word/document.xml")
	if err != nil {
		return "", err
	}

	var b strings.Builder
	dec := xml.NewDecoder(bytes.NewReader(part))
	inText := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("malformed DOCX document part: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				b.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}
	return b.String(), nil
}

type docxCoreProperties struct {
	Title    string `xml:"title"`
	Subject  string `xml:"subject"`
	Creator  string `xml:"creator"`
	Keywords string `xml:"keywords"`
	Created  string `xml:"created"`
	Modified string `xml:"modified"`
}

type docxAppProperties struct {
	Application string `xml:"Application"`
	Pages       int    `xml:"Pages"`
}

func docxMetadata(content []byte) Metadata {
	meta := Metadata{SoftwareUsed: "Microsoft Word"}

	if part, err := docxPart(content, "docProps/core.xml"); err == nil {
		var core docxCoreProperties
		if xml.Unmarshal(part, &core) == nil {
			meta.Title = core.Title
			meta.Subject = core.Subject
			meta.Author = core.Creator
			meta.Creator = core.Creator
			meta.Keywords = core.Keywords
			meta.CreationDate = core.Created
			meta.ModificationDate = core.Modified
		}
	}

	if part, err := docxPart(content, "docProps/app.xml"); err == nil {
		var app docxAppProperties
		if xml.Unmarshal(part, &app) == nil {
			if app.Application != "" {
				meta.SoftwareUsed = app.Application
			}
			meta.PageCount = app.Pages
		}
	}

	return meta
}

// docxPart reads one named entry from the DOCX zip container.
func docxPart(content []byte, name string) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("failed to open DOCX container: %w", err)
	}
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", name, err)
		}
		defer func() { _ = rc.Close() }()
		data, err := io.ReadAll(io.LimitReader(rc, maxDocxPartSize))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("DOCX container has no %s", name)
}

// HasEntry reports whether the DOCX zip container holds an entry whose name
// contains needle. Used by the security scanner to spot macro payloads.
func HasEntry(content []byte, needle string) bool {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return false
	}
	for _, f := range zr.File {
		if strings.Contains(f.Name, needle) {
			return true
		}
	}
	return false
}
