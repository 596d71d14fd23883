package docparse

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildDocx(t *testing.T, parts map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range parts {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestDetectMIME(t *testing.T) {
	assert.Equal(t, MIMEPDF, DetectMIME([]byte("%PDF-1.7 rest"), "resume.pdf"))
	assert.Equal(t, MIMEDOCX, DetectMIME([]byte("PK\x03\x04rest"), "resume.docx"))
	assert.Equal(t, MIMEZIP, DetectMIME([]byte("PK\x03\x04rest"), "resume.zip"))
	assert.Equal(t, "application/octet-stream", DetectMIME([]byte("MZ\x90\x00"), "resume.pdf"))
}

func TestDocxText(t *testing.T) {
	doc := buildDocx(t, map[string]string{
		"word/document.xml": `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>
    <w:p><w:r><w:t>Senior Engineer at </w:t></w:r><w:r><w:t>Acme Robotics</w:t></w:r></w:p>
  </w:body>
</w:document>`,
	})

	text, err := ExtractText(doc, "resume.docx")
	require.NoError(t, err)
	assert.Contains(t, text, "Jane Doe\n")
	assert.Contains(t, text, "Senior Engineer at Acme Robotics")
}

func TestDocxMetadata(t *testing.T) {
	doc := buildDocx(t, map[string]string{
		"docProps/core.xml": `<?xml version="1.0"?>
<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties"
 xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/">
  <dc:title>Resume</dc:title>
  <dc:creator>Jane Doe</dc:creator>
  <dcterms:created>2024-03-01T10:00:00Z</dcterms:created>
  <dcterms:modified>2024-03-02T11:00:00Z</dcterms:modified>
</cp:coreProperties>`,
		"docProps/app.xml": `<?xml version="1.0"?>
<Properties xmlns="http://schemas.openxmlformats.org/officeDocument/2006/extended-properties">
  <Application>LibreOffice 7.6</Application>
  <Pages>2</Pages>
</Properties>`,
	})

	meta, err := ExtractMetadata(doc, "resume.docx")
	require.NoError(t, err)
	assert.Equal(t, "Resume", meta.Title)
	assert.Equal(t, "Jane Doe", meta.Author)
	assert.Equal(t, "2024-03-01T10:00:00Z", meta.CreationDate)
	assert.Equal(t, "LibreOffice 7.6", meta.SoftwareUsed)
	assert.Equal(t, 2, meta.PageCount)
}

func TestDocxMetadataMissingPartsDegrade(t *testing.T) {
	doc := buildDocx(t, map[string]string{
		"word/document.xml": `<w:document xmlns:w="x"><w:body/></w:document>`,
	})
	meta, err := ExtractMetadata(doc, "resume.docx")
	require.NoError(t, err)
	assert.Equal(t, "Microsoft Word", meta.SoftwareUsed)
	assert.Empty(t, meta.Author)
}

func TestPDFMetadataFromRawBytes(t *testing.T) {
	raw := []byte("%PDF-1.7\n" +
		"1 0 obj << /Title (Resume) /Author (Jane Doe) /Producer (LaTeX with hyperref) " +
		"/CreationDate (D:20240301100000Z) >> endobj\n" +
		"2 0 obj << /Type /Page >> endobj\n" +
		"%%EOF")

	meta, err := ExtractMetadata(raw, "resume.pdf")
	require.NoError(t, err)
	assert.Equal(t, "1.7", meta.PDFVersion)
	assert.Equal(t, "Resume", meta.Title)
	assert.Equal(t, "Jane Doe", meta.Author)
	assert.Equal(t, "LaTeX with hyperref", meta.SoftwareUsed)
	assert.False(t, meta.Encrypted)
}

func TestPDFMetadataEncryptedFlag(t *testing.T) {
	raw := []byte("%PDF-1.4\ntrailer << /Encrypt 5 0 R >>\n%%EOF")
	meta, err := ExtractMetadata(raw, "resume.pdf")
	require.NoError(t, err)
	assert.True(t, meta.Encrypted)
}

func TestExtractTextUnsupportedType(t *testing.T) {
	_, err := ExtractText([]byte("plain text"), "resume.txt")
	assert.Error(t, err)
}

func TestHasEntry(t *testing.T) {
	doc := buildDocx(t, map[string]string{
		"word/vbaProject.bin": "macro payload",
	})
	assert.True(t, HasEntry(doc, "vbaProject.bin"))
	assert.False(t, HasEntry(doc, "settings.xml"))
	assert.False(t, HasEntry([]byte("not a zip"), "vbaProject.bin"))
}
