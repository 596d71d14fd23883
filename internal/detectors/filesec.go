package detectors

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/daniel/resume-sentinel/internal/docparse"
	"github.com/daniel/resume-sentinel/internal/types"
)

// maxUploadSize is the hard limit on scanned files.
const maxUploadSize = 50 << 20

// suspiciousExtensions are file types that have no business being uploaded
// as a resume.
var suspiciousExtensions = map[string]struct{}{
	".exe": {}, ".bat": {}, ".cmd": {}, ".com": {}, ".pif": {}, ".scr": {},
	".vbs": {}, ".js": {}, ".jar": {}, ".ps1": {}, ".sh": {}, ".py": {},
	".php": {}, ".asp": {}, ".jsp": {}, ".aspx": {}, ".pl": {}, ".rb": {},
	".dll": {}, ".sys": {}, ".drv": {}, ".ocx": {}, ".cpl": {}, ".msi": {},
	".msp": {}, ".mst": {},
}

// executableSignatures are magic-byte prefixes of executable formats.
var executableSignatures = map[string]string{
	"MZ":               "PE executable",
	"\x7fELF":          "ELF executable",
	"\xca\xfe\xba\xbe": "Java class file",
}

// pdfActiveContentTokens are PDF features that can execute code or exfiltrate
// data when the document opens.
var pdfActiveContentTokens = []string{
	"/JavaScript", "/JS", "/OpenAction", "/Launch", "/EmbeddedFile", "/AA",
}

// SecurityScanner checks an uploaded file for threats before any other
// detector touches it.
type SecurityScanner struct {
	log zerolog.Logger
}

// NewSecurityScanner creates the scanner.
func NewSecurityScanner(log zerolog.Logger) *SecurityScanner {
	return &SecurityScanner{
		log: log.With().Str("detector", "file_security").Logger(),
	}
}

// Scan runs every check and returns the combined verdict. Any high-severity
// threat marks the file unsafe.
func (s *SecurityScanner) Scan(filename string, content []byte) types.SecurityScanResult {
	sum := sha256.Sum256(content)
	result := types.SecurityScanResult{
		IsSafe:   true,
		Threats:  []types.Threat{},
		Warnings: []types.Threat{},
		MIMEType: docparse.DetectMIME(content, filename),
		SHA256:   hex.EncodeToString(sum[:]),
	}

	if len(content) > maxUploadSize {
		result.Threats = append(result.Threats, types.Threat{
			Type:     "file_size",
			Severity: "high",
			Message:  fmt.Sprintf("file size (%d bytes) exceeds maximum allowed size (%d bytes)", len(content), maxUploadSize),
		})
	}
	if len(content) == 0 {
		result.Threats = append(result.Threats, types.Threat{
			Type:     "file_size",
			Severity: "high",
			Message:  "file is empty",
		})
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if _, bad := suspiciousExtensions[ext]; bad {
		result.Threats = append(result.Threats, types.Threat{
			Type:     "file_extension",
			Severity: "high",
			Message:  fmt.Sprintf("suspicious file extension %q", ext),
		})
	}

	for sig, kind := range executableSignatures {
		if bytes.HasPrefix(content, []byte(sig)) {
			result.Threats = append(result.Threats, types.Threat{
				Type:     "file_signature",
				Severity: "high",
				Message:  fmt.Sprintf("file signature indicates %s", kind),
			})
			break
		}
	}

	switch result.MIMEType {
	case docparse.MIMEPDF:
		result.Threats = append(result.Threats, scanPDFActiveContent(content)...)
	case docparse.MIMEDOCX:
		result.Threats = append(result.Threats, scanDocxMacros(content)...)
	}

	for _, threat := range result.Threats {
		if threat.Severity == "high" {
			result.IsSafe = false
			break
		}
	}
	// Medium findings stay warnings unless something high already tripped.
	if result.IsSafe {
		var remaining []types.Threat
		for _, threat := range result.Threats {
			if threat.Severity == "medium" {
				result.Warnings = append(result.Warnings, threat)
			} else {
				remaining = append(remaining, threat)
			}
		}
		result.Threats = remaining
		if result.Threats == nil {
			result.Threats = []types.Threat{}
		}
	}

	s.log.Info().
		Str("file", filename).
		Bool("safe", result.IsSafe).
		Int("threats", len(result.Threats)).
		Int("warnings", len(result.Warnings)).
		Msg("security scan completed")
	return result
}

// scanPDFActiveContent flags PDF tokens that trigger execution on open.
// Launch actions are treated as hard threats; the rest are warnings since
// legitimate resumes occasionally embed link actions.
func scanPDFActiveContent(content []byte) []types.Threat {
	var threats []types.Threat
	for _, token := range pdfActiveContentTokens {
		if !bytes.Contains(content, []byte(token)) {
			continue
		}
		severity := "medium"
		if token == "/Launch" || token == "/JavaScript" || token == "/JS" {
			severity = "high"
		}
		threats = append(threats, types.Threat{
			Type:     "pdf_active_content",
			Severity: severity,
			Message:  fmt.Sprintf("PDF contains %s token", token),
		})
	}
	return threats
}

// scanDocxMacros flags embedded VBA payloads. A macro-enabled document
// posing as .docx is always a threat.
func scanDocxMacros(content []byte) []types.Threat {
	var threats []types.Threat
	if docparse.HasEntry(content, "vbaProject.bin") {
		threats = append(threats, types.Threat{
			Type:     "office_macro",
			Severity: "high",
			Message:  "document contains an embedded VBA macro project",
		})
	}
	if docparse.HasEntry(content, "oleObject") {
		threats = append(threats, types.Threat{
			Type:     "office_embedded_object",
			Severity: "medium",
			Message:  "document contains an embedded OLE object",
		})
	}
	return threats
}
