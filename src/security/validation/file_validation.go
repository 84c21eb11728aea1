package validation

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/username/finansdefter/backend/src/logger"
)

// xlsxMagic is the local file header signature of a ZIP container, which is what an .xlsx file is.
var xlsxMagic = []byte("PK\x03\x04")

// AllowedClientContentTypes is a map for quick lookup of allowed client-declared MIME types.
var AllowedClientContentTypes = map[string]bool{
	"text/csv":                 true,
	"application/csv":          true,
	"text/plain":               true,
	"application/zip":          true,
	"application/vnd.ms-excel": true,
	"application/octet-stream": true, // some browsers send this for .xlsx
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
}

// ValidateClientContentType checks the Content-Type header provided by the client.
func ValidateClientContentType(contentType string) error {
	ct := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	if ct == "" {
		return nil
	}
	if !AllowedClientContentTypes[ct] {
		logger.L.Warn("Disallowed client-declared Content-Type", "contentType", contentType)
		return fmt.Errorf("client-declared file type '%s' is not allowed for spreadsheet upload", contentType)
	}
	return nil
}

// isBinaryContent checks if a buffer contains null bytes or invalid UTF-8.
func isBinaryContent(buf []byte) bool {
	if bytes.IndexByte(buf, 0) != -1 {
		return true
	}
	return !utf8.Valid(buf)
}

// trimPartialRune drops a multi-byte character cut off at the end of a read buffer.
func trimPartialRune(buf []byte) []byte {
	for i := len(buf) - 1; i >= 0 && i >= len(buf)-utf8.UTFMax; i-- {
		if utf8.RuneStart(buf[i]) {
			if !utf8.FullRune(buf[i:]) {
				return buf[:i]
			}
			break
		}
	}
	return buf
}

// ValidateFileContentByMagicBytes inspects the first bytes of an upload. A ZIP signature
// is accepted as a workbook; anything else must be plain text for the delimited parser.
// It returns "xlsx" or "csv".
func ValidateFileContentByMagicBytes(file io.ReadSeeker) (string, error) {
	if file == nil {
		return "", fmt.Errorf("file is nil")
	}

	buffer := make([]byte, 1024)
	n, err := io.ReadFull(file, buffer)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", fmt.Errorf("failed to read file for content type checking: %w", err)
	}

	// Reset the read pointer so the parser sees the full file.
	if _, seekErr := file.Seek(0, io.SeekStart); seekErr != nil {
		return "", fmt.Errorf("failed to reset file read pointer: %w", seekErr)
	}

	if n == 0 {
		return "", fmt.Errorf("file is empty")
	}

	if bytes.HasPrefix(buffer[:n], xlsxMagic) {
		logger.L.Debug("File content validated as workbook")
		return "xlsx", nil
	}

	sample := buffer[:n]
	if n == len(buffer) {
		sample = trimPartialRune(sample)
	}

	if isBinaryContent(sample) {
		logger.L.Warn("File rejected: binary content that is not a workbook")
		return "", fmt.Errorf("file is neither a workbook nor a text file")
	}

	detected := strings.ToLower(strings.Split(http.DetectContentType(sample), ";")[0])
	switch detected {
	case "text/plain", "text/csv", "application/csv":
		logger.L.Debug("File content validated as text", "detectedContentType", detected)
		return "csv", nil
	}
	logger.L.Warn("Disallowed detected file content type", "detectedContentType", detected)
	return "", fmt.Errorf("detected file content type '%s' is not allowed", detected)
}
