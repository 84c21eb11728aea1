package validation

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/username/finansdefter/backend/src/logger"
)

// Common XSS vectors. Output encoding on the client is the primary defense.
var xssPatternsRegex = regexp.MustCompile(
	`(?i)<script|onerror=|onmouseover=|onfocus=|onload=|javascript:|vbscript:|<iframe|<object|<embed|<applet|<style|<link|<img\s+src\s*=\s*['"]?\s*(javascript|data):`,
)

func truncateForLog(s string, maxLen int) string {
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	return s
}

// CheckXSSPatterns detects basic XSS patterns.
func CheckXSSPatterns(s, fieldName, contextID string) error {
	if xssPatternsRegex.MatchString(s) {
		errMsg := fmt.Sprintf("potential XSS pattern detected in field '%s'", fieldName)
		logger.L.Warn(errMsg, "contextID", contextID, "contentPreview", truncateForLog(s, 50))
		return fmt.Errorf("%w: %s", ErrValidationFailed, errMsg)
	}
	return nil
}

// ScanFields runs CheckXSSPatterns and the length limit over a set of named free-text
// fields, in field-name order so the first error is stable.
func ScanFields(fields map[string]string, maxLength int, contextID string) error {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := ValidateStringMaxLength(fields[name], maxLength, name); err != nil {
			return err
		}
		if err := CheckXSSPatterns(fields[name], name, contextID); err != nil {
			return err
		}
	}
	return nil
}
