// backend/src/parsers/parser.go
package parsers

import (
	"fmt"
	"io"
	"strings"

	"github.com/username/finansdefter/backend/src/models"
	"github.com/username/finansdefter/backend/src/parsers/delimited"
	"github.com/username/finansdefter/backend/src/parsers/excel"
)

// Parser turns an uploaded spreadsheet into header-keyed rows.
type Parser interface {
	Parse(file io.Reader) ([]models.ImportRow, error)
}

// GetParser returns the parser for a detected file format ("xlsx" or "csv").
func GetParser(format string) (Parser, error) {
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "xlsx", "xlsm":
		return excel.NewParser(), nil
	case "csv", "txt":
		return delimited.NewParser(), nil
	}
	return nil, fmt.Errorf("unsupported file format '%s'", format)
}
