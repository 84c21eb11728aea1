// backend/src/parsers/excel/parser.go
package excel

import (
	"fmt"
	"io"
	"strings"

	"github.com/username/finansdefter/backend/src/logger"
	"github.com/username/finansdefter/backend/src/models"
	"github.com/xuri/excelize/v2"
)

// ExcelParser reads the first worksheet of a workbook. The first row is the header;
// every following row becomes an ImportRow keyed by the header cells, blank rows included.
type ExcelParser struct{}

func NewParser() *ExcelParser {
	return &ExcelParser{}
}

func (p *ExcelParser) Parse(file io.Reader) ([]models.ImportRow, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, fmt.Errorf("excel parser: failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("excel parser: workbook has no sheets")
	}

	// Raw values keep long card numbers and amounts free of display formatting.
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("excel parser: failed to read sheet '%s': %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
	}

	result := make([]models.ImportRow, 0, len(rows)-1)
	for _, cells := range rows[1:] {
		result = append(result, models.NewImportRow(header, cells))
	}
	result = models.TrimTrailingBlank(result)

	logger.L.Debug("Workbook parsed", "sheet", sheets[0], "rows", len(result))
	return result, nil
}
