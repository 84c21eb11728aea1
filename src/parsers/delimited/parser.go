// backend/src/parsers/delimited/parser.go
package delimited

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/username/finansdefter/backend/src/models"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DelimitedParser reads CSV exports. Turkish locale spreadsheets save with ';',
// so the delimiter is picked from the header line.
type DelimitedParser struct{}

func NewParser() *DelimitedParser {
	return &DelimitedParser{}
}

func (p *DelimitedParser) Parse(file io.Reader) ([]models.ImportRow, error) {
	br := bufio.NewReader(file)
	if bom, err := br.Peek(3); err == nil && bytes.Equal(bom, utf8BOM) {
		br.Discard(3)
	}

	firstLine, err := br.Peek(4096)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("delimited parser: failed to read header: %w", err)
	}

	reader := csv.NewReader(br)
	reader.Comma = detectDelimiter(string(firstLine))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("delimited parser: failed to read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	// Lines the csv reader skips are blank sheet rows; pad them back in so row
	// positions match the file.
	lastLine, _ := reader.FieldPos(len(header) - 1)
	var rows []models.ImportRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("delimited parser: failed to read records: %w", err)
		}
		line, _ := reader.FieldPos(0)
		for ; lastLine+1 < line; lastLine++ {
			rows = append(rows, models.ImportRow{})
		}
		rows = append(rows, models.NewImportRow(header, record))

		last := len(record) - 1
		lastLine, _ = reader.FieldPos(last)
		lastLine += strings.Count(record[last], "\n")
	}
	return models.TrimTrailingBlank(rows), nil
}

func detectDelimiter(sample string) rune {
	if i := strings.IndexByte(sample, '\n'); i >= 0 {
		sample = sample[:i]
	}
	best, bestCount := ',', strings.Count(sample, ",")
	for _, d := range []rune{';', '\t'} {
		if n := strings.Count(sample, string(d)); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}
