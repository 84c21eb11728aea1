package excel

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func workbook(t *testing.T, rows ...[]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestParseFirstSheet(t *testing.T) {
	buf := workbook(t,
		[]any{"Kart Numarası", "Kullanıcı", "Limit"},
		[]any{"4111111111111111", "Ayşe", 15000.5},
		[]any{nil, nil, nil},
		[]any{"5500000000000004", " Mehmet "},
	)

	rows, err := NewParser().Parse(buf)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "4111111111111111", rows[0]["Kart Numarası"])
	assert.Equal(t, "15000.5", rows[0]["Limit"])
	assert.Empty(t, rows[1])
	assert.Equal(t, "Mehmet", rows[2]["Kullanıcı"])
	_, hasLimit := rows[2]["Limit"]
	assert.False(t, hasLimit)
}

func TestParseHeaderOnly(t *testing.T) {
	rows, err := NewParser().Parse(workbook(t, []any{"Kod", "İsim"}))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestParseCorruptWorkbook(t *testing.T) {
	_, err := NewParser().Parse(bytes.NewReader([]byte("PK\x03\x04not really a zip")))
	assert.Error(t, err)
}
