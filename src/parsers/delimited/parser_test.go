package delimited

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSemicolonWithBOM(t *testing.T) {
	input := "\xEF\xBB\xBFKod;İsim;Bakiye\nB1;Ana Hesap;\"1.250,75\"\n;;\nB2;Yedek\n"
	rows, err := NewParser().Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "B1", rows[0]["Kod"])
	assert.Equal(t, "1.250,75", rows[0]["Bakiye"])
	assert.Empty(t, rows[1])
	assert.Equal(t, "Yedek", rows[2]["İsim"])
}

func TestParseKeepsBlankLinePositions(t *testing.T) {
	input := "Kod;İsim\nB1;Ana\n\n\nB2;\"iki\nsatır\"\n\nB3;Son\n\n"
	rows, err := NewParser().Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 6)
	assert.Equal(t, "B1", rows[0]["Kod"])
	assert.Empty(t, rows[1])
	assert.Empty(t, rows[2])
	assert.Equal(t, "B2", rows[3]["Kod"])
	assert.Equal(t, "iki\nsatır", rows[3]["İsim"])
	assert.Empty(t, rows[4])
	assert.Equal(t, "Son", rows[5]["İsim"])
}

func TestParseHeaderOnly(t *testing.T) {
	rows, err := NewParser().Parse(strings.NewReader("Kod;İsim\n\n\n"))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestParseComma(t *testing.T) {
	rows, err := NewParser().Parse(strings.NewReader("Kod,İsim\nC1,Acme\n"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Acme", rows[0]["İsim"])
}

func TestParseEmpty(t *testing.T) {
	rows, err := NewParser().Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, rows)
}
