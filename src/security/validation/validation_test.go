package validation

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCardNumber(t *testing.T) {
	assert.NoError(t, ValidateCardNumber("4111 1111 1111 1111"))
	assert.NoError(t, ValidateCardNumber("4111-1111-1111-1111"))
	assert.ErrorIs(t, ValidateCardNumber("4111 1111 1111 111"), ErrValidationFailed)
	assert.ErrorIs(t, ValidateCardNumber(""), ErrValidationFailed)
}

func TestValidateIBAN(t *testing.T) {
	assert.NoError(t, ValidateIBAN(""))
	assert.NoError(t, ValidateIBAN("TR12 0006 1005 1978 6457 8413 26"))
	assert.NoError(t, ValidateIBAN("120006100519786457841326"))
	assert.Error(t, ValidateIBAN("TR12 0006"))
	assert.Error(t, ValidateIBAN("TR12000610051978645784132X"))
}

func TestValidateExpiryAndDay(t *testing.T) {
	assert.NoError(t, ValidateExpiry("09/27"))
	assert.NoError(t, ValidateExpiry(""))
	assert.Error(t, ValidateExpiry("13/27"))
	assert.Error(t, ValidateExpiry("9/2027"))

	assert.NoError(t, ValidateDayOfMonth(0, "dayStart"))
	assert.NoError(t, ValidateDayOfMonth(31, "dayStart"))
	assert.Error(t, ValidateDayOfMonth(32, "dayStart"))
}

func TestSanitizers(t *testing.T) {
	assert.Equal(t, "hello", SanitizeText("  <b>hello</b> "))
	assert.Equal(t, "'=SUM(A1)", SanitizeForFormulaInjection("=SUM(A1)"))
	assert.Equal(t, "'-cmd", SanitizeForFormulaInjection("-cmd"))
	assert.Equal(t, "-12,50", SanitizeForFormulaInjection("-12,50"))
	assert.Equal(t, "Acme", SanitizeForFormulaInjection("Acme"))
}

func TestScanFields(t *testing.T) {
	assert.NoError(t, ScanFields(map[string]string{"name": "Acme Ltd."}, 50, "test"))
	assert.ErrorIs(t, ScanFields(map[string]string{"name": "<script>alert(1)</script>"}, 50, "test"), ErrValidationFailed)
	assert.ErrorIs(t, ScanFields(map[string]string{"name": strings.Repeat("a", 51)}, 50, "test"), ErrValidationFailed)
}

func TestValidateFileContentByMagicBytes(t *testing.T) {
	kind, err := ValidateFileContentByMagicBytes(bytes.NewReader([]byte("PK\x03\x04rest-of-zip")))
	require.NoError(t, err)
	assert.Equal(t, "xlsx", kind)

	kind, err = ValidateFileContentByMagicBytes(bytes.NewReader([]byte("Kod;İsim\nC1;Acme\n")))
	require.NoError(t, err)
	assert.Equal(t, "csv", kind)

	_, err = ValidateFileContentByMagicBytes(bytes.NewReader([]byte{0x7f, 'E', 'L', 'F', 0, 0}))
	assert.Error(t, err)

	_, err = ValidateFileContentByMagicBytes(bytes.NewReader(nil))
	assert.Error(t, err)
}

func TestValidateFileContentMultiByteAtSampleEnd(t *testing.T) {
	// "İ" is two bytes; its first byte is the last one of the 1024-byte sample.
	content := append(bytes.Repeat([]byte("a"), 1023), []byte("İ;x\n")...)
	require.True(t, utf8.Valid(content))

	kind, err := ValidateFileContentByMagicBytes(bytes.NewReader(content))
	require.NoError(t, err)
	assert.Equal(t, "csv", kind)

	// "ğ" spanning bytes 1022-1023 ends the sample on a complete character.
	content = append(bytes.Repeat([]byte("a"), 1022), []byte("ğ;x\n")...)
	kind, err = ValidateFileContentByMagicBytes(bytes.NewReader(content))
	require.NoError(t, err)
	assert.Equal(t, "csv", kind)

	// A stray continuation byte is still rejected.
	content = append(bytes.Repeat([]byte("a"), 1023), 0x80)
	_, err = ValidateFileContentByMagicBytes(bytes.NewReader(content))
	assert.Error(t, err)
}

func TestTrimPartialRune(t *testing.T) {
	assert.Equal(t, []byte("ab"), trimPartialRune([]byte("ab\xc4")))
	assert.Equal(t, []byte("ab"), trimPartialRune([]byte("ab\xe2\x82")))
	assert.Equal(t, []byte("abİ"), trimPartialRune([]byte("abİ")))
	assert.Equal(t, []byte("abc"), trimPartialRune([]byte("abc")))
}

func TestValidateClientContentType(t *testing.T) {
	assert.NoError(t, ValidateClientContentType("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"))
	assert.NoError(t, ValidateClientContentType("text/csv; charset=utf-8"))
	assert.Error(t, ValidateClientContentType("image/png"))
}
