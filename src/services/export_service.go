// backend/src/services/export_service.go
package services

import (
	"bytes"
	"context"
	"fmt"

	"github.com/username/finansdefter/backend/src/logger"
	"github.com/username/finansdefter/backend/src/models"
	"github.com/username/finansdefter/backend/src/security/validation"
	"github.com/xuri/excelize/v2"
)

const exportSheet = "Sayfa1"

var exportHeaders = map[models.Kind][]string{
	models.KindCreditCard:   {"Kart Numarası", "Kullanıcı", "Tür", "Banka", "Kart Tipi", "S.K.T", "Limit", "Güncel Borç"},
	models.KindBankAccount:  {"Kod", "İsim", "IBAN", "Bakiye"},
	models.KindCategory:     {"Kod", "İsim"},
	models.KindCounterparty: {"Kod", "İsim"},
}

var exportFilenames = map[models.Kind]string{
	models.KindCreditCard:   "kredi-kartlari.xlsx",
	models.KindBankAccount:  "banka-hesaplari.xlsx",
	models.KindCategory:     "kategoriler.xlsx",
	models.KindCounterparty: "cariler.xlsx",
}

// ExportFile is a generated workbook ready to be sent as an attachment.
type ExportFile struct {
	Filename string
	Content  *bytes.Buffer
}

type ExportService interface {
	Export(ctx context.Context, kind models.Kind) (*ExportFile, error)
}

type exportServiceImpl struct {
	store DefinitionStore
}

func NewExportService(store DefinitionStore) ExportService {
	return &exportServiceImpl{store: store}
}

// Export writes every record of kind to a single-sheet workbook whose headers the
// importer accepts, so the file can be edited and imported back.
func (s *exportServiceImpl) Export(ctx context.Context, kind models.Kind) (*ExportFile, error) {
	headers, ok := exportHeaders[kind]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported kind '%s'", ErrInvalidInput, kind)
	}
	records, err := s.store.GetAll(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("error loading %s for export: %w", kind, err)
	}

	var balances map[string]float64
	if kind == models.KindCreditCard {
		if balances, err = s.store.OpeningBalances(ctx); err != nil {
			return nil, fmt.Errorf("error loading opening balances for export: %w", err)
		}
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName(f.GetSheetName(0), exportSheet); err != nil {
		return nil, fmt.Errorf("error naming export sheet: %w", err)
	}

	header := make([]interface{}, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("error writing export header: %w", err)
	}

	for i, r := range records {
		row := exportRow(r, balances)
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("error writing export row %d: %w", i+1, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("error rendering workbook: %w", err)
	}
	logger.FromContext(ctx).Info("Definitions exported", "kind", kind, "rows", len(records))
	return &ExportFile{Filename: exportFilenames[kind], Content: buf}, nil
}

func exportRow(r models.Record, balances map[string]float64) []interface{} {
	text := validation.SanitizeForFormulaInjection
	switch v := r.(type) {
	case *models.CreditCard:
		category := "Bireysel"
		if v.Category == models.CardCategoryCorporate {
			category = "Şirket"
		}
		return []interface{}{
			text(v.Code), text(v.OwnerName), category, text(v.Bank),
			v.CardNetwork, text(v.ExpiryDate), v.LimitAmount, balances[v.ID],
		}
	case *models.BankAccount:
		return []interface{}{text(v.Code), text(v.Name), text(v.IBAN), v.Balance}
	case *models.Category:
		return []interface{}{text(v.Code), text(v.Name)}
	case *models.Counterparty:
		return []interface{}{text(v.Code), text(v.Name)}
	}
	return nil
}
