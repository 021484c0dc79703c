package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/skyclaim/flight-claims/internal/application/port"
	"github.com/skyclaim/flight-claims/internal/domain/claim"
)

const exportPageSize = 500

// ExportService produces the claims register workbook for back-office use.
type ExportService interface {
	// ClaimsRegister renders all claims as an xlsx workbook, one row per claim.
	ClaimsRegister(ctx context.Context) ([]byte, error)
}

type exportServiceImpl struct {
	claims port.ClaimRepository
	logger Logger
}

// NewExportService creates a new ExportService
func NewExportService(claims port.ClaimRepository, logger Logger) ExportService {
	return &exportServiceImpl{
		claims: claims,
		logger: logger,
	}
}

var registerHeader = []string{
	"Claim ID", "Reference", "Route", "Category", "Status",
	"Amount", "Currency", "Regulation", "Manual Review", "Submitted At",
}

// ClaimsRegister renders all claims as an xlsx workbook.
func (s *exportServiceImpl) ClaimsRegister(ctx context.Context) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Claims"
	f.SetSheetName("Sheet1", sheet)

	for col, title := range registerHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	}

	row := 2
	for offset := 0; ; offset += exportPageSize {
		page, err := s.claims.List(ctx, exportPageSize, offset)
		if err != nil {
			s.logger.Error("Failed to list claims for export", "error", err, "offset", offset)
			return nil, err
		}
		if len(page) == 0 {
			break
		}

		for _, c := range page {
			if err := s.writeRow(f, sheet, row, c); err != nil {
				return nil, err
			}
			row++
		}

		if len(page) < exportPageSize {
			break
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	s.logger.Info("Claims register exported", "rows", row-2)
	return buf.Bytes(), nil
}

func (s *exportServiceImpl) writeRow(f *excelize.File, sheet string, row int, c *claim.Claim) error {
	currency, regulation := "", ""
	review := false
	if c.Decision != nil {
		currency = c.Decision.Currency
		regulation = c.Decision.Regulation
		review = c.Decision.RequiresManualReview
	}

	values := []interface{}{
		c.ID,
		c.Reference,
		c.Facts.DepartureAirport + "-" + c.Facts.ArrivalAirport,
		c.Facts.Category.String(),
		c.Status.String(),
		c.DisplayAmount(),
		currency,
		regulation,
		review,
		c.CreatedAt.UTC().Format(time.RFC3339),
	}

	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return fmt.Errorf("row cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("write row %d: %w", row, err)
		}
	}

	return nil
}
