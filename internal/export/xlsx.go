package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/mamadbah2/nccfarm/internal/domain/models"
)

const sheetName = "Purchase Request"

// WriteXLSX writes rows into a single-sheet workbook with a bold header and a
// grand-total row.
func WriteXLSX(w io.Writer, rows []models.PurchaseRequestRow) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D3D3D3"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	for i, h := range Header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return fmt.Errorf("write header %s: %w", h, err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("style header %s: %w", h, err)
		}
	}

	for r, row := range rows {
		values := []any{
			row.Name,
			row.Spec,
			row.Quantity,
			row.SKU,
			row.Link,
			row.UnitPrice.InexactFloat64(),
			row.Requester,
			row.LineTotal().InexactFloat64(),
		}
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", r+1, err)
		}
	}

	totalRow := len(rows) + 2
	labelCell, _ := excelize.CoordinatesToCellName(len(Header)-1, totalRow)
	totalCell, _ := excelize.CoordinatesToCellName(len(Header), totalRow)
	if err := f.SetCellValue(sheetName, labelCell, "Grand Total"); err != nil {
		return fmt.Errorf("write total label: %w", err)
	}
	if err := f.SetCellValue(sheetName, totalCell, models.PurchaseTotal(rows).InexactFloat64()); err != nil {
		return fmt.Errorf("write total: %w", err)
	}
	if err := f.SetCellStyle(sheetName, labelCell, totalCell, headerStyle); err != nil {
		return fmt.Errorf("style total: %w", err)
	}

	lastCol, _ := excelize.ColumnNumberToName(len(Header))
	if err := f.SetColWidth(sheetName, "A", lastCol, 15); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("drop default sheet: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
