// Package export serializes purchase requests into downloadable spreadsheets.
package export

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/nccfarm/internal/domain/models"
)

// Label is the human-readable base name of exported files.
const Label = "Purchase Request"

// Header is the column order of every purchase-request export.
var Header = []string{"Name", "Spec", "Quantity", "SKU", "Link", "Unit Price", "Requester", "Total"}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Line is a parsed export row together with its stated total.
type Line struct {
	Row   models.PurchaseRequestRow
	Total decimal.Decimal
}

// Filename returns the download name for the given format extension.
func Filename(ext string) string {
	return Label + "." + ext
}

// Records flattens rows into string records, computing the total column.
func Records(rows []models.PurchaseRequestRow) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			r.Name,
			r.Spec,
			strconv.Itoa(r.Quantity),
			r.SKU,
			r.Link,
			Money(r.UnitPrice),
			r.Requester,
			Money(r.LineTotal()),
		})
	}
	return out
}

// Money formats d with at least two decimals, keeping any finer precision so
// that ParseCSV reads back the exact value.
func Money(d decimal.Decimal) string {
	if d.Equal(d.Round(2)) {
		return d.StringFixed(2)
	}
	return d.String()
}

// WriteCSV writes rows as UTF-8 CSV prefixed with a byte-order mark so that
// spreadsheet tools keep non-ASCII text intact.
func WriteCSV(w io.Writer, rows []models.PurchaseRequestRow) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("write bom: %w", err)
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	if err := writer.WriteAll(Records(rows)); err != nil {
		return fmt.Errorf("write csv rows: %w", err)
	}
	return nil
}

// ParseCSV reads a file produced by WriteCSV back into lines.
func ParseCSV(r io.Reader) ([]Line, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	if strings.Join(header, ",") != strings.Join(Header, ",") {
		return nil, fmt.Errorf("unexpected header %v", header)
	}

	var lines []Line
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}

		qty, err := strconv.Atoi(rec[2])
		if err != nil {
			return nil, fmt.Errorf("row %d quantity: %w", len(lines)+1, err)
		}
		price, err := decimal.NewFromString(rec[5])
		if err != nil {
			return nil, fmt.Errorf("row %d unit price: %w", len(lines)+1, err)
		}
		total, err := decimal.NewFromString(rec[7])
		if err != nil {
			return nil, fmt.Errorf("row %d total: %w", len(lines)+1, err)
		}

		lines = append(lines, Line{
			Row: models.PurchaseRequestRow{
				Name:      rec[0],
				Spec:      rec[1],
				Quantity:  qty,
				SKU:       rec[3],
				Link:      rec[4],
				UnitPrice: price,
				Requester: rec[6],
			},
			Total: total,
		})
	}
	return lines, nil
}
