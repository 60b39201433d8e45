package datatransfer

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/frahmantamala/mvd-portal/internal"
	"github.com/xuri/excelize/v2"
)

// ExportWorkbook renders the selected collections as an .xlsx file with one
// sheet per collection. Row 1 holds the field names, "id" first.
func (s *Service) ExportWorkbook(ctx context.Context, names []string) ([]byte, error) {
	if len(names) == 0 {
		names = DefaultCollections
	}
	selected, err := s.selection(ctx, names)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, name := range names {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return nil, internal.NewInternalError("failed to build workbook", err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return nil, internal.NewInternalError("failed to build workbook", err)
		}
		if err := writeSheet(f, name, selected[name]); err != nil {
			return nil, internal.NewInternalError("failed to build workbook", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, internal.NewInternalError("failed to write workbook", err)
	}
	s.logger.Info("workbook exported", "collections", names, "bytes", buf.Len())
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sheet string, raw json.RawMessage) error {
	var records []map[string]interface{}
	if err := json.Unmarshal(raw, &records); err != nil {
		return fmt.Errorf("decode %s: %w", sheet, err)
	}

	header := columns(records)
	row := make([]interface{}, len(header))
	for i, h := range header {
		row[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &row); err != nil {
		return err
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if len(header) > 0 {
		last, err := excelize.CoordinatesToCellName(len(header), 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
			return err
		}
	}

	for i, rec := range records {
		values := make([]interface{}, len(header))
		for j, h := range header {
			values[j] = cellValue(rec[h])
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}
	return nil
}

// columns is the sorted union of record keys with "id" leading.
func columns(records []map[string]interface{}) []string {
	seen := map[string]bool{}
	for _, rec := range records {
		for k := range rec {
			seen[k] = true
		}
	}
	delete(seen, "id")
	cols := make([]string, 0, len(seen)+1)
	for k := range seen {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return append([]string{"id"}, cols...)
}

// cellValue keeps scalars and flattens nested values back to JSON text.
func cellValue(v interface{}) interface{} {
	switch t := v.(type) {
	case nil:
		return ""
	case string, bool:
		return t
	case float64:
		if t == float64(int64(t)) {
			return int64(t)
		}
		return t
	default:
		raw, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(raw)
	}
}
