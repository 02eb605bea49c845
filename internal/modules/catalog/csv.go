package catalog

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"backoffice/internal/pkg/validator"

	"github.com/xuri/excelize/v2"
)

var exportHeader = []string{
	"Title", "Description", "Category", "Unit", "Price",
	"Brand", "Model", "SATCode", "WarrantyMonths", "ExecutionTime",
}

// ExportCSV writes every concept to w as CSV.
func (s *Service) ExportCSV(ctx context.Context, w io.Writer) error {
	concepts, err := s.repo.List(ctx, "", false)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, c := range concepts {
		row := []string{
			c.Title, c.Description, c.Category, c.Unit,
			strconv.FormatFloat(c.Price, 'f', 2, 64),
			c.Brand, c.Model, c.SATCode,
			strconv.Itoa(c.WarrantyMonths), c.ExecutionTime,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ImportCSV parses rows and feeds each through the single-create path.
// No batching, no dedup against existing concepts; a bad row is counted
// and skipped.
func (s *Service) ImportCSV(ctx context.Context, r io.Reader) (*ImportResult, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}
	if _, ok := cols["Title"]; !ok {
		return nil, fmt.Errorf("missing required column: Title")
	}

	get := func(row []string, name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return row[idx]
	}

	result := &ImportResult{}
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}

		price, _ := strconv.ParseFloat(get(row, "Price"), 64)
		warranty, _ := strconv.Atoi(get(row, "WarrantyMonths"))

		req := CreateConceptRequest{
			Title:          get(row, "Title"),
			Description:    get(row, "Description"),
			Category:       get(row, "Category"),
			Unit:           get(row, "Unit"),
			Price:          price,
			Brand:          get(row, "Brand"),
			Model:          get(row, "Model"),
			SATCode:        get(row, "SATCode"),
			WarrantyMonths: warranty,
			ExecutionTime:  get(row, "ExecutionTime"),
		}
		if fields := validator.Validate(req); fields != nil {
			result.Failed++
			for name, rule := range fields {
				result.Errors = append(result.Errors, fmt.Sprintf("line %d: %s failed %s", line, name, rule))
			}
			continue
		}
		if _, err := s.Create(ctx, req); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}
		result.Created++
	}
	return result, nil
}

// ExportXLSX renders the catalog as a spreadsheet for the back office.
func (s *Service) ExportXLSX(ctx context.Context) ([]byte, error) {
	concepts, err := s.repo.List(ctx, "", false)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheet := "Conceptos"
	f.SetSheetName("Sheet1", sheet)

	for i, name := range exportHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, name)
	}

	for rowIdx, c := range concepts {
		values := []interface{}{
			c.Title, c.Description, c.Category, c.Unit, c.Price,
			c.Brand, c.Model, c.SATCode, c.WarrantyMonths, c.ExecutionTime,
		}
		for colIdx, v := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
