// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/pdiddy/techlife/pkg/types"
)

const (
	sheetLifecycle = "tech_life_cycle"
	sheetPortfolio = "portfolio_suggestions"
)

// MarshalXLSX renders doc as a workbook with one sheet per report section.
func MarshalXLSX(doc types.OutputDocument) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetLifecycle); err != nil {
		return nil, fmt.Errorf("naming sheet: %w", err)
	}
	if err := f.SetSheetRow(sheetLifecycle, "A1", &[]interface{}{"name", "stage", "description"}); err != nil {
		return nil, fmt.Errorf("writing header: %w", err)
	}
	for i, e := range doc.TechLifeCycle {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheetLifecycle, cell, &[]interface{}{e.Name, e.Stage, e.Description}); err != nil {
			return nil, fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	if err := f.SetColWidth(sheetLifecycle, "A", "A", 24); err != nil {
		return nil, fmt.Errorf("sizing columns: %w", err)
	}
	if err := f.SetColWidth(sheetLifecycle, "C", "C", 80); err != nil {
		return nil, fmt.Errorf("sizing columns: %w", err)
	}

	if _, err := f.NewSheet(sheetPortfolio); err != nil {
		return nil, fmt.Errorf("creating sheet: %w", err)
	}
	ps := doc.PortfolioSuggestions
	columns := []struct {
		bucket  types.Bucket
		members []string
	}{
		{types.BucketHighRisk, ps.HighRisk},
		{types.BucketMediumRisk, ps.MediumRisk},
		{types.BucketLowRisk, ps.LowRisk},
	}
	for col, c := range columns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		values := make([]interface{}, 0, len(c.members)+1)
		values = append(values, string(c.bucket))
		for _, m := range c.members {
			values = append(values, m)
		}
		if err := f.SetSheetCol(sheetPortfolio, cell, &values); err != nil {
			return nil, fmt.Errorf("writing %s: %w", c.bucket, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("encoding workbook: %w", err)
	}
	return buf.Bytes(), nil
}
