package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/ckbaskerville/proper-job-sub000/internal/model"
)

// ExportExcel writes the optimization result as an Excel workbook with
// a cut list sheet (one row per placement), a per-sheet summary, and,
// when present, an unplaced parts sheet.
func ExportExcel(path string, result model.Result, cfg model.Config) error {
	if len(result.Sheets) == 0 {
		return fmt.Errorf("no sheets to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	cutList := f.GetSheetName(0)
	if err := f.SetSheetName(cutList, "Cut List"); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	cutList = "Cut List"

	if err := writeCutList(f, cutList, result); err != nil {
		return err
	}
	if err := writeSummary(f, result, cfg); err != nil {
		return err
	}
	if len(result.Unplaced) > 0 {
		if err := writeUnplaced(f, result.Unplaced); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// writeCutList fills the cut list sheet with one row per placement.
func writeCutList(f *excelize.File, sheet string, result model.Result) error {
	rows := [][]interface{}{
		{"Sheet", "Part", "X (mm)", "Y (mm)", "Width (mm)", "Height (mm)", "Rotated"},
	}
	for sheetIdx, s := range result.Sheets {
		for _, p := range s.Placements {
			rotated := ""
			if p.Rotated {
				rotated = "yes"
			}
			rows = append(rows, []interface{}{
				sheetIdx + 1, p.ID, p.X, p.Y, p.Width, p.Height, rotated,
			})
		}
	}
	return writeRows(f, sheet, rows)
}

// writeSummary adds a summary sheet with run totals, per-sheet
// statistics, and the configuration used.
func writeSummary(f *excelize.File, result model.Result, cfg model.Config) error {
	if _, err := f.NewSheet("Summary"); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}

	rotation := "no"
	if cfg.AllowRotation {
		rotation = "yes"
	}

	rows := [][]interface{}{
		{"Sheets Used", result.SheetsUsed},
		{"Overall Efficiency", fmt.Sprintf("%.1f%%", result.TotalEfficiency()*100)},
		{"Parts Placed", result.PlacedCount()},
		{"Unplaced Parts", len(result.Unplaced)},
		{"Generations Evolved", result.Generations},
		{},
		{"Sheet", "Dimensions (mm)", "Parts", "Efficiency", "Used Area (mm²)"},
	}
	for i, s := range result.Sheets {
		rows = append(rows, []interface{}{
			i + 1,
			fmt.Sprintf("%.0f x %.0f", s.Width, s.Height),
			len(s.Placements),
			fmt.Sprintf("%.1f%%", s.Efficiency()*100),
			s.UsedArea(),
		})
	}
	rows = append(rows,
		[]interface{}{},
		[]interface{}{"Sheet Size", fmt.Sprintf("%.0f x %.0f mm", cfg.SheetWidth, cfg.SheetHeight)},
		[]interface{}{"Cutting Margin", cfg.CuttingMargin},
		[]interface{}{"Rotation Allowed", rotation},
		[]interface{}{"Population Size", cfg.PopulationSize},
		[]interface{}{"Generations", cfg.Generations},
		[]interface{}{"Seed", cfg.Seed},
	)
	return writeRows(f, "Summary", rows)
}

// writeUnplaced lists the parts that could not be placed and why.
func writeUnplaced(f *excelize.File, unplaced []model.UnplacedRectangle) error {
	if _, err := f.NewSheet("Unplaced"); err != nil {
		return fmt.Errorf("failed to create unplaced sheet: %w", err)
	}

	rows := [][]interface{}{
		{"Part", "Width (mm)", "Height (mm)", "Reason"},
	}
	for _, u := range unplaced {
		rows = append(rows, []interface{}{u.ID, u.Width, u.Height, u.Reason})
	}
	return writeRows(f, "Unplaced", rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		for j, cell := range row {
			ref, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return fmt.Errorf("failed to build cell reference: %w", err)
			}
			if err := f.SetCellValue(sheet, ref, cell); err != nil {
				return fmt.Errorf("failed to set cell %s: %w", ref, err)
			}
		}
	}
	return nil
}
