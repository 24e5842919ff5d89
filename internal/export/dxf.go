package export

import (
	"fmt"
	"math"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"
	"github.com/yofu/dxf/table"

	"github.com/ckbaskerville/proper-job-sub000/internal/model"
)

// sheetGap is the spacing between sheet outlines in the DXF drawing, in mm.
const sheetGap = 100.0

// ExportDXF writes the optimization result as a single DXF drawing for
// CAM import. Sheets are laid out left to right with a gap between
// them. Sheet outlines, part outlines, and part ID text go on separate
// layers so downstream tooling can filter them.
func ExportDXF(path string, result model.Result) error {
	if len(result.Sheets) == 0 {
		return fmt.Errorf("no sheets to export")
	}

	d := dxf.NewDrawing()

	if _, err := d.AddLayer("SHEETS", dxf.DefaultColor, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("failed to add sheet layer: %w", err)
	}
	if _, err := d.AddLayer("PARTS", color.Green, table.LT_CONTINUOUS, false); err != nil {
		return fmt.Errorf("failed to add parts layer: %w", err)
	}
	if _, err := d.AddLayer("LABELS", color.Cyan, table.LT_CONTINUOUS, false); err != nil {
		return fmt.Errorf("failed to add labels layer: %w", err)
	}

	offsetX := 0.0
	for _, sheet := range result.Sheets {
		if err := drawSheet(d, sheet, offsetX); err != nil {
			return err
		}
		offsetX += sheet.Width + sheetGap
	}

	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save DXF: %w", err)
	}
	return nil
}

// drawSheet draws one sheet outline and its placements at the given
// horizontal offset.
func drawSheet(d *drawing.Drawing, sheet model.Sheet, offsetX float64) error {
	if err := d.ChangeLayer("SHEETS"); err != nil {
		return err
	}
	if err := drawRect(d, offsetX, 0, sheet.Width, sheet.Height); err != nil {
		return fmt.Errorf("failed to draw sheet outline: %w", err)
	}

	if err := d.ChangeLayer("PARTS"); err != nil {
		return err
	}
	for _, p := range sheet.Placements {
		if err := drawRect(d, offsetX+p.X, p.Y, p.Width, p.Height); err != nil {
			return fmt.Errorf("failed to draw part %q: %w", p.ID, err)
		}
	}

	if err := d.ChangeLayer("LABELS"); err != nil {
		return err
	}
	for _, p := range sheet.Placements {
		h := labelTextHeight(p)
		// Center the text roughly in the part
		tx := offsetX + p.X + p.Width/2 - float64(len(p.ID))*h*0.3
		ty := p.Y + p.Height/2 - h/2
		if _, err := d.Text(p.ID, tx, ty, 0, h); err != nil {
			return fmt.Errorf("failed to label part %q: %w", p.ID, err)
		}
	}
	return nil
}

// drawRect draws an axis-aligned rectangle as four line entities.
func drawRect(d *drawing.Drawing, x, y, w, h float64) error {
	lines := [][4]float64{
		{x, y, x + w, y},
		{x + w, y, x + w, y + h},
		{x + w, y + h, x, y + h},
		{x, y + h, x, y},
	}
	for _, l := range lines {
		if _, err := d.Line(l[0], l[1], 0, l[2], l[3], 0); err != nil {
			return err
		}
	}
	return nil
}

// labelTextHeight scales the ID text to the part, clamped to stay
// legible on small parts and proportionate on large ones.
func labelTextHeight(p model.PlacedRectangle) float64 {
	h := math.Min(p.Width, p.Height) * 0.15
	if h < 5 {
		h = 5
	}
	if h > 40 {
		h = 40
	}
	return h
}
