package engine

import "github.com/ckbaskerville/proper-job-sub000/internal/model"

// BinPacker drives a placement strategy across an unbounded number of
// sheets and reports aggregate material efficiency.
type BinPacker struct {
	strategy Strategy
}

// NewBinPacker wraps a strategy.
func NewBinPacker(strategy Strategy) *BinPacker {
	return &BinPacker{strategy: strategy}
}

// Pack places the rectangles in the given order.
func (p *BinPacker) Pack(ordered []model.Rectangle) ([]model.Sheet, []model.Rectangle) {
	return p.strategy.Pack(ordered)
}

// Efficiency returns the total placed area divided by the total sheet
// area across all sheets, in [0, 1].
func (p *BinPacker) Efficiency(sheets []model.Sheet) float64 {
	var used, total float64
	for _, s := range sheets {
		used += s.UsedArea()
		total += s.Area()
	}
	if total == 0 {
		return 0
	}
	return used / total
}

// SheetEfficiency returns the used fraction of a single sheet.
func (p *BinPacker) SheetEfficiency(sheet model.Sheet) float64 {
	return sheet.Efficiency()
}
