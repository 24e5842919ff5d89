package model

// UnplacedRectangle is a structured warning for a part that cannot fit
// the configured sheet in either orientation. These are reported in the
// result rather than dropped, so the caller can resize the sheet,
// exclude the part, or abort the quote.
type UnplacedRectangle struct {
	ID     string  `json:"id"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Reason string  `json:"reason"`
}

// Result is the outcome of one optimization run.
type Result struct {
	SheetsUsed  int                 `json:"sheets_used"`
	Sheets      []Sheet             `json:"sheets"`
	Unplaced    []UnplacedRectangle `json:"unplaced,omitempty"`
	BestFitness float64             `json:"best_fitness"`
	Generations int                 `json:"generations"` // generations actually evolved
}

// TotalEfficiency returns the used fraction across all sheets in [0, 1].
func (r Result) TotalEfficiency() float64 {
	var used, total float64
	for _, s := range r.Sheets {
		used += s.UsedArea()
		total += s.Area()
	}
	if total == 0 {
		return 0
	}
	return used / total
}

// PlacedCount returns the number of placements across all sheets.
func (r Result) PlacedCount() int {
	n := 0
	for _, s := range r.Sheets {
		n += len(s.Placements)
	}
	return n
}
