package engine

import (
	"fmt"

	"github.com/ckbaskerville/proper-job-sub000/internal/model"
)

// LayoutIssue describes one violated placement invariant in a packed
// layout. An empty issue list means the layout is geometrically sound.
type LayoutIssue struct {
	Sheet       int // zero-based sheet index, -1 for cross-sheet issues
	Description string
}

func (li LayoutIssue) String() string {
	if li.Sheet < 0 {
		return li.Description
	}
	return fmt.Sprintf("sheet %d: %s", li.Sheet+1, li.Description)
}

// ValidateLayout checks containment and pairwise non-overlap for every
// sheet and returns all violations found.
func ValidateLayout(sheets []model.Sheet) []LayoutIssue {
	var issues []LayoutIssue
	for si, sheet := range sheets {
		for i, p := range sheet.Placements {
			if p.Width <= 0 || p.Height <= 0 {
				issues = append(issues, LayoutIssue{si, fmt.Sprintf("placement %q has non-positive size %gx%g", p.ID, p.Width, p.Height)})
			}
			if p.X < 0 || p.Y < 0 ||
				p.X+p.Width > sheet.Width+placementEpsilon ||
				p.Y+p.Height > sheet.Height+placementEpsilon {
				issues = append(issues, LayoutIssue{si, fmt.Sprintf("placement %q at (%g, %g) size %gx%g leaves the sheet", p.ID, p.X, p.Y, p.Width, p.Height)})
			}
			for _, q := range sheet.Placements[i+1:] {
				if p.Overlaps(q) {
					issues = append(issues, LayoutIssue{si, fmt.Sprintf("placements %q and %q overlap", p.ID, q.ID)})
				}
			}
		}
	}
	return issues
}

// CheckConservation verifies that the multiset of placement IDs across
// all sheets equals the multiset of input rectangle IDs, net of the
// reported unplaced parts.
func CheckConservation(input []model.Rectangle, sheets []model.Sheet, unplaced []model.UnplacedRectangle) []LayoutIssue {
	want := make(map[string]int, len(input))
	for _, r := range input {
		want[r.ID]++
	}
	for _, u := range unplaced {
		want[u.ID]--
	}

	got := make(map[string]int)
	for _, s := range sheets {
		for _, p := range s.Placements {
			got[p.ID]++
		}
	}

	var issues []LayoutIssue
	for id, n := range want {
		switch d := got[id] - n; {
		case d < 0:
			issues = append(issues, LayoutIssue{-1, fmt.Sprintf("rectangle %q placed %d time(s) fewer than supplied", id, -d)})
		case d > 0:
			issues = append(issues, LayoutIssue{-1, fmt.Sprintf("rectangle %q placed %d time(s) more than supplied", id, d)})
		}
	}
	for id := range got {
		if _, ok := want[id]; !ok {
			issues = append(issues, LayoutIssue{-1, fmt.Sprintf("placement %q does not correspond to any input rectangle", id)})
		}
	}
	return issues
}

// SheetSummary holds per-sheet usage statistics.
type SheetSummary struct {
	Parts      int     `json:"parts"`
	UsedArea   float64 `json:"used_area"`
	Efficiency float64 `json:"efficiency"`
}

// Summary aggregates usage statistics over a packed layout.
type Summary struct {
	Sheets     int            `json:"sheets"`
	Parts      int            `json:"parts"`
	UsedArea   float64        `json:"used_area"`
	TotalArea  float64        `json:"total_area"`
	Waste      float64        `json:"waste"`
	Efficiency float64        `json:"efficiency"`
	PerSheet   []SheetSummary `json:"per_sheet"`
}

// Summarize computes usage statistics for a packed layout.
func Summarize(sheets []model.Sheet) Summary {
	s := Summary{Sheets: len(sheets)}
	for _, sheet := range sheets {
		used := sheet.UsedArea()
		s.Parts += len(sheet.Placements)
		s.UsedArea += used
		s.TotalArea += sheet.Area()
		s.PerSheet = append(s.PerSheet, SheetSummary{
			Parts:      len(sheet.Placements),
			UsedArea:   used,
			Efficiency: sheet.Efficiency(),
		})
	}
	s.Waste = s.TotalArea - s.UsedArea
	if s.TotalArea > 0 {
		s.Efficiency = s.UsedArea / s.TotalArea
	}
	return s
}
