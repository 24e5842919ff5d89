package engine

import (
	"strings"
	"testing"

	"github.com/ckbaskerville/proper-job-sub000/internal/model"
)

func soundLayout() []model.Sheet {
	return []model.Sheet{
		{
			Width:  1000,
			Height: 500,
			Placements: []model.PlacedRectangle{
				{ID: "a", X: 0, Y: 0, Width: 400, Height: 300},
				{ID: "b", X: 400, Y: 0, Width: 400, Height: 300},
			},
		},
	}
}

func TestValidateLayout_CleanLayout(t *testing.T) {
	if issues := ValidateLayout(soundLayout()); len(issues) != 0 {
		t.Errorf("expected no issues, got %v", issues)
	}
}

func TestValidateLayout_DetectsOverlap(t *testing.T) {
	sheets := soundLayout()
	sheets[0].Placements[1].X = 200

	issues := ValidateLayout(sheets)
	if len(issues) != 1 {
		t.Fatalf("expected 1 issue, got %d", len(issues))
	}
	if !strings.Contains(issues[0].String(), "overlap") {
		t.Errorf("unexpected issue: %s", issues[0])
	}
	if issues[0].Sheet != 0 {
		t.Errorf("issue on sheet %d, want 0", issues[0].Sheet)
	}
}

func TestValidateLayout_DetectsOutOfBounds(t *testing.T) {
	sheets := soundLayout()
	sheets[0].Placements[1].X = 700 // 700+400 > 1000

	issues := ValidateLayout(sheets)
	if len(issues) != 1 {
		t.Fatalf("expected 1 issue, got %d", len(issues))
	}
	if !strings.Contains(issues[0].Description, "leaves the sheet") {
		t.Errorf("unexpected issue: %s", issues[0])
	}
}

func TestValidateLayout_DetectsNonPositiveSize(t *testing.T) {
	sheets := soundLayout()
	sheets[0].Placements[0].Width = 0

	issues := ValidateLayout(sheets)
	if len(issues) == 0 {
		t.Fatal("expected an issue for zero-width placement")
	}
}

func TestCheckConservation_Balanced(t *testing.T) {
	input := []model.Rectangle{
		{ID: "a", Width: 400, Height: 300},
		{ID: "b", Width: 400, Height: 300},
		{ID: "c", Width: 9000, Height: 9000},
	}
	unplaced := []model.UnplacedRectangle{{ID: "c", Width: 9000, Height: 9000}}

	if issues := CheckConservation(input, soundLayout(), unplaced); len(issues) != 0 {
		t.Errorf("expected balance, got %v", issues)
	}
}

func TestCheckConservation_DetectsLoss(t *testing.T) {
	input := []model.Rectangle{
		{ID: "a", Width: 400, Height: 300},
		{ID: "b", Width: 400, Height: 300},
		{ID: "lost", Width: 100, Height: 100},
	}

	issues := CheckConservation(input, soundLayout(), nil)
	if len(issues) != 1 {
		t.Fatalf("expected 1 issue, got %d", len(issues))
	}
	if !strings.Contains(issues[0].Description, "lost") {
		t.Errorf("unexpected issue: %s", issues[0])
	}
}

func TestCheckConservation_DetectsPhantomPlacement(t *testing.T) {
	input := []model.Rectangle{{ID: "a", Width: 400, Height: 300}}

	issues := CheckConservation(input, soundLayout(), nil)
	if len(issues) == 0 {
		t.Fatal("expected an issue for the placement with no matching input")
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(soundLayout())

	if s.Sheets != 1 || s.Parts != 2 {
		t.Errorf("got %d sheets / %d parts, want 1 / 2", s.Sheets, s.Parts)
	}
	if s.UsedArea != 240000 {
		t.Errorf("used area = %g, want 240000", s.UsedArea)
	}
	if s.TotalArea != 500000 {
		t.Errorf("total area = %g, want 500000", s.TotalArea)
	}
	if s.Waste != 260000 {
		t.Errorf("waste = %g, want 260000", s.Waste)
	}
	if s.Efficiency != 0.48 {
		t.Errorf("efficiency = %g, want 0.48", s.Efficiency)
	}
	if len(s.PerSheet) != 1 || s.PerSheet[0].Parts != 2 {
		t.Errorf("unexpected per-sheet summary: %+v", s.PerSheet)
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	if s.Sheets != 0 || s.Efficiency != 0 {
		t.Errorf("unexpected summary for empty layout: %+v", s)
	}
}
