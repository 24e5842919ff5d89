// Package model defines the value types shared by the packing engine:
// rectangles to cut, placed rectangles, finished sheets, and the
// optimizer configuration and result types.
package model

import (
	"fmt"

	"github.com/google/uuid"
)

// Rectangle is one part that must be cut from stock. It is immutable:
// the engine never modifies a caller's rectangle, rotation produces a
// new value via Rotated.
type Rectangle struct {
	ID     string  `json:"id"`
	Width  float64 `json:"width"`  // mm
	Height float64 `json:"height"` // mm
}

// NewRectangle creates a rectangle with a generated short ID.
// Non-positive dimensions are rejected here, before the part can ever
// enter the engine.
func NewRectangle(w, h float64) (Rectangle, error) {
	return NewRectangleWithID(uuid.New().String()[:8], w, h)
}

// NewRectangleWithID creates a rectangle with a caller-supplied ID,
// typically a part label from an imported cut list.
func NewRectangleWithID(id string, w, h float64) (Rectangle, error) {
	if w <= 0 || h <= 0 {
		return Rectangle{}, fmt.Errorf("invalid rectangle %q: dimensions must be positive, got %gx%g", id, w, h)
	}
	return Rectangle{ID: id, Width: w, Height: h}, nil
}

// Area returns width times height.
func (r Rectangle) Area() float64 {
	return r.Width * r.Height
}

// Perimeter returns the total edge length.
func (r Rectangle) Perimeter() float64 {
	return 2 * (r.Width + r.Height)
}

// Rotated returns a copy with width and height swapped. The ID is
// preserved so output placements reconcile with the input part.
func (r Rectangle) Rotated() Rectangle {
	return Rectangle{ID: r.ID, Width: r.Height, Height: r.Width}
}

// IsSquare reports whether rotation would be a no-op.
func (r Rectangle) IsSquare() bool {
	return r.Width == r.Height
}

// PlacedRectangle is a rectangle fixed at a position on one sheet.
// Created only by the packing strategy, never mutated afterwards.
type PlacedRectangle struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	ID      string  `json:"id"`
	Rotated bool    `json:"rotated,omitempty"`
}

// Overlaps reports whether two placements share interior area.
// Touching edges do not count as overlap.
func (p PlacedRectangle) Overlaps(other PlacedRectangle) bool {
	return !(p.X+p.Width <= other.X ||
		other.X+other.Width <= p.X ||
		p.Y+p.Height <= other.Y ||
		other.Y+other.Height <= p.Y)
}

// Sheet is one instance of stock material with the parts placed on it.
type Sheet struct {
	Width      float64           `json:"width"`
	Height     float64           `json:"height"`
	Placements []PlacedRectangle `json:"placements"`
}

// UsedArea returns the total area covered by placed parts.
func (s Sheet) UsedArea() float64 {
	var total float64
	for _, p := range s.Placements {
		total += p.Width * p.Height
	}
	return total
}

// Area returns the stock sheet area.
func (s Sheet) Area() float64 {
	return s.Width * s.Height
}

// Efficiency returns the used fraction of the sheet in [0, 1].
func (s Sheet) Efficiency() float64 {
	a := s.Area()
	if a == 0 {
		return 0
	}
	return s.UsedArea() / a
}
