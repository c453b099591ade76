// Package ui holds the presentation rules of the catalog page: star ratings,
// colour variants and the server-rendered HTML.
package ui

import (
	"fmt"
	"math"
	"strings"
)

// MaxStars is the size of the rating scale.
const MaxStars = 5

// Rating is a popularity score projected onto a five-star scale.
type Rating struct {
	Value  float64
	Filled int
	Empty  int
	Label  string
}

// NewRating maps a popularity score in [0,1] to stars: floor(score*5) filled,
// the rest empty, and a one-decimal label.
func NewRating(popularity float64) Rating {
	value := popularity * MaxStars
	filled := int(math.Floor(value))
	if filled < 0 {
		filled = 0
	}
	if filled > MaxStars {
		filled = MaxStars
	}
	return Rating{
		Value:  value,
		Filled: filled,
		Empty:  MaxStars - filled,
		Label:  fmt.Sprintf("%.1f/5", value),
	}
}

// Stars renders the rating as text, e.g. "★★★☆☆ 3.0/5".
func (r Rating) Stars() string {
	return strings.Repeat("★", r.Filled) + strings.Repeat("☆", r.Empty) + " " + r.Label
}
