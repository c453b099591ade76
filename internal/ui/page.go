package ui

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"math"
	"strconv"

	"gold-catalog/internal/filter"
	"gold-catalog/internal/model"
)

//go:embed templates/*.html
var templates embed.FS

// MaxSwatches is how many variants per card the page stylesheet can switch between.
const MaxSwatches = 6

// Card is the view of one product.
type Card struct {
	Index    int
	Name     string
	Price    string
	Rating   Rating
	Variants []Variant
}

// Cards builds one card per product, keeping order and at most MaxSwatches variants.
func Cards(products []model.PricedProduct) []Card {
	cards := make([]Card, len(products))
	for i, p := range products {
		variants := Variants(p.Images)
		if len(variants) > MaxSwatches {
			variants = variants[:MaxSwatches]
		}
		cards[i] = Card{
			Index:    i,
			Name:     p.Name,
			Price:    p.Price.StringFixed(2),
			Rating:   NewRating(p.PopularityScore),
			Variants: variants,
		}
	}
	return cards
}

// Slider is one range input; Value is empty when the bound is unset.
type Slider struct {
	Name  string
	Label string
	Min   string
	Max   string
	Step  string
	Value string
	// Start is the thumb position used when Value is empty.
	Start string
}

type PageData struct {
	Title      string
	Cards      []Card
	Sliders    []Slider
	DebounceMs int64
}

// Sliders describes the four bound inputs. priceCeiling is the top of the
// price range; it grows to fit an explicit bound above it.
func Sliders(b filter.Bounds, priceCeiling float64) []Slider {
	ceiling := math.Ceil(math.Max(priceCeiling, 1))
	for _, v := range []float64{b.MinPrice, b.MaxPrice} {
		if !math.IsInf(v, 0) && v > ceiling {
			ceiling = math.Ceil(v)
		}
	}
	top := strconv.FormatFloat(ceiling, 'f', -1, 64)

	return []Slider{
		{Name: filter.MinPrice, Label: "Min price", Min: "0", Max: top, Step: "1", Value: boundValue(b.MinPrice), Start: "0"},
		{Name: filter.MaxPrice, Label: "Max price", Min: "0", Max: top, Step: "1", Value: boundValue(b.MaxPrice), Start: top},
		{Name: filter.MinPopularity, Label: "Min popularity", Min: "0", Max: "1", Step: "0.01", Value: boundValue(b.MinPopularity), Start: "0"},
		{Name: filter.MaxPopularity, Label: "Max popularity", Min: "0", Max: "1", Step: "0.01", Value: boundValue(b.MaxPopularity), Start: "1"},
	}
}

func boundValue(v float64) string {
	if math.IsInf(v, 0) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Page renders the catalog HTML.
type Page struct {
	tmpl *template.Template
}

func NewPage() (*Page, error) {
	tmpl, err := template.New("catalog.html").Funcs(template.FuncMap{
		"seq": func(n int) []int {
			out := make([]int, n)
			for i := range out {
				out[i] = i
			}
			return out
		},
		"swatches": func() []int {
			out := make([]int, MaxSwatches)
			for i := range out {
				out[i] = i + 1
			}
			return out
		},
	}).ParseFS(templates, "templates/catalog.html")
	if err != nil {
		return nil, fmt.Errorf("parse catalog template: %w", err)
	}
	return &Page{tmpl: tmpl}, nil
}

func (p *Page) Render(w io.Writer, data PageData) error {
	if data.Title == "" {
		data.Title = "Product List"
	}
	return p.tmpl.Execute(w, data)
}
