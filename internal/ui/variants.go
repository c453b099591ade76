package ui

import (
	"sort"
	"strings"
	"unicode"
)

// Variant is one selectable colour of a product.
type Variant struct {
	Key      string
	Label    string
	Color    string
	ImageURL string
}

type palette struct {
	label string
	color string
}

// knownVariants are listed first, in this order.
var knownVariants = []string{"yellow", "white", "rose"}

var palettes = map[string]palette{
	"yellow": {"Yellow", "#E6CA97"},
	"white":  {"White", "#D9D9D9"},
	"rose":   {"Rose", "#E1A4A9"},
}

const fallbackColor = "#BFBFBF"

// Variants orders a product's images: yellow, white, rose, then any other
// variant by name. The first entry is the default selection.
func Variants(images map[string]string) []Variant {
	out := make([]Variant, 0, len(images))
	seen := make(map[string]bool, len(images))
	for _, key := range knownVariants {
		if url, ok := images[key]; ok {
			out = append(out, newVariant(key, url))
			seen[key] = true
		}
	}

	var rest []string
	for key := range images {
		if !seen[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	for _, key := range rest {
		out = append(out, newVariant(key, images[key]))
	}
	return out
}

func newVariant(key, url string) Variant {
	p, ok := palettes[strings.ToLower(key)]
	if !ok {
		p = palette{label: titleCase(key), color: fallbackColor}
	}
	return Variant{Key: key, Label: p.label, Color: p.color, ImageURL: url}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
