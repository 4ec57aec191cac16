// Package category is the closed set of complaint categories
package category

import "strings"

// Category is one of the four complaint buckets; the zero value is WaterSupply,
// so callers that need a default use Other explicitly
type Category uint8

const (
	WaterSupply Category = iota
	Electricity
	Heating
	Other
)

var wire = [...]string{
	WaterSupply: "водоснабжение",
	Electricity: "электричество",
	Heating:     "отопление",
	Other:       "другое",
}

// aliases accepted by Parse besides the wire strings
var aliases = map[string]Category{
	"water-supply": WaterSupply,
	"water":        WaterSupply,
	"electricity":  Electricity,
	"heating":      Heating,
	"other":        Other,
}

// All lists the categories in rule priority order
func All() []Category { return []Category{WaterSupply, Electricity, Heating, Other} }

// String returns the wire form
func (c Category) String() string {
	if int(c) < len(wire) {
		return wire[c]
	}
	return wire[Other]
}

// Valid reports whether c is one of the four constants
func (c Category) Valid() bool { return int(c) < len(wire) }

// Parse maps a wire string or alias to a Category, anything else is Other
func Parse(s string) Category {
	c, _ := Lookup(s)
	return c
}

// Lookup is Parse that also reports whether s was recognised
func Lookup(s string) (Category, bool) {
	k := strings.ToLower(strings.TrimSpace(s))
	for i, w := range wire {
		if k == w {
			return Category(i), true
		}
	}
	if c, ok := aliases[k]; ok {
		return c, true
	}
	return Other, false
}

// MarshalText writes the wire string
func (c Category) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// UnmarshalText coerces unknown strings to Other
func (c *Category) UnmarshalText(b []byte) error {
	*c = Parse(string(b))
	return nil
}
