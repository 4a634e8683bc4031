package reaxml

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// One Australian "square" in square metres.
const sqmPerSquare = 9.2903

// Bool coerces the REAXML truthy forms. Exactly yes/1/true (any case) are
// true; everything else, including empty, is false.
func Bool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "1", "true":
		return true
	default:
		return false
	}
}

// nodeBool reads a boolean-like element. Wrapped forms like
// <underOffer value="yes"/> carry the payload in the value attribute; the
// attribute wins over the element body when present.
func nodeBool(n *Node) bool {
	if n == nil {
		return false
	}
	if v, ok := n.Attrs["value"]; ok {
		return Bool(v)
	}
	return Bool(n.Text)
}

// nodeText extracts the plain-text payload of a mixed text/attribute node:
// the trimmed element body, falling back to the value attribute.
func nodeText(n *Node) string {
	if n == nil {
		return ""
	}
	if n.Text != "" {
		return n.Text
	}
	return strings.TrimSpace(n.Attrs["value"])
}

// optString trims a node's text to a pointer, nil when empty or absent.
func optString(n *Node) *string {
	s := nodeText(n)
	if s == "" {
		return nil
	}
	return &s
}

// nodeFloat parses the numeric payload of a node, tolerating currency
// punctuation. Unparseable or absent values are nil, never zero.
func nodeFloat(n *Node) *float64 {
	s := nodeText(n)
	if s == "" {
		return nil
	}
	s = strings.NewReplacer("$", "", ",", "", " ", "").Replace(s)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func nodeInt(n *Node) *int {
	f := nodeFloat(n)
	if f == nil {
		return nil
	}
	v := int(*f)
	return &v
}

// Feed timestamp layouts observed in the wild, most specific first.
var dateLayouts = []string{
	"2006-01-02-15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"20060102150405",
	"2006-01-02",
	"20060102",
}

// ParseDate parses a REAXML date/timestamp in any of the feed layouts.
// Returns nil when the value is empty or matches no layout.
func ParseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// NormalizeArea coerces an (value, unit) pair into the stored unit system.
// Squares are converted to square metres rounded to two decimals; every
// other unit, recognized or not, is relabeled sqm without conversion so the
// record never carries a mismatched value/unit pair.
func NormalizeArea(value float64, unit string) (float64, string) {
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case "square", "squares":
		return math.Round(value*sqmPerSquare*100) / 100, "sqm"
	default:
		return value, "sqm"
	}
}
