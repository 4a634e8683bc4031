package mapper

import (
	"strings"

	"github.com/yourorg/listing-ingest/reaxml"
)

// FormatAddress composes the single human-readable address line:
// "2/39 Main Road, RICHMOND VIC 3121". The prefix precedence is subNumber
// with a slash, then a "Lot n " prefix when there is a lot number but no
// street number, then the bare street number. Absent parts contribute no
// separators.
func FormatAddress(a reaxml.Address) string {
	var b strings.Builder
	if a.SubNumber != "" {
		b.WriteString(a.SubNumber)
		b.WriteString("/")
	}
	switch {
	case a.StreetNumber != "":
		b.WriteString(a.StreetNumber)
		b.WriteString(" ")
	case a.LotNumber != "":
		b.WriteString("Lot ")
		b.WriteString(a.LotNumber)
		b.WriteString(" ")
	}
	b.WriteString(a.Street)
	out := strings.TrimSpace(b.String())
	if a.Suburb != "" {
		out += ", " + a.Suburb
	}
	if a.State != "" {
		out += " " + strings.ToUpper(a.State)
	}
	if a.Postcode != "" {
		out += " " + a.Postcode
	}
	return strings.TrimSpace(out)
}
