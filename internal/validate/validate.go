// Package validate applies the business and data-quality rules a canonical
// listing must pass before persistence. Errors block the write; warnings are
// advisory and travel with both outcomes.
package validate

import (
	"fmt"
	"regexp"

	"github.com/yourorg/listing-ingest/reaxml"
)

// Machine-readable error codes surfaced in ingestion reports.
const (
	CodeMissingAgentID      = "MISSING_AGENT_ID"
	CodeMissingUniqueID     = "MISSING_UNIQUE_ID"
	CodeInvalidPropertyType = "INVALID_PROPERTY_TYPE"
	CodeInvalidStatus       = "INVALID_STATUS"
	CodeInvalidListingType  = "INVALID_LISTING_TYPE"
	CodeInvalidPrice        = "INVALID_PRICE"
	CodeInvalidRent         = "INVALID_RENT"
	CodeInvalidBond         = "INVALID_BOND"
	CodeMissingAddress      = "MISSING_ADDRESS"
	CodeMissingStreet       = "MISSING_STREET"
	CodeMissingSuburb       = "MISSING_SUBURB"
	CodeMissingCountry      = "MISSING_COUNTRY"
	CodeMissingAgent        = "MISSING_AGENT"
	CodeMissingAgentName    = "MISSING_AGENT_NAME"
	CodeInvalidAgentEmail   = "INVALID_AGENT_EMAIL"
)

// FieldError is one blocking rule violation, tagged with the field path it
// was found at.
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Verdict is the validation outcome: zero errors means the record may be
// persisted, however many warnings it carries.
type Verdict struct {
	Errors   []FieldError `json:"errors,omitempty"`
	Warnings []string     `json:"warnings,omitempty"`
}

func (v Verdict) OK() bool { return len(v.Errors) == 0 }

var (
	// Australian phone shapes: 0X XXXX XXXX, +61 variants, with optional
	// separators.
	phonePattern = regexp.MustCompile(`(?:\+?61[\s-]?|0)[2-478](?:[\s-]?\d){8}`)
	emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	// Stricter whole-string form for agent email fields.
	strictEmailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}$`)
)

var validPropertyTypes = map[reaxml.PropertyType]bool{
	reaxml.PropertyResidential:   true,
	reaxml.PropertyRental:        true,
	reaxml.PropertyCommercial:    true,
	reaxml.PropertyLand:          true,
	reaxml.PropertyRural:         true,
	reaxml.PropertyHolidayRental: true,
}

var validStatuses = map[reaxml.Status]bool{
	reaxml.StatusCurrent:   true,
	reaxml.StatusWithdrawn: true,
	reaxml.StatusOffMarket: true,
	reaxml.StatusSold:      true,
	reaxml.StatusLeased:    true,
	reaxml.StatusDeleted:   true,
}

var validListingTypes = map[reaxml.ListingType]bool{
	reaxml.ListingSale:  true,
	reaxml.ListingRent:  true,
	reaxml.ListingLease: true,
	reaxml.ListingBoth:  true,
}

// Validate checks one canonical listing. Pure, no I/O.
func Validate(l reaxml.Listing) Verdict {
	var v Verdict

	v.base(l)
	v.pricing(l)
	v.scanDescription(l)

	switch l.Status {
	case reaxml.StatusCurrent:
		v.current(l)
	case reaxml.StatusSold:
		v.sold(l)
	}
	// withdrawn/offmarket/leased/deleted: a minimal identity-only record
	// is valid.
	return v
}

func (v *Verdict) fail(field, code, msg string) {
	v.Errors = append(v.Errors, FieldError{Field: field, Code: code, Message: msg})
}

func (v *Verdict) warn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}

func (v *Verdict) base(l reaxml.Listing) {
	if l.AgentID == "" {
		v.fail("agentId", CodeMissingAgentID, "agentId is required")
	}
	if l.UniqueID == "" {
		v.fail("uniqueId", CodeMissingUniqueID, "uniqueId is required")
	}
	if !validPropertyTypes[l.PropertyType] {
		v.fail("propertyType", CodeInvalidPropertyType, fmt.Sprintf("unknown property type %q", l.PropertyType))
	}
	if !validStatuses[l.Status] {
		v.fail("status", CodeInvalidStatus, fmt.Sprintf("unknown status %q", l.Status))
	}
	if !validListingTypes[l.ListingType] {
		v.fail("listingType", CodeInvalidListingType, fmt.Sprintf("unknown listing type %q", l.ListingType))
	}
}

func (v *Verdict) pricing(l reaxml.Listing) {
	if l.Price != nil && *l.Price < 0 {
		v.fail("price", CodeInvalidPrice, "price must not be negative")
	}
	if l.RentAmount != nil && *l.RentAmount < 0 {
		v.fail("rentAmount", CodeInvalidRent, "rent amount must not be negative")
	}
	if l.Bond != nil && *l.Bond < 0 {
		v.fail("bond", CodeInvalidBond, "bond must not be negative")
	}
}

// scanDescription flags contact details in the listing copy; they belong in
// agent records. Warning only.
func (v *Verdict) scanDescription(l reaxml.Listing) {
	if l.Description == nil {
		return
	}
	if phonePattern.MatchString(*l.Description) {
		v.warn("description appears to contain a phone number")
	}
	if emailPattern.MatchString(*l.Description) {
		v.warn("description appears to contain an email address")
	}
}

func (v *Verdict) current(l reaxml.Listing) {
	if l.Address == nil {
		v.fail("address", CodeMissingAddress, "current listings require an address")
	} else {
		if l.Address.Street == "" {
			v.fail("address.street", CodeMissingStreet, "street is required")
		}
		if l.Address.Suburb == "" {
			v.fail("address.suburb", CodeMissingSuburb, "suburb is required")
		}
		if l.Address.Country == "" {
			v.fail("address.country", CodeMissingCountry, "country is required")
		}
	}

	if len(l.Agents) == 0 {
		v.fail("agents", CodeMissingAgent, "current listings require at least one agent")
	}
	for i, a := range l.Agents {
		if a.Name == "" {
			v.fail(fmt.Sprintf("agents[%d].name", i), CodeMissingAgentName, "agent name is required")
		}
		if a.Email != nil && !strictEmailPattern.MatchString(*a.Email) {
			v.fail(fmt.Sprintf("agents[%d].email", i), CodeInvalidAgentEmail, fmt.Sprintf("%q is not a valid email address", *a.Email))
		}
	}

	if l.Description == nil {
		v.warn("current listing has no description")
	}
	if l.Headline == nil {
		v.warn("current listing has no headline")
	}
	if len(l.Images) == 0 {
		v.warn("current listing has no images")
	}
}

// Sold notifications are commonly partial, so incompleteness never blocks.
func (v *Verdict) sold(l reaxml.Listing) {
	switch {
	case l.SoldDetails == nil:
		v.warn("sold listing has no soldDetails")
	case l.SoldDetails.Price == nil:
		v.warn("soldDetails is missing a price")
	}
	if l.SoldDetails != nil && l.SoldDetails.Date == nil {
		v.warn("soldDetails is missing a date")
	}
}
