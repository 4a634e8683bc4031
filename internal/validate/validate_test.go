package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/listing-ingest/reaxml"
)

func strp(s string) *string    { return &s }
func floatp(f float64) *float64 { return &f }

func currentListing() reaxml.Listing {
	return reaxml.Listing{
		AgentID:      "XNWXNW",
		UniqueID:     "ABC123",
		PropertyType: reaxml.PropertyResidential,
		ListingType:  reaxml.ListingSale,
		Status:       reaxml.StatusCurrent,
		Headline:     strp("Charming family home"),
		Description:  strp("Four bedrooms close to schools."),
		Address: &reaxml.Address{
			StreetNumber: "39",
			Street:       "Main Road",
			Suburb:       "RICHMOND",
			State:        "VIC",
			Postcode:     "3121",
			Country:      "Australia",
		},
		Agents: []reaxml.Agent{
			{Position: 1, Name: "Jane Citizen", Email: strp("jane@example.com.au")},
		},
		Images: []reaxml.Image{{Kind: reaxml.ImagePhoto, URL: "http://cdn/1.jpg"}},
	}
}

func codes(v Verdict) []string {
	out := make([]string, 0, len(v.Errors))
	for _, e := range v.Errors {
		out = append(out, e.Code)
	}
	return out
}

func TestValidateCurrentComplete(t *testing.T) {
	v := Validate(currentListing())
	assert.True(t, v.OK())
	assert.Empty(t, v.Warnings)
}

func TestValidateMissingIdentity(t *testing.T) {
	l := currentListing()
	l.AgentID = ""
	l.UniqueID = ""

	v := Validate(l)
	assert.False(t, v.OK())
	assert.Contains(t, codes(v), CodeMissingAgentID)
	assert.Contains(t, codes(v), CodeMissingUniqueID)
}

func TestValidateCurrentRequiresAddress(t *testing.T) {
	l := currentListing()
	l.Address = nil

	v := Validate(l)
	require.False(t, v.OK())
	assert.Contains(t, codes(v), CodeMissingAddress)

	// The same record passes once withdrawn.
	l.Status = reaxml.StatusWithdrawn
	assert.True(t, Validate(l).OK())
}

func TestValidateCurrentAddressFields(t *testing.T) {
	l := currentListing()
	l.Address.Street = ""
	l.Address.Suburb = ""
	l.Address.Country = ""

	v := Validate(l)
	require.Len(t, v.Errors, 3)
	fields := map[string]string{}
	for _, e := range v.Errors {
		fields[e.Field] = e.Code
	}
	assert.Equal(t, CodeMissingStreet, fields["address.street"])
	assert.Equal(t, CodeMissingSuburb, fields["address.suburb"])
	assert.Equal(t, CodeMissingCountry, fields["address.country"])
}

func TestValidateCurrentRequiresAgent(t *testing.T) {
	l := currentListing()
	l.Agents = nil

	v := Validate(l)
	require.False(t, v.OK())
	assert.Contains(t, codes(v), CodeMissingAgent)
}

func TestValidateAgentFields(t *testing.T) {
	l := currentListing()
	l.Agents = append(l.Agents, reaxml.Agent{Position: 2, Email: strp("not-an-email")})

	v := Validate(l)
	require.Len(t, v.Errors, 2)
	assert.Equal(t, "agents[1].name", v.Errors[0].Field)
	assert.Equal(t, CodeMissingAgentName, v.Errors[0].Code)
	assert.Equal(t, "agents[1].email", v.Errors[1].Field)
	assert.Equal(t, CodeInvalidAgentEmail, v.Errors[1].Code)
}

func TestValidateNegativeAmounts(t *testing.T) {
	l := currentListing()
	l.Price = floatp(-1)
	l.RentAmount = floatp(-550)
	l.Bond = floatp(-2200)

	v := Validate(l)
	got := codes(v)
	assert.Contains(t, got, CodeInvalidPrice)
	assert.Contains(t, got, CodeInvalidRent)
	assert.Contains(t, got, CodeInvalidBond)

	l.Price = floatp(0) // zero is allowed
	l.RentAmount = nil
	l.Bond = nil
	assert.True(t, Validate(l).OK())
}

func TestValidateCurrentWarnings(t *testing.T) {
	l := currentListing()
	l.Description = nil
	l.Headline = nil
	l.Images = nil

	v := Validate(l)
	assert.True(t, v.OK())
	assert.Len(t, v.Warnings, 3)
}

func TestValidateDescriptionContactScan(t *testing.T) {
	l := currentListing()
	l.Description = strp("Call Jane on 0412 345 678 or jane@example.com.au today")

	v := Validate(l)
	assert.True(t, v.OK())
	require.Len(t, v.Warnings, 2)
	assert.Contains(t, v.Warnings[0], "phone number")
	assert.Contains(t, v.Warnings[1], "email address")
}

func TestValidateSoldNeverBlocksOnDetails(t *testing.T) {
	l := currentListing()
	l.Status = reaxml.StatusSold
	l.SoldDetails = nil

	v := Validate(l)
	assert.True(t, v.OK())
	require.Len(t, v.Warnings, 1)
	assert.Contains(t, v.Warnings[0], "no soldDetails")

	l.SoldDetails = &reaxml.SoldDetails{}
	v = Validate(l)
	assert.True(t, v.OK())
	assert.Len(t, v.Warnings, 2) // missing price, missing date
}

func TestValidateInvalidEnums(t *testing.T) {
	l := currentListing()
	l.PropertyType = reaxml.PropertyType("castle")
	l.Status = reaxml.Status("pending")
	l.ListingType = reaxml.ListingType("swap")

	v := Validate(l)
	got := codes(v)
	assert.Contains(t, got, CodeInvalidPropertyType)
	assert.Contains(t, got, CodeInvalidStatus)
	assert.Contains(t, got, CodeInvalidListingType)
}
