package reaxml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const residentialDoc = `<?xml version="1.0" encoding="UTF-8"?>
<propertyList>
  <residential modTime="2025-06-01-09:30:00" status="current">
    <agentID>XNWXNW</agentID>
    <uniqueID>ABC123</uniqueID>
    <category name="House"/>
    <headline>Charming family home</headline>
    <description>Four bedrooms close to schools.</description>
    <price display="no" tax="exempt">750000</price>
    <underOffer value="yes"/>
    <landDetails>
      <area unit="square">60</area>
      <frontage>18.5</frontage>
    </landDetails>
    <buildingDetails>
      <area unit="squareMeter">240</area>
      <energyRating>4.5</energyRating>
    </buildingDetails>
    <features>
      <bedrooms>4</bedrooms>
      <bathrooms>2</bathrooms>
      <garages>2</garages>
      <pool type="aboveground">yes</pool>
      <spa type="inground">yes</spa>
      <airConditioning value="yes"/>
      <dishwasher>yes</dishwasher>
    </features>
    <address display="yes">
      <subNumber>2</subNumber>
      <streetNumber>39</streetNumber>
      <street>Main Road</street>
      <suburb>RICHMOND</suburb>
      <state>vic</state>
      <postcode>3121</postcode>
      <country>Australia</country>
    </address>
    <listingAgent id="7">
      <name>Jane Citizen</name>
      <telephone type="mobile">0412 345 678</telephone>
      <telephone type="BH">03 9555 1234</telephone>
      <email>jane@example.com.au</email>
    </listingAgent>
    <listingAgent>
      <name>Sam Realtor</name>
      <telephone type="fax">03 9555 9999</telephone>
    </listingAgent>
    <images>
      <img id="m" url="http://cdn.example.com/1.jpg"/>
      <img id="a" url="http://cdn.example.com/2.jpg"/>
    </images>
    <objects>
      <floorplan id="1" url="http://cdn.example.com/plan.png"/>
      <document id="1" url="http://cdn.example.com/contract.pdf"/>
    </objects>
    <inspectionTimes>
      <inspection>21-Jun-2025 11:00am to 11:45am</inspection>
      <inspection>By appointment</inspection>
    </inspectionTimes>
    <auction date="2025-07-05-10:00:00"/>
  </residential>
</propertyList>`

func TestParseResidential(t *testing.T) {
	listings, err := Parse([]byte(residentialDoc))
	require.NoError(t, err)
	require.Len(t, listings, 1)
	l := listings[0]

	assert.Equal(t, "XNWXNW", l.AgentID)
	assert.Equal(t, "ABC123", l.UniqueID)
	assert.Equal(t, PropertyResidential, l.PropertyType)
	assert.Equal(t, ListingSale, l.ListingType)
	assert.Equal(t, StatusCurrent, l.Status)
	require.NotNil(t, l.Category)
	assert.Equal(t, "House", *l.Category)
	require.NotNil(t, l.ModTime)
	assert.Equal(t, 2025, l.ModTime.Year())

	require.NotNil(t, l.Price)
	assert.Equal(t, 750000.0, *l.Price)
	assert.False(t, l.PriceDisplay)
	require.NotNil(t, l.PriceTax)
	assert.Equal(t, "exempt", *l.PriceTax)
	assert.True(t, l.UnderOffer)

	// 60 squares convert to square metres and the unit is rewritten.
	require.NotNil(t, l.LandArea)
	assert.InDelta(t, 557.42, *l.LandArea, 0.001)
	assert.Equal(t, "sqm", *l.LandAreaUnit)
	assert.Equal(t, 240.0, *l.BuildingArea)
	assert.Equal(t, "sqm", *l.BuildingAreaUnit)
	assert.Equal(t, 18.5, *l.Frontage)
	assert.Equal(t, 4.5, *l.EnergyRating)

	require.NotNil(t, l.Features)
	assert.Equal(t, 4, *l.Features.Bedrooms)
	assert.Equal(t, 2, *l.Features.Bathrooms)
	assert.True(t, l.Features.PoolAboveGround)
	assert.False(t, l.Features.PoolInGround)
	assert.True(t, l.Features.InsideSpa)
	assert.True(t, l.Features.AirConditioning)
	assert.True(t, l.Features.Dishwasher)

	require.NotNil(t, l.Address)
	assert.Equal(t, "2", l.Address.SubNumber)
	assert.Equal(t, "RICHMOND", l.Address.Suburb)
	assert.Equal(t, "Australia", l.Address.Country)

	require.NotNil(t, l.AuctionDate)
	assert.Equal(t, 7, int(l.AuctionDate.Month()))

	assert.Nil(t, l.RuralFeatures)
	assert.Nil(t, l.SoldDetails)
}

func TestParseAgents(t *testing.T) {
	listings, err := Parse([]byte(residentialDoc))
	require.NoError(t, err)
	require.Len(t, listings[0].Agents, 2)

	first := listings[0].Agents[0]
	assert.Equal(t, 7, first.Position) // id attribute doubles as position
	require.NotNil(t, first.AgentCode)
	assert.Equal(t, "7", *first.AgentCode)
	assert.Equal(t, "Jane Citizen", first.Name)
	require.NotNil(t, first.Mobile)
	assert.Equal(t, "0412 345 678", *first.Mobile)
	require.NotNil(t, first.OfficePhone)
	assert.Equal(t, "03 9555 1234", *first.OfficePhone)

	second := listings[0].Agents[1]
	assert.Equal(t, 2, second.Position) // no id: 1-based document order
	assert.Nil(t, second.AgentCode)
	// Unrecognized telephone type fills mobile first.
	require.NotNil(t, second.Mobile)
	assert.Equal(t, "03 9555 9999", *second.Mobile)
	assert.Nil(t, second.OfficePhone)
}

func TestParseImageOrdering(t *testing.T) {
	listings, err := Parse([]byte(residentialDoc))
	require.NoError(t, err)
	imgs := listings[0].Images
	require.Len(t, imgs, 4)

	// One monotonic counter across photos, floorplans, documents.
	assert.Equal(t, ImagePhoto, imgs[0].Kind)
	assert.Equal(t, 0, imgs[0].SortOrder)
	assert.Equal(t, "http://cdn.example.com/1.jpg", imgs[0].URL)
	assert.Equal(t, ImagePhoto, imgs[1].Kind)
	assert.Equal(t, 1, imgs[1].SortOrder)
	assert.Equal(t, ImageFloorplan, imgs[2].Kind)
	assert.Equal(t, 2, imgs[2].SortOrder)
	assert.Equal(t, ImageDocument, imgs[3].Kind)
	assert.Equal(t, 3, imgs[3].SortOrder)
}

func TestParseInspections(t *testing.T) {
	listings, err := Parse([]byte(residentialDoc))
	require.NoError(t, err)
	insp := listings[0].Inspections
	require.Len(t, insp, 2)

	require.NotNil(t, insp[0].Start)
	assert.Equal(t, 11, insp[0].Start.Hour())
	require.NotNil(t, insp[0].End)

	// Non-matching text keeps the description with no instants.
	assert.Equal(t, "By appointment", insp[1].Description)
	assert.Nil(t, insp[1].Start)
	assert.Nil(t, insp[1].End)
}

func TestParseDialects(t *testing.T) {
	doc := `<propertyList>
	  <rental status="current" modTime="2025-06-01-09:30:00">
	    <agentID>AG1</agentID>
	    <uniqueID>R1</uniqueID>
	    <category name="Unit"/>
	    <rent period="week" display="yes">550</rent>
	    <bond>2200</bond>
	    <dateAvailable>2025-07-01</dateAvailable>
	  </rental>
	  <commercial status="current">
	    <agentID>AG1</agentID>
	    <uniqueID>C1</uniqueID>
	    <commercialCategory>Retail</commercialCategory>
	    <commercialListingType value="lease"/>
	    <commercialRent>40000</commercialRent>
	    <outgoings>5500</outgoings>
	    <return>6.2</return>
	  </commercial>
	  <land status="current">
	    <agentID>AG1</agentID>
	    <uniqueID>L1</uniqueID>
	    <landCategory name="Residential"/>
	  </land>
	  <rural status="current">
	    <agentID>AG1</agentID>
	    <uniqueID>RU1</uniqueID>
	    <ruralCategory name="Cropping"/>
	    <ruralFeatures>
	      <fencing>Fully fenced</fencing>
	      <annualRainfall>650mm</annualRainfall>
	    </ruralFeatures>
	  </rural>
	  <holidayRental status="current">
	    <agentID>AG1</agentID>
	    <uniqueID>H1</uniqueID>
	  </holidayRental>
	</propertyList>`

	listings, err := Parse([]byte(doc))
	require.NoError(t, err)
	require.Len(t, listings, 5)

	byID := map[string]Listing{}
	for _, l := range listings {
		byID[l.UniqueID] = l
	}

	rental := byID["R1"]
	assert.Equal(t, ListingRent, rental.ListingType)
	assert.Equal(t, "Unit", *rental.Category)
	assert.Equal(t, 550.0, *rental.RentAmount)
	assert.Equal(t, "week", *rental.RentPeriod)
	assert.True(t, rental.RentDisplay)
	assert.Equal(t, 2200.0, *rental.Bond)
	require.NotNil(t, rental.DateAvailable)

	commercial := byID["C1"]
	assert.Equal(t, ListingLease, commercial.ListingType)
	assert.Equal(t, "Retail", *commercial.Category)
	assert.Equal(t, 40000.0, *commercial.CommercialRent)
	assert.Equal(t, 5500.0, *commercial.Outgoings)
	assert.Equal(t, 6.2, *commercial.ReturnPercent)

	assert.Equal(t, ListingSale, byID["L1"].ListingType)
	assert.Equal(t, "Residential", *byID["L1"].Category)

	rural := byID["RU1"]
	assert.Equal(t, PropertyRural, rural.PropertyType)
	require.NotNil(t, rural.RuralFeatures)
	assert.Equal(t, "Fully fenced", *rural.RuralFeatures.Fencing)
	assert.Equal(t, "650mm", *rural.RuralFeatures.AnnualRainfall)

	assert.Equal(t, ListingRent, byID["H1"].ListingType)
}

func TestParseDropsUncorrelatableListings(t *testing.T) {
	doc := `<propertyList>
	  <residential status="current">
	    <uniqueID>NO-AGENT</uniqueID>
	  </residential>
	  <residential status="current">
	    <agentID>AG1</agentID>
	    <uniqueID>OK1</uniqueID>
	  </residential>
	</propertyList>`

	listings, err := Parse([]byte(doc))
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, "OK1", listings[0].UniqueID)
}

func TestParseStatusDefaultsAndSoldDetails(t *testing.T) {
	doc := `<propertyList>
	  <residential modTime="2025-06-01-09:30:00">
	    <agentID>AG1</agentID>
	    <uniqueID>D1</uniqueID>
	  </residential>
	  <residential status="sold">
	    <agentID>AG1</agentID>
	    <uniqueID>S1</uniqueID>
	    <soldDetails>
	      <price display="no">580000</price>
	      <date>2025-05-30</date>
	    </soldDetails>
	  </residential>
	</propertyList>`

	listings, err := Parse([]byte(doc))
	require.NoError(t, err)
	require.Len(t, listings, 2)

	assert.Equal(t, StatusCurrent, listings[0].Status)
	assert.Nil(t, listings[0].SoldDetails)

	sold := listings[1]
	assert.Equal(t, StatusSold, sold.Status)
	require.NotNil(t, sold.SoldDetails)
	assert.Equal(t, 580000.0, *sold.SoldDetails.Price)
	assert.False(t, sold.SoldDetails.PriceDisplay)
	require.NotNil(t, sold.SoldDetails.Date)
}

func TestParseEmptyRoot(t *testing.T) {
	listings, err := Parse([]byte(`<propertyList/>`))
	require.NoError(t, err)
	assert.Empty(t, listings)
}

func TestParseMissingRoot(t *testing.T) {
	_, err := Parse([]byte(`<somethingElse/>`))
	assert.ErrorIs(t, err, ErrNoPropertyList)
}

func TestParseMalformedDocument(t *testing.T) {
	_, err := Parse([]byte(`<propertyList><residential id="x</propertyList>`))
	assert.Error(t, err)

	// Missing end tags are tolerated; the decoder balances them.
	listings, err := Parse([]byte(`<propertyList><residential><agentID>A</agentID><uniqueID>U</uniqueID>`))
	require.NoError(t, err)
	assert.Len(t, listings, 1)
}

func TestParsePoolSpaFallbackElements(t *testing.T) {
	doc := `<propertyList>
	  <residential status="current">
	    <agentID>AG1</agentID>
	    <uniqueID>P1</uniqueID>
	    <features>
	      <pool>yes</pool>
	      <poolAboveGround>yes</poolAboveGround>
	      <spa type="inground">yes</spa>
	      <insideSpa value="no"/>
	    </features>
	  </residential>
	</propertyList>`

	listings, err := Parse([]byte(doc))
	require.NoError(t, err)
	f := listings[0].Features
	require.NotNil(t, f)
	// pool with no type attribute is the in-ground flag.
	assert.True(t, f.PoolInGround)
	// dedicated element filled the above-ground flag independently.
	assert.True(t, f.PoolAboveGround)
	// insideSpa takes precedence over the spa-derived value.
	assert.False(t, f.InsideSpa)
}
