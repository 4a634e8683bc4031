package reaxml

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrNoPropertyList is the document-level structural failure: the root
// element is missing or is not a propertyList.
var ErrNoPropertyList = errors.New("document has no propertyList root")

// dialects maps the six listing containers to their provenance-fixed
// property type, in the order the containers are scanned.
var dialects = []struct {
	element string
	ptype   PropertyType
}{
	{"residential", PropertyResidential},
	{"rental", PropertyRental},
	{"commercial", PropertyCommercial},
	{"land", PropertyLand},
	{"rural", PropertyRural},
	{"holidayRental", PropertyHolidayRental},
}

// categoryElements: the category payload lives under a different element
// name per dialect.
var categoryElements = map[PropertyType]string{
	PropertyResidential:   "category",
	PropertyRental:        "category",
	PropertyHolidayRental: "category",
	PropertyCommercial:    "commercialCategory",
	PropertyLand:          "landCategory",
	PropertyRural:         "ruralCategory",
}

// Parse maps one REAXML document to the canonical listing records, in
// document order per dialect. Listings missing either identity field are
// dropped: they cannot be correlated with anything downstream. An empty
// propertyList is valid and yields no records.
func Parse(doc []byte) ([]Listing, error) {
	root, err := decodeDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("reaxml: %w", err)
	}
	if root == nil || root.Name != "propertyList" {
		return nil, ErrNoPropertyList
	}
	var out []Listing
	for _, d := range dialects {
		for _, el := range root.All(d.element) {
			if l, ok := buildListing(el, d.ptype); ok {
				out = append(out, l)
			}
		}
	}
	return out, nil
}

func buildListing(el *Node, pt PropertyType) (Listing, bool) {
	agentID := nodeText(el.Child("agentID"))
	uniqueID := nodeText(el.Child("uniqueID"))
	if agentID == "" || uniqueID == "" {
		return Listing{}, false
	}

	l := Listing{
		AgentID:      agentID,
		UniqueID:     uniqueID,
		PropertyType: pt,
		Status:       parseStatus(el.Attr("status")),
		ModTime:      ParseDate(el.Attr("modTime")),
		ListingType:  listingTypeFor(pt, el),
		Category:     extractCategory(el, pt),
		Headline:     optString(el.Child("headline")),
		Description:  optString(el.Child("description")),
		PriceDisplay: true,
		RentDisplay:  true,
	}

	extractPricing(el, &l)
	extractPhysical(el, &l)
	extractDates(el, &l)

	l.Address = extractAddress(el.Child("address"))
	l.Features = extractFeatures(el.Child("features"))
	if pt == PropertyRural {
		l.RuralFeatures = extractRuralFeatures(el.Child("ruralFeatures"))
	}
	l.SoldDetails = extractSoldDetails(el.Child("soldDetails"))
	l.Agents = extractAgents(el.All("listingAgent"))
	l.Images = extractImages(el)
	l.Inspections = extractInspections(el.Child("inspectionTimes"))

	return l, true
}

func parseStatus(raw string) Status {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return StatusCurrent
	}
	return Status(s)
}

// listingTypeFor: rental dialects always rent; commercial reads its explicit
// sub-value; everything else sells.
func listingTypeFor(pt PropertyType, el *Node) ListingType {
	switch pt {
	case PropertyRental, PropertyHolidayRental:
		return ListingRent
	case PropertyCommercial:
		switch strings.ToLower(nodeText(el.Child("commercialListingType"))) {
		case "lease":
			return ListingLease
		case "both":
			return ListingBoth
		default:
			return ListingSale
		}
	default:
		return ListingSale
	}
}

func extractCategory(el *Node, pt PropertyType) *string {
	n := el.Child(categoryElements[pt])
	if n == nil {
		return nil
	}
	// Residential feeds put the category in a name attribute, commercial
	// ones in the element body.
	if v := strings.TrimSpace(n.Attr("name")); v != "" {
		return &v
	}
	return optString(n)
}

func extractPricing(el *Node, l *Listing) {
	if p := el.Child("price"); p != nil {
		l.Price = nodeFloat(p)
		if d := p.Attr("display"); d != "" {
			l.PriceDisplay = Bool(d)
		}
		if tax := strings.TrimSpace(p.Attr("tax")); tax != "" {
			l.PriceTax = &tax
		}
	}
	if r := el.Child("rent"); r != nil {
		l.RentAmount = nodeFloat(r)
		if period := strings.TrimSpace(r.Attr("period")); period != "" {
			l.RentPeriod = &period
		}
		if d := r.Attr("display"); d != "" {
			l.RentDisplay = Bool(d)
		}
	}
	if cr := el.Child("commercialRent"); cr != nil {
		l.CommercialRent = nodeFloat(cr)
		if l.PriceTax == nil {
			if tax := strings.TrimSpace(cr.Attr("tax")); tax != "" {
				l.PriceTax = &tax
			}
		}
	}
	l.Outgoings = nodeFloat(el.Child("outgoings"))
	l.ReturnPercent = nodeFloat(el.Child("return"))
	l.Bond = nodeFloat(el.Child("bond"))
	l.UnderOffer = nodeBool(el.Child("underOffer"))
}

func extractPhysical(el *Node, l *Listing) {
	l.LandArea, l.LandAreaUnit = extractArea(el.Child("landDetails"))
	if ld := el.Child("landDetails"); ld != nil {
		l.Frontage = nodeFloat(ld.Child("frontage"))
	}
	bd := el.Child("buildingDetails")
	l.BuildingArea, l.BuildingAreaUnit = extractArea(bd)
	if bd != nil {
		l.EnergyRating = nodeFloat(bd.Child("energyRating"))
	}
}

// extractArea reads the container's area sub-element and normalizes its
// unit attribute; see NormalizeArea for the square conversion.
func extractArea(container *Node) (*float64, *string) {
	if container == nil {
		return nil, nil
	}
	a := container.Child("area")
	if a == nil {
		return nil, nil
	}
	v := nodeFloat(a)
	if v == nil {
		return nil, nil
	}
	val, unit := NormalizeArea(*v, a.Attr("unit"))
	return &val, &unit
}

func extractDates(el *Node, l *Listing) {
	if a := el.Child("auction"); a != nil {
		if raw := firstNonEmpty(a.Attr("date"), a.Text); raw != "" {
			l.AuctionDate = ParseDate(raw)
		}
	}
	l.DateAvailable = parseDateNode(el.Child("dateAvailable"))
	l.LeaseEnd = parseDateNode(el.Child("leaseEnd"))
}

func parseDateNode(n *Node) *time.Time {
	if n == nil {
		return nil
	}
	return ParseDate(firstNonEmpty(n.Attr("date"), n.Text))
}

func extractAddress(n *Node) *Address {
	if n == nil {
		return nil
	}
	a := &Address{
		SubNumber:    nodeText(n.Child("subNumber")),
		LotNumber:    nodeText(n.Child("lotNumber")),
		StreetNumber: nodeText(n.Child("streetNumber")),
		Street:       nodeText(n.Child("street")),
		Suburb:       nodeText(n.Child("suburb")),
		State:        nodeText(n.Child("state")),
		Postcode:     nodeText(n.Child("postcode")),
		Country:      nodeText(n.Child("country")),
		Display:      true,
	}
	if d := n.Attr("display"); d != "" {
		a.Display = Bool(d)
	}
	return a
}

func extractFeatures(n *Node) *Features {
	if n == nil {
		return nil
	}
	f := &Features{
		Bedrooms:   nodeInt(n.Child("bedrooms")),
		Bathrooms:  nodeInt(n.Child("bathrooms")),
		Ensuites:   nodeInt(n.Child("ensuite")),
		Toilets:    nodeInt(n.Child("toilets")),
		Garages:    nodeInt(n.Child("garages")),
		Carports:   nodeInt(n.Child("carports")),
		OpenSpaces: nodeInt(n.Child("openSpaces")),
	}

	// Pool and spa are type-attribute-sensitive, with dedicated plain
	// elements as the second path. insideSpa wins over spa when both
	// appear.
	if p := n.Child("pool"); p != nil {
		switch strings.ToLower(p.Attr("type")) {
		case "aboveground":
			f.PoolAboveGround = nodeBool(p)
		default:
			f.PoolInGround = nodeBool(p)
		}
	}
	if d := n.Child("poolInGround"); d != nil && !f.PoolInGround {
		f.PoolInGround = nodeBool(d)
	}
	if d := n.Child("poolAboveGround"); d != nil && !f.PoolAboveGround {
		f.PoolAboveGround = nodeBool(d)
	}
	if s := n.Child("spa"); s != nil {
		switch strings.ToLower(s.Attr("type")) {
		case "aboveground", "outside":
			f.OutsideSpa = nodeBool(s)
		default:
			f.InsideSpa = nodeBool(s)
		}
	}
	if d := n.Child("insideSpa"); d != nil {
		f.InsideSpa = nodeBool(d)
	}
	if d := n.Child("outsideSpa"); d != nil {
		f.OutsideSpa = nodeBool(d)
	}

	flags := []struct {
		element string
		dst     *bool
	}{
		{"airConditioning", &f.AirConditioning},
		{"alarmSystem", &f.AlarmSystem},
		{"balcony", &f.Balcony},
		{"broadband", &f.Broadband},
		{"builtInRobes", &f.BuiltInRobes},
		{"courtyard", &f.Courtyard},
		{"deck", &f.Deck},
		{"dishwasher", &f.Dishwasher},
		{"ductedCooling", &f.DuctedCooling},
		{"ductedHeating", &f.DuctedHeating},
		{"evaporativeCooling", &f.EvaporativeCooling},
		{"floorboards", &f.Floorboards},
		{"fullyFenced", &f.FullyFenced},
		{"gasHeating", &f.GasHeating},
		{"gym", &f.Gym},
		{"hydronicHeating", &f.HydronicHeating},
		{"intercom", &f.Intercom},
		{"openFirePlace", &f.OpenFirePlace},
		{"outdoorEnt", &f.OutdoorEnt},
		{"payTV", &f.PayTV},
		{"petFriendly", &f.PetFriendly},
		{"remoteGarage", &f.RemoteGarage},
		{"reverseCycleAirCon", &f.ReverseCycleAirCon},
		{"rumpusRoom", &f.RumpusRoom},
		{"secureParking", &f.SecureParking},
		{"shed", &f.Shed},
		{"solarHotWater", &f.SolarHotWater},
		{"solarPanels", &f.SolarPanels},
		{"splitSystemAirCon", &f.SplitSystemAirCon},
		{"splitSystemHeating", &f.SplitSystemHeating},
		{"study", &f.Study},
		{"tennisCourt", &f.TennisCourt},
		{"vacuumSystem", &f.VacuumSystem},
		{"waterTank", &f.WaterTank},
		{"workshop", &f.Workshop},
	}
	for _, fl := range flags {
		if c := n.Child(fl.element); c != nil {
			*fl.dst = nodeBool(c)
		}
	}
	return f
}

func extractRuralFeatures(n *Node) *RuralFeatures {
	if n == nil {
		return nil
	}
	return &RuralFeatures{
		Fencing:          optString(n.Child("fencing")),
		AnnualRainfall:   optString(n.Child("annualRainfall")),
		SoilTypes:        optString(n.Child("soilTypes")),
		Improvements:     optString(n.Child("improvements")),
		CouncilRates:     optString(n.Child("councilRates")),
		Irrigation:       optString(n.Child("irrigation")),
		CarryingCapacity: optString(n.Child("carryingCapacity")),
		Services:         optString(n.Child("services")),
	}
}

func extractSoldDetails(n *Node) *SoldDetails {
	if n == nil {
		return nil
	}
	sd := &SoldDetails{PriceDisplay: true}
	if p := n.Child("price"); p != nil {
		sd.Price = nodeFloat(p)
		if d := p.Attr("display"); d != "" {
			sd.PriceDisplay = Bool(d)
		}
	}
	sd.Date = parseDateNode(n.Child("date"))
	return sd
}

func extractAgents(nodes []*Node) []Agent {
	var out []Agent
	for i, n := range nodes {
		a := Agent{
			Position:    i + 1,
			Name:        nodeText(n.Child("name")),
			Email:       optString(n.Child("email")),
			TwitterURL:  optString(n.Child("twitterURL")),
			FacebookURL: optString(n.Child("facebookURL")),
			LinkedInURL: optString(n.Child("linkedInURL")),
		}
		// The id attribute doubles as display position and agency-issued
		// agent code.
		if id := strings.TrimSpace(n.Attr("id")); id != "" {
			a.AgentCode = &id
			if pos, err := strconv.Atoi(id); err == nil {
				a.Position = pos
			}
		}
		for _, tel := range n.All("telephone") {
			num := nodeText(tel)
			if num == "" {
				continue
			}
			switch strings.ToLower(tel.Attr("type")) {
			case "mobile":
				if a.Mobile == nil {
					a.Mobile = &num
				}
			case "office", "bh":
				if a.OfficePhone == nil {
					a.OfficePhone = &num
				}
			default:
				// Unrecognized types fill mobile first, then office.
				if a.Mobile == nil {
					a.Mobile = &num
				} else if a.OfficePhone == nil {
					a.OfficePhone = &num
				}
			}
		}
		out = append(out, a)
	}
	return out
}

// extractImages assigns one monotonic sort order across photos, floorplans
// and documents, in that order. Downstream read paths treat order 0 as the
// hero image, so this ordering is a contract.
func extractImages(el *Node) []Image {
	var out []Image
	order := 0
	appendImage := func(kind ImageKind, n *Node) {
		url := firstNonEmpty(n.Attr("url"), n.Attr("file"), n.Text)
		if url == "" {
			return
		}
		out = append(out, Image{Kind: kind, URL: url, SortOrder: order})
		order++
	}
	if imgs := el.Child("images"); imgs != nil {
		for _, n := range imgs.All("img") {
			appendImage(ImagePhoto, n)
		}
	}
	if objects := el.Child("objects"); objects != nil {
		for _, n := range objects.All("floorplan") {
			appendImage(ImageFloorplan, n)
		}
		for _, n := range objects.All("document") {
			appendImage(ImageDocument, n)
		}
	}
	return out
}

func extractInspections(n *Node) []Inspection {
	if n == nil {
		return nil
	}
	var out []Inspection
	for _, c := range n.All("inspection") {
		desc := nodeText(c)
		if desc == "" {
			continue
		}
		insp := Inspection{Description: desc}
		if start, end, ok := ParseInspectionRange(desc); ok {
			insp.Start = &start
			insp.End = &end
		}
		out = append(out, insp)
	}
	return out
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
