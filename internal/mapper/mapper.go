// Package mapper turns a canonical listing plus its resolved foreign keys
// into the parent and child insert shapes the store consumes. It assumes the
// record already passed validation and does not re-validate.
package mapper

import (
	"database/sql"
	"encoding/json"
	"strconv"
	"time"

	"github.com/yourorg/listing-ingest/reaxml"
)

// ListingRow is the parent insert shape. Decimal fields are carried as text
// so NUMERIC columns never round-trip through float formatting.
type ListingRow struct {
	ID         string
	AgencyID   string
	AgencyCode string
	UniqueID   string

	PropertyType string
	Category     sql.NullString
	ListingType  string
	Status       string
	ModTime      sql.NullTime

	Headline    sql.NullString
	Description sql.NullString

	Price          sql.NullString
	PriceDisplay   bool
	PriceTax       sql.NullString
	RentAmount     sql.NullString
	RentPeriod     sql.NullString
	RentDisplay    bool
	CommercialRent sql.NullString
	Outgoings      sql.NullString
	ReturnPercent  sql.NullString
	Bond           sql.NullString
	UnderOffer     bool

	LandArea         sql.NullString
	LandAreaUnit     sql.NullString
	BuildingArea     sql.NullString
	BuildingAreaUnit sql.NullString
	Frontage         sql.NullString
	EnergyRating     sql.NullString

	AuctionDate   sql.NullTime
	DateAvailable sql.NullTime
	LeaseEnd      sql.NullTime

	// Opaque pass-through payloads, stored as JSONB.
	RuralFeatures []byte
	SoldDetails   []byte
}

type AddressRow struct {
	ListingID    string
	SubNumber    sql.NullString
	LotNumber    sql.NullString
	StreetNumber sql.NullString
	Street       sql.NullString
	Suburb       sql.NullString
	State        sql.NullString
	Postcode     sql.NullString
	Country      sql.NullString
	Formatted    string
	Display      bool
}

type FeaturesRow struct {
	ListingID  string
	Bedrooms   sql.NullInt64
	Bathrooms  sql.NullInt64
	Ensuites   sql.NullInt64
	Toilets    sql.NullInt64
	Garages    sql.NullInt64
	Carports   sql.NullInt64
	OpenSpaces sql.NullInt64
	Amenities  []byte // JSON object of the amenity flags that are set
}

type ImageRow struct {
	ListingID string
	Kind      string
	URL       string
	SortOrder int
}

type InspectionRow struct {
	ListingID   string
	Description string
	StartsAt    sql.NullTime
	EndsAt      sql.NullTime
}

type AgentRow struct {
	ListingID   string
	Position    int
	AgentCode   sql.NullString
	Name        string
	Email       sql.NullString
	Mobile      sql.NullString
	OfficePhone sql.NullString
	TwitterURL  sql.NullString
	FacebookURL sql.NullString
	LinkedInURL sql.NullString
}

// RecordSet is everything one listing writes: the parent row plus all five
// child sets, each already carrying the listing foreign key.
type RecordSet struct {
	Listing     ListingRow
	Address     *AddressRow
	Features    *FeaturesRow
	Images      []ImageRow
	Inspections []InspectionRow
	Agents      []AgentRow
}

// Map builds the insert shapes for one listing. The listing id is chosen by
// the caller before persistence so child rows can reference it up front.
func Map(l reaxml.Listing, agencyID, listingID string) RecordSet {
	row := ListingRow{
		ID:               listingID,
		AgencyID:         agencyID,
		AgencyCode:       l.AgentID,
		UniqueID:         l.UniqueID,
		PropertyType:     string(l.PropertyType),
		Category:         nullString(l.Category),
		ListingType:      string(l.ListingType),
		Status:           string(l.Status),
		ModTime:          nullTime(l.ModTime),
		Headline:         nullString(l.Headline),
		Description:      nullString(l.Description),
		Price:            nullDecimal(l.Price),
		PriceDisplay:     l.PriceDisplay,
		PriceTax:         nullString(l.PriceTax),
		RentAmount:       nullDecimal(l.RentAmount),
		RentPeriod:       nullString(l.RentPeriod),
		RentDisplay:      l.RentDisplay,
		CommercialRent:   nullDecimal(l.CommercialRent),
		Outgoings:        nullDecimal(l.Outgoings),
		ReturnPercent:    nullDecimal(l.ReturnPercent),
		Bond:             nullDecimal(l.Bond),
		UnderOffer:       l.UnderOffer,
		LandArea:         nullDecimal(l.LandArea),
		LandAreaUnit:     nullString(l.LandAreaUnit),
		BuildingArea:     nullDecimal(l.BuildingArea),
		BuildingAreaUnit: nullString(l.BuildingAreaUnit),
		Frontage:         nullDecimal(l.Frontage),
		EnergyRating:     nullDecimal(l.EnergyRating),
		AuctionDate:      nullTime(l.AuctionDate),
		DateAvailable:    nullTime(l.DateAvailable),
		LeaseEnd:         nullTime(l.LeaseEnd),
	}
	if l.RuralFeatures != nil {
		row.RuralFeatures, _ = json.Marshal(l.RuralFeatures)
	}
	if l.SoldDetails != nil {
		row.SoldDetails, _ = json.Marshal(l.SoldDetails)
	}

	set := RecordSet{Listing: row}

	if a := l.Address; a != nil {
		set.Address = &AddressRow{
			ListingID:    listingID,
			SubNumber:    nullStr(a.SubNumber),
			LotNumber:    nullStr(a.LotNumber),
			StreetNumber: nullStr(a.StreetNumber),
			Street:       nullStr(a.Street),
			Suburb:       nullStr(a.Suburb),
			State:        nullStr(a.State),
			Postcode:     nullStr(a.Postcode),
			Country:      nullStr(a.Country),
			Formatted:    FormatAddress(*a),
			Display:      a.Display,
		}
	}

	if f := l.Features; f != nil {
		fr := &FeaturesRow{
			ListingID:  listingID,
			Bedrooms:   nullInt(f.Bedrooms),
			Bathrooms:  nullInt(f.Bathrooms),
			Ensuites:   nullInt(f.Ensuites),
			Toilets:    nullInt(f.Toilets),
			Garages:    nullInt(f.Garages),
			Carports:   nullInt(f.Carports),
			OpenSpaces: nullInt(f.OpenSpaces),
		}
		if flags := amenityFlags(f); len(flags) > 0 {
			fr.Amenities, _ = json.Marshal(flags)
		}
		set.Features = fr
	}

	for _, img := range l.Images {
		set.Images = append(set.Images, ImageRow{
			ListingID: listingID,
			Kind:      string(img.Kind),
			URL:       img.URL,
			SortOrder: img.SortOrder,
		})
	}
	for _, insp := range l.Inspections {
		set.Inspections = append(set.Inspections, InspectionRow{
			ListingID:   listingID,
			Description: insp.Description,
			StartsAt:    nullTime(insp.Start),
			EndsAt:      nullTime(insp.End),
		})
	}
	for _, ag := range l.Agents {
		set.Agents = append(set.Agents, AgentRow{
			ListingID:   listingID,
			Position:    ag.Position,
			AgentCode:   nullString(ag.AgentCode),
			Name:        ag.Name,
			Email:       nullString(ag.Email),
			Mobile:      nullString(ag.Mobile),
			OfficePhone: nullString(ag.OfficePhone),
			TwitterURL:  nullString(ag.TwitterURL),
			FacebookURL: nullString(ag.FacebookURL),
			LinkedInURL: nullString(ag.LinkedInURL),
		})
	}
	return set
}

// amenityFlags collects the set flags under their feed element names.
func amenityFlags(f *reaxml.Features) map[string]bool {
	all := map[string]bool{
		"airConditioning":    f.AirConditioning,
		"alarmSystem":        f.AlarmSystem,
		"balcony":            f.Balcony,
		"broadband":          f.Broadband,
		"builtInRobes":       f.BuiltInRobes,
		"courtyard":          f.Courtyard,
		"deck":               f.Deck,
		"dishwasher":         f.Dishwasher,
		"ductedCooling":      f.DuctedCooling,
		"ductedHeating":      f.DuctedHeating,
		"evaporativeCooling": f.EvaporativeCooling,
		"floorboards":        f.Floorboards,
		"fullyFenced":        f.FullyFenced,
		"gasHeating":         f.GasHeating,
		"gym":                f.Gym,
		"hydronicHeating":    f.HydronicHeating,
		"insideSpa":          f.InsideSpa,
		"intercom":           f.Intercom,
		"openFirePlace":      f.OpenFirePlace,
		"outdoorEnt":         f.OutdoorEnt,
		"outsideSpa":         f.OutsideSpa,
		"payTV":              f.PayTV,
		"petFriendly":        f.PetFriendly,
		"poolAboveGround":    f.PoolAboveGround,
		"poolInGround":       f.PoolInGround,
		"remoteGarage":       f.RemoteGarage,
		"reverseCycleAirCon": f.ReverseCycleAirCon,
		"rumpusRoom":         f.RumpusRoom,
		"secureParking":      f.SecureParking,
		"shed":               f.Shed,
		"solarHotWater":      f.SolarHotWater,
		"solarPanels":        f.SolarPanels,
		"splitSystemAirCon":  f.SplitSystemAirCon,
		"splitSystemHeating": f.SplitSystemHeating,
		"study":              f.Study,
		"tennisCourt":        f.TennisCourt,
		"vacuumSystem":       f.VacuumSystem,
		"waterTank":          f.WaterTank,
		"workshop":           f.Workshop,
	}
	out := make(map[string]bool)
	for name, set := range all {
		if set {
			out[name] = true
		}
	}
	return out
}

// nullDecimal stringifies a decimal for a NUMERIC column. Absent values map
// to SQL NULL, never "0".
func nullDecimal(v *float64) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: strconv.FormatFloat(*v, 'f', -1, 64), Valid: true}
}

func nullString(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullStr(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
