package reaxml

import "time"

// PropertyType is fixed by which dialect container held the listing; it is
// never read from the payload itself.
type PropertyType string

const (
	PropertyResidential   PropertyType = "residential"
	PropertyRental        PropertyType = "rental"
	PropertyCommercial    PropertyType = "commercial"
	PropertyLand          PropertyType = "land"
	PropertyRural         PropertyType = "rural"
	PropertyHolidayRental PropertyType = "holidayRental"
)

type ListingType string

const (
	ListingSale  ListingType = "sale"
	ListingRent  ListingType = "rent"
	ListingLease ListingType = "lease"
	ListingBoth  ListingType = "both"
)

type Status string

const (
	StatusCurrent   Status = "current"
	StatusWithdrawn Status = "withdrawn"
	StatusOffMarket Status = "offmarket"
	StatusSold      Status = "sold"
	StatusLeased    Status = "leased"
	StatusDeleted   Status = "deleted"
)

// Listing is the canonical record all six dialects normalize into. Optional
// scalars are pointers so downstream storage can distinguish absent from
// zero.
type Listing struct {
	AgentID  string
	UniqueID string

	PropertyType PropertyType
	Category     *string
	ListingType  ListingType
	Status       Status
	ModTime      *time.Time

	Headline    *string
	Description *string

	Price          *float64
	PriceDisplay   bool
	PriceTax       *string
	RentAmount     *float64
	RentPeriod     *string
	RentDisplay    bool
	CommercialRent *float64
	Outgoings      *float64
	ReturnPercent  *float64
	Bond           *float64
	UnderOffer     bool

	LandArea         *float64
	LandAreaUnit     *string
	BuildingArea     *float64
	BuildingAreaUnit *string
	Frontage         *float64
	EnergyRating     *float64

	AuctionDate   *time.Time
	DateAvailable *time.Time
	LeaseEnd      *time.Time

	Address       *Address
	Features      *Features
	RuralFeatures *RuralFeatures
	SoldDetails   *SoldDetails

	Agents      []Agent
	Images      []Image
	Inspections []Inspection
}

type Address struct {
	SubNumber    string
	LotNumber    string
	StreetNumber string
	Street       string
	Suburb       string
	State        string
	Postcode     string
	Country      string
	Display      bool
}

// Features carries the occupancy counts plus the amenity flag block shared
// by every dialect.
type Features struct {
	Bedrooms   *int
	Bathrooms  *int
	Ensuites   *int
	Toilets    *int
	Garages    *int
	Carports   *int
	OpenSpaces *int

	AirConditioning    bool
	AlarmSystem        bool
	Balcony            bool
	Broadband          bool
	BuiltInRobes       bool
	Courtyard          bool
	Deck               bool
	Dishwasher         bool
	DuctedCooling      bool
	DuctedHeating      bool
	EvaporativeCooling bool
	Floorboards        bool
	FullyFenced        bool
	GasHeating         bool
	Gym                bool
	HydronicHeating    bool
	InsideSpa          bool
	Intercom           bool
	OpenFirePlace      bool
	OutdoorEnt         bool
	OutsideSpa         bool
	PayTV              bool
	PetFriendly        bool
	PoolAboveGround    bool
	PoolInGround       bool
	RemoteGarage       bool
	ReverseCycleAirCon bool
	RumpusRoom         bool
	SecureParking      bool
	Shed               bool
	SolarHotWater      bool
	SolarPanels        bool
	SplitSystemAirCon  bool
	SplitSystemHeating bool
	Study              bool
	TennisCourt        bool
	VacuumSystem       bool
	WaterTank          bool
	Workshop           bool
}

// RuralFeatures is free text throughout; present only for the rural dialect.
type RuralFeatures struct {
	Fencing          *string `json:"fencing,omitempty"`
	AnnualRainfall   *string `json:"annualRainfall,omitempty"`
	SoilTypes        *string `json:"soilTypes,omitempty"`
	Improvements     *string `json:"improvements,omitempty"`
	CouncilRates     *string `json:"councilRates,omitempty"`
	Irrigation       *string `json:"irrigation,omitempty"`
	CarryingCapacity *string `json:"carryingCapacity,omitempty"`
	Services         *string `json:"services,omitempty"`
}

type SoldDetails struct {
	Price        *float64   `json:"price,omitempty"`
	PriceDisplay bool       `json:"priceDisplay"`
	Date         *time.Time `json:"date,omitempty"`
}

type Agent struct {
	Position    int
	AgentCode   *string
	Name        string
	Email       *string
	Mobile      *string
	OfficePhone *string
	TwitterURL  *string
	FacebookURL *string
	LinkedInURL *string
}

type ImageKind string

const (
	ImagePhoto     ImageKind = "photo"
	ImageFloorplan ImageKind = "floorplan"
	ImageDocument  ImageKind = "document"
)

// Image sort order is assigned across all three streams in parse order;
// the photo at order 0 is the downstream hero image.
type Image struct {
	Kind      ImageKind
	URL       string
	SortOrder int
}

type Inspection struct {
	Description string
	Start       *time.Time
	End         *time.Time
}
