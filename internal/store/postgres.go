// Package store is the Postgres persistence layer. The write paths that
// touch child tables run inside a single transaction so a crash mid-update
// can never leave a listing with stale or missing children.
package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/yourorg/listing-ingest/internal/mapper"
)

type Store struct{ DB *sql.DB }

func Open(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)
	return &Store{DB: db}, nil
}

func (s *Store) Ping(ctx context.Context) error { return s.DB.PingContext(ctx) }

func (s *Store) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		`CREATE TABLE IF NOT EXISTS agencies (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            code        TEXT NOT NULL,
            name        TEXT NOT NULL DEFAULT '',
            created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
        );`,
		`CREATE UNIQUE INDEX IF NOT EXISTS ux_agencies_code ON agencies(code);`,
		`CREATE TABLE IF NOT EXISTS listings (
            id UUID PRIMARY KEY,
            agency_id          UUID NOT NULL REFERENCES agencies(id),
            agency_code        TEXT NOT NULL,
            unique_id          TEXT NOT NULL,
            property_type      TEXT NOT NULL,
            category           TEXT,
            listing_type       TEXT NOT NULL,
            status             TEXT NOT NULL,
            mod_time           TIMESTAMPTZ,
            headline           TEXT,
            description        TEXT,
            price              NUMERIC,
            price_display      BOOLEAN NOT NULL DEFAULT true,
            price_tax          TEXT,
            rent_amount        NUMERIC,
            rent_period        TEXT,
            rent_display       BOOLEAN NOT NULL DEFAULT true,
            commercial_rent    NUMERIC,
            outgoings          NUMERIC,
            return_percent     NUMERIC,
            bond               NUMERIC,
            under_offer        BOOLEAN NOT NULL DEFAULT false,
            land_area          NUMERIC,
            land_area_unit     TEXT,
            building_area      NUMERIC,
            building_area_unit TEXT,
            frontage           NUMERIC,
            energy_rating      NUMERIC,
            auction_date       TIMESTAMPTZ,
            date_available     TIMESTAMPTZ,
            lease_end          TIMESTAMPTZ,
            rural_features     JSONB,
            sold_details       JSONB,
            created_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
            updated_at         TIMESTAMPTZ NOT NULL DEFAULT now()
        );`,
		// Natural key: agency feed code + feed unique id. Keying on the
		// code keeps listings reachable even if the code is re-mapped to a
		// different agency row.
		`CREATE UNIQUE INDEX IF NOT EXISTS ux_listings_agency_code_unique_id ON listings(agency_code, unique_id);`,
		`CREATE INDEX IF NOT EXISTS idx_listings_status ON listings(status);`,
		`CREATE TABLE IF NOT EXISTS listing_addresses (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            listing_id    UUID NOT NULL REFERENCES listings(id) ON DELETE CASCADE,
            sub_number    TEXT,
            lot_number    TEXT,
            street_number TEXT,
            street        TEXT,
            suburb        TEXT,
            state         TEXT,
            postcode      TEXT,
            country       TEXT,
            formatted     TEXT NOT NULL DEFAULT '',
            display       BOOLEAN NOT NULL DEFAULT true
        );`,
		`CREATE INDEX IF NOT EXISTS idx_addresses_listing ON listing_addresses(listing_id);`,
		`CREATE TABLE IF NOT EXISTS listing_features (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            listing_id  UUID NOT NULL REFERENCES listings(id) ON DELETE CASCADE,
            bedrooms    SMALLINT,
            bathrooms   SMALLINT,
            ensuites    SMALLINT,
            toilets     SMALLINT,
            garages     SMALLINT,
            carports    SMALLINT,
            open_spaces SMALLINT,
            amenities   JSONB
        );`,
		`CREATE INDEX IF NOT EXISTS idx_features_listing ON listing_features(listing_id);`,
		`CREATE TABLE IF NOT EXISTS listing_images (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            listing_id UUID NOT NULL REFERENCES listings(id) ON DELETE CASCADE,
            kind       TEXT NOT NULL,
            url        TEXT NOT NULL,
            sort_order INTEGER NOT NULL
        );`,
		`CREATE INDEX IF NOT EXISTS idx_images_listing ON listing_images(listing_id);`,
		`CREATE TABLE IF NOT EXISTS listing_inspections (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            listing_id  UUID NOT NULL REFERENCES listings(id) ON DELETE CASCADE,
            description TEXT NOT NULL,
            starts_at   TIMESTAMPTZ,
            ends_at     TIMESTAMPTZ
        );`,
		`CREATE INDEX IF NOT EXISTS idx_inspections_listing ON listing_inspections(listing_id);`,
		`CREATE TABLE IF NOT EXISTS listing_agents (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            listing_id   UUID NOT NULL REFERENCES listings(id) ON DELETE CASCADE,
            position     INTEGER NOT NULL,
            agent_code   TEXT,
            name         TEXT NOT NULL DEFAULT '',
            email        TEXT,
            mobile       TEXT,
            office_phone TEXT,
            twitter_url  TEXT,
            facebook_url TEXT,
            linkedin_url TEXT
        );`,
		`CREATE INDEX IF NOT EXISTS idx_agents_listing ON listing_agents(listing_id);`,
	}
	for _, q := range stmts {
		if _, err := s.DB.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

type Agency struct {
	ID   string
	Code string
	Name string
}

// StoredListing is the slice of a listing row the reconciliation decision
// needs.
type StoredListing struct {
	ID     string
	Status string
}

// StatusPatch is the status-only fast path payload.
type StatusPatch struct {
	Status      string
	ModTime     sql.NullTime
	SoldDetails []byte
}

// UpsertAgency registers (or renames) an agency by feed code.
func (s *Store) UpsertAgency(ctx context.Context, code, name string) (Agency, error) {
	var a Agency
	err := s.DB.QueryRowContext(ctx, `
        INSERT INTO agencies (code, name) VALUES ($1,$2)
        ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name
        RETURNING id, code, name`, code, name,
	).Scan(&a.ID, &a.Code, &a.Name)
	return a, err
}

// AgencyByCode resolves a feed agency code. Unknown codes return (nil, nil).
func (s *Store) AgencyByCode(ctx context.Context, code string) (*Agency, error) {
	var a Agency
	err := s.DB.QueryRowContext(ctx,
		`SELECT id, code, name FROM agencies WHERE code = $1`, code,
	).Scan(&a.ID, &a.Code, &a.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ListingByKey looks a listing up by its natural key. Absent listings return
// (nil, nil).
func (s *Store) ListingByKey(ctx context.Context, agencyCode, uniqueID string) (*StoredListing, error) {
	var l StoredListing
	err := s.DB.QueryRowContext(ctx,
		`SELECT id, status FROM listings WHERE agency_code = $1 AND unique_id = $2`,
		agencyCode, uniqueID,
	).Scan(&l.ID, &l.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// CreateListing inserts the parent row and all child sets in one
// transaction.
func (s *Store) CreateListing(ctx context.Context, set mapper.RecordSet) (err error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	r := set.Listing
	if _, err = tx.ExecContext(ctx, `
        INSERT INTO listings (
            id, agency_id, agency_code, unique_id,
            property_type, category, listing_type, status, mod_time,
            headline, description,
            price, price_display, price_tax, rent_amount, rent_period, rent_display,
            commercial_rent, outgoings, return_percent, bond, under_offer,
            land_area, land_area_unit, building_area, building_area_unit, frontage, energy_rating,
            auction_date, date_available, lease_end,
            rural_features, sold_details
        ) VALUES (
            $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,
            $18,$19,$20,$21,$22,$23,$24,$25,$26,$27,$28,$29,$30,$31,$32,$33
        )`,
		r.ID, r.AgencyID, r.AgencyCode, r.UniqueID,
		r.PropertyType, r.Category, r.ListingType, r.Status, r.ModTime,
		r.Headline, r.Description,
		r.Price, r.PriceDisplay, r.PriceTax, r.RentAmount, r.RentPeriod, r.RentDisplay,
		r.CommercialRent, r.Outgoings, r.ReturnPercent, r.Bond, r.UnderOffer,
		r.LandArea, r.LandAreaUnit, r.BuildingArea, r.BuildingAreaUnit, r.Frontage, r.EnergyRating,
		r.AuctionDate, r.DateAvailable, r.LeaseEnd,
		jsonb(r.RuralFeatures), jsonb(r.SoldDetails),
	); err != nil {
		return err
	}
	if err = insertChildren(ctx, tx, set); err != nil {
		return err
	}
	return tx.Commit()
}

// ReplaceListing overwrites every parent field and swaps all five child
// sets for the freshly mapped ones, atomically. Child tables have no merge
// key across feed re-sends, so the sets are replaced, not diffed.
func (s *Store) ReplaceListing(ctx context.Context, listingID string, set mapper.RecordSet) (err error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	r := set.Listing
	if _, err = tx.ExecContext(ctx, `
        UPDATE listings SET
            agency_id=$2, agency_code=$3, unique_id=$4,
            property_type=$5, category=$6, listing_type=$7, status=$8, mod_time=$9,
            headline=$10, description=$11,
            price=$12, price_display=$13, price_tax=$14, rent_amount=$15, rent_period=$16, rent_display=$17,
            commercial_rent=$18, outgoings=$19, return_percent=$20, bond=$21, under_offer=$22,
            land_area=$23, land_area_unit=$24, building_area=$25, building_area_unit=$26, frontage=$27, energy_rating=$28,
            auction_date=$29, date_available=$30, lease_end=$31,
            rural_features=$32, sold_details=$33,
            updated_at=now()
        WHERE id=$1`,
		listingID, r.AgencyID, r.AgencyCode, r.UniqueID,
		r.PropertyType, r.Category, r.ListingType, r.Status, r.ModTime,
		r.Headline, r.Description,
		r.Price, r.PriceDisplay, r.PriceTax, r.RentAmount, r.RentPeriod, r.RentDisplay,
		r.CommercialRent, r.Outgoings, r.ReturnPercent, r.Bond, r.UnderOffer,
		r.LandArea, r.LandAreaUnit, r.BuildingArea, r.BuildingAreaUnit, r.Frontage, r.EnergyRating,
		r.AuctionDate, r.DateAvailable, r.LeaseEnd,
		jsonb(r.RuralFeatures), jsonb(r.SoldDetails),
	); err != nil {
		return err
	}
	if err = deleteChildren(ctx, tx, listingID); err != nil {
		return err
	}
	// Re-key the freshly mapped children to the stored listing id; the
	// mapper keyed them to the tentative id chosen before the existence
	// check.
	if err = insertChildren(ctx, tx, withListingID(set, listingID)); err != nil {
		return err
	}
	return tx.Commit()
}

// UpdateListingStatus is the status-only fast path: status, feed mod time,
// sold details and updated_at, nothing else.
func (s *Store) UpdateListingStatus(ctx context.Context, listingID string, patch StatusPatch) error {
	_, err := s.DB.ExecContext(ctx, `
        UPDATE listings SET status=$2, mod_time=$3, sold_details=COALESCE($4, sold_details), updated_at=now()
        WHERE id=$1`,
		listingID, patch.Status, patch.ModTime, jsonb(patch.SoldDetails))
	return err
}

func deleteChildren(ctx context.Context, tx *sql.Tx, listingID string) error {
	for _, table := range []string{
		"listing_addresses", "listing_features", "listing_images",
		"listing_inspections", "listing_agents",
	} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE listing_id=$1`, listingID); err != nil {
			return err
		}
	}
	return nil
}

func insertChildren(ctx context.Context, tx *sql.Tx, set mapper.RecordSet) error {
	if a := set.Address; a != nil {
		if _, err := tx.ExecContext(ctx, `
            INSERT INTO listing_addresses (listing_id, sub_number, lot_number, street_number, street, suburb, state, postcode, country, formatted, display)
            VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
			a.ListingID, a.SubNumber, a.LotNumber, a.StreetNumber, a.Street, a.Suburb, a.State, a.Postcode, a.Country, a.Formatted, a.Display,
		); err != nil {
			return err
		}
	}
	if f := set.Features; f != nil {
		if _, err := tx.ExecContext(ctx, `
            INSERT INTO listing_features (listing_id, bedrooms, bathrooms, ensuites, toilets, garages, carports, open_spaces, amenities)
            VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
			f.ListingID, f.Bedrooms, f.Bathrooms, f.Ensuites, f.Toilets, f.Garages, f.Carports, f.OpenSpaces, jsonb(f.Amenities),
		); err != nil {
			return err
		}
	}
	for _, img := range set.Images {
		if _, err := tx.ExecContext(ctx, `
            INSERT INTO listing_images (listing_id, kind, url, sort_order) VALUES ($1,$2,$3,$4)`,
			img.ListingID, img.Kind, img.URL, img.SortOrder,
		); err != nil {
			return err
		}
	}
	for _, insp := range set.Inspections {
		if _, err := tx.ExecContext(ctx, `
            INSERT INTO listing_inspections (listing_id, description, starts_at, ends_at) VALUES ($1,$2,$3,$4)`,
			insp.ListingID, insp.Description, insp.StartsAt, insp.EndsAt,
		); err != nil {
			return err
		}
	}
	for _, ag := range set.Agents {
		if _, err := tx.ExecContext(ctx, `
            INSERT INTO listing_agents (listing_id, position, agent_code, name, email, mobile, office_phone, twitter_url, facebook_url, linkedin_url)
            VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
			ag.ListingID, ag.Position, ag.AgentCode, ag.Name, ag.Email, ag.Mobile, ag.OfficePhone, ag.TwitterURL, ag.FacebookURL, ag.LinkedInURL,
		); err != nil {
			return err
		}
	}
	return nil
}

// withListingID re-points every child shape at the stored parent id.
func withListingID(set mapper.RecordSet, listingID string) mapper.RecordSet {
	if set.Address != nil {
		a := *set.Address
		a.ListingID = listingID
		set.Address = &a
	}
	if set.Features != nil {
		f := *set.Features
		f.ListingID = listingID
		set.Features = &f
	}
	images := make([]mapper.ImageRow, len(set.Images))
	for i, img := range set.Images {
		img.ListingID = listingID
		images[i] = img
	}
	set.Images = images
	inspections := make([]mapper.InspectionRow, len(set.Inspections))
	for i, insp := range set.Inspections {
		insp.ListingID = listingID
		inspections[i] = insp
	}
	set.Inspections = inspections
	agents := make([]mapper.AgentRow, len(set.Agents))
	for i, ag := range set.Agents {
		ag.ListingID = listingID
		agents[i] = ag
	}
	set.Agents = agents
	return set
}

// jsonb passes nil through as SQL NULL; a nil []byte would otherwise arrive
// as an empty string and fail the JSONB cast.
func jsonb(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}
