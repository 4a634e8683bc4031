// Package ingest orchestrates the REAXML pipeline: parse, validate, resolve
// the owning agency, reconcile against stored state and write. Everything
// below the document level is isolated per listing; a bad listing never
// aborts the batch.
package ingest

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourorg/listing-ingest/internal/agency"
	"github.com/yourorg/listing-ingest/internal/events"
	"github.com/yourorg/listing-ingest/internal/mapper"
	"github.com/yourorg/listing-ingest/internal/store"
	"github.com/yourorg/listing-ingest/internal/validate"
	"github.com/yourorg/listing-ingest/reaxml"
)

// Storage is the narrow persistence contract the orchestrator writes
// through. *store.Store satisfies it; tests use an in-memory fake.
type Storage interface {
	AgencyByCode(ctx context.Context, code string) (*store.Agency, error)
	ListingByKey(ctx context.Context, agencyCode, uniqueID string) (*store.StoredListing, error)
	CreateListing(ctx context.Context, set mapper.RecordSet) error
	ReplaceListing(ctx context.Context, listingID string, set mapper.RecordSet) error
	UpdateListingStatus(ctx context.Context, listingID string, patch store.StatusPatch) error
}

const (
	ActionCreated       = "created"
	ActionUpdated       = "updated"
	ActionStatusChanged = "status_changed"
	ActionSkipped       = "skipped"
)

// Result is the per-listing outcome.
type Result struct {
	AgentID      string            `json:"agentId"`
	UniqueID     string            `json:"uniqueId"`
	PropertyType string            `json:"propertyType"`
	Status       string            `json:"status"`
	Success      bool              `json:"success"`
	Action       string            `json:"action"`
	Error        string            `json:"error,omitempty"`
	Details      map[string]string `json:"details,omitempty"`
	Warnings     []string          `json:"warnings,omitempty"`
}

// Report aggregates one document's ingestion. successful/failed partition
// the per-listing outcomes; skipped is the only failure action.
type Report struct {
	BatchID        string   `json:"batchId"`
	TotalProcessed int      `json:"totalProcessed"`
	Successful     int      `json:"successful"`
	Failed         int      `json:"failed"`
	Results        []Result `json:"results"`
}

type Orchestrator struct {
	Store    Storage
	Resolver *agency.Resolver // optional; nil resolves through Store directly
	Pub      events.Publisher // optional
	Log      *logrus.Logger   // optional
}

// Ingest runs one REAXML document through the pipeline. The returned error
// is non-nil only for the document-level structural failure; in that case
// the report still carries one synthetic failed result. Listings are
// processed strictly sequentially, in document order; two listings sharing
// a natural key resolve last-write-wins.
func (o *Orchestrator) Ingest(ctx context.Context, doc []byte) (Report, error) {
	report := Report{BatchID: uuid.NewString()}

	listings, err := reaxml.Parse(doc)
	if err != nil {
		report.TotalProcessed = 1
		report.Failed = 1
		report.Results = []Result{{
			Success: false,
			Action:  ActionSkipped,
			Error:   fmt.Sprintf("document parse failed: %v", err),
		}}
		return report, err
	}

	for _, l := range listings {
		res := o.processListing(ctx, l)
		report.Results = append(report.Results, res)
		report.TotalProcessed++
		if res.Success {
			report.Successful++
		} else {
			report.Failed++
		}
	}

	if o.Log != nil {
		o.Log.WithFields(logrus.Fields{
			"batch":      report.BatchID,
			"processed":  report.TotalProcessed,
			"successful": report.Successful,
			"failed":     report.Failed,
		}).Info("reaxml batch ingested")
	}
	return report, nil
}

func (o *Orchestrator) processListing(ctx context.Context, l reaxml.Listing) Result {
	res := Result{
		AgentID:      l.AgentID,
		UniqueID:     l.UniqueID,
		PropertyType: string(l.PropertyType),
		Status:       string(l.Status),
	}

	verdict := validate.Validate(l)
	res.Warnings = verdict.Warnings
	if !verdict.OK() {
		res.Action = ActionSkipped
		res.Error = joinErrors(verdict.Errors)
		res.Details = errorDetails(verdict.Errors)
		return res
	}

	owner, err := o.resolveAgency(ctx, l.AgentID)
	if err != nil {
		res.Action = ActionSkipped
		res.Error = fmt.Sprintf("agency lookup failed: %v", err)
		return res
	}
	if owner == nil {
		res.Action = ActionSkipped
		res.Error = fmt.Sprintf("agency %q is not registered", l.AgentID)
		return res
	}

	existing, err := o.Store.ListingByKey(ctx, l.AgentID, l.UniqueID)
	if err != nil {
		res.Action = ActionSkipped
		res.Error = fmt.Sprintf("listing lookup failed: %v", err)
		return res
	}

	var listingID string
	switch {
	case existing == nil:
		listingID = uuid.NewString()
		set := mapper.Map(l, owner.ID, listingID)
		if err := o.Store.CreateListing(ctx, set); err != nil {
			res.Action = ActionSkipped
			res.Error = err.Error()
			return res
		}
		res.Action = ActionCreated

	case isStatusOnly(l):
		listingID = existing.ID
		if err := o.Store.UpdateListingStatus(ctx, existing.ID, statusPatch(l)); err != nil {
			res.Action = ActionSkipped
			res.Error = err.Error()
			return res
		}
		if existing.Status != string(l.Status) {
			res.Action = ActionStatusChanged
		} else {
			res.Action = ActionUpdated
		}

	default:
		listingID = existing.ID
		set := mapper.Map(l, owner.ID, existing.ID)
		if err := o.Store.ReplaceListing(ctx, existing.ID, set); err != nil {
			res.Action = ActionSkipped
			res.Error = err.Error()
			return res
		}
		res.Action = ActionUpdated
	}

	res.Success = true
	if o.Pub != nil {
		o.Pub.PublishListingChanged(ctx, events.ListingChanged{
			ListingID:  listingID,
			AgencyCode: l.AgentID,
			UniqueID:   l.UniqueID,
			Action:     res.Action,
		})
	}
	return res
}

func (o *Orchestrator) resolveAgency(ctx context.Context, code string) (*store.Agency, error) {
	if o.Resolver != nil {
		return o.Resolver.Resolve(ctx, code)
	}
	return o.Store.AgencyByCode(ctx, code)
}

// isStatusOnly recognizes the minimal status-change notification: nothing
// but identity, status and possibly sold details.
func isStatusOnly(l reaxml.Listing) bool {
	return l.Status != reaxml.StatusCurrent &&
		l.Headline == nil &&
		l.Description == nil &&
		l.Address == nil
}

func statusPatch(l reaxml.Listing) store.StatusPatch {
	p := store.StatusPatch{Status: string(l.Status)}
	if l.ModTime != nil {
		p.ModTime = sql.NullTime{Time: *l.ModTime, Valid: true}
	}
	if l.SoldDetails != nil {
		p.SoldDetails, _ = json.Marshal(l.SoldDetails)
	}
	return p
}

func joinErrors(errs []validate.FieldError) string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, fmt.Sprintf("%s: %s", e.Field, e.Message))
	}
	return strings.Join(parts, "; ")
}

func errorDetails(errs []validate.FieldError) map[string]string {
	out := make(map[string]string, len(errs))
	for _, e := range errs {
		out[e.Field] = e.Message
	}
	return out
}
