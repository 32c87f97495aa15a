// Package leadlist implements the lead list import lifecycle:
// submit, status, delete/cancel, and the processor callback.
package leadlist

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/landhud/backend/internal/blob"
	"github.com/landhud/backend/internal/models"
	"github.com/landhud/backend/internal/notify"
	"github.com/landhud/backend/internal/store"
)

// Service coordinates the record store, blob storage, and the
// external processor webhook. Each method is an independent stateless
// operation; the only detached work is notification delivery.
type Service struct {
	records     store.RecordStore
	blobs       blob.Store
	notifier    notify.Notifier
	callbackURL string
}

// NewService creates the lead list service. callbackBase is the
// public base URL the external processor uses to reach the callback
// endpoint.
func NewService(records store.RecordStore, blobs blob.Store, notifier notify.Notifier, callbackBase string) *Service {
	return &Service{
		records:     records,
		blobs:       blobs,
		notifier:    notifier,
		callbackURL: strings.TrimRight(callbackBase, "/"),
	}
}

// SubmitInput carries the validated submit parameters. FileURL is the
// already-uploaded source blob; FileName is its blob storage key,
// used for compensating cleanup if the insert fails.
type SubmitInput struct {
	FileName         string
	FileURL          string
	County           string
	State            string
	Notes            string
	OriginalFilename string
}

// Submit creates a processing record for an uploaded lead list and
// hands the file to the external processor.
//
// Record creation and notification delivery are deliberately
// decoupled: a failed webhook is logged and the record stays in
// processing, to be reconciled manually or deleted. Only the insert
// can fail the operation.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (*models.ImportRecord, error) {
	now := time.Now()
	rec := &models.ImportRecord{
		ID:            uuid.New().String(),
		Name:          fmt.Sprintf("%s, %s - %s", in.County, in.State, now.Format("Jan 2, 2006")),
		County:        in.County,
		State:         in.State,
		Status:        models.ImportStatusProcessing,
		SourceFileURL: in.FileURL,
		Notes:         in.Notes,
		DateImported:  now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.records.Create(ctx, rec); err != nil {
		// The blob was uploaded before submit; without a record it is
		// orphaned, so try to reclaim it. The insert error is what the
		// caller sees either way.
		if rmErr := s.blobs.Remove(in.FileName); rmErr != nil {
			log.Printf("[Blob] cleanup of %q after failed insert: %v", in.FileName, rmErr)
		}
		return nil, err
	}

	payload := notify.Payload{
		FileURL:          in.FileURL,
		County:           in.County,
		State:            in.State,
		RecordID:         rec.ID,
		CallbackURL:      s.callbackURL + "/api/leadlists/" + rec.ID + "/callback",
		OriginalFilename: in.OriginalFilename,
		Notes:            in.Notes,
	}
	go s.dispatchNotification(payload)

	return rec, nil
}

// dispatchNotification runs detached from the submit request. Failure
// is routed to the log only; the record already exists and remains in
// processing.
func (s *Service) dispatchNotification(p notify.Payload) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := s.notifier.Notify(ctx, p); err != nil {
		log.Printf("[Notify] delivery failed for record %s: %v", p.RecordID, err)
	}
}

// Status returns the current record for polling clients. Every call
// is a fresh lookup against the store.
func (s *Service) Status(ctx context.Context, id string) (*models.ImportRecord, error) {
	return s.records.Get(ctx, id)
}

// List returns records newest first, optionally filtered by status.
func (s *Service) List(ctx context.Context, status models.ImportStatus, limit int) ([]*models.ImportRecord, error) {
	return s.records.List(ctx, status, limit)
}

// DeleteResult reports what Delete did.
type DeleteResult struct {
	Cancelled bool
	Message   string
}

// Delete removes a record and best-effort removes its blobs. With
// cancel set it doubles as cancellation of in-flight processing:
// there is no stop signal to the external processor, so a later
// callback for the deleted id is tolerated by ApplyCallback.
//
// Storage cleanup is advisory, the record delete is authoritative: a
// failed blob removal is logged and deletion proceeds, a failed
// record delete fails the operation.
func (s *Service) Delete(ctx context.Context, id string, cancel bool) (*DeleteResult, error) {
	rec, err := s.records.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	cancelled := cancel && rec.Status == models.ImportStatusProcessing

	for _, fileURL := range []string{rec.SourceFileURL, rec.FileURL} {
		name := fileNameFromURL(fileURL)
		if name == "" {
			continue
		}
		if err := s.blobs.Remove(name); err != nil {
			log.Printf("[Blob] cleanup of %q for record %s: %v", name, id, err)
		}
	}

	if err := s.records.Delete(ctx, id); err != nil {
		return nil, err
	}

	msg := "Lead list deleted"
	if cancelled {
		msg = "Processing cancelled and lead list deleted"
	}
	return &DeleteResult{Cancelled: cancelled, Message: msg}, nil
}

// CallbackInput carries the external processor's completion signal.
type CallbackInput struct {
	Status       models.ImportStatus
	FileURL      string
	RecordCount  int
	ErrorMessage string
}

// ApplyCallback applies the ready/failed transition for a record.
// The update is idempotent and keyed by record id: duplicates, late
// callbacks after a transition, and callbacks for deleted records all
// report applied=false without error.
func (s *Service) ApplyCallback(ctx context.Context, id string, in CallbackInput) (bool, error) {
	var (
		applied bool
		err     error
	)
	switch in.Status {
	case models.ImportStatusReady:
		applied, err = s.records.MarkReady(ctx, id, in.FileURL, in.RecordCount)
	case models.ImportStatusFailed:
		applied, err = s.records.MarkFailed(ctx, id, in.ErrorMessage)
	default:
		return false, fmt.Errorf("unsupported callback status %q", in.Status)
	}
	if err != nil {
		return false, err
	}
	if !applied {
		log.Printf("[Callback] ignored %s callback for record %s (deleted or already settled)", in.Status, id)
	}
	return applied, nil
}

// fileNameFromURL extracts the trailing path segment of a blob URL,
// which is the object's storage key.
func fileNameFromURL(raw string) string {
	if raw == "" {
		return ""
	}
	segment := raw
	if u, err := url.Parse(raw); err == nil && u.Path != "" {
		segment = u.Path
	}
	name := path.Base(segment)
	if name == "." || name == "/" {
		return ""
	}
	return name
}
