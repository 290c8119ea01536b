package store

import (
	"context"
	"errors"

	"github.com/medicassist/medicassist/pkg/models"
)

var (
	ErrNotFound = errors.New("patient not found")
	// ErrPersist wraps durable-write failures. When returned, the in-memory
	// view is guaranteed unchanged.
	ErrPersist = errors.New("persisting patient data failed")
)

// Store is the patient record access interface. All record operations go
// through here. List order is insertion order.
type Store interface {
	// List returns all patients in insertion order.
	List(ctx context.Context) ([]models.Patient, error)
	// Get returns the patient with the given id, or ErrNotFound.
	Get(ctx context.Context, id string) (*models.Patient, error)
	// Upsert inserts the patient when its ID is empty (generating a new id)
	// and replaces the matching entry in place otherwise. On replace the
	// stored analyses are preserved unless the caller supplies a non-nil
	// Analyses value.
	Upsert(ctx context.Context, patient models.Patient) (*models.Patient, error)
	// Remove deletes the patient with the given id. Removing an unknown id
	// is a no-op success.
	Remove(ctx context.Context, id string) error
	// AppendAnalysis atomically appends a record to the patient's history.
	// Prior entries are never mutated or reordered.
	AppendAnalysis(ctx context.Context, id string, record models.AnalysisRecord) (*models.Patient, error)
	// Search returns patients whose full name contains the query,
	// case-insensitively, preserving List order among matches.
	Search(ctx context.Context, query string) ([]models.Patient, error)
	// FindByFullName returns the first patient whose full name equals name
	// case-insensitively, or ErrNotFound. Names are not unique: two people
	// sharing a name will resolve to the same record.
	FindByFullName(ctx context.Context, name string) (*models.Patient, error)
}
