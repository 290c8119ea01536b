package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/medicassist/medicassist/pkg/models"
)

// FileStore implements Store on a single durable JSON slot: one array of
// patients, read at startup and rewritten wholesale on every mutation.
//
// Write-through discipline: a mutation commits to disk first and only then
// swaps the in-memory mirror, so a failed write leaves both unchanged.
// Concurrent writers from other processes are last-write-wins; the store
// assumes a single user on a single device.
type FileStore struct {
	path string
	now  func() time.Time

	mu       sync.Mutex
	patients []models.Patient
}

// NewFileStore loads the patient collection from path. A missing, corrupted,
// or non-array payload loads as an empty store: patient history is
// convenience data, and refusing to start over a bad file would lose more
// than it protects.
func NewFileStore(path string) *FileStore {
	fs := &FileStore{path: path, now: time.Now}

	raw, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			slog.Warn("patient data unreadable, starting empty", "path", path, "error", err)
		}
		fs.patients = []models.Patient{}
		return fs
	}

	var patients []models.Patient
	if err := json.Unmarshal(raw, &patients); err != nil {
		slog.Warn("patient data corrupted, starting empty", "path", path, "error", err)
		fs.patients = []models.Patient{}
		return fs
	}
	fs.patients = patients
	return fs
}

func (fs *FileStore) List(_ context.Context) ([]models.Patient, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return clonePatients(fs.patients), nil
}

func (fs *FileStore) Get(_ context.Context, id string) (*models.Patient, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	for i := range fs.patients {
		if fs.patients[i].ID == id {
			p := clonePatient(fs.patients[i])
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

func (fs *FileStore) Upsert(_ context.Context, patient models.Patient) (*models.Patient, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	updated := clonePatients(fs.patients)

	if patient.ID == "" {
		patient.ID = fs.newID()
		if patient.Analyses == nil {
			patient.Analyses = []models.AnalysisRecord{}
		}
		updated = append(updated, clonePatient(patient))
	} else if idx := indexByID(updated, patient.ID); idx >= 0 {
		// Replace in place, keeping position. Existing history is kept
		// unless the caller explicitly supplied a new one.
		if patient.Analyses == nil {
			patient.Analyses = updated[idx].Analyses
		}
		updated[idx] = clonePatient(patient)
	} else {
		if patient.Analyses == nil {
			patient.Analyses = []models.AnalysisRecord{}
		}
		updated = append(updated, clonePatient(patient))
	}

	if err := fs.persist(updated); err != nil {
		return nil, err
	}
	fs.patients = updated

	p := clonePatient(patient)
	return &p, nil
}

func (fs *FileStore) Remove(_ context.Context, id string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	idx := indexByID(fs.patients, id)
	if idx < 0 {
		return nil
	}

	updated := make([]models.Patient, 0, len(fs.patients)-1)
	updated = append(updated, clonePatients(fs.patients[:idx])...)
	updated = append(updated, clonePatients(fs.patients[idx+1:])...)

	if err := fs.persist(updated); err != nil {
		return err
	}
	fs.patients = updated
	return nil
}

func (fs *FileStore) AppendAnalysis(_ context.Context, id string, record models.AnalysisRecord) (*models.Patient, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	updated := clonePatients(fs.patients)
	idx := indexByID(updated, id)
	if idx < 0 {
		return nil, ErrNotFound
	}

	updated[idx].Analyses = append(updated[idx].Analyses, record)

	if err := fs.persist(updated); err != nil {
		return nil, err
	}
	fs.patients = updated

	p := clonePatient(updated[idx])
	return &p, nil
}

func (fs *FileStore) Search(_ context.Context, query string) ([]models.Patient, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	q := strings.ToLower(query)
	matches := make([]models.Patient, 0)
	for i := range fs.patients {
		if strings.Contains(strings.ToLower(fs.patients[i].FullName), q) {
			matches = append(matches, clonePatient(fs.patients[i]))
		}
	}
	return matches, nil
}

func (fs *FileStore) FindByFullName(_ context.Context, name string) (*models.Patient, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	for i := range fs.patients {
		if strings.EqualFold(fs.patients[i].FullName, name) {
			p := clonePatient(fs.patients[i])
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

// persist writes the whole collection to a temp file in the same directory
// and renames it over the slot, so the file on disk is never half-written.
func (fs *FileStore) persist(patients []models.Patient) error {
	data, err := json.MarshalIndent(patients, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encoding: %v", ErrPersist, err)
	}

	dir := filepath.Dir(fs.path)
	tmp, err := os.CreateTemp(dir, ".patients-*.json")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	if err := os.Rename(tmpName, fs.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	return nil
}

// newID generates an opaque patient id from the current time, matching the
// high-resolution-timestamp identity scheme of the stored format. Collisions
// at human-driven write rates are accepted.
func (fs *FileStore) newID() string {
	return fs.now().UTC().Format(time.RFC3339Nano)
}

func indexByID(patients []models.Patient, id string) int {
	for i := range patients {
		if patients[i].ID == id {
			return i
		}
	}
	return -1
}

func clonePatient(p models.Patient) models.Patient {
	out := p
	if p.Analyses != nil {
		out.Analyses = make([]models.AnalysisRecord, len(p.Analyses))
		copy(out.Analyses, p.Analyses)
	}
	return out
}

func clonePatients(patients []models.Patient) []models.Patient {
	out := make([]models.Patient, len(patients))
	for i := range patients {
		out[i] = clonePatient(patients[i])
	}
	return out
}

var _ Store = (*FileStore)(nil)
