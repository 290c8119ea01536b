package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/medicassist/medicassist/internal/api/response"
	"github.com/medicassist/medicassist/internal/store"
	"github.com/medicassist/medicassist/pkg/models"
)

// Patients bundles the record-store handlers.
type Patients struct {
	store store.Store
}

func NewPatients(s store.Store) *Patients {
	return &Patients{store: s}
}

// List handles GET /api/v1/patients, optionally filtered by ?q= substring
// search on the full name.
func (h *Patients) List(w http.ResponseWriter, r *http.Request) {
	var (
		patients []models.Patient
		err      error
	)
	if q := r.URL.Query().Get("q"); q != "" {
		patients, err = h.store.Search(r.Context(), q)
	} else {
		patients, err = h.store.List(r.Context())
	}
	if err != nil {
		storeError(w, err)
		return
	}
	response.JSON(w, map[string][]models.Patient{"patients": patients})
}

// Create handles POST /api/v1/patients.
func (h *Patients) Create(w http.ResponseWriter, r *http.Request) {
	patient, ok := decodePatient(w, r)
	if !ok {
		return
	}
	patient.ID = "" // ids are assigned by the store, never by the client

	created, err := h.store.Upsert(r.Context(), patient)
	if err != nil {
		storeError(w, err)
		return
	}
	response.Created(w, created)
}

// Get handles GET /api/v1/patients/{id}.
func (h *Patients) Get(w http.ResponseWriter, r *http.Request) {
	patient, err := h.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		storeError(w, err)
		return
	}
	response.JSON(w, patient)
}

// Update handles PUT /api/v1/patients/{id}. The entry keeps its list
// position; stored analyses are preserved when the body omits them.
func (h *Patients) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.store.Get(r.Context(), id); err != nil {
		storeError(w, err)
		return
	}

	patient, ok := decodePatient(w, r)
	if !ok {
		return
	}
	patient.ID = id

	updated, err := h.store.Upsert(r.Context(), patient)
	if err != nil {
		storeError(w, err)
		return
	}
	response.JSON(w, updated)
}

// Delete handles DELETE /api/v1/patients/{id}. Removing an unknown id is
// still a success.
func (h *Patients) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
		storeError(w, err)
		return
	}
	response.NoContent(w)
}

// AppendAnalysis handles POST /api/v1/patients/{id}/analyses.
func (h *Patients) AppendAnalysis(w http.ResponseWriter, r *http.Request) {
	var record models.AnalysisRecord
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
		return
	}
	if record.Symptoms == "" {
		response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "symptoms is required", nil)
		return
	}
	if record.AnalysisDate.IsZero() {
		record.AnalysisDate = time.Now().UTC()
	}

	patient, err := h.store.AppendAnalysis(r.Context(), chi.URLParam(r, "id"), record)
	if err != nil {
		storeError(w, err)
		return
	}
	response.JSON(w, patient)
}

func decodePatient(w http.ResponseWriter, r *http.Request) (models.Patient, bool) {
	var patient models.Patient
	if err := json.NewDecoder(r.Body).Decode(&patient); err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
		return models.Patient{}, false
	}
	if patient.FullName == "" {
		response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "fullName is required", nil)
		return models.Patient{}, false
	}
	if patient.Email != "" {
		if _, err := mail.ParseAddress(patient.Email); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "email is not a valid address", nil)
			return models.Patient{}, false
		}
	}
	return patient, true
}

func storeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		response.Error(w, http.StatusNotFound, "NOT_FOUND", "Patient not found", nil)
	case errors.Is(err, store.ErrPersist):
		response.Error(w, http.StatusInternalServerError, "STORE_ERROR",
			"Could not save patient data. No changes were made.", nil)
	default:
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
			"An unexpected error occurred", nil)
	}
}
