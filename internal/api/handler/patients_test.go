package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/medicassist/medicassist/internal/store"
)

// patientsRouter mounts the record handlers the same way the server does, so
// URL parameters resolve through chi.
func patientsRouter(t *testing.T) chi.Router {
	t.Helper()
	fs := store.NewFileStore(filepath.Join(t.TempDir(), "patients.json"))
	h := NewPatients(fs)

	r := chi.NewRouter()
	r.Route("/api/v1/patients", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
		r.Post("/{id}/analyses", h.AppendAnalysis)
	})
	return r
}

func createPatient(t *testing.T, r chi.Router, body map[string]any) map[string]any {
	t.Helper()
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, jsonReq(t, "/api/v1/patients", body))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var env struct {
		Data map[string]any `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return env.Data
}

func putReq(t *testing.T, path string, body any) *http.Request {
	t.Helper()
	b, _ := json.Marshal(body)
	r := httptest.NewRequest(http.MethodPut, path, bytes.NewReader(b))
	r.Header.Set("Content-Type", "application/json")
	return r
}

// --- tests ---

func TestPatients_CreateAssignsID(t *testing.T) {
	r := patientsRouter(t)

	created := createPatient(t, r, map[string]any{
		"fullName": "Jane Doe",
		"email":    "jane@example.com",
		"id":       "client-supplied", // must be ignored
	})

	id, _ := created["id"].(string)
	if id == "" {
		t.Fatal("expected a generated id")
	}
	if id == "client-supplied" {
		t.Error("client-supplied id must not be honored")
	}
	if created["fullName"] != "Jane Doe" {
		t.Errorf("unexpected fullName: %v", created["fullName"])
	}
}

func TestPatients_CreateValidation(t *testing.T) {
	r := patientsRouter(t)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing fullName", map[string]any{"email": "jane@example.com"}},
		{"invalid email", map[string]any{"fullName": "Jane", "email": "not-an-address"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, jsonReq(t, "/api/v1/patients", tt.body))

			status, code := parseErr(t, rec)
			if status != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", status)
			}
			if code != "INVALID_REQUEST" {
				t.Errorf("expected INVALID_REQUEST, got %s", code)
			}
		})
	}
}

func TestPatients_GetRoundtrip(t *testing.T) {
	r := patientsRouter(t)
	created := createPatient(t, r, map[string]any{"fullName": "Jane Doe"})
	id := created["id"].(string)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/patients/"+id, nil)
	r.ServeHTTP(rec, req)

	data := parseOK(t, rec)
	if data["fullName"] != "Jane Doe" {
		t.Errorf("unexpected fullName: %v", data["fullName"])
	}
}

func TestPatients_GetUnknownID(t *testing.T) {
	r := patientsRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/patients/nope", nil))

	status, code := parseErr(t, rec)
	if status != http.StatusNotFound {
		t.Errorf("expected 404, got %d", status)
	}
	if code != "NOT_FOUND" {
		t.Errorf("expected NOT_FOUND, got %s", code)
	}
}

func TestPatients_ListAndSearch(t *testing.T) {
	r := patientsRouter(t)
	createPatient(t, r, map[string]any{"fullName": "Jane Doe"})
	createPatient(t, r, map[string]any{"fullName": "Bob Stone"})
	createPatient(t, r, map[string]any{"fullName": "Janet Smith"})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/patients", nil))
	data := parseOK(t, rec)
	if got := len(data["patients"].([]any)); got != 3 {
		t.Errorf("expected 3 patients, got %d", got)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/patients?q=JAN", nil))
	data = parseOK(t, rec)
	matches := data["patients"].([]any)
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %v", matches)
	}
	if matches[0].(map[string]any)["fullName"] != "Jane Doe" {
		t.Errorf("unexpected first match: %v", matches[0])
	}
}

func TestPatients_UpdatePreservesAnalyses(t *testing.T) {
	r := patientsRouter(t)
	created := createPatient(t, r, map[string]any{"fullName": "Jane Doe"})
	id := created["id"].(string)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, jsonReq(t, "/api/v1/patients/"+id+"/analyses", map[string]any{
		"symptoms": "fever",
		"analysis": map[string]any{"summary": "likely flu"},
		"advice":   map[string]any{"advice": "1. Rest."},
	}))
	if rec.Code != http.StatusOK {
		t.Fatalf("append failed: %d %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, putReq(t, "/api/v1/patients/"+id, map[string]any{
		"fullName":  "Jane A. Doe",
		"allergies": "penicillin",
	}))

	data := parseOK(t, rec)
	if data["fullName"] != "Jane A. Doe" {
		t.Errorf("unexpected fullName: %v", data["fullName"])
	}
	analyses, _ := data["analyses"].([]any)
	if len(analyses) != 1 {
		t.Errorf("expected stored analyses to survive the update, got %v", data["analyses"])
	}
}

func TestPatients_UpdateUnknownID(t *testing.T) {
	r := patientsRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, putReq(t, "/api/v1/patients/nope", map[string]any{"fullName": "Jane"}))

	status, code := parseErr(t, rec)
	if status != http.StatusNotFound {
		t.Errorf("expected 404, got %d", status)
	}
	if code != "NOT_FOUND" {
		t.Errorf("expected NOT_FOUND, got %s", code)
	}
}

func TestPatients_Delete(t *testing.T) {
	r := patientsRouter(t)
	created := createPatient(t, r, map[string]any{"fullName": "Jane Doe"})
	id := created["id"].(string)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/patients/"+id, nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/patients/"+id, nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestPatients_DeleteUnknownIDIsNoContent(t *testing.T) {
	r := patientsRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/patients/never-existed", nil))
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
}

func TestPatients_AppendAnalysis(t *testing.T) {
	r := patientsRouter(t)
	created := createPatient(t, r, map[string]any{"fullName": "Jane Doe"})
	id := created["id"].(string)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, jsonReq(t, "/api/v1/patients/"+id+"/analyses", map[string]any{
		"symptoms": "fever and chills",
		"analysis": map[string]any{
			"summary": "likely flu",
			"possibleConditions": []map[string]any{
				{"condition": "Flu", "confidenceScore": 0.8},
			},
		},
		"advice": map[string]any{"advice": "1. Rest."},
	}))

	data := parseOK(t, rec)
	analyses, _ := data["analyses"].([]any)
	if len(analyses) != 1 {
		t.Fatalf("expected one analysis, got %v", data["analyses"])
	}
	entry := analyses[0].(map[string]any)
	if entry["symptoms"] != "fever and chills" {
		t.Errorf("unexpected symptoms: %v", entry["symptoms"])
	}
	if entry["analysisDate"] == nil || entry["analysisDate"] == "0001-01-01T00:00:00Z" {
		t.Errorf("analysisDate should default to now, got %v", entry["analysisDate"])
	}
}

func TestPatients_AppendAnalysisValidation(t *testing.T) {
	r := patientsRouter(t)
	created := createPatient(t, r, map[string]any{"fullName": "Jane Doe"})
	id := created["id"].(string)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, jsonReq(t, "/api/v1/patients/"+id+"/analyses", map[string]any{}))

	status, code := parseErr(t, rec)
	if status != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", status)
	}
	if code != "INVALID_REQUEST" {
		t.Errorf("expected INVALID_REQUEST, got %s", code)
	}
}

func TestPatients_AppendAnalysisUnknownID(t *testing.T) {
	r := patientsRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, jsonReq(t, "/api/v1/patients/nope/analyses", map[string]any{
		"symptoms": "fever",
	}))

	status, code := parseErr(t, rec)
	if status != http.StatusNotFound {
		t.Errorf("expected 404, got %d", status)
	}
	if code != "NOT_FOUND" {
		t.Errorf("expected NOT_FOUND, got %s", code)
	}
}
