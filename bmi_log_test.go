package main

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
)

func decodeSaveResult(t *testing.T, body []byte) (saveResult, bmiRecord) {
	t.Helper()
	var resp struct {
		saveResult
		Record bmiRecord `json:"record"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	return resp.saveResult, resp.Record
}

func TestSaveBMI_Success(t *testing.T) {
	router, _ := setupRouter("")
	token := loginAs(t, router, "alice")

	w := doRequest(router, "POST", "/api/bmi", token, `{"unit":"metric","height":"180","weight":80,"date":"2024-01-01"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	res, rec := decodeSaveResult(t, w.Body.Bytes())
	if res.Status != "accepted" {
		t.Errorf("status = %q, want accepted", res.Status)
	}
	if rec.BMI != 24.69 || rec.HeightCM != 180 || rec.WeightKG != 80 {
		t.Errorf("unexpected record %+v", rec)
	}
}

func TestSaveBMI_Imperial(t *testing.T) {
	router, store := setupRouter("")
	token := loginAs(t, router, "alice")

	w := doRequest(router, "POST", "/api/bmi", token, `{"unit":"imperial","height":70,"weight":150,"date":"2024-01-01"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	rec, _, _ := store.bmiRecord(context.Background(), "alice", "2024-01-01")
	if rec.HeightCM != 177.8 || rec.WeightKG != 68.04 {
		t.Errorf("stored %+v, want 177.8 cm / 68.04 kg", rec)
	}
}

func TestSaveBMI_DuplicateDate(t *testing.T) {
	router, store := setupRouter("")
	token := loginAs(t, router, "alice")

	doRequest(router, "POST", "/api/bmi", token, `{"height":180,"weight":80,"date":"2024-01-01"}`)
	w := doRequest(router, "POST", "/api/bmi", token, `{"height":170,"weight":60,"date":"2024-01-01"}`)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
	}
	if msg := decodeError(t, w); msg != "you already have data on 2024-01-01, clear it first to enter again" {
		t.Errorf("unexpected error %q", msg)
	}
	rec, _, _ := store.bmiRecord(context.Background(), "alice", "2024-01-01")
	if rec.HeightCM != 180 || rec.WeightKG != 80 {
		t.Errorf("first record was overwritten: %+v", rec)
	}
}

func TestSaveBMI_InvalidInput(t *testing.T) {
	router, _ := setupRouter("")
	token := loginAs(t, router, "alice")

	cases := []struct {
		name string
		body string
	}{
		{"non-numeric height", `{"height":"abc","weight":80,"date":"2024-01-01"}`},
		{"missing weight", `{"height":180,"date":"2024-01-01"}`},
		{"bad date", `{"height":180,"weight":80,"date":"2024-02-30"}`},
		{"missing date", `{"height":180,"weight":80}`},
		{"unknown unit", `{"unit":"stone","height":180,"weight":80,"date":"2024-01-01"}`},
		{"zero height", `{"height":0,"weight":80,"date":"2024-01-01"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doRequest(router, "POST", "/api/bmi", token, tc.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
		})
	}
}

// TestSaveBMI_ConfirmationFlow walks an out-of-range height through the
// pending, rejected and accepted states.
func TestSaveBMI_ConfirmationFlow(t *testing.T) {
	router, store := setupRouter("")
	token := loginAs(t, router, "alice")
	ctx := context.Background()

	w := doRequest(router, "POST", "/api/bmi", token, `{"height":260,"weight":80,"date":"2024-01-01"}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("no answer: expected 422, got %d: %s", w.Code, w.Body.String())
	}
	res, _ := decodeSaveResult(t, w.Body.Bytes())
	if !res.ConfirmationRequired || res.Status != "pending_confirmation" {
		t.Errorf("unexpected pending result %+v", res)
	}
	if _, found, _ := store.bmiRecord(ctx, "alice", "2024-01-01"); found {
		t.Fatal("record stored while confirmation was pending")
	}

	w = doRequest(router, "POST", "/api/bmi", token, `{"height":260,"weight":80,"date":"2024-01-01","confirm":false}`)
	if w.Code != http.StatusOK {
		t.Fatalf("declined: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	res, _ = decodeSaveResult(t, w.Body.Bytes())
	if res.Status != "rejected" {
		t.Errorf("status = %q, want rejected", res.Status)
	}
	if _, found, _ := store.bmiRecord(ctx, "alice", "2024-01-01"); found {
		t.Fatal("record stored after the user declined")
	}

	w = doRequest(router, "POST", "/api/bmi", token, `{"height":260,"weight":80,"date":"2024-01-01","confirm":true}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("confirmed: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	rec, found, _ := store.bmiRecord(ctx, "alice", "2024-01-01")
	if !found || rec.HeightCM != 260 {
		t.Errorf("expected stored height 260, got %+v (found=%v)", rec, found)
	}
}

func TestViewBMI(t *testing.T) {
	router, _ := setupRouter("")
	token := loginAs(t, router, "alice")

	if w := doRequest(router, "GET", "/api/bmi/2024-01-01", token, ""); w.Code != http.StatusNotFound {
		t.Fatalf("empty date: expected 404, got %d", w.Code)
	}

	doRequest(router, "POST", "/api/bmi", token, `{"height":180,"weight":80,"date":"2024-01-01"}`)
	w := doRequest(router, "GET", "/api/bmi/2024-01-01", token, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Record   bmiRecord `json:"record"`
		Category string    `json:"category"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Category != bmiNormal || resp.Record.BMI != 24.69 {
		t.Errorf("unexpected view %+v", resp)
	}
}

func TestBMISeries_Endpoint(t *testing.T) {
	router, _ := setupRouter("")
	token := loginAs(t, router, "alice")
	doRequest(router, "POST", "/api/bmi", token, `{"height":180,"weight":100,"date":"2024-01-02"}`)
	doRequest(router, "POST", "/api/bmi", token, `{"height":180,"weight":80,"date":"2024-01-01"}`)

	w := doRequest(router, "GET", "/api/bmi/series", token, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var points []bmiSeriesPoint
	json.Unmarshal(w.Body.Bytes(), &points)
	if len(points) != 2 || points[0].Date != "2024-01-01" || points[1].Category != bmiObese {
		t.Errorf("unexpected series %+v", points)
	}
}

func TestClearBMI_CascadesAndIsIdempotent(t *testing.T) {
	router, store := setupRouter("")
	token := loginAs(t, router, "alice")
	ctx := context.Background()

	doRequest(router, "POST", "/api/bmi", token, `{"height":180,"weight":80,"date":"2024-01-01"}`)
	w := doRequest(router, "POST", "/api/tdee", token, `{"date":"2024-01-01","gender":"male","age":30,"activity":"moderate"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("tdee save: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	w = doRequest(router, "DELETE", "/api/bmi/2024-01-01", token, "")
	if w.Code != http.StatusOK {
		t.Fatalf("clear: expected 200, got %d", w.Code)
	}
	var resp struct {
		Cleared bool `json:"cleared"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if !resp.Cleared {
		t.Error("expected cleared=true")
	}
	if _, found, _ := store.tdeeRecord(ctx, "alice", "2024-01-01"); found {
		t.Error("linked TDEE record survived the clear")
	}

	w = doRequest(router, "DELETE", "/api/bmi/2024-01-01", token, "")
	if w.Code != http.StatusOK {
		t.Fatalf("second clear: expected 200, got %d", w.Code)
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Cleared {
		t.Error("second clear reported cleared=true")
	}

	// The date is free again.
	w = doRequest(router, "POST", "/api/bmi", token, `{"height":170,"weight":60,"date":"2024-01-01"}`)
	if w.Code != http.StatusCreated {
		t.Errorf("re-entry after clear: expected 201, got %d: %s", w.Code, w.Body.String())
	}
}
