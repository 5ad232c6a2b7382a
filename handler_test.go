package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

// setupRouter returns a router backed by a fresh in-memory store and the store
// itself for assertions. openAIBaseURL may be empty for tests that don't call
// the suggestion endpoint.
func setupRouter(openAIBaseURL string) (*gin.Engine, *memoryStore) {
	gin.SetMode(gin.TestMode)
	store := newMemoryStore()
	h := newHandler(store, openAIBaseURL)
	router := gin.New()
	h.registerRoutes(router)
	return router, store
}

// doRequest sends a JSON request with an optional bearer token.
func doRequest(router *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// loginAs logs username in and returns the session token.
func loginAs(t *testing.T, router *gin.Engine, username string) string {
	t.Helper()
	w := doRequest(router, "POST", "/api/login", "", `{"username":"`+username+`"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || resp.Token == "" {
		t.Fatalf("login: no token in %s", w.Body.String())
	}
	return resp.Token
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	msg, _ := resp["error"].(string)
	return msg
}

func TestAuth_RequiresLogin(t *testing.T) {
	router, _ := setupRouter("")

	for _, path := range []string{"/api/bmi", "/api/tdee", "/api/foods", "/api/food-log/week"} {
		w := doRequest(router, "GET", path, "", "")
		if w.Code != http.StatusUnauthorized {
			t.Errorf("GET %s without token: expected 401, got %d", path, w.Code)
		}
	}

	w := doRequest(router, "GET", "/api/bmi", "not-a-token", "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("unknown token: expected 401, got %d", w.Code)
	}
}

func TestAuth_EmptyUsername(t *testing.T) {
	router, _ := setupRouter("")

	w := doRequest(router, "POST", "/api/login", "", `{"username":"   "}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	if msg := decodeError(t, w); msg != "please enter a username" {
		t.Errorf("unexpected error %q", msg)
	}
}

func TestAuth_LoginReturnsDefaultsAndHistory(t *testing.T) {
	router, _ := setupRouter("")
	token := loginAs(t, router, "alice")
	doRequest(router, "POST", "/api/bmi", token, `{"height":180,"weight":80,"date":"2024-01-01"}`)

	// Logging in again on the same session reloads stored records.
	w := doRequest(router, "POST", "/api/login", token, `{"username":"alice"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Token    string      `json:"token"`
		Message  string      `json:"message"`
		BMIDates []string    `json:"bmi_dates"`
		Foods    foodCatalog `json:"foods"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.Token != token {
		t.Errorf("expected the session token to be reused")
	}
	if resp.Message != "Welcome, alice!" {
		t.Errorf("unexpected message %q", resp.Message)
	}
	if len(resp.BMIDates) != 1 || resp.BMIDates[0] != "2024-01-01" {
		t.Errorf("bmi_dates = %v, want [2024-01-01]", resp.BMIDates)
	}
	if len(resp.Foods.Main) == 0 || resp.Foods.Main[0].Name != sentinelFood {
		t.Errorf("expected default catalog with sentinel, got %+v", resp.Foods.Main)
	}
}

func TestAuth_LogoutEndsSession(t *testing.T) {
	router, _ := setupRouter("")
	token := loginAs(t, router, "alice")

	if w := doRequest(router, "POST", "/api/logout", token, ""); w.Code != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d", w.Code)
	}
	if w := doRequest(router, "GET", "/api/bmi", token, ""); w.Code != http.StatusUnauthorized {
		t.Errorf("after logout: expected 401, got %d", w.Code)
	}
	// Logging out twice is harmless.
	if w := doRequest(router, "POST", "/api/logout", token, ""); w.Code != http.StatusOK {
		t.Errorf("second logout: expected 200, got %d", w.Code)
	}
}

func TestAuth_SwitchUserKeepsRecordsSeparate(t *testing.T) {
	router, _ := setupRouter("")
	token := loginAs(t, router, "alice")
	doRequest(router, "POST", "/api/bmi", token, `{"height":180,"weight":80,"date":"2024-01-01"}`)

	doRequest(router, "POST", "/api/login", token, `{"username":"bob"}`)
	w := doRequest(router, "GET", "/api/bmi/2024-01-01", token, "")
	if w.Code != http.StatusNotFound {
		t.Errorf("bob should not see alice's record, got %d", w.Code)
	}
}
