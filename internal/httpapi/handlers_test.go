package httpapi

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"talenthub.org/internal/auth"
	"talenthub.org/internal/stream"
	"talenthub.org/internal/talent"
	"talenthub.org/internal/users"
)

type apiClient struct {
	baseURL string
	client  *http.Client
	t       *testing.T
}

func newTestAPI(t *testing.T) *apiClient {
	t.Helper()

	store := users.NewInMemory()
	userSvc, err := users.NewService(store)
	if err != nil {
		t.Fatalf("users service: %v", err)
	}
	if _, err := userSvc.Create(context.Background(), users.NewUser{
		Email:    "admin@talenthub.org",
		Name:     "Admin",
		Role:     "admin",
		Password: "correct horse",
	}); err != nil {
		t.Fatalf("seed account: %v", err)
	}

	key, err := auth.LoadSigningKey(base64.StdEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef")))
	if err != nil {
		t.Fatalf("signing key: %v", err)
	}
	authSvc, err := auth.NewService(users.NewDirectory(store), auth.NewTokens(key, "talenthub"))
	if err != nil {
		t.Fatalf("auth service: %v", err)
	}

	talentSvc, err := talent.NewService(talent.NewInMemory())
	if err != nil {
		t.Fatalf("talent service: %v", err)
	}

	api := New(ReadyProbe{}, "test", authSvc, userSvc, talentSvc, stream.New())
	api.rateBurst = 1000
	api.ratePerSec = 1000

	srv := httptest.NewServer(api.Handler())
	t.Cleanup(srv.Close)

	return &apiClient{
		baseURL: srv.URL,
		client:  srv.Client(),
		t:       t,
	}
}

func (c *apiClient) post(path string, body any, headers map[string]string) *http.Response {
	c.t.Helper()
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			c.t.Fatalf("marshal body: %v", err)
		}
	}
	req, err := http.NewRequest(http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		c.t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		c.t.Fatalf("do request: %v", err)
	}
	return resp
}

func (c *apiClient) do(method, path string, body any, headers map[string]string) *http.Response {
	c.t.Helper()
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			c.t.Fatalf("marshal body: %v", err)
		}
	}
	req, err := http.NewRequest(method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		c.t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		c.t.Fatalf("do request: %v", err)
	}
	return resp
}

func (c *apiClient) get(path string, params url.Values, headers map[string]string) *http.Response {
	c.t.Helper()
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		c.t.Fatalf("parse url: %v", err)
	}
	if params != nil {
		u.RawQuery = params.Encode()
	}
	req, err := http.NewRequest(http.MethodGet, u.String(), nil)
	if err != nil {
		c.t.Fatalf("new request: %v", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		c.t.Fatalf("get request: %v", err)
	}
	return resp
}

func (c *apiClient) login(email, password string) auth.Session {
	c.t.Helper()
	resp := c.post("/v1/auth/login", map[string]any{
		"email":    email,
		"password": password,
	}, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		c.t.Fatalf("unexpected login status: %d", resp.StatusCode)
	}
	var session auth.Session
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		c.t.Fatalf("decode session: %v", err)
	}
	if session.AccessToken == "" || session.RefreshToken == "" {
		c.t.Fatal("incomplete session issued")
	}
	return session
}

func decode[T any](t *testing.T, r *http.Response) T {
	t.Helper()
	defer r.Body.Close()
	var v T
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestLoginRefreshMeFlow(t *testing.T) {
	api := newTestAPI(t)

	session := api.login("admin@talenthub.org", "correct horse")
	if session.Identity == nil || session.Identity.Email != "admin@talenthub.org" {
		t.Fatalf("login did not return the account snapshot: %+v", session.Identity)
	}
	authHeader := map[string]string{"Authorization": "Bearer " + session.AccessToken}

	// who am I
	resp := api.get("/v1/auth/me", nil, authHeader)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected me status: %d", resp.StatusCode)
	}
	me := decode[auth.Identity](t, resp)
	if me.Email != "admin@talenthub.org" {
		t.Fatalf("unexpected identity: %+v", me)
	}

	// rotate the pair
	resp = api.post("/v1/auth/refresh", map[string]any{
		"refresh_token": session.RefreshToken,
	}, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected refresh status: %d", resp.StatusCode)
	}
	renewed := decode[auth.Session](t, resp)
	if renewed.AccessToken == "" || renewed.AccessToken == session.AccessToken {
		t.Fatal("refresh did not mint a fresh access token")
	}

	// the new access token works
	resp = api.get("/v1/auth/me", nil, map[string]string{
		"Authorization": "Bearer " + renewed.AccessToken,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("renewed token rejected: %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	api := newTestAPI(t)

	for name, body := range map[string]map[string]any{
		"wrong password": {"email": "admin@talenthub.org", "password": "nope"},
		"unknown email":  {"email": "ghost@talenthub.org", "password": "correct horse"},
	} {
		resp := api.post("/v1/auth/login", body, nil)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", name, resp.StatusCode)
		}
		errBody := decode[map[string]any](t, resp)
		if errBody["error"] != "invalid credentials" {
			t.Fatalf("%s: failure reason leaked: %v", name, errBody["error"])
		}
	}
}

func TestRefreshRejectsGarbage(t *testing.T) {
	api := newTestAPI(t)

	resp := api.post("/v1/auth/refresh", map[string]any{
		"refresh_token": "not-a-token",
	}, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	api := newTestAPI(t)

	resp := api.get("/v1/employees", nil, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	if resp.Header.Get("WWW-Authenticate") == "" {
		t.Fatal("expected WWW-Authenticate header")
	}
}

func TestEmployeeProjectAssignmentFlow(t *testing.T) {
	api := newTestAPI(t)
	session := api.login("admin@talenthub.org", "correct horse")
	authHeader := map[string]string{"Authorization": "Bearer " + session.AccessToken}

	resp := api.post("/v1/employees", map[string]any{
		"first_name":        "Grace",
		"last_name":         "Hopper",
		"email":             "grace@talenthub.org",
		"department":        "Platform",
		"competency_matrix": map[string]int{"go": 5, "sql": 4},
	}, authHeader)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("unexpected employee status: %d", resp.StatusCode)
	}
	emp := decode[map[string]any](t, resp)
	empID := emp["id"].(string)

	resp = api.post("/v1/projects", map[string]any{
		"name":            "Apollo",
		"required_skills": []string{"go", "sql"},
	}, authHeader)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("unexpected project status: %d", resp.StatusCode)
	}
	project := decode[map[string]any](t, resp)
	projectID := project["id"].(string)

	resp = api.post("/v1/assignments", map[string]any{
		"project_id":             projectID,
		"employee_id":            empID,
		"utilization_percentage": 80,
	}, authHeader)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("unexpected assignment status: %d", resp.StatusCode)
	}
	resp.Body.Close()

	// a second placement would exceed 100% utilization
	resp = api.post("/v1/assignments", map[string]any{
		"project_id":             projectID,
		"employee_id":            empID,
		"utilization_percentage": 30,
	}, authHeader)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 for over-allocation, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = api.post("/v1/projects/"+projectID+"/recommend", map[string]any{
		"team_size": 1,
	}, authHeader)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("unexpected recommend status: %d", resp.StatusCode)
	}
	rec := decode[map[string]any](t, resp)
	ids := rec["recommended_employee_ids"].([]any)
	if len(ids) != 1 || ids[0].(string) != empID {
		t.Fatalf("unexpected recommendation: %+v", rec)
	}

	resp = api.get("/v1/employees/"+empID+"/assignments", nil, authHeader)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected assignments status: %d", resp.StatusCode)
	}
	placements := decode[map[string]any](t, resp)
	if len(placements["items"].([]any)) != 1 {
		t.Fatalf("expected a single placement: %+v", placements)
	}
}

func TestUserLifecycleOverHTTP(t *testing.T) {
	api := newTestAPI(t)
	session := api.login("admin@talenthub.org", "correct horse")
	authHeader := map[string]string{"Authorization": "Bearer " + session.AccessToken}

	resp := api.post("/v1/users", map[string]any{
		"email":    "hr@talenthub.org",
		"name":     "HR",
		"role":     "hr",
		"password": "another horse",
	}, authHeader)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("unexpected create status: %d", resp.StatusCode)
	}
	created := decode[map[string]any](t, resp)
	id := created["id"].(string)
	if _, leaked := created["password_hash"]; leaked {
		t.Fatal("credential hash leaked in response")
	}

	resp = api.do(http.MethodPut, "/v1/users/"+id, map[string]any{
		"email": "hr@talenthub.org",
		"name":  "People Ops",
		"role":  "hr",
	}, authHeader)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected update status: %d", resp.StatusCode)
	}
	updated := decode[map[string]any](t, resp)
	if updated["name"] != "People Ops" {
		t.Fatalf("update not applied: %+v", updated)
	}

	// the fresh account can sign in
	api.login("hr@talenthub.org", "another horse")

	resp = api.do(http.MethodDelete, "/v1/users/"+id, nil, authHeader)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("unexpected delete status: %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = api.get("/v1/users/"+id, nil, authHeader)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestHealthAndOpenAPIArePublic(t *testing.T) {
	api := newTestAPI(t)

	for _, path := range []string{"/healthz", "/readyz", "/openapi.yaml"} {
		resp := api.get(path, nil, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, resp.StatusCode)
		}
		resp.Body.Close()
	}
}
