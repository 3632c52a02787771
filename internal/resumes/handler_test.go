package resumes_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"resume-builder-api/internal/bootstrap"
	"resume-builder-api/internal/shared/config"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	app, err := bootstrap.Build(config.Config{
		Env:             "test",
		CORSAllowOrigin: []string{"http://localhost:5173"},
		JWTSecret:       "test-secret",
		JWTExpiration:   time.Hour,
		JWTIssuer:       "resume-builder-api",
	})
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}
	return app.Router
}

func doJSON(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)
	return resp
}

func signup(t *testing.T, h http.Handler, email string) string {
	t.Helper()
	resp := doJSON(t, h, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"email": email, "password": "secret123", "firstName": "A", "lastName": "B",
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("signup: expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var out struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode signup: %v", err)
	}
	return out.Data.Token
}

type envelope struct {
	Status bool            `json:"status"`
	Data   json.RawMessage `json:"data"`
	Error  struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decode(t *testing.T, resp *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(resp.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response %q: %v", resp.Body.String(), err)
	}
	return env
}

func createDevResume(t *testing.T, h http.Handler, token string) int64 {
	t.Helper()
	resp := doJSON(t, h, http.MethodPost, "/api/resumes", token, map[string]any{
		"title": "Dev Resume",
		"education": []map[string]any{{
			"institution": "X", "degree": "BSc", "fieldOfStudy": "CS", "startDate": "2020-01-01",
		}},
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	env := decode(t, resp)
	var sum struct {
		ID        int64  `json:"id"`
		Title     string `json:"title"`
		CreatedAt string `json:"createdAt"`
		UpdatedAt string `json:"updatedAt"`
	}
	if err := json.Unmarshal(env.Data, &sum); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if !env.Status || sum.ID == 0 || sum.Title != "Dev Resume" || sum.CreatedAt == "" || sum.UpdatedAt == "" {
		t.Fatalf("unexpected create response: %s", resp.Body.String())
	}
	return sum.ID
}

func TestCreateThenGetReturnsEducation(t *testing.T) {
	h := newTestRouter(t)
	token := signup(t, h, "dev@example.com")
	id := createDevResume(t, h, token)

	resp := doJSON(t, h, http.MethodGet, fmt.Sprintf("/api/resumes/%d", id), token, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var detail struct {
		Title     string `json:"title"`
		Status    string `json:"status"`
		Education []struct {
			ID           int     `json:"id"`
			Institution  string  `json:"institution"`
			Degree       string  `json:"degree"`
			FieldOfStudy string  `json:"fieldOfStudy"`
			StartDate    string  `json:"startDate"`
			EndDate      *string `json:"endDate"`
		} `json:"education"`
		Skills   []any `json:"skills"`
		Projects []any `json:"projects"`
	}
	if err := json.Unmarshal(decode(t, resp).Data, &detail); err != nil {
		t.Fatalf("decode detail: %v", err)
	}
	if len(detail.Education) != 1 {
		t.Fatalf("expected exactly one education entry, got %d", len(detail.Education))
	}
	edu := detail.Education[0]
	if edu.Institution != "X" || edu.Degree != "BSc" || edu.FieldOfStudy != "CS" || edu.StartDate != "2020-01-01" || edu.EndDate != nil {
		t.Fatalf("education mismatch: %+v", edu)
	}
	if detail.Status != "Draft" {
		t.Fatalf("expected Draft, got %q", detail.Status)
	}
	if detail.Skills == nil || detail.Projects == nil {
		t.Fatalf("expected empty collections, got nil")
	}
}

func TestGetResumeReturnsSkillsAsObjects(t *testing.T) {
	h := newTestRouter(t)
	token := signup(t, h, "skills@example.com")

	resp := doJSON(t, h, http.MethodPost, "/api/resumes", token, map[string]any{
		"title":  "CV",
		"skills": []any{"Go", map[string]any{"name": "SQL", "level": 4, "category": "Data"}},
		"experience": []map[string]any{{
			"company": "Acme", "position": "Dev", "startDate": "2021-02-01", "endDate": "",
		}},
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var sum struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(decode(t, resp).Data, &sum); err != nil {
		t.Fatalf("decode summary: %v", err)
	}

	resp = doJSON(t, h, http.MethodGet, fmt.Sprintf("/api/resumes/%d", sum.ID), token, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", resp.Code)
	}
	var detail struct {
		Skills     []map[string]any `json:"skills"`
		Experience []map[string]any `json:"experience"`
	}
	if err := json.Unmarshal(decode(t, resp).Data, &detail); err != nil {
		t.Fatalf("skills must decode as objects: %v (%s)", err, resp.Body.String())
	}
	if len(detail.Skills) != 2 {
		t.Fatalf("expected 2 skills, got %d", len(detail.Skills))
	}
	if detail.Skills[0]["id"] != float64(1) || detail.Skills[0]["name"] != "Go" {
		t.Fatalf("unexpected first skill: %v", detail.Skills[0])
	}
	if _, ok := detail.Skills[0]["level"]; ok {
		t.Fatalf("plain skill should have no level: %v", detail.Skills[0])
	}
	if detail.Skills[1]["name"] != "SQL" || detail.Skills[1]["level"] != float64(4) || detail.Skills[1]["category"] != "Data" {
		t.Fatalf("unexpected second skill: %v", detail.Skills[1])
	}
	if _, ok := detail.Experience[0]["endDate"]; ok {
		t.Fatalf("empty endDate should be omitted: %v", detail.Experience[0])
	}
}

func TestListResumes(t *testing.T) {
	h := newTestRouter(t)
	token := signup(t, h, "list@example.com")
	createDevResume(t, h, token)
	createDevResume(t, h, token)

	resp := doJSON(t, h, http.MethodGet, "/api/resumes", token, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", resp.Code)
	}
	var list []map[string]any
	if err := json.Unmarshal(decode(t, resp).Data, &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 resumes, got %d", len(list))
	}

	other := signup(t, h, "other@example.com")
	resp = doJSON(t, h, http.MethodGet, "/api/resumes", other, nil)
	if err := json.Unmarshal(decode(t, resp).Data, &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected no resumes for other user, got %d", len(list))
	}
}

func TestResumeRoutesRequireToken(t *testing.T) {
	h := newTestRouter(t)

	resp := doJSON(t, h, http.MethodGet, "/api/resumes", "", nil)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
	resp = doJSON(t, h, http.MethodGet, "/api/resumes", "not-a-jwt", nil)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad token, got %d", resp.Code)
	}
}

func TestCreateResumeErrors(t *testing.T) {
	h := newTestRouter(t)
	token := signup(t, h, "errors@example.com")

	resp := doJSON(t, h, http.MethodPost, "/api/resumes", token, map[string]any{"title": ""})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if env := decode(t, resp); env.Status || env.Error.Code != "MISSING_REQUIRED_FIELDS" || env.Error.Message != "Resume title is required" {
		t.Fatalf("unexpected error body: %s", resp.Body.String())
	}

	resp = doJSON(t, h, http.MethodPost, "/api/resumes", token, map[string]any{
		"title":  "CV",
		"skills": []map[string]any{{"name": "Go", "level": 9}},
	})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad level, got %d", resp.Code)
	}
	if env := decode(t, resp); env.Error.Code != "VALIDATION_ERROR" {
		t.Fatalf("expected VALIDATION_ERROR, got %s", resp.Body.String())
	}

	resp = doJSON(t, h, http.MethodPost, "/api/resumes", token, map[string]any{
		"title":     "CV",
		"education": []map[string]any{{"institution": "X", "degree": "BSc", "fieldOfStudy": "CS", "startDate": "01/02/2020"}},
	})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad date, got %d", resp.Code)
	}

	resp = doJSON(t, h, http.MethodPost, "/api/resumes", token, map[string]any{
		"title":  "CV",
		"skills": []any{"Go", "<script>alert(1)</script>"},
	})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for markup, got %d", resp.Code)
	}
	if env := decode(t, resp); env.Error.Code != "VALIDATION_ERROR" {
		t.Fatalf("expected VALIDATION_ERROR, got %s", resp.Body.String())
	}
}

func TestGetResumeErrors(t *testing.T) {
	h := newTestRouter(t)
	owner := signup(t, h, "owner@example.com")
	intruder := signup(t, h, "intruder@example.com")
	id := createDevResume(t, h, owner)

	resp := doJSON(t, h, http.MethodGet, "/api/resumes/abc", owner, nil)
	if resp.Code != http.StatusBadRequest || decode(t, resp).Error.Code != "INVALID_ID" {
		t.Fatalf("expected 400 INVALID_ID, got %d %s", resp.Code, resp.Body.String())
	}

	resp = doJSON(t, h, http.MethodGet, fmt.Sprintf("/api/resumes/%d", id), intruder, nil)
	if resp.Code != http.StatusNotFound || decode(t, resp).Error.Code != "RESUME_NOT_FOUND" {
		t.Fatalf("expected 404 for another user's resume, got %d", resp.Code)
	}

	resp = doJSON(t, h, http.MethodGet, "/api/resumes/424242", owner, nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing resume, got %d", resp.Code)
	}
}

func TestUpdateAndDeleteResume(t *testing.T) {
	h := newTestRouter(t)
	token := signup(t, h, "update@example.com")
	id := createDevResume(t, h, token)
	path := fmt.Sprintf("/api/resumes/%d", id)

	resp := doJSON(t, h, http.MethodPut, path, token, map[string]any{"title": "Renamed", "status": "Published", "version": 1})
	if resp.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var detail struct {
		Title   string `json:"title"`
		Status  string `json:"status"`
		Version int    `json:"version"`
	}
	if err := json.Unmarshal(decode(t, resp).Data, &detail); err != nil {
		t.Fatalf("decode detail: %v", err)
	}
	if detail.Title != "Renamed" || detail.Status != "Published" || detail.Version != 2 {
		t.Fatalf("unexpected update result: %+v", detail)
	}

	resp = doJSON(t, h, http.MethodPut, path, token, map[string]any{"title": "Stale", "version": 1})
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 on stale version, got %d", resp.Code)
	}

	resp = doJSON(t, h, http.MethodDelete, path, token, nil)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", resp.Code)
	}
	resp = doJSON(t, h, http.MethodGet, path, token, nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", resp.Code)
	}
}

func TestItemRoutes(t *testing.T) {
	h := newTestRouter(t)
	token := signup(t, h, "items@example.com")
	id := createDevResume(t, h, token)
	base := fmt.Sprintf("/api/resumes/%d", id)

	resp := doJSON(t, h, http.MethodPost, base+"/education", token, map[string]any{
		"institution": "Y", "degree": "MSc", "fieldOfStudy": "AI", "startDate": "2022-09-01",
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("add education: expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var ref struct {
		ID int `json:"id"`
	}
	if err := json.Unmarshal(decode(t, resp).Data, &ref); err != nil || ref.ID != 2 {
		t.Fatalf("expected education id 2, got %+v (%v)", ref, err)
	}

	resp = doJSON(t, h, http.MethodPatch, base+"/education/2", token, map[string]any{"degree": "PhD"})
	if resp.Code != http.StatusOK {
		t.Fatalf("patch education: expected 200, got %d", resp.Code)
	}
	resp = doJSON(t, h, http.MethodPatch, base+"/education/9", token, map[string]any{"degree": "PhD"})
	if resp.Code != http.StatusNotFound || decode(t, resp).Error.Code != "ITEM_NOT_FOUND" {
		t.Fatalf("expected 404 ITEM_NOT_FOUND, got %d %s", resp.Code, resp.Body.String())
	}
	resp = doJSON(t, h, http.MethodDelete, base+"/education/1", token, nil)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("delete education: expected 204, got %d", resp.Code)
	}
	resp = doJSON(t, h, http.MethodDelete, base+"/education/x", token, nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad item id, got %d", resp.Code)
	}

	resp = doJSON(t, h, http.MethodPost, base+"/skills", token, "Go")
	if resp.Code != http.StatusCreated {
		t.Fatalf("add skill: expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	resp = doJSON(t, h, http.MethodPost, base+"/experience", token, map[string]any{
		"company": "Acme", "position": "Dev", "startDate": "2021-01-01", "achievements": []string{"one", "two"},
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("add experience: expected 201, got %d: %s", resp.Code, resp.Body.String())
	}

	resp = doJSON(t, h, http.MethodGet, base, token, nil)
	var detail struct {
		Education []struct {
			ID     int    `json:"id"`
			Degree string `json:"degree"`
		} `json:"education"`
		Experience []struct {
			Achievements []string `json:"achievements"`
		} `json:"experience"`
		Skills []struct {
			Name string `json:"name"`
		} `json:"skills"`
	}
	if err := json.Unmarshal(decode(t, resp).Data, &detail); err != nil {
		t.Fatalf("decode detail: %v", err)
	}
	if len(detail.Education) != 1 || detail.Education[0].ID != 2 || detail.Education[0].Degree != "PhD" {
		t.Fatalf("unexpected education: %+v", detail.Education)
	}
	if len(detail.Skills) != 1 || detail.Skills[0].Name != "Go" {
		t.Fatalf("unexpected skills: %+v", detail.Skills)
	}
	if len(detail.Experience) != 1 || len(detail.Experience[0].Achievements) != 2 || detail.Experience[0].Achievements[1] != "two" {
		t.Fatalf("unexpected experience: %+v", detail.Experience)
	}
}
