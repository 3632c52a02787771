package respond

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func serve(t *testing.T, h gin.HandlerFunc) map[string]any {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", h)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/x", nil))

	var body map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	body["_code"] = float64(resp.Code)
	return body
}

func TestErrorShape(t *testing.T) {
	body := serve(t, func(c *gin.Context) {
		Error(c, http.StatusNotFound, "RESUME_NOT_FOUND", "Resume not found", nil)
	})
	if body["_code"] != float64(http.StatusNotFound) {
		t.Fatalf("expected 404, got %v", body["_code"])
	}
	if body["status"] != false {
		t.Fatalf("expected status false, got %v", body["status"])
	}
	errBody, ok := body["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error object, got %v", body["error"])
	}
	if errBody["code"] != "RESUME_NOT_FOUND" || errBody["message"] != "Resume not found" {
		t.Fatalf("unexpected error body: %v", errBody)
	}
	if _, ok := errBody["details"]; ok {
		t.Fatalf("expected details omitted")
	}
}

func TestFailShape(t *testing.T) {
	body := serve(t, func(c *gin.Context) {
		Fail(c, http.StatusUnauthorized, "Unauthorized: No token provided")
	})
	if body["success"] != false || body["message"] != "Unauthorized: No token provided" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestDataAndSuccessShapes(t *testing.T) {
	body := serve(t, func(c *gin.Context) { Data(c, http.StatusCreated, gin.H{"id": 1}) })
	if body["_code"] != float64(http.StatusCreated) || body["status"] != true {
		t.Fatalf("unexpected data body: %v", body)
	}
	body = serve(t, func(c *gin.Context) { Success(c, http.StatusOK, "ok") })
	if body["success"] != true || body["data"] != "ok" {
		t.Fatalf("unexpected success body: %v", body)
	}
}
