package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestSetupRouter_BasicRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := SetupRouter(testConfig(), Deps{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/health", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("GET /health should return 200, got %d", w.Code)
	}

	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest("GET", "/config", nil)
	r.ServeHTTP(w2, req2)
	if w2.Code != http.StatusOK {
		t.Errorf("GET /config should return 200, got %d", w2.Code)
	}

	w3 := httptest.NewRecorder()
	r.ServeHTTP(w3, httptest.NewRequest("GET", "/", nil))
	if w3.Code != http.StatusOK {
		t.Errorf("GET / should return 200, got %d", w3.Code)
	}
	if !contains(w3.Body.String(), "Information retrieval") {
		t.Errorf("landing page missing title: %s", w3.Body.String())
	}
}

func TestSetupRouter_Subpath(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg := testConfig()
	cfg.Server.Subpath = "/qa"
	r := SetupRouter(cfg, Deps{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/qa/health", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("GET /qa/health should return 200, got %d", w.Code)
	}

	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, httptest.NewRequest("GET", "/qa", nil))
	if w2.Code != http.StatusOK {
		t.Errorf("GET /qa should return 200, got %d", w2.Code)
	}
	if !contains(w2.Body.String(), `action="/qa"`) {
		t.Errorf("form should post to the subpath: %s", w2.Body.String())
	}

	w3 := httptest.NewRecorder()
	r.ServeHTTP(w3, httptest.NewRequest("GET", "/qa/", nil))
	if w3.Code != http.StatusMovedPermanently {
		t.Errorf("GET /qa/ should redirect, got %d", w3.Code)
	}
}
