package http_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	api "github.com/brightstep/induction-portal/internal/api/http"
	"github.com/brightstep/induction-portal/internal/induction"
)

func TestInductionConfigRoundTrip(t *testing.T) {
	store := induction.NewMemStore()
	get := api.GetInductionConfigHandler(store)
	put := api.UpdateInductionConfigHandler(store)

	rec := httptest.NewRecorder()
	get(rec, httptest.NewRequest(http.MethodGet, "/config/induction", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), induction.DefaultConfig().Title) {
		t.Fatalf("default get = %d: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	put(rec, httptest.NewRequest(http.MethodPut, "/admin/config/induction",
		strings.NewReader(`{"title":"Welcome","description":"Start here"}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("put = %d: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	get(rec, httptest.NewRequest(http.MethodGet, "/config/induction", nil))
	if !strings.Contains(rec.Body.String(), "Welcome") {
		t.Fatalf("saved config not served: %s", rec.Body.String())
	}
}

func TestInductionConfigRejectsBlankFields(t *testing.T) {
	put := api.UpdateInductionConfigHandler(induction.NewMemStore())

	for _, body := range []string{
		`{"title":"  ","description":"d"}`,
		`{"title":"t","description":""}`,
	} {
		rec := httptest.NewRecorder()
		put(rec, httptest.NewRequest(http.MethodPut, "/admin/config/induction",
			strings.NewReader(body)))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %s = %d", body, rec.Code)
		}
	}
}
