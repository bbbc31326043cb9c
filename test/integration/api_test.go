package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/parcelops/optimizer/internal/api"
	"github.com/parcelops/optimizer/internal/optimizer"
	"github.com/parcelops/optimizer/internal/storage"
)

func newRouter(t *testing.T) http.Handler {
	t.Helper()

	store := storage.NewMemoryStorage()
	engine := optimizer.New()
	handler := api.NewHandler(engine, store)
	logger := zaptest.NewLogger(t)
	return api.NewRouter(handler, logger)
}

func performRequest(t *testing.T, handler http.Handler, method, target string, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestIntegrationFlow(t *testing.T) {
	handler := newRouter(t)

	rec := performRequest(t, handler, http.MethodGet, "/api/health", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from health, got %d", rec.Code)
	}

	updatePayload := map[string]any{
		"maxWeight":         5,
		"unitCost":          100,
		"deliveryFee":       50,
		"minDeliveryWeight": 4,
	}
	payload, _ := json.Marshal(updatePayload)
	rec = performRequest(t, handler, http.MethodPut, "/api/billing", payload, map[string]string{"Content-Type": "application/json"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from billing update, got %d", rec.Code)
	}

	optimizePayload := map[string]any{
		"mode": "exact",
		"items": []map[string]any{
			{"name": "A", "weight": 2},
			{"name": "B", "weight": 2},
			{"name": "C", "weight": 2},
		},
	}
	body, _ := json.Marshal(optimizePayload)
	rec = performRequest(t, handler, http.MethodPost, "/api/optimize", body, map[string]string{"Content-Type": "application/json"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from optimize, got %d: %s", rec.Code, rec.Body.String())
	}

	var response struct {
		TotalCost float64 `json:"totalCost"`
		Packages  []struct {
			Items []struct {
				Name string `json:"name"`
			} `json:"items"`
			TotalWeight float64 `json:"totalWeight"`
		} `json:"packages"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if response.TotalCost != 650 {
		t.Fatalf("unexpected total cost %v", response.TotalCost)
	}

	seen := map[string]int{}
	for _, pkg := range response.Packages {
		if pkg.TotalWeight > 5 {
			t.Fatalf("package exceeds max weight: %+v", pkg)
		}
		for _, item := range pkg.Items {
			seen[item.Name]++
		}
	}
	for _, name := range []string{"A", "B", "C"} {
		if seen[name] != 1 {
			t.Fatalf("expected item %s exactly once, got %d", name, seen[name])
		}
	}

	infeasiblePayload := map[string]any{
		"mode":  "exact",
		"items": []map[string]any{{"name": "anvil", "weight": 10}},
	}
	body, _ = json.Marshal(infeasiblePayload)
	rec = performRequest(t, handler, http.MethodPost, "/api/optimize", body, map[string]string{"Content-Type": "application/json"})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for infeasible input, got %d", rec.Code)
	}
}
