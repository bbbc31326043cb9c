package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/parcelops/optimizer/internal/optimizer"
	"github.com/parcelops/optimizer/internal/storage"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

const defaultSearchTimeout = 5 * time.Second

// Handler wires the optimization engine and billing storage into HTTP handlers.
type Handler struct {
	engine  optimizer.Engine
	storage storage.Storage

	clock         func() time.Time
	searchTimeout time.Duration

	mu               sync.RWMutex
	billingUpdatedAt time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// WithSearchTimeout bounds how long a single optimization request may run.
func WithSearchTimeout(timeout time.Duration) HandlerOption {
	return func(h *Handler) {
		if timeout > 0 {
			h.searchTimeout = timeout
		}
	}
}

// NewHandler constructs a Handler with the provided dependencies.
func NewHandler(engine optimizer.Engine, store storage.Storage, opts ...HandlerOption) *Handler {
	h := &Handler{
		engine:  engine,
		storage: store,
		clock: func() time.Time {
			return time.Now().UTC()
		},
		searchTimeout: defaultSearchTimeout,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.billingUpdatedAt = h.clock()
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := healthResponse{
		Status:    "ok",
		Timestamp: h.clock(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetBilling(w http.ResponseWriter, r *http.Request) {
	_ = r
	params, err := h.storage.GetBilling()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	resp := billingResponse{
		Billing:   billingPayloadFrom(params),
		UpdatedAt: h.currentBillingUpdatedAt(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handlePutBilling(w http.ResponseWriter, r *http.Request) {
	var req billingPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	if err := h.storage.SetBilling(req.toParams()); err != nil {
		if errors.Is(err, storage.ErrInvalidBilling) {
			writeError(w, http.StatusBadRequest, "Invalid billing parameters", err.Error())
			return
		}
		writeInternalError(w, err)
		return
	}

	h.markBillingUpdated()

	params, err := h.storage.GetBilling()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	resp := billingResponse{
		Billing:   billingPayloadFrom(params),
		UpdatedAt: h.currentBillingUpdatedAt(),
		Message:   "Billing parameters updated successfully",
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleOptimize(w http.ResponseWriter, r *http.Request) {
	var req optimizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	if len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, "Invalid request", "items must contain at least one entry")
		return
	}

	mode := optimizer.ModeFast
	if req.Mode != "" {
		parsed, err := optimizer.ParseMode(req.Mode)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request", err.Error())
			return
		}
		mode = parsed
	}

	params, err := h.resolveParams(req.Billing)
	if err != nil {
		writeInternalError(w, err)
		return
	}

	items := make([]optimizer.Item, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, optimizer.Item{Name: item.Name, Weight: item.Weight})
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.searchTimeout)
	defer cancel()

	start := time.Now()
	result, optErr := h.engine.Optimize(ctx, items, params, mode)
	elapsed := time.Since(start)

	if optErr != nil {
		h.writeOptimizeError(w, optErr)
		return
	}

	packages := make([]packagePayload, 0, len(result.Packages))
	for _, pkg := range result.Packages {
		members := make([]itemPayload, 0, len(pkg.Package))
		for _, item := range pkg.Package {
			members = append(members, itemPayload{Name: item.Name, Weight: item.Weight})
		}
		packages = append(packages, packagePayload{
			Items:          members,
			TotalWeight:    pkg.TotalWeight,
			BillableWeight: pkg.BillableWeight,
			Cost:           pkg.Cost,
		})
	}

	resp := optimizeResponse{
		Mode:              string(mode),
		TotalCost:         result.TotalCost,
		Packages:          packages,
		CalculationTimeMs: elapsed.Milliseconds(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) writeOptimizeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, optimizer.ErrInvalidItems),
		errors.Is(err, optimizer.ErrInvalidParams),
		errors.Is(err, optimizer.ErrUnknownMode),
		errors.Is(err, optimizer.ErrNoItems):
		writeError(w, http.StatusBadRequest, "Invalid request", err.Error())
	case errors.Is(err, optimizer.ErrItemTooHeavy):
		writeError(w, http.StatusUnprocessableEntity, "No feasible solution", err.Error(),
			"Raise maxWeight or remove the item that exceeds it")
	case errors.Is(err, optimizer.ErrInfeasible):
		writeError(w, http.StatusUnprocessableEntity, "No feasible solution", err.Error(),
			"Raise maxWeight so every item fits into a package")
	case errors.Is(err, optimizer.ErrTooManyItems):
		writeError(w, http.StatusUnprocessableEntity, "Too many items for exact mode", err.Error(),
			fmt.Sprintf("Retry with mode %q or reduce the item count", optimizer.ModeFast))
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		writeError(w, http.StatusUnprocessableEntity, "Search timed out", err.Error(),
			fmt.Sprintf("Retry with mode %q or reduce the item count", optimizer.ModeFast))
	default:
		writeInternalError(w, err)
	}
}

// resolveParams uses the request's billing block when present, falling back
// to the stored defaults.
func (h *Handler) resolveParams(override *billingPayload) (optimizer.Params, error) {
	if override != nil {
		return override.toParams(), nil
	}
	return h.storage.GetBilling()
}

func (h *Handler) currentBillingUpdatedAt() time.Time {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.billingUpdatedAt
}

func (h *Handler) markBillingUpdated() {
	h.mu.Lock()
	h.billingUpdatedAt = h.clock()
	h.mu.Unlock()
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

type itemPayload struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

type billingPayload struct {
	MaxWeight         float64 `json:"maxWeight"`
	UnitCost          float64 `json:"unitCost"`
	DeliveryFee       float64 `json:"deliveryFee"`
	MinDeliveryWeight float64 `json:"minDeliveryWeight"`
}

func billingPayloadFrom(params optimizer.Params) billingPayload {
	return billingPayload{
		MaxWeight:         params.MaxWeight,
		UnitCost:          params.UnitCost,
		DeliveryFee:       params.DeliveryFee,
		MinDeliveryWeight: params.MinDeliveryWeight,
	}
}

func (p billingPayload) toParams() optimizer.Params {
	return optimizer.Params{
		MaxWeight:         p.MaxWeight,
		UnitCost:          p.UnitCost,
		DeliveryFee:       p.DeliveryFee,
		MinDeliveryWeight: p.MinDeliveryWeight,
	}
}

type optimizeRequest struct {
	Items   []itemPayload   `json:"items"`
	Mode    string          `json:"mode"`
	Billing *billingPayload `json:"billing,omitempty"`
}

type packagePayload struct {
	Items          []itemPayload `json:"items"`
	TotalWeight    float64       `json:"totalWeight"`
	BillableWeight int           `json:"billableWeight"`
	Cost           float64       `json:"cost"`
}

type optimizeResponse struct {
	Mode              string           `json:"mode"`
	TotalCost         float64          `json:"totalCost"`
	Packages          []packagePayload `json:"packages"`
	CalculationTimeMs int64            `json:"calculationTimeMs"`
}

type billingResponse struct {
	Billing   billingPayload `json:"billing"`
	UpdatedAt time.Time      `json:"updatedAt"`
	Message   string         `json:"message,omitempty"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string, suggestion ...string) {
	resp := errorResponse{
		Error:   message,
		Details: details,
	}
	if len(suggestion) > 0 {
		resp.Suggestion = suggestion[0]
	}
	writeJSON(w, status, resp)
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}
