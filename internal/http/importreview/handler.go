package importreview

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/calebmonroe/penny/internal/http/middleware"
	"github.com/calebmonroe/penny/internal/importreview"
	"github.com/calebmonroe/penny/internal/match"
)

type Handler struct {
	svc *importreview.Service
}

func NewHandler(svc *importreview.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/analyze", h.analyze)
	r.Post("/exclusions", h.exclude)
}

type analyzeRequest struct {
	AccountID       uuid.UUID            `json:"account_id"`
	Candidates      []match.Record       `json:"candidates"`
	DetectionLevel  match.DetectionLevel `json:"detection_level,omitempty"`
	DetectTransfers *bool                `json:"detect_transfers,omitempty"`
	LookbackDays    int                  `json:"lookback_days,omitempty"`
}

func (h *Handler) analyze(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	opts := match.DefaultClassifierOptions()
	if req.DetectionLevel != "" {
		opts.Level = req.DetectionLevel
	}

	if req.DetectTransfers != nil {
		opts.DetectTransfers = *req.DetectTransfers
	}

	plan, err := h.svc.Analyze(r.Context(), userID, importreview.AnalyzeParams{
		AccountID:    req.AccountID,
		Candidates:   req.Candidates,
		Options:      opts,
		LookbackDays: req.LookbackDays,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(plan); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type excludeRequest struct {
	FirstID  string `json:"first_id"`
	SecondID string `json:"second_id"`
}

func (h *Handler) exclude(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req excludeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.svc.Exclude(r.Context(), userID, req.FirstID, req.SecondID); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusCreated)
}
