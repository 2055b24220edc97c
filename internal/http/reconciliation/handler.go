package reconciliation

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/calebmonroe/penny/internal/http/middleware"
	"github.com/calebmonroe/penny/internal/match"
	"github.com/calebmonroe/penny/internal/reconcile"
)

type Handler struct {
	svc *reconcile.Service
}

func NewHandler(svc *reconcile.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Get("/{id}/items", h.items)
	r.Get("/{id}/balance", h.balance)
	r.Post("/{id}/match", h.runMatch)
	r.Post("/{id}/items/manual", h.manualMatch)
	r.Post("/{id}/finalize", h.finalize)
	r.Post("/items/{itemID}/unlink", h.unlink)
	r.Post("/items/{itemID}/approve", h.approve)
}

type createRequest struct {
	AccountID             uuid.UUID       `json:"account_id"`
	PeriodStart           time.Time       `json:"period_start"`
	PeriodEnd             time.Time       `json:"period_end"`
	StatementStartBalance decimal.Decimal `json:"statement_start_balance"`
	StatementEndBalance   decimal.Decimal `json:"statement_end_balance"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rec, err := h.svc.Create(r.Context(), userID, reconcile.CreateParams{
		AccountID:             req.AccountID,
		PeriodStart:           req.PeriodStart,
		PeriodEnd:             req.PeriodEnd,
		StatementStartBalance: req.StatementStartBalance,
		StatementEndBalance:   req.StatementEndBalance,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	respond(w, http.StatusCreated, toResponse(rec))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := h.identify(w, r, "id")
	if !ok {
		return
	}

	rec, err := h.svc.Get(r.Context(), userID, id)
	if err != nil {
		writeError(w, err)
		return
	}

	respond(w, http.StatusOK, toResponse(rec))
}

func (h *Handler) items(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := h.identify(w, r, "id")
	if !ok {
		return
	}

	items, err := h.svc.Items(r.Context(), userID, id)
	if err != nil {
		writeError(w, err)
		return
	}

	respond(w, http.StatusOK, toItemResponseList(items))
}

func (h *Handler) balance(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := h.identify(w, r, "id")
	if !ok {
		return
	}

	check, err := h.svc.CheckBalance(r.Context(), userID, id)
	if err != nil {
		writeError(w, err)
		return
	}

	respond(w, http.StatusOK, toBalanceResponse(check))
}

type runMatchRequest struct {
	BankLines     []match.Record `json:"bank_lines"`
	MinConfidence *float64       `json:"min_confidence,omitempty"`
}

func (h *Handler) runMatch(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := h.identify(w, r, "id")
	if !ok {
		return
	}

	var req runMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.svc.RunMatch(r.Context(), userID, id, req.BankLines, req.MinConfidence)
	if err != nil {
		writeError(w, err)
		return
	}

	respond(w, http.StatusOK, toResultResponse(result))
}

type manualMatchRequest struct {
	TransactionID *uuid.UUID    `json:"transaction_id,omitempty"`
	BankLine      *match.Record `json:"bank_line,omitempty"`
}

func (h *Handler) manualMatch(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := h.identify(w, r, "id")
	if !ok {
		return
	}

	var req manualMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	item, err := h.svc.ManualMatch(r.Context(), userID, id, req.TransactionID, req.BankLine)
	if err != nil {
		writeError(w, err)
		return
	}

	respond(w, http.StatusCreated, toItemResponse(item))
}

func (h *Handler) unlink(w http.ResponseWriter, r *http.Request) {
	userID, itemID, ok := h.identify(w, r, "itemID")
	if !ok {
		return
	}

	replacements, err := h.svc.Unlink(r.Context(), userID, itemID)
	if err != nil {
		writeError(w, err)
		return
	}

	respond(w, http.StatusOK, toItemResponseList(replacements))
}

func (h *Handler) approve(w http.ResponseWriter, r *http.Request) {
	userID, itemID, ok := h.identify(w, r, "itemID")
	if !ok {
		return
	}

	if err := h.svc.Approve(r.Context(), userID, itemID); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type finalizeRequest struct {
	Force bool `json:"force"`
}

func (h *Handler) finalize(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := h.identify(w, r, "id")
	if !ok {
		return
	}

	var req finalizeRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	check, err := h.svc.Finalize(r.Context(), userID, id, req.Force)
	if err != nil {
		if errors.Is(err, reconcile.ErrUnbalanced) {
			respond(w, http.StatusConflict, map[string]any{
				"error":   err.Error(),
				"balance": toBalanceResponse(check),
			})

			return
		}

		writeError(w, err)

		return
	}

	respond(w, http.StatusOK, toBalanceResponse(check))
}

func (h *Handler) identify(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return uuid.Nil, uuid.Nil, false
	}

	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return uuid.Nil, uuid.Nil, false
	}

	return userID, id, true
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, reconcile.ErrNotFound), errors.Is(err, reconcile.ErrItemNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, reconcile.ErrInvalidArgument):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, reconcile.ErrInvalidState):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, reconcile.ErrUnbalanced):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
