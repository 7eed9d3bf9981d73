// backend/src/handlers/trade_handler.go
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/username/tradebook/backend/src/logger"
	"github.com/username/tradebook/backend/src/models"
	"github.com/username/tradebook/backend/src/repository"
	"github.com/username/tradebook/backend/src/utils"
	"github.com/username/tradebook/backend/src/validation"
)

type TradeHandler struct {
	repo repository.TradeRepository
}

func NewTradeHandler(repo repository.TradeRepository) *TradeHandler {
	return &TradeHandler{repo: repo}
}

// HandleListTrades serves GET /trades: the full collection as a JSON
// array, dates in ISO-8601 form, ids as integers.
func (h *TradeHandler) HandleListTrades(w http.ResponseWriter, r *http.Request) {
	records, err := h.repo.List()
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to list trades", "error", err)
		utils.SendJSONError(w, "Failed to list trades", http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []models.TradeRecord{}
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(records); err != nil {
		logger.FromContext(r.Context()).Error("Error encoding trades response", "error", err)
	}
}

// HandleCreateTrade serves POST /trades: one trade without an id; the
// store assigns the identifier and echoes the stored record back.
func (h *TradeHandler) HandleCreateTrade(w http.ResponseWriter, r *http.Request) {
	ctxLogger := logger.FromContext(r.Context())

	var rec models.TradeRecord
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		ctxLogger.Warn("Malformed trade creation body", "error", err)
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if rec.ID != 0 {
		ctxLogger.Warn("Trade creation body carried an id", "id", rec.ID)
		utils.SendJSONError(w, "Trade id is assigned by the store and must not be supplied", http.StatusBadRequest)
		return
	}
	if err := validation.CheckRecord(rec); err != nil {
		ctxLogger.Warn("Trade creation body failed validation", "error", err)
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	id, err := h.repo.Insert(rec)
	if err != nil {
		ctxLogger.Error("Failed to insert trade", "error", err)
		utils.SendJSONError(w, "Failed to create trade", http.StatusInternalServerError)
		return
	}
	rec.ID = id
	ctxLogger.Info("Trade created", "id", id, "sym", rec.Sym, "orderType", rec.OrderType.String())

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(rec); err != nil {
		ctxLogger.Error("Error encoding created trade response", "id", id, "error", err)
	}
}

// HandleDeleteTrade serves DELETE /trades/{id}. Idempotent: deleting an
// id the store no longer knows still answers 204.
func (h *TradeHandler) HandleDeleteTrade(w http.ResponseWriter, r *http.Request) {
	ctxLogger := logger.FromContext(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		utils.SendJSONError(w, "Trade id must be an integer", http.StatusBadRequest)
		return
	}

	removed, err := h.repo.DeleteByID(id)
	if err != nil {
		ctxLogger.Error("Failed to delete trade", "id", id, "error", err)
		utils.SendJSONError(w, "Failed to delete trade", http.StatusInternalServerError)
		return
	}
	ctxLogger.Info("Trade delete handled", "id", id, "removed", removed)
	w.WriteHeader(http.StatusNoContent)
}
