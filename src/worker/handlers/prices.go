package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"ledger/src/schemas"
	"ledger/src/utils"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) PostTick(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	ctx = utils.WithLogger(ctx, h.Logger)

	prices, err := h.Controller.Tick(ctx)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	h.respond(w, r, prices, http.StatusOK)
}

func (h *Handler) PutPrice(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	ctx = utils.WithLogger(ctx, h.Logger)

	asset := chi.URLParam(r, "asset")
	req := new(schemas.SetPriceRequest)
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		h.HandleErrors(w, utils.BadRequest("invalid request body: "+err.Error()))
		return
	}

	prices, err := h.Controller.SetPrice(ctx, asset, req.PriceEUR)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	h.respond(w, r, prices, http.StatusOK)
}
