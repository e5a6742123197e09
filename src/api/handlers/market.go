package handlers

import (
	"net/http"
	"strconv"

	"ledger/src/utils"
)

func (h *Handler) GetPrices(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	prices, err := h.Controller.GetPrices(ctx)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	h.respond(w, r, prices, http.StatusOK)
}

func (h *Handler) GetRates(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.Controller.GetRates(), http.StatusOK)
}

func (h *Handler) GetAudit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		var err error
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit < 0 {
			h.HandleErrors(w, utils.BadRequest("limit must be a non-negative integer"))
			return
		}
	}

	events, err := h.Controller.GetAudit(ctx, limit)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	h.respond(w, r, events, http.StatusOK)
}
