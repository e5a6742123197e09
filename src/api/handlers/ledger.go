package handlers

import (
	"net/http"

	"ledger/src/schemas"
)

func (h *Handler) PostInvestment(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	accountID, ok := h.accountID(w, r)
	if !ok {
		return
	}
	req := new(schemas.InvestmentRequest)
	if !h.decode(w, r, req) {
		return
	}

	result, err := h.Controller.Invest(ctx, accountID, req)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	h.respond(w, r, result, http.StatusOK)
}

func (h *Handler) PostCashout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	accountID, ok := h.accountID(w, r)
	if !ok {
		return
	}

	result, err := h.Controller.Cashout(ctx, accountID)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	h.respond(w, r, result, http.StatusOK)
}

func (h *Handler) PostWager(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	accountID, ok := h.accountID(w, r)
	if !ok {
		return
	}
	req := new(schemas.WagerRequest)
	if !h.decode(w, r, req) {
		return
	}

	result, err := h.Controller.Wager(ctx, accountID, req)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	h.respond(w, r, result, http.StatusOK)
}
