package handlers

import (
	"net/http"

	"ledger/src/schemas"
)

func (h *Handler) PostAccount(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	req := new(schemas.RegisterRequest)
	if !h.decode(w, r, req) {
		return
	}

	account, err := h.Controller.Register(ctx, req.Name, req.Password)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	h.respond(w, r, account, http.StatusCreated)
}

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	accountID, ok := h.accountID(w, r)
	if !ok {
		return
	}

	dashboard, err := h.Controller.GetDashboard(ctx, accountID)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	h.respond(w, r, dashboard, http.StatusOK)
}

func (h *Handler) GetBalances(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	accountID, ok := h.accountID(w, r)
	if !ok {
		return
	}

	balances, err := h.Controller.GetBalances(ctx, accountID)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	h.respond(w, r, balances, http.StatusOK)
}

func (h *Handler) GetPositions(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	accountID, ok := h.accountID(w, r)
	if !ok {
		return
	}

	positions, err := h.Controller.GetPositions(ctx, accountID)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	h.respond(w, r, positions, http.StatusOK)
}

func (h *Handler) GetStatement(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	accountID, ok := h.accountID(w, r)
	if !ok {
		return
	}

	data, err := h.Controller.GetStatement(ctx, accountID)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename=statement.xlsx")
	_, _ = w.Write(data)
}
