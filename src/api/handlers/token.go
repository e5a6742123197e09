package handlers

import (
	"net/http"

	"ledger/src/schemas"
)

func (h *Handler) PostToken(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	creds := new(schemas.TokenRequest)
	if !h.decode(w, r, creds) {
		return
	}

	tokenResponse, err := h.Controller.PostToken(ctx, creds.Name, creds.Password)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	h.respond(w, r, tokenResponse, http.StatusOK)
}
