package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/maicon-romano/arrivabene-advocacia-web/internal/logging"
	"github.com/maicon-romano/arrivabene-advocacia-web/internal/mail"
)

type ContactHandler struct {
	mailer *mail.Mailer
	log    logging.Logger
}

func NewContactHandler(mailer *mail.Mailer, log logging.Logger) *ContactHandler {
	return &ContactHandler{mailer: mailer, log: log}
}

func (h *ContactHandler) Send(w http.ResponseWriter, r *http.Request) {
	var msg mail.ContactMessage
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		respondError(w, http.StatusBadRequest, "invalid body")
		return
	}

	ref, err := h.mailer.Send(r.Context(), msg)
	if err != nil {
		if errors.Is(err, mail.ErrInvalidMessage) {
			respondError(w, http.StatusBadRequest, "all contact fields are required")
			return
		}
		h.log.Error(r.Context(), "contact mail failed", "error", err)
		respondError(w, http.StatusBadGateway, "failed to send message")
		return
	}
	respondJSON(w, http.StatusAccepted, map[string]string{"reference": ref})
}
