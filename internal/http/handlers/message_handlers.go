package handlers

import (
	"net/http"

	"github.com/rogerio-castellano/storefront/internal/contact"
)

// CreateMessageHandler godoc
// @Summary Submit the contact form
// @Tags messages
// @Accept json
// @Produce json
// @Param message body ContactRequest true "Contact form"
// @Success 201 {object} models.ContactMessage
// @Failure 400 {object} ProductResult
// @Failure 500 {object} ErrorResponse
// @Router /api/messages [post]
func (h *Handler) CreateMessageHandler(w http.ResponseWriter, r *http.Request) {
	var req ContactRequest
	if err := readJSON(w, r, &req); err != nil {
		h.respond(w, http.StatusBadRequest, ErrorResponse{Error: "invalid input"})
		return
	}

	msg, err := h.inbox.Submit(r.Context(), contact.Submission{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respond(w, http.StatusCreated, msg)
}

// GetMessagesHandler godoc
// @Summary List contact messages
// @Tags messages
// @Produce json
// @Success 200 {array} models.ContactMessage
// @Router /api/messages [get]
func (h *Handler) GetMessagesHandler(w http.ResponseWriter, r *http.Request) {
	h.respond(w, http.StatusOK, h.inbox.List(r.Context()))
}
