package handler

import (
	"net/http"

	"github.com/foliokit/folio/internal/model"
	"github.com/foliokit/folio/internal/respond"
	"github.com/foliokit/folio/internal/service"
)

type ContactHandler struct {
	contactService *service.ContactService
}

func NewContactHandler(contactService *service.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

type contactCreated struct {
	Message string         `json:"message"`
	Contact *model.Contact `json:"contact"`
}

// Submit is the public contact form.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var in service.ContactInput
	err := decodeJSON(w, r, &in)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	contact, err := h.contactService.Submit(r.Context(), in)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, contactCreated{
		Message: "Message sent successfully",
		Contact: contact,
	})
}

func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	read, err := queryBool(r, "read")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	contacts, err := h.contactService.Contacts(read)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, contacts)
}

func (h *ContactHandler) Get(w http.ResponseWriter, r *http.Request) {
	contact, err := h.contactService.ByID(r.PathValue("id"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, contact)
}

// MarkRead toggles the read flag: {"read": true}.
func (h *ContactHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Read *bool `json:"read"`
	}
	err := decodeJSON(w, r, &body)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	contact, err := h.contactService.MarkRead(r.PathValue("id"), body.Read)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, contact)
}

func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.contactService.Delete(r.PathValue("id"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.Message(w, http.StatusOK, "Contact message deleted successfully")
}
