package handler

import (
	"net/http"

	"github.com/foliokit/folio/internal/respond"
	"github.com/foliokit/folio/internal/service"
)

type ExperienceHandler struct {
	experienceService *service.ExperienceService
}

func NewExperienceHandler(experienceService *service.ExperienceService) *ExperienceHandler {
	return &ExperienceHandler{experienceService: experienceService}
}

func (h *ExperienceHandler) List(w http.ResponseWriter, r *http.Request) {
	experiences, err := h.experienceService.Experiences(r.URL.Query().Get("type"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, experiences)
}

func (h *ExperienceHandler) Get(w http.ResponseWriter, r *http.Request) {
	experience, err := h.experienceService.ByID(r.PathValue("id"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, experience)
}

func (h *ExperienceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.ExperienceInput
	err := decodeJSON(w, r, &in)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	experience, err := h.experienceService.Create(in)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, experience)
}

func (h *ExperienceHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in service.ExperienceInput
	err := decodeJSON(w, r, &in)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	experience, err := h.experienceService.Update(r.PathValue("id"), in)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, experience)
}

func (h *ExperienceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.experienceService.Delete(r.PathValue("id"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.Message(w, http.StatusOK, "Experience deleted successfully")
}
