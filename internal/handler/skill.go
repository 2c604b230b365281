package handler

import (
	"net/http"

	"github.com/foliokit/folio/internal/respond"
	"github.com/foliokit/folio/internal/service"
)

type SkillHandler struct {
	skillService *service.SkillService
}

func NewSkillHandler(skillService *service.SkillService) *SkillHandler {
	return &SkillHandler{skillService: skillService}
}

func (h *SkillHandler) List(w http.ResponseWriter, r *http.Request) {
	skills, err := h.skillService.Skills(r.URL.Query().Get("category"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, skills)
}

func (h *SkillHandler) Get(w http.ResponseWriter, r *http.Request) {
	skill, err := h.skillService.ByID(r.PathValue("id"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, skill)
}

func (h *SkillHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.SkillInput
	err := decodeJSON(w, r, &in)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	skill, err := h.skillService.Create(in)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, skill)
}

func (h *SkillHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in service.SkillInput
	err := decodeJSON(w, r, &in)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	skill, err := h.skillService.Update(r.PathValue("id"), in)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, skill)
}

func (h *SkillHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.skillService.Delete(r.PathValue("id"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.Message(w, http.StatusOK, "Skill deleted successfully")
}
