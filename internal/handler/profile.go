package handler

import (
	"net/http"

	"github.com/foliokit/folio/internal/respond"
	"github.com/foliokit/folio/internal/service"
)

type ProfileHandler struct {
	profileService *service.ProfileService
	maxUpload      int64
}

func NewProfileHandler(profileService *service.ProfileService, maxUpload int64) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		maxUpload:      maxUpload,
	}
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	profile, err := h.profileService.Profile()
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, profile)
}

// Save creates or updates the profile from a multipart form carrying the
// text fields, optional avatar and resume files and remove flags.
func (h *ProfileHandler) Save(w http.ResponseWriter, r *http.Request) {
	// Two files may be sent at once.
	f, err := parseForm(w, r, 2*h.maxUpload+formOverhead)
	defer cleanup(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	removeAvatar, err := f.flag("removeAvatar")
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	removeResume, err := f.flag("removeResume")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	avatar, closeAvatar, err := f.file("avatar")
	defer closeAvatar()
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	resume, closeResume, err := f.file("resume")
	defer closeResume()
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	profile, err := h.profileService.Save(r.Context(), service.ProfileInput{
		Name:         f.text("name"),
		Email:        f.text("email"),
		Location:     f.text("location"),
		Bio:          f.text("bio"),
		GitHub:       f.text("github"),
		LinkedIn:     f.text("linkedin"),
		Skills:       f.list("skills"),
		Avatar:       avatar,
		Resume:       resume,
		RemoveAvatar: removeAvatar != nil && *removeAvatar,
		RemoveResume: removeResume != nil && *removeResume,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, profile)
}
