package handler

import (
	"net/http"

	"github.com/foliokit/folio/internal/fields"
	"github.com/foliokit/folio/internal/respond"
	"github.com/foliokit/folio/internal/service"
)

type ProjectHandler struct {
	projectService *service.ProjectService
	maxUpload      int64
}

func NewProjectHandler(projectService *service.ProjectService, maxUpload int64) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		maxUpload:      maxUpload,
	}
}

// projectJSON is the JSON form of a project write (no image upload).
type projectJSON struct {
	Title        *string    `json:"title"`
	Description  *string    `json:"description"`
	Category     *string    `json:"category"`
	GitHubURL    *string    `json:"githubUrl"`
	LiveURL      *string    `json:"liveUrl"`
	Featured     *bool      `json:"featured"`
	Technologies fields.Raw `json:"technologies"`
}

func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	featured, err := queryBool(r, "featured")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	projects, err := h.projectService.Projects(service.ProjectQuery{
		Category:   q.Get("category"),
		Technology: q.Get("technology"),
		Featured:   featured != nil && *featured,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, projects)
}

func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	project, err := h.projectService.ByID(r.PathValue("id"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, project)
}

func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, done, err := h.input(w, r)
	defer done()
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	project, err := h.projectService.Create(r.Context(), in)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, project)
}

func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	in, done, err := h.input(w, r)
	defer done()
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	project, err := h.projectService.Update(r.Context(), r.PathValue("id"), in)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, project)
}

func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.projectService.Delete(r.Context(), r.PathValue("id"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.Message(w, http.StatusOK, "Project deleted successfully")
}

// input decodes a JSON, multipart or urlencoded project body. done
// releases the uploaded file and is always safe to call.
func (h *ProjectHandler) input(w http.ResponseWriter, r *http.Request) (service.ProjectInput, func(), error) {
	if isJSON(r) {
		var body projectJSON
		err := decodeJSON(w, r, &body)
		return service.ProjectInput{
			Title:        body.Title,
			Description:  body.Description,
			Category:     body.Category,
			GitHubURL:    body.GitHubURL,
			LiveURL:      body.LiveURL,
			Featured:     body.Featured,
			Technologies: body.Technologies,
		}, func() {}, err
	}

	f, err := parseForm(w, r, h.maxUpload+formOverhead)
	if err != nil {
		return service.ProjectInput{}, func() { cleanup(r) }, err
	}
	featured, err := f.flag("featured")
	if err != nil {
		return service.ProjectInput{}, func() { cleanup(r) }, err
	}
	image, closeImage, err := f.file("image")
	done := func() {
		closeImage()
		cleanup(r)
	}
	if err != nil {
		return service.ProjectInput{}, done, err
	}

	return service.ProjectInput{
		Title:        f.text("title"),
		Description:  f.text("description"),
		Category:     f.text("category"),
		GitHubURL:    f.text("githubUrl"),
		LiveURL:      f.text("liveUrl"),
		Featured:     featured,
		Technologies: f.list("technologies"),
		Image:        image,
	}, done, nil
}
