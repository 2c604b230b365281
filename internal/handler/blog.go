package handler

import (
	"net/http"

	"github.com/foliokit/folio/internal/fields"
	"github.com/foliokit/folio/internal/respond"
	"github.com/foliokit/folio/internal/service"
)

type BlogHandler struct {
	blogService *service.BlogService
	maxUpload   int64
}

func NewBlogHandler(blogService *service.BlogService, maxUpload int64) *BlogHandler {
	return &BlogHandler{
		blogService: blogService,
		maxUpload:   maxUpload,
	}
}

type blogPostJSON struct {
	Title     *string    `json:"title"`
	Content   *string    `json:"content"`
	Excerpt   *string    `json:"excerpt"`
	Author    *string    `json:"author"`
	Published *bool      `json:"published"`
	Tags      fields.Raw `json:"tags"`
}

// List returns published posts only.
func (h *BlogHandler) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.blogService.Published(r.URL.Query().Get("tag"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, posts)
}

// ListAll returns drafts too (admin only).
func (h *BlogHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	posts, err := h.blogService.All()
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, posts)
}

func (h *BlogHandler) Get(w http.ResponseWriter, r *http.Request) {
	post, err := h.blogService.Post(r.PathValue("id"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, post)
}

func (h *BlogHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, done, err := h.input(w, r)
	defer done()
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	post, err := h.blogService.Create(r.Context(), in)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, post)
}

func (h *BlogHandler) Update(w http.ResponseWriter, r *http.Request) {
	in, done, err := h.input(w, r)
	defer done()
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	post, err := h.blogService.Update(r.Context(), r.PathValue("id"), in)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, post)
}

func (h *BlogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.blogService.Delete(r.Context(), r.PathValue("id"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.Message(w, http.StatusOK, "Blog post deleted successfully")
}

func (h *BlogHandler) input(w http.ResponseWriter, r *http.Request) (service.BlogPostInput, func(), error) {
	if isJSON(r) {
		var body blogPostJSON
		err := decodeJSON(w, r, &body)
		return service.BlogPostInput{
			Title:     body.Title,
			Content:   body.Content,
			Excerpt:   body.Excerpt,
			Author:    body.Author,
			Published: body.Published,
			Tags:      body.Tags,
		}, func() {}, err
	}

	f, err := parseForm(w, r, h.maxUpload+formOverhead)
	if err != nil {
		return service.BlogPostInput{}, func() { cleanup(r) }, err
	}
	published, err := f.flag("published")
	if err != nil {
		return service.BlogPostInput{}, func() { cleanup(r) }, err
	}
	image, closeImage, err := f.file("image")
	done := func() {
		closeImage()
		cleanup(r)
	}
	if err != nil {
		return service.BlogPostInput{}, done, err
	}

	return service.BlogPostInput{
		Title:     f.text("title"),
		Content:   f.text("content"),
		Excerpt:   f.text("excerpt"),
		Author:    f.text("author"),
		Published: published,
		Tags:      f.list("tags"),
		Image:     image,
	}, done, nil
}
