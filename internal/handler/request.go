package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/foliokit/folio/internal/apperr"
	"github.com/foliokit/folio/internal/fields"
	"github.com/foliokit/folio/internal/storage"
)

const (
	// multipartMemory is how much of a multipart body is kept in memory;
	// larger file parts spill to temp files.
	multipartMemory = 8 << 20
	// formOverhead covers text fields and multipart framing on top of files.
	formOverhead  = 1 << 20
	jsonBodyLimit = 1 << 20
)

// form is a parsed multipart or urlencoded request body.
type form struct {
	values map[string][]string
	files  map[string][]*multipart.FileHeader
}

func isJSON(r *http.Request) bool {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return mediaType == "application/json"
}

// parseForm reads a multipart or urlencoded body. The body is capped at
// limit bytes; exceeding it is reported as payload too large.
func parseForm(w http.ResponseWriter, r *http.Request, limit int64) (*form, error) {
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	var err error
	if mediaType == "multipart/form-data" {
		err = r.ParseMultipartForm(multipartMemory)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		return nil, bodyError(err)
	}

	f := &form{values: map[string][]string{}}
	for k, v := range r.PostForm {
		f.values[k] = v
	}
	if r.MultipartForm != nil {
		for k, v := range r.MultipartForm.Value {
			f.values[k] = v
		}
		f.files = r.MultipartForm.File
	}
	return f, nil
}

// cleanup removes temp files spilled by multipart parsing.
func cleanup(r *http.Request) {
	if r.MultipartForm != nil {
		_ = r.MultipartForm.RemoveAll()
	}
}

// text returns the first value of key, or nil when the key was not sent.
func (f *form) text(key string) *string {
	v, ok := f.values[key]
	if !ok || len(v) == 0 {
		return nil
	}
	return &v[0]
}

func (f *form) list(key string) fields.Raw {
	return fields.FromForm(f.values[key])
}

// flag parses a boolean field. Absent or empty yields nil.
func (f *form) flag(key string) (*bool, error) {
	v := f.text(key)
	if v == nil || strings.TrimSpace(*v) == "" {
		return nil, nil
	}
	b, err := parseBool(*v)
	if err != nil {
		return nil, apperr.E(apperr.KindValidation, fmt.Sprintf("Invalid %s, expected true or false", key), err)
	}
	return &b, nil
}

// file opens the upload sent under key. The returned closer must be
// called once the upload has been stored.
func (f *form) file(key string) (*storage.Upload, func(), error) {
	headers := f.files[key]
	if len(headers) == 0 {
		return nil, func() {}, nil
	}
	if len(headers) > 1 {
		return nil, func() {}, apperr.Validation(fmt.Sprintf("Only one %s file is allowed", key))
	}

	header := headers[0]
	file, err := header.Open()
	if err != nil {
		return nil, func() {}, apperr.E(apperr.KindValidation, "Failed to read uploaded file", err)
	}

	upload := &storage.Upload{
		Filename: header.Filename,
		Size:     header.Size,
		Body:     file,
	}
	return upload, func() { _ = file.Close() }, nil
}

func parseBool(v string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "yes":
		return true, nil
	case "off", "no":
		return false, nil
	}
	return strconv.ParseBool(strings.TrimSpace(v))
}

// decodeJSON reads a JSON request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, jsonBodyLimit)

	err := json.NewDecoder(r.Body).Decode(v)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.Validation("Request body is empty")
		}
		return bodyError(err)
	}
	return nil
}

func bodyError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large") {
		return apperr.E(apperr.KindPayloadTooLarge, "Request body too large", err)
	}
	return apperr.E(apperr.KindValidation, "Invalid request body", err)
}

// queryBool parses an optional boolean query parameter.
func queryBool(r *http.Request, key string) (*bool, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil, nil
	}
	b, err := parseBool(v)
	if err != nil {
		return nil, apperr.E(apperr.KindValidation, fmt.Sprintf("Invalid %s, expected true or false", key), err)
	}
	return &b, nil
}
