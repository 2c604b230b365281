package validation

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrFileTooLarge    = errors.New("file too large")
	ErrUnsupportedType = errors.New("unsupported file type")
)

// sniffLen is how much of the payload is read for magic number detection.
const sniffLen = 3072

// FileConstraints defines validation rules for file uploads
type FileConstraints struct {
	AllowedMimeTypes  map[string]bool
	AllowedExtensions map[string]bool
	MaxSize           int64
}

var (
	imageMimeTypes = map[string]string{
		"image/jpeg": ".jpg",
		"image/png":  ".png",
		"image/gif":  ".gif",
		"image/webp": ".webp",
	}

	documentMimeTypes = map[string]string{
		"application/pdf":    ".pdf",
		"application/msword": ".doc",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document": ".docx",
		"application/vnd.oasis.opendocument.text":                                 ".odt",
		"text/rtf": ".rtf",
	}

	// extensionTypes maps every known extension to the only content type
	// it may carry.
	extensionTypes = map[string]string{
		".jpeg": "image/jpeg",
	}
)

func init() {
	for _, set := range []map[string]string{imageMimeTypes, documentMimeTypes} {
		for mimeType, ext := range set {
			extensionTypes[ext] = mimeType
		}
	}
}

// AttachmentConstraints returns the rules for record attachments: images,
// PDF and common word-processor formats up to maxSize bytes.
func AttachmentConstraints(maxSize int64) FileConstraints {
	c := FileConstraints{
		AllowedMimeTypes: map[string]bool{},
		AllowedExtensions: map[string]bool{
			".jpeg": true,
		},
		MaxSize: maxSize,
	}
	for _, set := range []map[string]string{imageMimeTypes, documentMimeTypes} {
		for mimeType, ext := range set {
			c.AllowedMimeTypes[mimeType] = true
			c.AllowedExtensions[ext] = true
		}
	}
	return c
}

// IsImage reports whether a detected content type is a raster image.
func IsImage(contentType string) bool {
	_, ok := imageMimeTypes[contentType]
	return ok
}

// InspectedFile is an upload that passed validation. Body replays the
// sniffed bytes, so it yields the complete payload.
type InspectedFile struct {
	ContentType string
	Extension   string
	Size        int64
	Body        io.Reader
}

// InspectUpload checks size and content type of an upload before it is
// stored. size may be -1 when unknown; the storage layer then enforces the
// ceiling while copying.
// Content type is detected from the payload (magic numbers), never from the
// client supplied header.
func InspectUpload(body io.Reader, filename string, size int64, constraints FileConstraints) (*InspectedFile, error) {
	if constraints.MaxSize > 0 && size > constraints.MaxSize {
		maxMB := float64(constraints.MaxSize) / (1 << 20)
		return nil, fmt.Errorf("%w: maximum size is %.0f MB", ErrFileTooLarge, maxMB)
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(body, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	head = head[:n]
	if n == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrUnsupportedType)
	}

	detected := mimetype.Detect(head)
	contentType, ok := allowedType(detected, constraints.AllowedMimeTypes)
	if !ok {
		return nil, fmt.Errorf("%w (detected: %s)", ErrUnsupportedType, detected.String())
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = canonicalExtension(contentType, detected)
	}
	if !constraints.AllowedExtensions[ext] {
		return nil, fmt.Errorf("%w: invalid file extension %q", ErrUnsupportedType, ext)
	}
	want, known := extensionTypes[ext]
	if known && want != contentType {
		return nil, fmt.Errorf("%w: extension %q does not match content (detected: %s)", ErrUnsupportedType, ext, contentType)
	}

	// Reset file pointer to beginning when possible, replay the head otherwise
	var replay io.Reader
	seeker, ok := body.(io.Seeker)
	if ok {
		_, err = seeker.Seek(0, io.SeekStart)
		if err != nil {
			return nil, fmt.Errorf("failed to reset file pointer: %w", err)
		}
		replay = body
	} else {
		replay = io.MultiReader(strings.NewReader(string(head)), body)
	}

	return &InspectedFile{
		ContentType: contentType,
		Extension:   ext,
		Size:        size,
		Body:        replay,
	}, nil
}

func canonicalExtension(contentType string, detected *mimetype.MIME) string {
	if ext, ok := imageMimeTypes[contentType]; ok {
		return ext
	}
	if ext, ok := documentMimeTypes[contentType]; ok {
		return ext
	}
	return detected.Extension()
}

// allowedType walks the detected type and its parents until one is in the
// allow-list.
func allowedType(m *mimetype.MIME, allowed map[string]bool) (string, bool) {
	for ; m != nil; m = m.Parent() {
		base, _, err := mime.ParseMediaType(m.String())
		if err != nil {
			continue
		}
		if allowed[base] {
			return base, true
		}
	}
	return "", false
}
