package validation

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// onlyReader hides Seek so the replay path is exercised.
type onlyReader struct{ r io.Reader }

func (o onlyReader) Read(p []byte) (int, error) { return o.r.Read(p) }

func TestInspectUploadDetectsPNG(t *testing.T) {
	data := pngBytes(t)
	c := AttachmentConstraints(1 << 20)

	file, err := InspectUpload(bytes.NewReader(data), "Shot.PNG", int64(len(data)), c)
	require.NoError(t, err)

	assert.Equal(t, "image/png", file.ContentType)
	assert.Equal(t, ".png", file.Extension)

	replayed, err := io.ReadAll(file.Body)
	require.NoError(t, err)
	assert.Equal(t, data, replayed)
}

func TestInspectUploadReplaysNonSeekableBody(t *testing.T) {
	data := pngBytes(t)
	c := AttachmentConstraints(1 << 20)

	file, err := InspectUpload(onlyReader{bytes.NewReader(data)}, "a.png", -1, c)
	require.NoError(t, err)

	replayed, err := io.ReadAll(file.Body)
	require.NoError(t, err)
	assert.Equal(t, data, replayed)
}

func TestInspectUploadExtensionFallsBackToDetected(t *testing.T) {
	data := pngBytes(t)
	c := AttachmentConstraints(1 << 20)

	file, err := InspectUpload(bytes.NewReader(data), "noext", int64(len(data)), c)
	require.NoError(t, err)
	assert.Equal(t, ".png", file.Extension)
}

func TestInspectUploadRejectsOversize(t *testing.T) {
	data := pngBytes(t)
	c := AttachmentConstraints(10)

	_, err := InspectUpload(bytes.NewReader(data), "a.png", int64(len(data)), c)
	assert.True(t, errors.Is(err, ErrFileTooLarge))
}

func TestInspectUploadRejectsUnsupportedContent(t *testing.T) {
	c := AttachmentConstraints(1 << 20)

	_, err := InspectUpload(strings.NewReader("just some text"), "notes.png", 14, c)
	assert.True(t, errors.Is(err, ErrUnsupportedType))
}

func TestInspectUploadRejectsEmpty(t *testing.T) {
	c := AttachmentConstraints(1 << 20)

	_, err := InspectUpload(strings.NewReader(""), "a.png", 0, c)
	assert.True(t, errors.Is(err, ErrUnsupportedType))
}

func TestInspectUploadRejectsForeignExtension(t *testing.T) {
	data := pngBytes(t)
	c := AttachmentConstraints(1 << 20)

	_, err := InspectUpload(bytes.NewReader(data), "payload.exe", int64(len(data)), c)
	assert.True(t, errors.Is(err, ErrUnsupportedType))
}

func TestInspectUploadRejectsMismatchedExtension(t *testing.T) {
	data := pngBytes(t)
	c := AttachmentConstraints(1 << 20)

	_, err := InspectUpload(bytes.NewReader(data), "resume.pdf", int64(len(data)), c)
	assert.True(t, errors.Is(err, ErrUnsupportedType))

	_, err = InspectUpload(bytes.NewReader(data), "photo.jpg", int64(len(data)), c)
	assert.True(t, errors.Is(err, ErrUnsupportedType))
}

func TestInspectUploadAcceptsJPEGAlias(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	data := buf.Bytes()
	c := AttachmentConstraints(1 << 20)

	for _, name := range []string{"photo.jpeg", "photo.JPG"} {
		file, err := InspectUpload(bytes.NewReader(data), name, int64(len(data)), c)
		require.NoError(t, err, name)
		assert.Equal(t, "image/jpeg", file.ContentType)
	}

	file, err := InspectUpload(bytes.NewReader(data), "photo", int64(len(data)), c)
	require.NoError(t, err)
	assert.Equal(t, ".jpg", file.Extension)
}

func TestInspectUploadAcceptsPDF(t *testing.T) {
	data := []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n%%EOF\n")
	c := AttachmentConstraints(1 << 20)

	file, err := InspectUpload(bytes.NewReader(data), "resume.pdf", int64(len(data)), c)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.False(t, IsImage(file.ContentType))
}

func TestValidateUsername(t *testing.T) {
	assert.NoError(t, ValidateUsername("admin_01"))
	assert.Error(t, ValidateUsername("ab"))
	assert.Error(t, ValidateUsername("has space"))
	assert.Error(t, ValidateUsername(strings.Repeat("a", 33)))
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("correct-horse-battery"))
	assert.Error(t, ValidatePassword("short"))
	assert.Error(t, ValidatePassword("mypassword1234"))
	assert.Error(t, ValidatePassword(strings.Repeat("x", 73)))
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("owner@example.com"))
	assert.Error(t, ValidateEmail(""))
	assert.Error(t, ValidateEmail("not-an-email"))
	assert.Error(t, ValidateEmail("Owner <owner@example.com>"))
	assert.Error(t, ValidateEmail("owner@localhost"))
}
