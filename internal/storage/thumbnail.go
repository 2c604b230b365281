package storage

import (
	"fmt"
	"os"

	"github.com/disintegration/imaging"
)

// writeThumbnail derives a size x size center-cropped copy of the image at
// src and renames it into dst once fully written.
func writeThumbnail(src, dst, tmpDir string, size int) error {
	format, err := imaging.FormatFromFilename(dst)
	if err != nil {
		return fmt.Errorf("unsupported thumbnail format: %w", err)
	}

	img, err := imaging.Open(src, imaging.AutoOrientation(true))
	if err != nil {
		return fmt.Errorf("failed to decode image: %w", err)
	}

	thumb := imaging.Fill(img, size, size, imaging.Center, imaging.Lanczos)

	tmp, err := os.CreateTemp(tmpDir, "thumb-*")
	if err != nil {
		return fmt.Errorf("failed to create thumbnail: %w", err)
	}
	tmpPath := tmp.Name()

	err = imaging.Encode(tmp, thumb, format)
	closeErr := tmp.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to encode thumbnail: %w", err)
	}

	err = os.Rename(tmpPath, dst)
	if err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to save thumbnail: %w", err)
	}
	return nil
}
