package services

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	// Registers the WEBP decoder with image.Decode.
	_ "golang.org/x/image/webp"
)

// maxPreviewWidth and maxPreviewHeight bound the stored preview size.
// Larger uploads are scaled down before storage; previews are only ever
// shown inside the designer and the saved-arrangements list.
const (
	maxPreviewWidth  = 800
	maxPreviewHeight = 600
)

// ImageService handles arrangement preview image processing and storage
type ImageService struct {
	storage StorageService
}

// NewImageService creates a new image service
func NewImageService(storage StorageService) *ImageService {
	return &ImageService{
		storage: storage,
	}
}

// UploadPreviewImage decodes, downsizes and stores an arrangement preview
// image, returning its storage key and public URL
func (s *ImageService) UploadPreviewImage(ctx context.Context, reader io.Reader, filename string) (*PreviewImageResult, error) {
	imageData, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	img, format, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	if !isValidImageFormat(format) {
		return nil, fmt.Errorf("unsupported image format: %s", format)
	}

	bounds := img.Bounds()
	if bounds.Dx() > maxPreviewWidth || bounds.Dy() > maxPreviewHeight {
		img = imaging.Fit(img, maxPreviewWidth, maxPreviewHeight, imaging.Lanczos)
		bounds = img.Bounds()
	}

	// WebP uploads are re-encoded as JPEG; the x/image decoder is
	// read-only for WebP.
	storageFormat := format
	if storageFormat == "webp" {
		storageFormat = "jpeg"
	}

	data, err := encodeImage(img, storageFormat)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%s/preview.%s", generatePreviewKey(filename), storageFormat)
	url, err := s.storage.Upload(ctx, key, bytes.NewReader(data), getContentType(storageFormat), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to upload preview image: %w", err)
	}

	return &PreviewImageResult{
		Key:         key,
		URL:         url,
		Size:        int64(len(data)),
		ContentType: getContentType(storageFormat),
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
		UploadedAt:  time.Now(),
	}, nil
}

// DeletePreviewImage removes a stored preview image
func (s *ImageService) DeletePreviewImage(ctx context.Context, key string) error {
	if err := s.storage.Delete(ctx, key); err != nil {
		return fmt.Errorf("failed to delete preview image: %w", err)
	}
	return nil
}

// ValidateImage validates an image file before processing
func (s *ImageService) ValidateImage(reader io.Reader, maxSize int64) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("failed to read image: %w", err)
	}

	if int64(len(data)) > maxSize {
		return fmt.Errorf("image size %d bytes exceeds maximum allowed size %d bytes", len(data), maxSize)
	}

	_, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("invalid image format: %w", err)
	}

	if !isValidImageFormat(format) {
		return fmt.Errorf("unsupported image format: %s", format)
	}

	return nil
}

func encodeImage(img image.Image, format string) ([]byte, error) {
	var buf bytes.Buffer

	switch format {
	case "jpeg", "jpg":
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
			return nil, fmt.Errorf("failed to encode JPEG: %w", err)
		}
	case "png":
		encoder := &png.Encoder{CompressionLevel: png.DefaultCompression}
		if err := encoder.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("failed to encode PNG: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported format for encoding: %s", format)
	}

	return buf.Bytes(), nil
}

// generatePreviewKey generates a unique storage key for a preview image
func generatePreviewKey(filename string) string {
	id := uuid.New().String()

	baseName := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	baseName = strings.ReplaceAll(baseName, " ", "-")
	baseName = strings.ToLower(baseName)

	timestamp := time.Now().Format("2006/01/02")

	return fmt.Sprintf("arrangements/%s/%s-%s", timestamp, baseName, id[:8])
}

// isValidImageFormat checks if the image format is supported
func isValidImageFormat(format string) bool {
	switch format {
	case "jpeg", "jpg", "png", "webp":
		return true
	default:
		return false
	}
}

// getContentType returns the MIME type for the image format
func getContentType(format string) string {
	switch format {
	case "jpeg", "jpg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
