package services

import (
	"context"
	"io"
	"time"

	"flower-shop-platform/internal/models"
)

// ArrangementRepository is the persistence surface the arrangement service
// needs. Implemented by repositories.ArrangementRepository; tests swap in
// map-backed fakes.
type ArrangementRepository interface {
	Create(a *models.Arrangement) (*models.Arrangement, error)
	GetByID(id int) (*models.Arrangement, error)
	GetByUser(userID int) ([]*models.Arrangement, error)
	GetSaved(userID int) ([]*models.Arrangement, error)
	Update(a *models.Arrangement) error
	Delete(id int) error

	AddFlower(f *models.ArrangementFlower) (*models.ArrangementFlower, error)
	GetFlowerByID(id int) (*models.ArrangementFlower, error)
	GetFlowers(arrangementID int) ([]*models.ArrangementFlower, error)
	UpdateFlower(f *models.ArrangementFlower) error
	DeleteFlower(id int) error
}

// CatalogRepository is the read surface for flower types and presentation
// styles
type CatalogRepository interface {
	GetFlowerTypeByID(id int) (*models.FlowerType, error)
	GetAvailableFlowerTypes() ([]*models.FlowerType, error)
	GetPresentationStyleByID(id int) (*models.PresentationStyle, error)
	GetPresentationStyles() ([]*models.PresentationStyle, error)
}

// UserRepository is the user lookup surface needed for owner checks
type UserRepository interface {
	GetByID(id int) (*models.User, error)
	Exists(id int) (bool, error)
}

// ArrangementServiceInterface defines the interface for the custom
// arrangement designer
type ArrangementServiceInterface interface {
	CreateArrangement(req *models.ArrangementCreateRequest) (*models.Arrangement, error)
	GetArrangementByID(id int) (*models.Arrangement, error)
	GetUserArrangements(userID int) ([]*models.Arrangement, error)
	GetSavedArrangements(userID int) ([]*models.Arrangement, error)
	DeleteArrangement(id int) error

	AddFlower(req *models.AddFlowerRequest) (*models.ArrangementFlower, int, error)
	UpdateFlower(req *models.UpdateFlowerRequest) (int, error)
	RemoveFlower(flowerID int) (int, error)

	SaveArrangement(id int) error
	UnsaveArrangement(id int) error
	SetPreviewImage(id int, imageURL string) error

	CheckFlowerAvailability(flowerTypeID, quantity int) (bool, error)
	CalculateTotalPrice(arrangementID int) (int, error)

	GetAvailableFlowerTypes() ([]*models.FlowerType, error)
	GetPresentationStyles() ([]*models.PresentationStyle, error)
}

// ImageSearchServiceInterface defines the interface for image-based flower
// recognition
type ImageSearchServiceInterface interface {
	AnalyzeImage(ctx context.Context, imageBytes []byte, fileName, contentType string) *ImageSearchResult
}

// StorageService defines the interface for file storage operations
type StorageService interface {
	Upload(ctx context.Context, key string, reader io.Reader, contentType string, size int64) (string, error)
	Delete(ctx context.Context, key string) error
	GetURL(key string) string
}

// ImageServiceInterface defines the interface for preview image handling
type ImageServiceInterface interface {
	UploadPreviewImage(ctx context.Context, reader io.Reader, filename string) (*PreviewImageResult, error)
	ValidateImage(reader io.Reader, maxSize int64) error
}

// PreviewImageResult describes a stored arrangement preview image
type PreviewImageResult struct {
	Key         string    `json:"key"`
	URL         string    `json:"url"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	Width       int       `json:"width"`
	Height      int       `json:"height"`
	UploadedAt  time.Time `json:"uploaded_at"`
}
