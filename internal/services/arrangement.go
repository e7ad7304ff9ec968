package services

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"flower-shop-platform/internal/models"
)

// ArrangementService handles the custom arrangement designer: lifecycle,
// flower line mutations and price aggregation. Every mutation goes through
// this service so the price recompute can never be forgotten by a call site.
type ArrangementService struct {
	arrangementRepo ArrangementRepository
	catalogRepo     CatalogRepository
	userRepo        UserRepository
	locks           arrangementLocks
}

// NewArrangementService creates a new arrangement service
func NewArrangementService(
	arrangementRepo ArrangementRepository,
	catalogRepo CatalogRepository,
	userRepo UserRepository,
) *ArrangementService {
	return &ArrangementService{
		arrangementRepo: arrangementRepo,
		catalogRepo:     catalogRepo,
		userRepo:        userRepo,
		locks:           arrangementLocks{locks: make(map[int]*sync.Mutex)},
	}
}

// arrangementLocks hands out one mutex per arrangement id so concurrent
// flower mutations against the same arrangement cannot interleave their
// read-modify-write of the price aggregates. Mutexes are retained for the
// process lifetime; one per mutated arrangement is cheap enough.
type arrangementLocks struct {
	mu    sync.Mutex
	locks map[int]*sync.Mutex
}

func (l *arrangementLocks) get(arrangementID int) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	m, ok := l.locks[arrangementID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[arrangementID] = m
	}
	return m
}

// CreateArrangement starts a new arrangement with zeroed pricing fields.
// A non-existent owner id is silently downgraded to a guest arrangement
// rather than rejected; guests design bouquets before signing in.
func (s *ArrangementService) CreateArrangement(req *models.ArrangementCreateRequest) (*models.Arrangement, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
	}

	if _, err := s.catalogRepo.GetPresentationStyleByID(req.PresentationStyleID); err != nil {
		if errors.Is(err, models.ErrStyleNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", models.ErrStorageFailure, err)
	}

	userID := req.UserID
	if userID != nil {
		exists, err := s.userRepo.Exists(*userID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", models.ErrStorageFailure, err)
		}
		if !exists {
			userID = nil
		}
	}

	arrangement := &models.Arrangement{
		UserID:              userID,
		Name:                req.Name,
		Description:         req.Description,
		PresentationStyleID: req.PresentationStyleID,
		BasePrice:           0,
		FlowersCost:         0,
		TotalPrice:          0,
		IsSaved:             false,
		IsOrdered:           false,
	}

	created, err := s.arrangementRepo.Create(arrangement)
	if err != nil {
		log.Printf("Failed to create arrangement: %v", err)
		return nil, fmt.Errorf("%w: %v", models.ErrStorageFailure, err)
	}

	return created, nil
}

// GetArrangementByID retrieves an arrangement with its style and flower lines
func (s *ArrangementService) GetArrangementByID(id int) (*models.Arrangement, error) {
	return s.arrangementRepo.GetByID(id)
}

// GetUserArrangements retrieves all arrangements owned by a user, newest first
func (s *ArrangementService) GetUserArrangements(userID int) ([]*models.Arrangement, error) {
	return s.arrangementRepo.GetByUser(userID)
}

// GetSavedArrangements retrieves a user's saved, unordered arrangements,
// most recently touched first
func (s *ArrangementService) GetSavedArrangements(userID int) ([]*models.Arrangement, error) {
	return s.arrangementRepo.GetSaved(userID)
}

// DeleteArrangement removes an arrangement and, by cascade, its flower lines
func (s *ArrangementService) DeleteArrangement(id int) error {
	if err := s.arrangementRepo.Delete(id); err != nil {
		if errors.Is(err, models.ErrArrangementNotFound) {
			return err
		}
		log.Printf("Failed to delete arrangement %d: %v", id, err)
		return fmt.Errorf("%w: %v", models.ErrStorageFailure, err)
	}
	return nil
}

// AddFlower adds a flower line to an arrangement and returns the created line
// together with the arrangement's recomputed total. The catalog unit price is
// snapshotted onto the line at this point and never refreshed afterwards.
func (s *ArrangementService) AddFlower(req *models.AddFlowerRequest) (*models.ArrangementFlower, int, error) {
	if err := req.Validate(); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
	}

	flowerType, err := s.catalogRepo.GetFlowerTypeByID(req.FlowerTypeID)
	if err != nil {
		if errors.Is(err, models.ErrFlowerTypeNotFound) {
			return nil, 0, err
		}
		return nil, 0, fmt.Errorf("%w: %v", models.ErrStorageFailure, err)
	}

	if !flowerType.IsActive {
		return nil, 0, fmt.Errorf("%w: %s is not currently offered",
			models.ErrInsufficientStock, flowerType.Name)
	}
	if !flowerType.HasStock(req.Quantity) {
		return nil, 0, fmt.Errorf("%w: %s (requested: %d, in stock: %d)",
			models.ErrInsufficientStock, flowerType.Name, req.Quantity, flowerType.Quantity)
	}

	lock := s.locks.get(req.ArrangementID)
	lock.Lock()
	defer lock.Unlock()

	if _, err := s.arrangementRepo.GetByID(req.ArrangementID); err != nil {
		if errors.Is(err, models.ErrArrangementNotFound) {
			return nil, 0, err
		}
		return nil, 0, fmt.Errorf("%w: %v", models.ErrStorageFailure, err)
	}

	flower := &models.ArrangementFlower{
		ArrangementID: req.ArrangementID,
		FlowerTypeID:  req.FlowerTypeID,
		Quantity:      req.Quantity,
		Color:         req.Color,
		UnitPrice:     flowerType.UnitPrice,
		TotalPrice:    flowerType.UnitPrice * req.Quantity,
		Notes:         req.Notes,
	}

	created, err := s.arrangementRepo.AddFlower(flower)
	if err != nil {
		log.Printf("Failed to add flower to arrangement %d: %v", req.ArrangementID, err)
		return nil, 0, fmt.Errorf("%w: %v", models.ErrStorageFailure, err)
	}

	total, err := s.recalculate(req.ArrangementID)
	if err != nil {
		return nil, 0, err
	}

	return created, total, nil
}

// UpdateFlower changes quantity and color of an existing flower line. The
// line total is recomputed from the unit price captured when the line was
// created; re-selecting a flower never re-prices it.
func (s *ArrangementService) UpdateFlower(req *models.UpdateFlowerRequest) (int, error) {
	if err := req.Validate(); err != nil {
		return 0, fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
	}

	flower, err := s.arrangementRepo.GetFlowerByID(req.FlowerID)
	if err != nil {
		if errors.Is(err, models.ErrFlowerLineNotFound) {
			return 0, err
		}
		return 0, fmt.Errorf("%w: %v", models.ErrStorageFailure, err)
	}

	lock := s.locks.get(flower.ArrangementID)
	lock.Lock()
	defer lock.Unlock()

	flower.Quantity = req.Quantity
	flower.Color = req.Color
	flower.TotalPrice = flower.UnitPrice * req.Quantity

	if err := s.arrangementRepo.UpdateFlower(flower); err != nil {
		if errors.Is(err, models.ErrFlowerLineNotFound) {
			return 0, err
		}
		log.Printf("Failed to update arrangement flower %d: %v", req.FlowerID, err)
		return 0, fmt.Errorf("%w: %v", models.ErrStorageFailure, err)
	}

	return s.recalculate(flower.ArrangementID)
}

// RemoveFlower deletes a flower line and returns the arrangement's
// recomputed total
func (s *ArrangementService) RemoveFlower(flowerID int) (int, error) {
	flower, err := s.arrangementRepo.GetFlowerByID(flowerID)
	if err != nil {
		if errors.Is(err, models.ErrFlowerLineNotFound) {
			return 0, err
		}
		return 0, fmt.Errorf("%w: %v", models.ErrStorageFailure, err)
	}

	lock := s.locks.get(flower.ArrangementID)
	lock.Lock()
	defer lock.Unlock()

	if err := s.arrangementRepo.DeleteFlower(flowerID); err != nil {
		if errors.Is(err, models.ErrFlowerLineNotFound) {
			return 0, err
		}
		log.Printf("Failed to remove arrangement flower %d: %v", flowerID, err)
		return 0, fmt.Errorf("%w: %v", models.ErrStorageFailure, err)
	}

	return s.recalculate(flower.ArrangementID)
}

// SaveArrangement marks an arrangement as saved for later
func (s *ArrangementService) SaveArrangement(id int) error {
	return s.setSaved(id, true)
}

// UnsaveArrangement clears the saved flag
func (s *ArrangementService) UnsaveArrangement(id int) error {
	return s.setSaved(id, false)
}

func (s *ArrangementService) setSaved(id int, saved bool) error {
	arrangement, err := s.arrangementRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, models.ErrArrangementNotFound) {
			return err
		}
		return fmt.Errorf("%w: %v", models.ErrStorageFailure, err)
	}

	now := time.Now()
	arrangement.IsSaved = saved
	arrangement.UpdatedAt = &now

	if err := s.arrangementRepo.Update(arrangement); err != nil {
		if errors.Is(err, models.ErrArrangementNotFound) {
			return err
		}
		log.Printf("Failed to update saved flag on arrangement %d: %v", id, err)
		return fmt.Errorf("%w: %v", models.ErrStorageFailure, err)
	}

	return nil
}

// SetPreviewImage records the stored preview image URL on an arrangement
func (s *ArrangementService) SetPreviewImage(id int, imageURL string) error {
	arrangement, err := s.arrangementRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, models.ErrArrangementNotFound) {
			return err
		}
		return fmt.Errorf("%w: %v", models.ErrStorageFailure, err)
	}

	now := time.Now()
	arrangement.PreviewImageURL = imageURL
	arrangement.UpdatedAt = &now

	if err := s.arrangementRepo.Update(arrangement); err != nil {
		if errors.Is(err, models.ErrArrangementNotFound) {
			return err
		}
		log.Printf("Failed to set preview image on arrangement %d: %v", id, err)
		return fmt.Errorf("%w: %v", models.ErrStorageFailure, err)
	}

	return nil
}

// CheckFlowerAvailability reports whether the flower type exists, is active
// and has at least the requested stems in stock. This is a point-in-time
// check; nothing is reserved.
func (s *ArrangementService) CheckFlowerAvailability(flowerTypeID, quantity int) (bool, error) {
	flowerType, err := s.catalogRepo.GetFlowerTypeByID(flowerTypeID)
	if err != nil {
		if errors.Is(err, models.ErrFlowerTypeNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("%w: %v", models.ErrStorageFailure, err)
	}

	return flowerType.IsAvailable(quantity), nil
}

// CalculateTotalPrice recomputes and persists the arrangement's price
// aggregates and returns the new total. A missing arrangement yields zero
// rather than an error; the designer polls this endpoint and an arrangement
// deleted in another tab should not surface as a fault.
func (s *ArrangementService) CalculateTotalPrice(arrangementID int) (int, error) {
	lock := s.locks.get(arrangementID)
	lock.Lock()
	defer lock.Unlock()

	return s.recalculate(arrangementID)
}

// recalculate does the actual recompute. Callers must hold the arrangement's
// lock.
func (s *ArrangementService) recalculate(arrangementID int) (int, error) {
	arrangement, err := s.arrangementRepo.GetByID(arrangementID)
	if err != nil {
		if errors.Is(err, models.ErrArrangementNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: %v", models.ErrStorageFailure, err)
	}

	flowersCost := arrangement.FlowersTotal()

	basePrice := 0
	if arrangement.PresentationStyle != nil {
		basePrice = arrangement.PresentationStyle.BasePrice
	}

	now := time.Now()
	arrangement.BasePrice = basePrice
	arrangement.FlowersCost = flowersCost
	arrangement.TotalPrice = basePrice + flowersCost
	arrangement.UpdatedAt = &now

	if err := s.arrangementRepo.Update(arrangement); err != nil {
		log.Printf("Failed to persist price recompute for arrangement %d: %v", arrangementID, err)
		return 0, fmt.Errorf("%w: %v", models.ErrStorageFailure, err)
	}

	return arrangement.TotalPrice, nil
}

// GetAvailableFlowerTypes lists active flower types with stock for the
// designer page
func (s *ArrangementService) GetAvailableFlowerTypes() ([]*models.FlowerType, error) {
	return s.catalogRepo.GetAvailableFlowerTypes()
}

// GetPresentationStyles lists all presentation styles, cheapest first
func (s *ArrangementService) GetPresentationStyles() ([]*models.PresentationStyle, error) {
	return s.catalogRepo.GetPresentationStyles()
}
