package repositories

import (
	"database/sql"
	"fmt"

	"flower-shop-platform/internal/models"
)

// CatalogRepository handles flower type and presentation style lookups. Both
// are read-mostly catalog data; arrangements reference them but never own
// them.
type CatalogRepository struct {
	db *sql.DB
}

// NewCatalogRepository creates a new catalog repository
func NewCatalogRepository(db *sql.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

const flowerTypeColumns = `id, name, quantity, is_active, unit_price,
	available_colors, description, image_url, created_at`

// GetFlowerTypeByID retrieves a flower type by id
func (r *CatalogRepository) GetFlowerTypeByID(id int) (*models.FlowerType, error) {
	query := fmt.Sprintf(`SELECT %s FROM flower_types WHERE id = $1`, flowerTypeColumns)

	ft := &models.FlowerType{}
	err := r.db.QueryRow(query, id).Scan(
		&ft.ID,
		&ft.Name,
		&ft.Quantity,
		&ft.IsActive,
		&ft.UnitPrice,
		&ft.AvailableColors,
		&ft.Description,
		&ft.ImageURL,
		&ft.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrFlowerTypeNotFound
		}
		return nil, fmt.Errorf("failed to get flower type: %w", err)
	}

	return ft, nil
}

// GetAvailableFlowerTypes retrieves active flower types with stock, name
// ascending, for the designer page
func (r *CatalogRepository) GetAvailableFlowerTypes() ([]*models.FlowerType, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM flower_types
		WHERE is_active = TRUE AND quantity > 0
		ORDER BY name ASC`, flowerTypeColumns)

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to get available flower types: %w", err)
	}
	defer rows.Close()

	var flowerTypes []*models.FlowerType
	for rows.Next() {
		ft := &models.FlowerType{}
		err := rows.Scan(
			&ft.ID,
			&ft.Name,
			&ft.Quantity,
			&ft.IsActive,
			&ft.UnitPrice,
			&ft.AvailableColors,
			&ft.Description,
			&ft.ImageURL,
			&ft.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan flower type: %w", err)
		}
		flowerTypes = append(flowerTypes, ft)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating flower types: %w", err)
	}

	return flowerTypes, nil
}

// GetPresentationStyleByID retrieves a presentation style by id
func (r *CatalogRepository) GetPresentationStyleByID(id int) (*models.PresentationStyle, error) {
	query := `
		SELECT id, name, base_price, description, image_url
		FROM presentation_styles
		WHERE id = $1`

	ps := &models.PresentationStyle{}
	err := r.db.QueryRow(query, id).Scan(
		&ps.ID,
		&ps.Name,
		&ps.BasePrice,
		&ps.Description,
		&ps.ImageURL,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrStyleNotFound
		}
		return nil, fmt.Errorf("failed to get presentation style: %w", err)
	}

	return ps, nil
}

// GetPresentationStyles retrieves all presentation styles, cheapest first
func (r *CatalogRepository) GetPresentationStyles() ([]*models.PresentationStyle, error) {
	query := `
		SELECT id, name, base_price, description, image_url
		FROM presentation_styles
		ORDER BY base_price ASC`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to get presentation styles: %w", err)
	}
	defer rows.Close()

	var styles []*models.PresentationStyle
	for rows.Next() {
		ps := &models.PresentationStyle{}
		err := rows.Scan(
			&ps.ID,
			&ps.Name,
			&ps.BasePrice,
			&ps.Description,
			&ps.ImageURL,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan presentation style: %w", err)
		}
		styles = append(styles, ps)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating presentation styles: %w", err)
	}

	return styles, nil
}
