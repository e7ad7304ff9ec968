package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"flower-shop-platform/internal/models"
)

// ArrangementRepository handles custom arrangement data operations
type ArrangementRepository struct {
	db *sql.DB
}

// NewArrangementRepository creates a new arrangement repository
func NewArrangementRepository(db *sql.DB) *ArrangementRepository {
	return &ArrangementRepository{db: db}
}

const arrangementColumns = `id, user_id, name, description, presentation_style_id,
	base_price, flowers_cost, total_price, is_saved, is_ordered, order_id,
	preview_image_url, created_at, updated_at`

// Create inserts a new arrangement and returns it with the assigned id
func (r *ArrangementRepository) Create(a *models.Arrangement) (*models.Arrangement, error) {
	query := `
		INSERT INTO custom_arrangements
			(user_id, name, description, presentation_style_id, base_price,
			 flowers_cost, total_price, is_saved, is_ordered, preview_image_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at`

	var userID sql.NullInt64
	if a.UserID != nil {
		userID = sql.NullInt64{Int64: int64(*a.UserID), Valid: true}
	}

	err := r.db.QueryRow(
		query,
		userID,
		a.Name,
		a.Description,
		a.PresentationStyleID,
		a.BasePrice,
		a.FlowersCost,
		a.TotalPrice,
		a.IsSaved,
		a.IsOrdered,
		a.PreviewImageURL,
		time.Now(),
	).Scan(&a.ID, &a.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("failed to create arrangement: %w", err)
	}

	return a, nil
}

// GetByID retrieves an arrangement with its presentation style and flower
// lines (each line carrying its flower type)
func (r *ArrangementRepository) GetByID(id int) (*models.Arrangement, error) {
	query := fmt.Sprintf(`SELECT %s FROM custom_arrangements WHERE id = $1`, arrangementColumns)

	arrangement, err := r.scanArrangement(r.db.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrArrangementNotFound
		}
		return nil, fmt.Errorf("failed to get arrangement: %w", err)
	}

	style, err := r.getStyle(arrangement.PresentationStyleID)
	if err != nil {
		return nil, err
	}
	arrangement.PresentationStyle = style

	flowers, err := r.GetFlowers(arrangement.ID)
	if err != nil {
		return nil, err
	}
	arrangement.Flowers = flowers

	return arrangement, nil
}

// GetByUser retrieves all arrangements owned by a user, newest first
func (r *ArrangementRepository) GetByUser(userID int) ([]*models.Arrangement, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM custom_arrangements
		WHERE user_id = $1
		ORDER BY created_at DESC`, arrangementColumns)

	return r.queryArrangements(query, userID)
}

// GetSaved retrieves a user's saved, not yet ordered arrangements ordered by
// most recent activity (update time, falling back to creation time)
func (r *ArrangementRepository) GetSaved(userID int) ([]*models.Arrangement, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM custom_arrangements
		WHERE user_id = $1 AND is_saved = TRUE AND is_ordered = FALSE
		ORDER BY COALESCE(updated_at, created_at) DESC`, arrangementColumns)

	return r.queryArrangements(query, userID)
}

// Update persists the mutable arrangement fields
func (r *ArrangementRepository) Update(a *models.Arrangement) error {
	query := `
		UPDATE custom_arrangements
		SET name = $2, description = $3, presentation_style_id = $4,
		    base_price = $5, flowers_cost = $6, total_price = $7,
		    is_saved = $8, is_ordered = $9, order_id = $10,
		    preview_image_url = $11, updated_at = $12
		WHERE id = $1`

	var orderID sql.NullString
	if a.OrderID != nil {
		orderID = sql.NullString{String: *a.OrderID, Valid: true}
	}

	var updatedAt sql.NullTime
	if a.UpdatedAt != nil {
		updatedAt = sql.NullTime{Time: *a.UpdatedAt, Valid: true}
	}

	result, err := r.db.Exec(
		query,
		a.ID,
		a.Name,
		a.Description,
		a.PresentationStyleID,
		a.BasePrice,
		a.FlowersCost,
		a.TotalPrice,
		a.IsSaved,
		a.IsOrdered,
		orderID,
		a.PreviewImageURL,
		updatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update arrangement: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return models.ErrArrangementNotFound
	}

	return nil
}

// Delete removes an arrangement; its flower lines go with it via the
// ON DELETE CASCADE constraint
func (r *ArrangementRepository) Delete(id int) error {
	result, err := r.db.Exec(`DELETE FROM custom_arrangements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete arrangement: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return models.ErrArrangementNotFound
	}

	return nil
}

// Flower line operations

// AddFlower inserts a flower line and returns it with the assigned id
func (r *ArrangementRepository) AddFlower(f *models.ArrangementFlower) (*models.ArrangementFlower, error) {
	query := `
		INSERT INTO arrangement_flowers
			(arrangement_id, flower_type_id, quantity, color, unit_price, total_price, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	err := r.db.QueryRow(
		query,
		f.ArrangementID,
		f.FlowerTypeID,
		f.Quantity,
		f.Color,
		f.UnitPrice,
		f.TotalPrice,
		f.Notes,
	).Scan(&f.ID)

	if err != nil {
		return nil, fmt.Errorf("failed to add flower to arrangement: %w", err)
	}

	return f, nil
}

// GetFlowerByID retrieves a single flower line
func (r *ArrangementRepository) GetFlowerByID(id int) (*models.ArrangementFlower, error) {
	query := `
		SELECT id, arrangement_id, flower_type_id, quantity, color, unit_price, total_price, notes
		FROM arrangement_flowers
		WHERE id = $1`

	f := &models.ArrangementFlower{}
	err := r.db.QueryRow(query, id).Scan(
		&f.ID,
		&f.ArrangementID,
		&f.FlowerTypeID,
		&f.Quantity,
		&f.Color,
		&f.UnitPrice,
		&f.TotalPrice,
		&f.Notes,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrFlowerLineNotFound
		}
		return nil, fmt.Errorf("failed to get arrangement flower: %w", err)
	}

	return f, nil
}

// GetFlowers retrieves all flower lines for an arrangement with their flower
// types joined in
func (r *ArrangementRepository) GetFlowers(arrangementID int) ([]*models.ArrangementFlower, error) {
	query := `
		SELECT af.id, af.arrangement_id, af.flower_type_id, af.quantity, af.color,
		       af.unit_price, af.total_price, af.notes,
		       ft.id, ft.name, ft.quantity, ft.is_active, ft.unit_price,
		       ft.available_colors, ft.description, ft.image_url, ft.created_at
		FROM arrangement_flowers af
		JOIN flower_types ft ON ft.id = af.flower_type_id
		WHERE af.arrangement_id = $1
		ORDER BY af.id ASC`

	rows, err := r.db.Query(query, arrangementID)
	if err != nil {
		return nil, fmt.Errorf("failed to get arrangement flowers: %w", err)
	}
	defer rows.Close()

	var flowers []*models.ArrangementFlower
	for rows.Next() {
		f := &models.ArrangementFlower{FlowerType: &models.FlowerType{}}
		err := rows.Scan(
			&f.ID,
			&f.ArrangementID,
			&f.FlowerTypeID,
			&f.Quantity,
			&f.Color,
			&f.UnitPrice,
			&f.TotalPrice,
			&f.Notes,
			&f.FlowerType.ID,
			&f.FlowerType.Name,
			&f.FlowerType.Quantity,
			&f.FlowerType.IsActive,
			&f.FlowerType.UnitPrice,
			&f.FlowerType.AvailableColors,
			&f.FlowerType.Description,
			&f.FlowerType.ImageURL,
			&f.FlowerType.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan arrangement flower: %w", err)
		}
		flowers = append(flowers, f)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating arrangement flowers: %w", err)
	}

	return flowers, nil
}

// UpdateFlower persists quantity, color and total price for a flower line.
// The unit price column is deliberately left out of the SET list so the
// snapshot taken at creation time survives updates.
func (r *ArrangementRepository) UpdateFlower(f *models.ArrangementFlower) error {
	query := `
		UPDATE arrangement_flowers
		SET quantity = $2, color = $3, total_price = $4, notes = $5
		WHERE id = $1`

	result, err := r.db.Exec(query, f.ID, f.Quantity, f.Color, f.TotalPrice, f.Notes)
	if err != nil {
		return fmt.Errorf("failed to update arrangement flower: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return models.ErrFlowerLineNotFound
	}

	return nil
}

// DeleteFlower removes a single flower line
func (r *ArrangementRepository) DeleteFlower(id int) error {
	result, err := r.db.Exec(`DELETE FROM arrangement_flowers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete arrangement flower: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return models.ErrFlowerLineNotFound
	}

	return nil
}

// Helpers

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *ArrangementRepository) scanArrangement(row rowScanner) (*models.Arrangement, error) {
	a := &models.Arrangement{}
	var userID sql.NullInt64
	var orderID sql.NullString
	var updatedAt sql.NullTime

	err := row.Scan(
		&a.ID,
		&userID,
		&a.Name,
		&a.Description,
		&a.PresentationStyleID,
		&a.BasePrice,
		&a.FlowersCost,
		&a.TotalPrice,
		&a.IsSaved,
		&a.IsOrdered,
		&orderID,
		&a.PreviewImageURL,
		&a.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if userID.Valid {
		id := int(userID.Int64)
		a.UserID = &id
	}
	if orderID.Valid {
		a.OrderID = &orderID.String
	}
	if updatedAt.Valid {
		a.UpdatedAt = &updatedAt.Time
	}

	return a, nil
}

func (r *ArrangementRepository) queryArrangements(query string, args ...interface{}) ([]*models.Arrangement, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query arrangements: %w", err)
	}
	defer rows.Close()

	var arrangements []*models.Arrangement
	for rows.Next() {
		a, err := r.scanArrangement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan arrangement: %w", err)
		}
		arrangements = append(arrangements, a)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating arrangements: %w", err)
	}

	for _, a := range arrangements {
		flowers, err := r.GetFlowers(a.ID)
		if err != nil {
			return nil, err
		}
		a.Flowers = flowers

		style, err := r.getStyle(a.PresentationStyleID)
		if err != nil {
			return nil, err
		}
		a.PresentationStyle = style
	}

	return arrangements, nil
}

func (r *ArrangementRepository) getStyle(id int) (*models.PresentationStyle, error) {
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
