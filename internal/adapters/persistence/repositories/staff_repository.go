package repositories

import (
	"context"

	"saccolink/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// staffRepository implements StaffRepository interface
type staffRepository struct {
	db *gorm.DB
}

// NewStaffRepository creates a new staff repository
func NewStaffRepository(db *gorm.DB) StaffRepository {
	return &staffRepository{db: db}
}

// Create creates a new staff profile
func (r *staffRepository) Create(ctx context.Context, staff *models.Staff) error {
	return r.db.WithContext(ctx).Create(staff).Error
}

// GetByID gets a staff profile by ID with the linked account
func (r *staffRepository) GetByID(ctx context.Context, id uint) (*models.Staff, error) {
	var staff models.Staff
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("id = ?", id).
		First(&staff).Error
	if err != nil {
		return nil, err
	}
	return &staff, nil
}

// GetByUserID gets the staff profile owned by a user account
func (r *staffRepository) GetByUserID(ctx context.Context, userID uint) (*models.Staff, error) {
	var staff models.Staff
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ?", userID).
		First(&staff).Error
	if err != nil {
		return nil, err
	}
	return &staff, nil
}

// Update updates a staff profile
func (r *staffRepository) Update(ctx context.Context, staff *models.Staff) error {
	return r.db.WithContext(ctx).Save(staff).Error
}

// Delete deletes a staff profile
func (r *staffRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Staff{}, id).Error
}

// List lists staff with pagination
func (r *staffRepository) List(ctx context.Context, offset, limit int) ([]*models.Staff, int64, error) {
	var staff []*models.Staff
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Staff{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Preload("User").
		Offset(offset).Limit(limit).
		Order("id ASC").
		Find(&staff).Error
	if err != nil {
		return nil, 0, err
	}

	return staff, total, nil
}

// ExistsByUserID checks if a user already owns a staff profile
func (r *staffRepository) ExistsByUserID(ctx context.Context, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Staff{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count > 0, err
}
