package services

import (
	"context"
	"errors"

	"saccolink/internal/adapters/persistence/models"
	"saccolink/internal/adapters/persistence/repositories"
	"saccolink/internal/core/domain"
	"saccolink/internal/pkg/pagination"

	"gorm.io/gorm"
)

// StaffService handles staff profile business logic
type StaffService struct {
	staffRepo repositories.StaffRepository
}

// NewStaffService creates a new staff service
func NewStaffService(staffRepo repositories.StaffRepository) *StaffService {
	return &StaffService{staffRepo: staffRepo}
}

// ListStaffInput represents list staff input
type ListStaffInput struct {
	Page  int
	Limit int
}

// ListStaffOutput represents list staff output
type ListStaffOutput struct {
	Staff []*models.StaffResponse `json:"staff"`
	Meta  *pagination.Meta        `json:"meta"`
}

// UpdateStaffInput represents update staff profile input
type UpdateStaffInput struct {
	Position          *string `json:"position"`
	Department        *string `json:"department"`
	Phone             *string `json:"phone"`
	CanApproveLoans   *bool   `json:"can_approve_loans"`
	CanApproveSavings *bool   `json:"can_approve_savings"`
	IsActive          *bool   `json:"is_active"`
}

// ListStaff lists staff profiles with pagination
func (s *StaffService) ListStaff(ctx context.Context, input *ListStaffInput) (*ListStaffOutput, error) {
	if input.Page < 1 {
		input.Page = 1
	}
	if input.Limit < 1 {
		input.Limit = 10
	}
	if input.Limit > 100 {
		input.Limit = 100
	}

	offset := (input.Page - 1) * input.Limit

	staff, total, err := s.staffRepo.List(ctx, offset, input.Limit)
	if err != nil {
		return nil, err
	}

	responses := make([]*models.StaffResponse, len(staff))
	for i, st := range staff {
		responses[i] = st.ToResponse()
	}

	return &ListStaffOutput{
		Staff: responses,
		Meta:  pagination.GetMeta(&pagination.Params{Page: input.Page, Limit: input.Limit}, total),
	}, nil
}

// GetStaffByID gets a staff profile by ID
func (s *StaffService) GetStaffByID(ctx context.Context, id uint) (*models.StaffResponse, error) {
	staff, err := s.staffRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	return staff.ToResponse(), nil
}

// GetOwnProfile gets the staff profile owned by the authenticated account
func (s *StaffService) GetOwnProfile(ctx context.Context, userID uint) (*models.StaffResponse, error) {
	staff, err := s.staffRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProfileMissing
		}
		return nil, err
	}

	return staff.ToResponse(), nil
}

// UpdateStaff updates a staff profile, including the approval privilege flags
func (s *StaffService) UpdateStaff(ctx context.Context, id uint, input *UpdateStaffInput) (*models.StaffResponse, error) {
	staff, err := s.staffRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	if input.Position != nil {
		staff.Position = *input.Position
	}
	if input.Department != nil {
		staff.Department = *input.Department
	}
	if input.Phone != nil {
		staff.Phone = *input.Phone
	}
	if input.CanApproveLoans != nil {
		staff.CanApproveLoans = *input.CanApproveLoans
	}
	if input.CanApproveSavings != nil {
		staff.CanApproveSavings = *input.CanApproveSavings
	}
	if input.IsActive != nil {
		staff.IsActive = *input.IsActive
	}

	if err := s.staffRepo.Update(ctx, staff); err != nil {
		return nil, err
	}

	return staff.ToResponse(), nil
}
