package services

import (
	"context"
	"errors"
	"time"

	"saccolink/internal/adapters/persistence/models"
	"saccolink/internal/adapters/persistence/repositories"
	"saccolink/internal/core/domain"
	"saccolink/internal/pkg/pagination"

	"gorm.io/gorm"
)

// MemberService handles member profile business logic
type MemberService struct {
	memberRepo repositories.MemberRepository
}

// NewMemberService creates a new member service
func NewMemberService(memberRepo repositories.MemberRepository) *MemberService {
	return &MemberService{memberRepo: memberRepo}
}

// ListMembersInput represents list members input
type ListMembersInput struct {
	Page   int
	Limit  int
	Search string
}

// ListMembersOutput represents list members output
type ListMembersOutput struct {
	Members []*models.MemberResponse `json:"members"`
	Meta    *pagination.Meta         `json:"meta"`
}

// UpdateMemberInput represents update member profile input
type UpdateMemberInput struct {
	Address     *string    `json:"address"`
	NationalID  *string    `json:"national_id"`
	DateOfBirth *time.Time `json:"date_of_birth"`
}

// ListMembers lists member profiles with pagination. Search bypasses
// pagination and returns the first matches.
func (s *MemberService) ListMembers(ctx context.Context, input *ListMembersInput) (*ListMembersOutput, error) {
	if input.Page < 1 {
		input.Page = 1
	}
	if input.Limit < 1 {
		input.Limit = 10
	}
	if input.Limit > 100 {
		input.Limit = 100
	}

	if input.Search != "" {
		members, err := s.memberRepo.Search(ctx, input.Search, input.Limit)
		if err != nil {
			return nil, err
		}
		responses := make([]*models.MemberResponse, len(members))
		for i, m := range members {
			responses[i] = m.ToResponse()
		}
		return &ListMembersOutput{
			Members: responses,
			Meta:    pagination.GetMeta(&pagination.Params{Page: 1, Limit: input.Limit}, int64(len(members))),
		}, nil
	}

	offset := (input.Page - 1) * input.Limit

	members, total, err := s.memberRepo.List(ctx, offset, input.Limit)
	if err != nil {
		return nil, err
	}

	responses := make([]*models.MemberResponse, len(members))
	for i, m := range members {
		responses[i] = m.ToResponse()
	}

	return &ListMembersOutput{
		Members: responses,
		Meta:    pagination.GetMeta(&pagination.Params{Page: input.Page, Limit: input.Limit}, total),
	}, nil
}

// GetMemberByID gets a member profile by ID
func (s *MemberService) GetMemberByID(ctx context.Context, id uint) (*models.MemberResponse, error) {
	member, err := s.memberRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	return member.ToResponse(), nil
}

// GetOwnProfile gets the member profile owned by the authenticated account.
// A MEMBER account without a profile row is a data-integrity fault.
func (s *MemberService) GetOwnProfile(ctx context.Context, userID uint) (*models.MemberResponse, error) {
	member, err := s.memberRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProfileMissing
		}
		return nil, err
	}

	return member.ToResponse(), nil
}

// UpdateMember updates a member profile. Balances are never writable here;
// only approved ledger transitions move them.
func (s *MemberService) UpdateMember(ctx context.Context, id uint, input *UpdateMemberInput) (*models.MemberResponse, error) {
	member, err := s.memberRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	if input.Address != nil {
		member.Address = *input.Address
	}
	if input.NationalID != nil {
		member.NationalID = *input.NationalID
	}
	if input.DateOfBirth != nil {
		member.DateOfBirth = input.DateOfBirth
	}

	if err := s.memberRepo.Update(ctx, member); err != nil {
		return nil, err
	}

	return member.ToResponse(), nil
}

// ResolveMemberID maps an authenticated user to its member profile ID
func (s *MemberService) ResolveMemberID(ctx context.Context, userID uint) (uint, error) {
	member, err := s.memberRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, domain.ErrProfileMissing
		}
		return 0, err
	}
	return member.ID, nil
}
