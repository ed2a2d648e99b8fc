package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"dofe-kas/internal/adapters/persistence/models"
	"dofe-kas/internal/adapters/persistence/repositories"
	"dofe-kas/internal/core/domain"
	"dofe-kas/internal/pkg/pagination"
	"dofe-kas/internal/pkg/password"

	"gorm.io/gorm"
)

// UserService handles member management business logic
type UserService struct {
	userRepo repositories.UserRepository
	audit    AuditRecorder
}

// NewUserService creates a new user service
func NewUserService(userRepo repositories.UserRepository, audit AuditRecorder) *UserService {
	return &UserService{
		userRepo: userRepo,
		audit:    audit,
	}
}

// RegisterInput represents member registration input
type RegisterInput struct {
	Nama     string
	NIM      string
	Password string
	ConfPass string
	Role     domain.Role
}

// Register creates a new member. Pengurus only.
func (s *UserService) Register(ctx context.Context, caller domain.Actor, input *RegisterInput) (*models.UserResponse, error) {
	if !domain.Authorize(caller.Role, domain.CapManageMembers) {
		return nil, domain.ErrForbidden
	}

	// 1. Validate input
	input.Nama = strings.TrimSpace(input.Nama)
	input.NIM = strings.TrimSpace(input.NIM)
	if input.Nama == "" || input.NIM == "" || input.Password == "" {
		return nil, domain.ErrValidation
	}
	if input.Password != input.ConfPass {
		return nil, domain.ErrPasswordMismatch
	}
	if !password.Validate(input.Password) {
		return nil, domain.ErrWeakPassword
	}

	role := input.Role
	if role == "" {
		role = domain.DefaultRole
	}
	if !domain.IsValidRole(role) {
		return nil, domain.ErrValidation
	}

	// 2. NIM is the unique business key
	exists, err := s.userRepo.ExistsByNIM(ctx, input.NIM)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrNIMAlreadyUsed
	}

	// 3. Hash password and create
	hashed, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Nama:     input.Nama,
		NIM:      input.NIM,
		Password: hashed,
		Role:     role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.audit.Append(ctx, AuditEntry{
		Action:      domain.AuditUserCreated,
		Description: fmt.Sprintf("Anggota baru %s (NIM %s) didaftarkan dengan role %s", user.Nama, user.NIM, user.Role),
		Actor:       &caller,
		TargetID:    &user.ID,
		TargetName:  &user.Nama,
	})

	return user.ToResponse(), nil
}

// ListOutput represents a page of members
type ListOutput struct {
	Users []*models.UserResponse `json:"users"`
	Meta  *pagination.Meta       `json:"meta"`
}

// List lists members with pagination. Pengurus only.
func (s *UserService) List(ctx context.Context, caller domain.Actor, params *pagination.Params) (*ListOutput, error) {
	if !domain.Authorize(caller.Role, domain.CapManageMembers) {
		return nil, domain.ErrForbidden
	}

	users, total, err := s.userRepo.List(ctx, params.Offset, params.Limit)
	if err != nil {
		return nil, err
	}

	responses := make([]*models.UserResponse, len(users))
	for i, user := range users {
		responses[i] = user.ToResponse()
	}

	return &ListOutput{
		Users: responses,
		Meta:  pagination.GetMeta(params, total),
	}, nil
}

// UpdateInput represents member update input. NIM is immutable.
type UpdateInput struct {
	Nama *string
	Role *domain.Role
}

// Update updates a member's profile or role. Pengurus only.
func (s *UserService) Update(ctx context.Context, caller domain.Actor, id uint, input *UpdateInput) (*models.UserResponse, error) {
	if !domain.Authorize(caller.Role, domain.CapManageMembers) {
		return nil, domain.ErrForbidden
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	var changes []string
	if input.Nama != nil && strings.TrimSpace(*input.Nama) != "" {
		user.Nama = strings.TrimSpace(*input.Nama)
		changes = append(changes, "nama")
	}
	if input.Role != nil {
		if !domain.IsValidRole(*input.Role) {
			return nil, domain.ErrValidation
		}
		user.Role = *input.Role
		changes = append(changes, "role")
	}

	if len(changes) == 0 {
		return user.ToResponse(), nil
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.audit.Append(ctx, AuditEntry{
		Action:      domain.AuditUserUpdated,
		Description: fmt.Sprintf("Data %s diperbarui (%s)", user.Nama, strings.Join(changes, ", ")),
		Actor:       &caller,
		TargetID:    &user.ID,
		TargetName:  &user.Nama,
	})

	return user.ToResponse(), nil
}

// Delete removes a member. Pengurus only; deleting your own account is
// forbidden.
func (s *UserService) Delete(ctx context.Context, caller domain.Actor, id uint) error {
	if !domain.Authorize(caller.Role, domain.CapManageMembers) {
		return domain.ErrForbidden
	}
	if caller.ID == id {
		return domain.ErrCannotDeleteSelf
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}

	// The audit snapshot keeps the name readable after the member row is gone
	s.audit.Append(ctx, AuditEntry{
		Action:      domain.AuditUserDeleted,
		Description: fmt.Sprintf("Anggota %s (NIM %s) dihapus", user.Nama, user.NIM),
		Actor:       &caller,
		TargetID:    &user.ID,
		TargetName:  &user.Nama,
	})

	return nil
}

// GetByID gets a member by ID.
func (s *UserService) GetByID(ctx context.Context, id uint) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user.ToResponse(), nil
}
