package service

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"skillswap/internal/authz"
	"skillswap/internal/model"
	"skillswap/internal/repository"
)

// UserService handles business logic for accounts and profiles.
type UserService struct {
	repo      repository.UserRepository
	skillRepo repository.SkillRepository
}

func NewUserService(repo repository.UserRepository, skillRepo repository.SkillRepository) *UserService {
	return &UserService{
		repo:      repo,
		skillRepo: skillRepo,
	}
}

// Register creates a new account with optional photo metadata.
// Emails are stored lowercase so uniqueness is case-insensitive.
func (s *UserService) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	if strings.TrimSpace(req.Username) == "" {
		return nil, fmt.Errorf("username is required")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}

	if strings.TrimSpace(req.Password) == "" {
		return nil, fmt.Errorf("password is required")
	}

	if (req.PhotoURL == nil) != (req.PhotoKey == nil) {
		return nil, fmt.Errorf("photo_url and photo_key must both be provided or both omitted")
	}

	exists, err := s.repo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if exists {
		return nil, model.ErrUsernameExists
	}

	exists, err = s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, model.ErrEmailExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username:     req.Username,
		Email:        email,
		PasswordHash: string(hashedPassword),
		IsPublic:     true, // Profiles start public; owners can opt out
		PhotoURL:     req.PhotoURL,
		PhotoKey:     req.PhotoKey,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Login authenticates a user with email and password.
func (s *UserService) Login(ctx context.Context, req *model.LoginRequest) (*model.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		// Don't reveal whether the email is registered
		return nil, model.ErrInvalidCredentials
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password))
	if err != nil {
		return nil, model.ErrInvalidCredentials
	}

	return user, nil
}

// GetByID retrieves a user by ID.
func (s *UserService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return s.repo.GetByID(ctx, id)
}

// GetProfile retrieves a user's profile with both skill lists.
// Private profiles are visible only to their owner (and admins);
// viewerID is nil for unauthenticated requests.
func (s *UserService) GetProfile(ctx context.Context, userID int64, viewerID *int64) (*model.ProfileResponse, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	var viewer *model.User
	if viewerID != nil {
		if *viewerID == userID {
			viewer = user
		} else if v, err := s.repo.GetByID(ctx, *viewerID); err == nil {
			viewer = v
		}
	}

	if err := authz.CanViewProfile(viewer, user); err != nil {
		return nil, err
	}

	offered, err := s.skillRepo.ListByOwner(ctx, userID, model.SkillOffered)
	if err != nil {
		return nil, err
	}

	wanted, err := s.skillRepo.ListByOwner(ctx, userID, model.SkillWanted)
	if err != nil {
		return nil, err
	}

	return &model.ProfileResponse{
		User:          user,
		SkillsOffered: offered,
		SkillsWanted:  wanted,
	}, nil
}

// UpdateProfile applies partial edits to the caller's own profile.
// Nil fields are left unchanged. Username and email changes re-run the
// uniqueness checks.
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, req *model.UpdateProfileRequest) (*model.User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Username != nil && *req.Username != user.Username {
		if strings.TrimSpace(*req.Username) == "" {
			return nil, fmt.Errorf("username is required")
		}
		exists, err := s.repo.ExistsByUsername(ctx, *req.Username)
		if err != nil {
			return nil, fmt.Errorf("failed to check username: %w", err)
		}
		if exists {
			return nil, model.ErrUsernameExists
		}
		user.Username = *req.Username
	}

	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email == "" {
			return nil, fmt.Errorf("email is required")
		}
		if email != user.Email {
			exists, err := s.repo.ExistsByEmail(ctx, email)
			if err != nil {
				return nil, fmt.Errorf("failed to check email: %w", err)
			}
			if exists {
				return nil, model.ErrEmailExists
			}
			user.Email = email
		}
	}

	if req.Location != nil {
		user.Location = req.Location
	}
	if req.Bio != nil {
		user.Bio = req.Bio
	}
	if req.Availability != nil {
		user.Availability = req.Availability
	}
	if req.IsPublic != nil {
		user.IsPublic = *req.IsPublic
	}
	if req.PhotoURL != nil {
		user.PhotoURL = req.PhotoURL
		user.PhotoKey = req.PhotoKey
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// Browse lists public profiles, optionally filtered by username substring
// or by a skill name matched against either skill list.
func (s *UserService) Browse(ctx context.Context, viewerID int64, filter model.BrowseFilter) ([]model.UserSummary, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	return s.repo.Browse(ctx, viewerID, filter)
}

// Search finds public users by username substring.
func (s *UserService) Search(ctx context.Context, viewerID int64, query string, limit int) ([]model.UserSummary, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.Search(ctx, viewerID, query, limit)
}
