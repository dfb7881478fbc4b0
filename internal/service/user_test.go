package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"skillswap/internal/model"
)

// =============================================================================
// MOCK REPOSITORIES
// =============================================================================
//
// The services depend on repository INTERFACES, so unit tests swap in mocks
// with per-test behavior instead of hitting a real database.

type mockUserRepository struct {
	createFn           func(ctx context.Context, user *model.User) error
	getByIDFn          func(ctx context.Context, id int64) (*model.User, error)
	getByUsernameFn    func(ctx context.Context, username string) (*model.User, error)
	getByEmailFn       func(ctx context.Context, email string) (*model.User, error)
	existsByUsernameFn func(ctx context.Context, username string) (bool, error)
	existsByEmailFn    func(ctx context.Context, email string) (bool, error)
	updateFn           func(ctx context.Context, user *model.User) error
	browseFn           func(ctx context.Context, viewerID int64, filter model.BrowseFilter) ([]model.UserSummary, error)
	searchFn           func(ctx context.Context, viewerID int64, query string, limit int) ([]model.UserSummary, error)

	// Track calls for assertions
	createCalls []*model.User
	updateCalls []*model.User
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	m.createCalls = append(m.createCalls, user)
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	if m.getByUsernameFn != nil {
		return m.getByUsernameFn(ctx, username)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.getByEmailFn != nil {
		return m.getByEmailFn(ctx, email)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	if m.existsByUsernameFn != nil {
		return m.existsByUsernameFn(ctx, username)
	}
	return false, nil
}

func (m *mockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if m.existsByEmailFn != nil {
		return m.existsByEmailFn(ctx, email)
	}
	return false, nil
}

func (m *mockUserRepository) Update(ctx context.Context, user *model.User) error {
	m.updateCalls = append(m.updateCalls, user)
	if m.updateFn != nil {
		return m.updateFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepository) Browse(ctx context.Context, viewerID int64, filter model.BrowseFilter) ([]model.UserSummary, error) {
	if m.browseFn != nil {
		return m.browseFn(ctx, viewerID, filter)
	}
	return nil, nil
}

func (m *mockUserRepository) Search(ctx context.Context, viewerID int64, query string, limit int) ([]model.UserSummary, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, viewerID, query, limit)
	}
	return nil, nil
}

type mockSkillRepository struct {
	createFn       func(ctx context.Context, skill *model.Skill) error
	getByIDFn      func(ctx context.Context, id int64) (*model.Skill, error)
	updateFn       func(ctx context.Context, skill *model.Skill) error
	deleteFn       func(ctx context.Context, id int64) error
	listByOwnerFn  func(ctx context.Context, userID int64, kind model.SkillKind) ([]model.Skill, error)
	searchByNameFn func(ctx context.Context, query string, limit int) ([]model.Skill, error)

	deleteCalls []int64
}

func (m *mockSkillRepository) Create(ctx context.Context, skill *model.Skill) error {
	if m.createFn != nil {
		return m.createFn(ctx, skill)
	}
	return nil
}

func (m *mockSkillRepository) GetByID(ctx context.Context, id int64) (*model.Skill, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, model.ErrSkillNotFound
}

func (m *mockSkillRepository) Update(ctx context.Context, skill *model.Skill) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, skill)
	}
	return nil
}

func (m *mockSkillRepository) Delete(ctx context.Context, id int64) error {
	m.deleteCalls = append(m.deleteCalls, id)
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockSkillRepository) ListByOwner(ctx context.Context, userID int64, kind model.SkillKind) ([]model.Skill, error) {
	if m.listByOwnerFn != nil {
		return m.listByOwnerFn(ctx, userID, kind)
	}
	return nil, nil
}

func (m *mockSkillRepository) SearchByName(ctx context.Context, query string, limit int) ([]model.Skill, error) {
	if m.searchByNameFn != nil {
		return m.searchByNameFn(ctx, query, limit)
	}
	return nil, nil
}

// =============================================================================
// REGISTER TESTS
// =============================================================================

func TestUserService_Register_Success(t *testing.T) {
	mockRepo := &mockUserRepository{
		createFn: func(ctx context.Context, user *model.User) error {
			user.ID = 1
			user.CreatedAt = time.Now()
			user.UpdatedAt = time.Now()
			return nil
		},
	}
	svc := NewUserService(mockRepo, &mockSkillRepository{})

	req := &model.RegisterRequest{
		Username: "testuser",
		Email:    "Test@Example.COM",
		Password: "securepassword123",
	}

	user, err := svc.Register(context.Background(), req)

	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if user.Username != req.Username {
		t.Errorf("username = %q, want %q", user.Username, req.Username)
	}

	// Emails are normalized to lowercase on the way in
	if user.Email != "test@example.com" {
		t.Errorf("email = %q, want lowercase form", user.Email)
	}

	if !user.IsPublic {
		t.Error("new profiles should start public")
	}

	if user.IsAdmin {
		t.Error("new accounts must never be admins")
	}

	if user.PasswordHash == req.Password {
		t.Error("password should be hashed, not stored in plain text")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		t.Error("password hash should be valid bcrypt hash")
	}

	if len(mockRepo.createCalls) != 1 {
		t.Errorf("Create called %d times, want 1", len(mockRepo.createCalls))
	}
}

func TestUserService_Register_UsernameExists(t *testing.T) {
	mockRepo := &mockUserRepository{
		existsByUsernameFn: func(ctx context.Context, username string) (bool, error) {
			return true, nil
		},
	}
	svc := NewUserService(mockRepo, &mockSkillRepository{})

	_, err := svc.Register(context.Background(), &model.RegisterRequest{
		Username: "existinguser",
		Email:    "new@example.com",
		Password: "password123",
	})

	if !errors.Is(err, model.ErrUsernameExists) {
		t.Errorf("error = %v, want %v", err, model.ErrUsernameExists)
	}

	if len(mockRepo.createCalls) != 0 {
		t.Error("Create should not be called when username exists")
	}
}

func TestUserService_Register_EmailExists(t *testing.T) {
	mockRepo := &mockUserRepository{
		existsByEmailFn: func(ctx context.Context, email string) (bool, error) {
			return true, nil
		},
	}
	svc := NewUserService(mockRepo, &mockSkillRepository{})

	_, err := svc.Register(context.Background(), &model.RegisterRequest{
		Username: "newuser",
		Email:    "taken@example.com",
		Password: "password123",
	})

	if !errors.Is(err, model.ErrEmailExists) {
		t.Errorf("error = %v, want %v", err, model.ErrEmailExists)
	}
}

func TestUserService_Register_MissingFields(t *testing.T) {
	svc := NewUserService(&mockUserRepository{}, &mockSkillRepository{})

	tests := []struct {
		name string
		req  *model.RegisterRequest
	}{
		{"missing username", &model.RegisterRequest{Email: "a@b.com", Password: "pw"}},
		{"missing email", &model.RegisterRequest{Username: "user", Password: "pw"}},
		{"missing password", &model.RegisterRequest{Username: "user", Email: "a@b.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Register(context.Background(), tt.req); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

// =============================================================================
// LOGIN TESTS
// =============================================================================

func TestUserService_Login(t *testing.T) {
	validPassword := "correctpassword"
	validHash, _ := bcrypt.GenerateFromPassword([]byte(validPassword), bcrypt.MinCost)

	testUser := &model.User{
		ID:           1,
		Username:     "testuser",
		Email:        "test@example.com",
		PasswordHash: string(validHash),
	}

	tests := []struct {
		name          string
		email         string
		password      string
		mockGetByMail func(ctx context.Context, email string) (*model.User, error)
		wantErr       error
		wantUser      bool
	}{
		{
			name:     "successful login",
			email:    "test@example.com",
			password: validPassword,
			mockGetByMail: func(ctx context.Context, email string) (*model.User, error) {
				return testUser, nil
			},
			wantErr:  nil,
			wantUser: true,
		},
		{
			name:     "email case-insensitive",
			email:    "TEST@Example.com",
			password: validPassword,
			mockGetByMail: func(ctx context.Context, email string) (*model.User, error) {
				if email != "test@example.com" {
					return nil, model.ErrUserNotFound
				}
				return testUser, nil
			},
			wantErr:  nil,
			wantUser: true,
		},
		{
			name:     "email not registered",
			email:    "nobody@example.com",
			password: "anypassword",
			mockGetByMail: func(ctx context.Context, email string) (*model.User, error) {
				return nil, model.ErrUserNotFound
			},
			wantErr:  model.ErrInvalidCredentials, // Don't reveal the email is unknown
			wantUser: false,
		},
		{
			name:     "wrong password",
			email:    "test@example.com",
			password: "wrongpassword",
			mockGetByMail: func(ctx context.Context, email string) (*model.User, error) {
				return testUser, nil
			},
			wantErr:  model.ErrInvalidCredentials,
			wantUser: false,
		},
		{
			name:     "database error",
			email:    "test@example.com",
			password: validPassword,
			mockGetByMail: func(ctx context.Context, email string) (*model.User, error) {
				return nil, errors.New("database error")
			},
			wantErr:  model.ErrInvalidCredentials, // Don't reveal internal errors
			wantUser: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &mockUserRepository{
				getByEmailFn: tt.mockGetByMail,
			}
			svc := NewUserService(mockRepo, &mockSkillRepository{})

			user, err := svc.Login(context.Background(), &model.LoginRequest{
				Email:    tt.email,
				Password: tt.password,
			})

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}

			if tt.wantUser && user == nil {
				t.Error("expected user, got nil")
			}
			if !tt.wantUser && user != nil {
				t.Error("expected nil user")
			}
		})
	}
}

// =============================================================================
// PROFILE VISIBILITY TESTS
// =============================================================================

func TestUserService_GetProfile_Visibility(t *testing.T) {
	publicUser := &model.User{ID: 1, Username: "public", IsPublic: true}
	privateUser := &model.User{ID: 2, Username: "private", IsPublic: false}
	adminUser := &model.User{ID: 3, Username: "admin", IsPublic: true, IsAdmin: true}

	users := map[int64]*model.User{1: publicUser, 2: privateUser, 3: adminUser}

	mockRepo := &mockUserRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.User, error) {
			if u, ok := users[id]; ok {
				return u, nil
			}
			return nil, model.ErrUserNotFound
		},
	}
	mockSkills := &mockSkillRepository{
		listByOwnerFn: func(ctx context.Context, userID int64, kind model.SkillKind) ([]model.Skill, error) {
			return []model.Skill{}, nil
		},
	}
	svc := NewUserService(mockRepo, mockSkills)

	viewer := func(id int64) *int64 { return &id }

	tests := []struct {
		name     string
		userID   int64
		viewerID *int64
		wantErr  error
	}{
		{"public profile, anonymous viewer", 1, nil, nil},
		{"public profile, other viewer", 1, viewer(2), nil},
		{"private profile, anonymous viewer", 2, nil, model.ErrForbidden},
		{"private profile, other viewer", 2, viewer(1), model.ErrForbidden},
		{"private profile, owner", 2, viewer(2), nil},
		{"private profile, admin viewer", 2, viewer(3), nil},
		{"missing profile", 99, nil, model.ErrUserNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile, err := svc.GetProfile(context.Background(), tt.userID, tt.viewerID)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if profile.User.ID != tt.userID {
				t.Errorf("profile user id = %d, want %d", profile.User.ID, tt.userID)
			}
		})
	}
}

// =============================================================================
// UPDATE PROFILE TESTS
// =============================================================================

func TestUserService_UpdateProfile_PartialUpdate(t *testing.T) {
	location := "Lyon"
	existing := &model.User{
		ID:       1,
		Username: "keepme",
		Email:    "keep@example.com",
		Location: &location,
		IsPublic: true,
	}

	mockRepo := &mockUserRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.User, error) {
			copy := *existing
			return &copy, nil
		},
	}
	svc := NewUserService(mockRepo, &mockSkillRepository{})

	bio := "new bio"
	isPublic := false
	updated, err := svc.UpdateProfile(context.Background(), 1, &model.UpdateProfileRequest{
		Bio:      &bio,
		IsPublic: &isPublic,
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Untouched fields survive
	if updated.Username != "keepme" {
		t.Errorf("username = %q, want unchanged", updated.Username)
	}
	if updated.Location == nil || *updated.Location != "Lyon" {
		t.Errorf("location should be unchanged")
	}

	// Provided fields changed
	if updated.Bio == nil || *updated.Bio != "new bio" {
		t.Errorf("bio not applied")
	}
	if updated.IsPublic {
		t.Error("is_public should have been set to false")
	}

	if len(mockRepo.updateCalls) != 1 {
		t.Errorf("Update called %d times, want 1", len(mockRepo.updateCalls))
	}
}

func TestUserService_UpdateProfile_UsernameTaken(t *testing.T) {
	mockRepo := &mockUserRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.User, error) {
			return &model.User{ID: 1, Username: "original", Email: "o@example.com"}, nil
		},
		existsByUsernameFn: func(ctx context.Context, username string) (bool, error) {
			return true, nil
		},
	}
	svc := NewUserService(mockRepo, &mockSkillRepository{})

	taken := "taken"
	_, err := svc.UpdateProfile(context.Background(), 1, &model.UpdateProfileRequest{
		Username: &taken,
	})

	if !errors.Is(err, model.ErrUsernameExists) {
		t.Errorf("error = %v, want %v", err, model.ErrUsernameExists)
	}
	if len(mockRepo.updateCalls) != 0 {
		t.Error("Update should not be called when the username is taken")
	}
}

func TestUserService_UpdateProfile_SameUsernameSkipsCheck(t *testing.T) {
	mockRepo := &mockUserRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.User, error) {
			return &model.User{ID: 1, Username: "same", Email: "s@example.com"}, nil
		},
		existsByUsernameFn: func(ctx context.Context, username string) (bool, error) {
			t.Error("uniqueness check should be skipped when the username is unchanged")
			return true, nil
		},
	}
	svc := NewUserService(mockRepo, &mockSkillRepository{})

	same := "same"
	if _, err := svc.UpdateProfile(context.Background(), 1, &model.UpdateProfileRequest{
		Username: &same,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
