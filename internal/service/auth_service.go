package service

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"devmarket/internal/model"
	"devmarket/internal/repository"
	"devmarket/pkg/jwt"
	"devmarket/pkg/validator"
)

type AuthService interface {
	Register(req *RegisterRequest) (*model.User, error)
	Login(identifier, password string) (*LoginResponse, error)
	Authenticate(tokenString string) (*model.User, error)
	ValidateToken(tokenString string) (*TokenValidationResponse, error)
	ChangePassword(userID uint, oldPassword, newPassword string) error
	UpdateProfile(userID uint, req *UpdateProfileRequest) (*model.User, error)
	Logout(userID uint) error
}

type RegisterRequest struct {
	Username    string     `json:"username" validate:"required,min=3,max=50,alphanum"`
	Email       string     `json:"email" validate:"required,email"`
	Password    string     `json:"password" validate:"required,min=6"`
	FullName    string     `json:"full_name" validate:"required"`
	PhoneNumber string     `json:"phone_number" validate:"omitempty,max=20"`
	Role        model.Role `json:"role" validate:"required,oneof=buyer seller"`
}

type UpdateProfileRequest struct {
	Email       string `json:"email" validate:"required,email"`
	FullName    string `json:"full_name" validate:"required"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,max=20"`
}

type LoginResponse struct {
	Token      string             `json:"token"`
	ExpiresAt  time.Time          `json:"expires_at"`
	User       model.UserResponse `json:"user"`
	Privileges []string           `json:"privileges"` // Flat privileges array for easy checking
}

type TokenValidationResponse struct {
	User       model.UserResponse `json:"user"`
	Privileges []string           `json:"privileges"`
}

type authService struct {
	userRepo repository.UserRepository
	tokens   *jwt.Manager
}

func NewAuthService(userRepo repository.UserRepository, tokens *jwt.Manager) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

func (s *authService) Register(req *RegisterRequest) (*model.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if err := validator.Check(req); err != nil {
		return nil, err
	}

	if err := ensureUnique(s.userRepo, req.Username, req.Email, 0); err != nil {
		return nil, err
	}

	user := &model.User{
		Username:    req.Username,
		Email:       req.Email,
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
		Status:      model.UserActive,
	}
	// Sellers wait for admin approval before they can list products
	user.ApplyRole(req.Role)
	user.Stamp("self")

	if err := user.SetPassword(req.Password); err != nil {
		return nil, errors.New("failed to hash password")
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *authService) Login(identifier, password string) (*LoginResponse, error) {
	// 1. Find user by email or username
	user, err := s.userRepo.FindByIdentifier(strings.TrimSpace(identifier))
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	// 2. Verify password
	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	// 3. Check if user is active
	if !user.IsActive() {
		return nil, ErrUserInactive
	}

	// 4. Single Session: Generate New Token Version
	newTokenVersion := uuid.New().String()
	now := time.Now()
	if err := s.userRepo.UpdateSession(user.ID, newTokenVersion, now); err != nil {
		return nil, errors.New("failed to update session")
	}
	user.TokenVersion = newTokenVersion
	user.LastLoginAt = &now

	// 5. Generate JWT token with TokenVersion
	token, expiresAt, err := s.tokens.GenerateToken(user.ID, user.Username, string(user.Role), newTokenVersion)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	return &LoginResponse{
		Token:      token,
		ExpiresAt:  expiresAt,
		User:       user.ToResponse(),
		Privileges: model.PrivilegesFor(user.Role),
	}, nil
}

// Authenticate resolves a token to the current, active user
func (s *authService) Authenticate(tokenString string) (*model.User, error) {
	claims, err := s.tokens.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	if !user.IsActive() {
		return nil, ErrUserInactive
	}
	// Check against DB for strict session (TokenVersion)
	if user.TokenVersion != claims.TokenVersion {
		return nil, ErrSessionReplaced
	}
	return user, nil
}

func (s *authService) ValidateToken(tokenString string) (*TokenValidationResponse, error) {
	user, err := s.Authenticate(tokenString)
	if err != nil {
		return nil, err
	}
	return &TokenValidationResponse{
		User:       user.ToResponse(),
		Privileges: model.PrivilegesFor(user.Role),
	}, nil
}

func (s *authService) ChangePassword(userID uint, oldPassword, newPassword string) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return notFound(err, ErrUserNotFound)
	}
	if !user.CheckPassword(oldPassword) {
		return ErrWrongPassword
	}
	if len(newPassword) < 6 {
		return ErrWeakPassword
	}
	if err := user.SetPassword(newPassword); err != nil {
		return errors.New("failed to hash new password")
	}
	return s.userRepo.UpdatePassword(user.ID, user.Password)
}

func (s *authService) UpdateProfile(userID uint, req *UpdateProfileRequest) (*model.User, error) {
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if err := validator.Check(req); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	if err := ensureUnique(s.userRepo, "", req.Email, user.ID); err != nil {
		return nil, err
	}

	user.Email = req.Email
	user.FullName = req.FullName
	user.PhoneNumber = req.PhoneNumber
	user.Stamp(user.Actor().AuditName())
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Logout invalidates every token issued so far
func (s *authService) Logout(userID uint) error {
	return s.userRepo.UpdateTokenVersion(userID, uuid.New().String())
}

// ensureUnique checks username/email against other accounts; empty values are skipped
func ensureUnique(repo repository.UserRepository, username, email string, selfID uint) error {
	if username != "" {
		existing, err := repo.FindByUsername(username)
		if err == nil && existing.ID != selfID {
			return ErrUsernameExists
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
	}
	if email != "" {
		existing, err := repo.FindByEmail(email)
		if err == nil && existing.ID != selfID {
			return ErrEmailExists
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
	}
	return nil
}
