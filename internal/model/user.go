package model

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User represents an account in the marketplace
type User struct {
	BaseModel
	Username     string     `gorm:"type:varchar(50);uniqueIndex;not null" json:"username" validate:"required,min=3,max=50"`
	Email        string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email" validate:"required,email"`
	Password     string     `gorm:"type:varchar(255);not null" json:"-"` // Hidden from JSON
	FullName     string     `gorm:"type:varchar(255)" json:"full_name"`
	PhoneNumber  string     `gorm:"type:varchar(20)" json:"phone_number"`
	Role         Role       `gorm:"type:varchar(10);not null;default:buyer;index" json:"role" validate:"required,oneof=buyer seller admin"`
	Status       UserStatus `gorm:"type:varchar(10);not null;default:active" json:"status"`
	Approval     Approval   `gorm:"type:varchar(10);default:''" json:"approval,omitempty"`
	TokenVersion string     `gorm:"type:varchar(255);default:''" json:"-"` // For single session enforcement
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
}

// SetPassword hashes and sets the user's password
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword verifies if the provided password matches the stored hash
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

func (u *User) IsActive() bool {
	return u.Status == UserActive
}

// ApplyRole sets the role and keeps Approval consistent with it. A user
// becoming a seller without a previous decision starts as pending.
func (u *User) ApplyRole(role Role) {
	u.Role = role
	if role != RoleSeller {
		u.Approval = ApprovalNone
		return
	}
	if u.Approval == ApprovalNone {
		u.Approval = ApprovalPending
	}
}

// CanSell reports whether the user may list products.
func (u *User) CanSell() bool {
	if u.Role == RoleAdmin {
		return true
	}
	return u.Role == RoleSeller && u.Approval == ApprovalYes
}

// HasPrivilege checks if the user's role grants a specific privilege
func (u *User) HasPrivilege(code string) bool {
	return RoleHasPrivilege(u.Role, code)
}

// Actor returns the request-scoped identity for this user.
func (u *User) Actor() Actor {
	return Actor{UserID: u.ID, Username: u.Username, Role: u.Role}
}

// UserResponse is used for API responses (without sensitive data)
type UserResponse struct {
	ID          uint       `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	FullName    string     `json:"full_name"`
	PhoneNumber string     `json:"phone_number"`
	Role        Role       `json:"role"`
	Status      UserStatus `json:"status"`
	Approval    Approval   `json:"approval,omitempty"`
	Privileges  []string   `json:"privileges"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ToResponse converts User to UserResponse
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		FullName:    u.FullName,
		PhoneNumber: u.PhoneNumber,
		Role:        u.Role,
		Status:      u.Status,
		Approval:    u.Approval,
		Privileges:  PrivilegesFor(u.Role),
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}
