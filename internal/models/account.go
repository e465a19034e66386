package models

import (
	"encoding/json"
	"fmt"

	"gorm.io/gorm"
)

// Role is the closed set of participant roles. Unknown values are rejected
// at the JSON boundary rather than stored.
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
	RoleAdmin  Role = "admin"
)

// Valid reports whether r is one of the enumerated roles.
func (r Role) Valid() bool {
	switch r {
	case RoleBuyer, RoleSeller, RoleAdmin:
		return true
	}
	return false
}

// UnmarshalJSON rejects any value outside the enumeration.
func (r *Role) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	role := Role(s)
	if !role.Valid() {
		return fmt.Errorf("unknown role %q", s)
	}
	*r = role
	return nil
}

// Account represents any participant: buyer, seller, or admin.
type Account struct {
	ID       string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Email    string `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password string `json:"-" gorm:"type:varchar(255)" validate:"required,min=6"` // bcrypt hash once stored
	Role     Role   `json:"role" gorm:"type:varchar(16)" validate:"required,oneof=buyer seller admin"`

	Name    string `json:"name" validate:"required,min=2,max=100"`
	Phone   string `json:"phone" validate:"omitempty,min=7,max=20"`
	Address string `json:"address" validate:"omitempty,max=500"`

	// Security-question recovery. The answer is stored bcrypt-hashed,
	// same as the password.
	SecurityQuestion   string `json:"security_question" validate:"omitempty,max=255"`
	SecurityAnswerHash string `json:"-" gorm:"type:varchar(255)"`

	gorm.Model `json:"-"` // CreatedAt, UpdatedAt, DeletedAt
}
