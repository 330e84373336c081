package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Account roles. Registration and profile editing live in another service;
// this table only carries what the pipeline and chat need to render names.
const (
	RoleUser    = "user"
	RoleCompany = "company"
)

// Account is a minimal identity record for a job seeker or a company.
type Account struct {
	ID          string `gorm:"primaryKey" json:"id"`
	Role        string `gorm:"type:text;not null" json:"role"`
	DisplayName string `gorm:"type:text;not null" json:"displayName"`
}

// BeforeCreate is a GORM hook that runs before a record is created.
// It generates a new UUID for the account if the ID is not set yet.
func (a *Account) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return
}
