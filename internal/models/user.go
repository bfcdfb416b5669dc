package models

import (
	"time"
)

// User is a directory entry with a shareable chat link. The relay does not
// validate message senders against this table.
type User struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name"`
	Email       string    `json:"email" gorm:"index"`
	CompanyName string    `json:"company_name"`
	Link        string    `json:"link"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateUserRequest is the payload for POST /api/create-user.
type CreateUserRequest struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	CompanyName string `json:"companyName" binding:"required"`
}
