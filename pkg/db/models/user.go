package models

import "time"

// User represents a user.
type User struct {
	ID           int64     `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	RoleID       *int64    `db:"role_id" json:"role_id"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Role is a named set of abilities.
type Role struct {
	ID          int64            `db:"id" json:"id"`
	APIName     string           `db:"api_name" json:"api_name"`
	Name        string           `db:"name" json:"name"`
	Description string           `db:"description" json:"description"`
	Abilities   JSONList[string] `db:"abilities" json:"abilities"`
	CreatedAt   time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time        `db:"updated_at" json:"updated_at"`
}
