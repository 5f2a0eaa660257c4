package domain

import "time"

// UserAccount never serializes its password.
type UserAccount struct {
	ID        int64     `json:"user_id"`
	Username  string    `json:"username"`
	Password  string    `json:"-"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	Cart      []int64   `json:"products"`
	Orders    []int64   `json:"orders"`
}

type AdminAccount struct {
	ID        int64     `json:"admin_id"`
	Username  string    `json:"username"`
	Password  string    `json:"-"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// BootstrapAdminID is the well-known id of the admin seeded at start-up.
const BootstrapAdminID int64 = 0

// AccountInput carries the caller-supplied fields of a user or admin account.
type AccountInput struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required,max=128"`
	Email    string `json:"email" validate:"required,max=254"`
}

type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}
