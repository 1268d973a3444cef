package types

import "time"

// User represents a registered customer account.
type User struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Mobile       string    `json:"mobile"`
	Address      string    `json:"address"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Hashed password (never exposed).
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserView is the public projection returned by the paginated user listing.
// Email is masked before it leaves the service layer.
type UserView struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Mobile   string `json:"mobile"`
	Address  string `json:"address"`
	Username string `json:"username"`
}
