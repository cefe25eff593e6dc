package model

import "time"

// Role names form a closed set. The database column is a plain
// VARCHAR, but registration rejects anything outside these two
// values so downstream code can rely on the enumeration.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// ValidRole reports whether role belongs to the closed role set.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleUser
}

// User represents an application user record as stored in the
// `users` table. Each field corresponds to a column. The json tags
// are omitted because these structs are used by the repository
// layer; handlers define separate response types with appropriate
// JSON tags.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Username     – unique login name.
//  Email        – email address.
//  FirstName    – given name.
//  LastName     – family name.
//  PasswordHash – bcrypt hashed password; plaintext is never stored.
//  IsActive     – whether the account is active.
//  Role         – role name (admin or user).
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Username     string    // users.username
	Email        string    // users.email
	FirstName    string    // users.first_name
	LastName     string    // users.last_name
	PasswordHash string    // users.password_hash
	IsActive     bool      // users.is_active
	Role         string    // users.role
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}
