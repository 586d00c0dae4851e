package model

import "time"

// User roles.  Admin gates the management API; staff may additionally
// settle payments at the counter.
const (
	RoleUser  = "user"
	RoleStaff = "staff"
	RoleAdmin = "admin"
)

// User represents an application account as stored in the `users` table.
// Passwords are stored as bcrypt hashes only; the plain value never
// leaves the login/register handlers.
//
// Fields:
//  ID             – primary key identifier.
//  Username       – unique login name.
//  PasswordHash   – bcrypt hash of the password.
//  Email          – optional contact email.
//  FullName       – optional display name.
//  Role           – user | staff | admin.
//  LoyaltyPoints  – accumulated reward points.
//  MembershipTier – loyalty tier label (e.g. bronze, silver, gold).
//  IsActive       – whether the account may sign in.
//  LastLogin      – last successful login (nullable).
type User struct {
	ID             uint64     // users.id
	Username       string     // users.username
	PasswordHash   string     // users.password_hash
	Email          *string    // users.email (nullable)
	FullName       *string    // users.full_name (nullable)
	Role           string     // users.role
	LoyaltyPoints  uint32     // users.loyalty_points
	MembershipTier string     // users.membership_tier
	IsActive       bool       // users.is_active
	LastLogin      *time.Time // users.last_login (nullable)
	CreatedAt      time.Time  // users.created_at
}

// RefreshToken models a row in the `refresh_tokens` table.  Only the
// SHA-256 hash of the raw token is persisted.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
