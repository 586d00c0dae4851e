package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/quangdng/cinema-ticket-booking/internal/model"
)

// ErrUserNotFound is returned when a user lookup yields no rows.
var ErrUserNotFound = errors.New("user not found")

// UserRepo provides data access for the users table.  Only bcrypt
// hashes are ever written to password_hash; plaintext never reaches
// this layer.
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo returns a UserRepo bound to the given database.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

const userColumns = `id, username, password_hash, email, full_name, role,
	loyalty_points, membership_tier, is_active, last_login, created_at`

func scanUser(row interface{ Scan(...any) error }) (*model.User, error) {
	var u model.User
	var email, fullName sql.NullString
	var lastLogin sql.NullTime
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &email, &fullName, &u.Role,
		&u.LoyaltyPoints, &u.MembershipTier, &u.IsActive, &lastLogin, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	if email.Valid {
		v := email.String
		u.Email = &v
	}
	if fullName.Valid {
		v := fullName.String
		u.FullName = &v
	}
	if lastLogin.Valid {
		t := lastLogin.Time
		u.LastLogin = &t
	}
	return &u, nil
}

// Create inserts a new user and populates the generated ID.  A taken
// username maps to ErrUsernameExists.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	const q = `INSERT INTO users (username, password_hash, email, full_name, role, membership_tier, is_active)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, u.Username, u.PasswordHash, u.Email, u.FullName,
		u.Role, u.MembershipTier, u.IsActive)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") { // unique username
			return ErrUsernameExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = uint64(id)
	return nil
}

// GetByUsername retrieves a user by username for login.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ?`, username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// GetByID retrieves a user by primary key.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// UpdateLastLogin stamps the user's last successful login time.
func (r *UserRepo) UpdateLastLogin(ctx context.Context, id uint64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET last_login = UTC_TIMESTAMP() WHERE id = ?`, id)
	return err
}
