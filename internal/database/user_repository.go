package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/swiftbus/booking-backend/internal/models"
)

// UserRepository handles user database operations
type UserRepository struct {
	db DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, password_hash, full_name, phone, role, is_active, created_at, updated_at`

// CreateUser inserts a new user with the customer role
func (r *UserRepository) CreateUser(email, passwordHash, fullName string, phone *string) (*models.User, error) {
	user := &models.User{}
	query := `
		INSERT INTO users (email, password_hash, full_name, phone, role, is_active)
		VALUES ($1, $2, $3, $4, 'customer', TRUE)
		RETURNING ` + userColumns

	err := r.db.Get(user, query, strings.ToLower(email), passwordHash, fullName, phone)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return nil, &models.ConflictError{Message: "email already registered"}
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// GetUserByEmail fetches a user by email (case-insensitive)
func (r *UserRepository) GetUserByEmail(email string) (*models.User, error) {
	user := &models.User{}
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	err := r.db.Get(user, query, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &models.NotFoundError{Resource: "user"}
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	return user, nil
}

// GetUserByID fetches a user by id
func (r *UserRepository) GetUserByID(id int64) (*models.User, error) {
	user := &models.User{}
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	err := r.db.Get(user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &models.NotFoundError{Resource: "user"}
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	return user, nil
}

// UpdateRole changes a user's platform role (customer → agent when an
// agent profile is created)
func (r *UserRepository) UpdateRole(id int64, role models.UserRole) error {
	result, err := r.db.Exec(`UPDATE users SET role = $1, updated_at = NOW() WHERE id = $2`, role, id)
	if err != nil {
		return fmt.Errorf("failed to update user role: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rows == 0 {
		return &models.NotFoundError{Resource: "user"}
	}

	return nil
}
