package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/swiftbus/booking-backend/internal/models"
	"github.com/swiftbus/booking-backend/pkg/money"
)

// Execer is the subset of database operations the ledger mutators need.
// Satisfied by both *sqlx.Tx and *sqlx.DB, so ledger updates can run
// inside a booking transaction.
type Execer interface {
	Get(dest interface{}, query string, args ...interface{}) error
	Exec(query string, args ...interface{}) (sql.Result, error)
}

// AgentRepository handles agent profile and commission ledger operations
type AgentRepository struct {
	db DB
}

// NewAgentRepository creates a new AgentRepository
func NewAgentRepository(db DB) *AgentRepository {
	return &AgentRepository{db: db}
}

const agentColumns = `id, user_id, commission_rate, total_earnings, total_bookings, is_approved, created_at`

// CreateAgent creates an agent profile for a user. One profile per user;
// new agents start unapproved with zeroed ledger totals.
func (r *AgentRepository) CreateAgent(userID int64, commissionRate string) (*models.Agent, error) {
	agent := &models.Agent{}
	query := `
		INSERT INTO agents (user_id, commission_rate, total_earnings, total_bookings, is_approved)
		VALUES ($1, $2, '0.00', 0, FALSE)
		RETURNING ` + agentColumns

	err := r.db.Get(agent, query, userID, commissionRate)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return nil, &models.ConflictError{Message: "agent profile already exists for this user"}
		}
		return nil, fmt.Errorf("failed to create agent: %w", err)
	}

	return agent, nil
}

// GetAgentByUserID fetches the agent profile owned by a user
func (r *AgentRepository) GetAgentByUserID(userID int64) (*models.Agent, error) {
	agent := &models.Agent{}
	query := `SELECT ` + agentColumns + ` FROM agents WHERE user_id = $1`

	err := r.db.Get(agent, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &models.NotFoundError{Resource: "agent"}
		}
		return nil, fmt.Errorf("failed to fetch agent: %w", err)
	}

	return agent, nil
}

// GetAgentByID fetches an agent profile by id
func (r *AgentRepository) GetAgentByID(id int64) (*models.Agent, error) {
	agent := &models.Agent{}
	query := `SELECT ` + agentColumns + ` FROM agents WHERE id = $1`

	err := r.db.Get(agent, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &models.NotFoundError{Resource: "agent"}
		}
		return nil, fmt.Errorf("failed to fetch agent: %w", err)
	}

	return agent, nil
}

// GetAllAgents lists all agent profiles
func (r *AgentRepository) GetAllAgents() ([]models.Agent, error) {
	var agents []models.Agent
	query := `SELECT ` + agentColumns + ` FROM agents ORDER BY id`

	if err := r.db.Select(&agents, query); err != nil {
		return nil, fmt.Errorf("failed to list agents: %w", err)
	}

	return agents, nil
}

// ApproveAgent marks an agent as approved for commission
func (r *AgentRepository) ApproveAgent(id int64) (*models.Agent, error) {
	agent := &models.Agent{}
	query := `UPDATE agents SET is_approved = TRUE WHERE id = $1 RETURNING ` + agentColumns

	err := r.db.Get(agent, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &models.NotFoundError{Resource: "agent"}
		}
		return nil, fmt.Errorf("failed to approve agent: %w", err)
	}

	return agent, nil
}

// UpdateCommissionRate changes an agent's commission rate. Already-recorded
// earnings are not restated.
func (r *AgentRepository) UpdateCommissionRate(id int64, rate string) (*models.Agent, error) {
	agent := &models.Agent{}
	query := `UPDATE agents SET commission_rate = $2 WHERE id = $1 RETURNING ` + agentColumns

	err := r.db.Get(agent, query, id, rate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &models.NotFoundError{Resource: "agent"}
		}
		return nil, fmt.Errorf("failed to update commission rate: %w", err)
	}

	return agent, nil
}

// RecordBooking credits a commission and increments the booking counter in
// a single atomic update. Runs on the caller's transaction so ledger and
// booking commit or roll back together.
func (r *AgentRepository) RecordBooking(ex Execer, agentID int64, commissionCents int64) error {
	result, err := ex.Exec(`
		UPDATE agents
		SET total_earnings = total_earnings + $2::numeric,
		    total_bookings = total_bookings + 1
		WHERE id = $1`,
		agentID, money.Format(commissionCents))
	if err != nil {
		return fmt.Errorf("failed to record agent booking: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rows == 0 {
		return &models.NotFoundError{Resource: "agent"}
	}

	return nil
}

// ReverseBooking debits a previously recorded commission and decrements
// the booking counter. Both totals are floored at zero so a reversal can
// never drive the ledger negative.
func (r *AgentRepository) ReverseBooking(ex Execer, agentID int64, commissionCents int64) error {
	result, err := ex.Exec(`
		UPDATE agents
		SET total_earnings = GREATEST(total_earnings - $2::numeric, 0),
		    total_bookings = GREATEST(total_bookings - 1, 0)
		WHERE id = $1`,
		agentID, money.Format(commissionCents))
	if err != nil {
		return fmt.Errorf("failed to reverse agent booking: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rows == 0 {
		return &models.NotFoundError{Resource: "agent"}
	}

	return nil
}
