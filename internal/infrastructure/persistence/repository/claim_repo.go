package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/skyclaim/flight-claims/internal/application/port"
	"github.com/skyclaim/flight-claims/internal/domain/claim"
	"github.com/skyclaim/flight-claims/internal/domain/lifecycle"
	"github.com/skyclaim/flight-claims/pkg/database"
)

// ClaimRepository persists the Claim aggregate in sqlite
type ClaimRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewClaimRepository creates a new claim repository
func NewClaimRepository(db *database.DB, logger *zap.Logger) *ClaimRepository {
	return &ClaimRepository{
		db:     db,
		logger: logger,
	}
}

const claimColumns = `
	id, reference, status, category,
	departure_airport, arrival_airport,
	scheduled_departure, scheduled_arrival, actual_departure, actual_arrival,
	circumstance_tag,
	decision_amount, decision_currency, decision_regulation,
	decision_rationale, decision_manual_review,
	override_amount, override_reason,
	created_at, updated_at
`

// Create persists a new claim and its creation history record in one transaction.
func (r *ClaimRepository) Create(ctx context.Context, c *claim.Claim) error {
	err := r.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		query := `
			INSERT INTO claims (` + claimColumns + `)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`

		rationale, manualReview, amount, currency, regulation := decisionFields(c)

		_, err := tx.ExecContext(ctx, query,
			c.ID, nullableString(c.Reference), c.Status.String(), c.Facts.Category.String(),
			c.Facts.DepartureAirport, c.Facts.ArrivalAirport,
			c.Facts.ScheduledDeparture, c.Facts.ScheduledArrival,
			nullableTime(c.Facts.ActualDeparture), nullableTime(c.Facts.ActualArrival),
			c.Facts.CircumstanceTag,
			amount, currency, regulation, rationale, manualReview,
			nullableFloat(c.OverrideAmount), c.OverrideReason,
			c.CreatedAt, c.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert claim: %w", err)
		}

		for _, record := range c.History {
			if err := insertTransition(ctx, tx, record); err != nil {
				return err
			}
		}

		return nil
	})

	if err != nil {
		r.logger.Error("Failed to create claim", zap.String("id", c.ID), zap.Error(err))
		return err
	}

	return nil
}

// GetByID loads a claim with its full transition history.
func (r *ClaimRepository) GetByID(ctx context.Context, id string) (*claim.Claim, error) {
	return r.getOne(ctx, "id = ?", id)
}

// GetByReference loads a claim by its client-supplied reference.
func (r *ClaimRepository) GetByReference(ctx context.Context, reference string) (*claim.Claim, error) {
	return r.getOne(ctx, "reference = ?", reference)
}

func (r *ClaimRepository) getOne(ctx context.Context, where string, arg interface{}) (*claim.Claim, error) {
	query := "SELECT " + claimColumns + " FROM claims WHERE " + where

	row := r.db.QueryRowContext(ctx, query, arg)
	c, err := scanClaim(row)
	if err == sql.ErrNoRows {
		return nil, port.ErrClaimNotFound
	}
	if err != nil {
		r.logger.Error("Failed to load claim", zap.Error(err))
		return nil, fmt.Errorf("load claim: %w", err)
	}

	history, err := r.loadHistory(ctx, c.ID)
	if err != nil {
		r.logger.Error("Failed to load claim history", zap.String("id", c.ID), zap.Error(err))
		return nil, err
	}
	c.History = history

	return c, nil
}

// List returns claims ordered by creation time, newest first. History is
// loaded per claim; listings are small enough that this stays cheap.
func (r *ClaimRepository) List(ctx context.Context, limit, offset int) ([]*claim.Claim, error) {
	query := "SELECT " + claimColumns + " FROM claims ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list claims", zap.Error(err))
		return nil, fmt.Errorf("list claims: %w", err)
	}
	defer rows.Close()

	var claims []*claim.Claim
	for rows.Next() {
		c, err := scanClaim(rows)
		if err != nil {
			return nil, fmt.Errorf("scan claim: %w", err)
		}
		claims = append(claims, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list claims: %w", err)
	}

	for _, c := range claims {
		history, err := r.loadHistory(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		c.History = history
	}

	return claims, nil
}

// AppendTransition persists the claim's new status, decision and override
// fields plus the transition record as one transaction. The status update is
// guarded on expectedStatus so two concurrent transitions from the same prior
// state cannot both commit.
func (r *ClaimRepository) AppendTransition(ctx context.Context, c *claim.Claim, record *claim.StatusTransitionRecord, expectedStatus lifecycle.Status) error {
	err := r.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		rationale, manualReview, amount, currency, regulation := decisionFields(c)

		query := `
			UPDATE claims SET
				status = ?,
				decision_amount = ?, decision_currency = ?, decision_regulation = ?,
				decision_rationale = ?, decision_manual_review = ?,
				override_amount = ?, override_reason = ?,
				updated_at = ?
			WHERE id = ? AND status = ?
		`

		result, err := tx.ExecContext(ctx, query,
			c.Status.String(),
			amount, currency, regulation, rationale, manualReview,
			nullableFloat(c.OverrideAmount), c.OverrideReason,
			c.UpdatedAt,
			c.ID, expectedStatus.String(),
		)
		if err != nil {
			return fmt.Errorf("update claim: %w", err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		if affected == 0 {
			var exists int
			err := tx.QueryRowContext(ctx, "SELECT 1 FROM claims WHERE id = ?", c.ID).Scan(&exists)
			if err == sql.ErrNoRows {
				return port.ErrClaimNotFound
			}
			if err != nil {
				return fmt.Errorf("check claim exists: %w", err)
			}
			return port.ErrConcurrentModification
		}

		return insertTransition(ctx, tx, record)
	})

	if err != nil {
		return err
	}

	return nil
}

func insertTransition(ctx context.Context, tx *sql.Tx, record *claim.StatusTransitionRecord) error {
	query := `
		INSERT INTO claim_transitions (
			claim_id, previous_status, new_status, actor, reason, timestamp
		) VALUES (?, ?, ?, ?, ?, ?)
	`

	var previous interface{}
	if record.PreviousStatus != nil {
		previous = record.PreviousStatus.String()
	}

	result, err := tx.ExecContext(ctx, query,
		record.ClaimID, previous, record.NewStatus.String(),
		record.Actor, record.Reason, record.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert transition: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("transition insert id: %w", err)
	}
	record.ID = id

	return nil
}

func (r *ClaimRepository) loadHistory(ctx context.Context, claimID string) ([]*claim.StatusTransitionRecord, error) {
	query := `
		SELECT id, claim_id, previous_status, new_status, actor, reason, timestamp
		FROM claim_transitions
		WHERE claim_id = ?
		ORDER BY id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, claimID)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	defer rows.Close()

	var records []*claim.StatusTransitionRecord
	for rows.Next() {
		var record claim.StatusTransitionRecord
		var previous sql.NullString

		if err := rows.Scan(&record.ID, &record.ClaimID, &previous,
			&record.NewStatus, &record.Actor, &record.Reason, &record.Timestamp); err != nil {
			return nil, fmt.Errorf("scan transition: %w", err)
		}

		if previous.Valid {
			status := lifecycle.Status(previous.String)
			record.PreviousStatus = &status
		}

		records = append(records, &record)
	}

	return records, rows.Err()
}

// scanner covers both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanClaim(row scanner) (*claim.Claim, error) {
	var (
		c                  claim.Claim
		reference          sql.NullString
		status             string
		category           string
		actualDeparture    sql.NullTime
		actualArrival      sql.NullTime
		decisionAmount     sql.NullFloat64
		decisionCurrency   sql.NullString
		decisionRegulation sql.NullString
		decisionRationale  sql.NullString
		decisionReview     sql.NullBool
		overrideAmount     sql.NullFloat64
	)

	err := row.Scan(
		&c.ID, &reference, &status, &category,
		&c.Facts.DepartureAirport, &c.Facts.ArrivalAirport,
		&c.Facts.ScheduledDeparture, &c.Facts.ScheduledArrival,
		&actualDeparture, &actualArrival,
		&c.Facts.CircumstanceTag,
		&decisionAmount, &decisionCurrency, &decisionRegulation,
		&decisionRationale, &decisionReview,
		&overrideAmount, &c.OverrideReason,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.Reference = reference.String
	c.Status = lifecycle.Status(status)
	c.Facts.Category = claim.DisruptionCategory(category)
	if actualDeparture.Valid {
		t := actualDeparture.Time
		c.Facts.ActualDeparture = &t
	}
	if actualArrival.Valid {
		t := actualArrival.Time
		c.Facts.ActualArrival = &t
	}
	if overrideAmount.Valid {
		v := overrideAmount.Float64
		c.OverrideAmount = &v
	}

	if decisionRegulation.Valid {
		decision := claim.CompensationDecision{
			Amount:               decisionAmount.Float64,
			Currency:             decisionCurrency.String,
			Regulation:           decisionRegulation.String,
			RequiresManualReview: decisionReview.Bool,
		}
		if decisionRationale.Valid && decisionRationale.String != "" {
			if err := json.Unmarshal([]byte(decisionRationale.String), &decision.Rationale); err != nil {
				return nil, fmt.Errorf("decode rationale: %w", err)
			}
		}
		c.Decision = &decision
	}

	return &c, nil
}

// decisionFields flattens the optional decision into nullable columns.
func decisionFields(c *claim.Claim) (rationale, manualReview, amount, currency, regulation interface{}) {
	if c.Decision == nil {
		return nil, nil, nil, nil, nil
	}

	encoded, err := json.Marshal(c.Decision.Rationale)
	if err != nil {
		encoded = []byte("[]")
	}

	return string(encoded), c.Decision.RequiresManualReview,
		c.Decision.Amount, c.Decision.Currency, c.Decision.Regulation
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func nullableTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}

func nullableFloat(f *float64) interface{} {
	if f == nil {
		return nil
	}
	return *f
}
