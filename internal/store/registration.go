package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dorothy-center/apiserver/types"
)

// RegistrationRepository handles persistence for event registrations.
type RegistrationRepository struct {
	db *sql.DB
}

func NewRegistrationRepository(db *sql.DB) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

const registrationColumns = `id, first_name, last_name, email, phone, message, event_id, status,
		email_token, email_token_expiry, consumed_email_token, email_confirmed_at,
		admin_approved_at, admin_approved_by, created_at, updated_at`

func scanRegistration(row interface{ Scan(...any) error }) (types.Registration, error) {
	var reg types.Registration
	var token, consumedToken sql.NullString
	err := row.Scan(
		&reg.ID,
		&reg.FirstName,
		&reg.LastName,
		&reg.Email,
		&reg.Phone,
		&reg.Message,
		&reg.EventID,
		&reg.Status,
		&token,
		&reg.EmailTokenExpiry,
		&consumedToken,
		&reg.EmailConfirmedAt,
		&reg.AdminApprovedAt,
		&reg.AdminApprovedBy,
		&reg.CreatedAt,
		&reg.UpdatedAt,
	)
	if err != nil {
		return types.Registration{}, err
	}
	reg.EmailToken = token.String
	reg.ConsumedEmailToken = consumedToken.String
	return reg, nil
}

func (r *RegistrationRepository) Get(ctx context.Context, id string) (types.Registration, error) {
	query := `
		SELECT ` + registrationColumns + `
		FROM registrations
		WHERE id = $1`
	reg, err := scanRegistration(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Registration{}, ErrNotFound
		}
		return types.Registration{}, err
	}
	return reg, nil
}

// GetByToken matches live tokens and consumed ones, so a replayed
// confirmation link still resolves to its registration.
func (r *RegistrationRepository) GetByToken(ctx context.Context, token string) (types.Registration, error) {
	query := `
		SELECT ` + registrationColumns + `
		FROM registrations
		WHERE email_token = $1 OR consumed_email_token = $1`
	reg, err := scanRegistration(r.db.QueryRowContext(ctx, query, token))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Registration{}, ErrNotFound
		}
		return types.Registration{}, err
	}
	return reg, nil
}

// HasActive reports whether a non-cancelled registration exists for
// the (event, email) pair. The check is read-then-insert, not a
// database constraint; concurrent duplicate submissions can slip
// through the gap.
func (r *RegistrationRepository) HasActive(ctx context.Context, eventID int, email string) (bool, error) {
	const query = `
		SELECT COUNT(1) FROM registrations
		WHERE event_id = $1 AND email = $2 AND status <> $3`
	var count int
	if err := r.db.QueryRowContext(ctx, query, eventID, email, types.RegistrationCancelled).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// List returns registrations newest first, joined with the parent
// event's title, date and location for admin display.
func (r *RegistrationRepository) List(ctx context.Context, offset, limit int) ([]types.Registration, int, error) {
	if offset < 0 {
		offset = 0
	}
	if limit < 1 {
		limit = 20
	}

	const countQuery = `SELECT COUNT(1) FROM registrations`
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery).Scan(&total); err != nil {
		return nil, 0, err
	}

	const listQuery = `
		SELECT r.id, r.first_name, r.last_name, r.email, r.phone, r.message, r.event_id, r.status,
		       r.email_confirmed_at, r.admin_approved_at, r.admin_approved_by, r.created_at, r.updated_at,
		       e.title, e.date, e.location
		FROM registrations r
		JOIN events e ON e.id = r.event_id
		ORDER BY r.created_at DESC
		OFFSET $1 LIMIT $2`
	rows, err := r.db.QueryContext(ctx, listQuery, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	regs := make([]types.Registration, 0, limit)
	for rows.Next() {
		var reg types.Registration
		if err := rows.Scan(
			&reg.ID,
			&reg.FirstName,
			&reg.LastName,
			&reg.Email,
			&reg.Phone,
			&reg.Message,
			&reg.EventID,
			&reg.Status,
			&reg.EmailConfirmedAt,
			&reg.AdminApprovedAt,
			&reg.AdminApprovedBy,
			&reg.CreatedAt,
			&reg.UpdatedAt,
			&reg.EventTitle,
			&reg.EventDate,
			&reg.EventLocation,
		); err != nil {
			return nil, 0, err
		}
		regs = append(regs, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return regs, total, nil
}

func (r *RegistrationRepository) Create(ctx context.Context, reg types.Registration) (types.Registration, error) {
	now := time.Now()
	reg.CreatedAt = now
	reg.UpdatedAt = now

	const query = `
		INSERT INTO registrations (id, first_name, last_name, email, phone, message, event_id, status,
			email_token, email_token_expiry, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	if _, err := r.db.ExecContext(
		ctx,
		query,
		reg.ID,
		reg.FirstName,
		reg.LastName,
		reg.Email,
		reg.Phone,
		reg.Message,
		reg.EventID,
		reg.Status,
		nullString(reg.EmailToken),
		reg.EmailTokenExpiry,
		reg.CreatedAt,
		reg.UpdatedAt,
	); err != nil {
		return types.Registration{}, err
	}
	return reg, nil
}

// Update rewrites the lifecycle fields of a registration. Identity
// fields (names, email, event) never change after creation.
func (r *RegistrationRepository) Update(ctx context.Context, reg types.Registration) (types.Registration, error) {
	reg.UpdatedAt = time.Now()

	const query = `
		UPDATE registrations
		SET status = $1,
			email_token = $2,
			email_token_expiry = $3,
			consumed_email_token = $4,
			email_confirmed_at = $5,
			admin_approved_at = $6,
			admin_approved_by = $7,
			updated_at = $8
		WHERE id = $9`
	result, err := r.db.ExecContext(
		ctx,
		query,
		reg.Status,
		nullString(reg.EmailToken),
		reg.EmailTokenExpiry,
		nullString(reg.ConsumedEmailToken),
		reg.EmailConfirmedAt,
		reg.AdminApprovedAt,
		reg.AdminApprovedBy,
		reg.UpdatedAt,
		reg.ID,
	)
	if err != nil {
		return types.Registration{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Registration{}, err
	}
	if affected == 0 {
		return types.Registration{}, ErrNotFound
	}
	return reg, nil
}

func (r *RegistrationRepository) CountByStatus(ctx context.Context) (map[string]int, error) {
	const query = `SELECT status, COUNT(1) FROM registrations GROUP BY status`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
