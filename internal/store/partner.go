package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dorothy-center/apiserver/types"
)

// PartnerRepository handles persistence for partner organizations.
type PartnerRepository struct {
	db *sql.DB
}

func NewPartnerRepository(db *sql.DB) *PartnerRepository {
	return &PartnerRepository{db: db}
}

const partnerColumns = `id, name, logo_url, website, description, active, created_at, updated_at`

func scanPartner(row interface{ Scan(...any) error }) (types.Partner, error) {
	var partner types.Partner
	err := row.Scan(
		&partner.ID,
		&partner.Name,
		&partner.LogoURL,
		&partner.Website,
		&partner.Description,
		&partner.Active,
		&partner.CreatedAt,
		&partner.UpdatedAt,
	)
	return partner, err
}

func (r *PartnerRepository) List(ctx context.Context, activeOnly bool) ([]types.Partner, error) {
	query := `
		SELECT ` + partnerColumns + `
		FROM partners
		WHERE ($1 = FALSE OR active = TRUE)
		ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query, activeOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	partners := make([]types.Partner, 0)
	for rows.Next() {
		partner, err := scanPartner(rows)
		if err != nil {
			return nil, err
		}
		partners = append(partners, partner)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return partners, nil
}

func (r *PartnerRepository) Get(ctx context.Context, id int) (types.Partner, error) {
	query := `
		SELECT ` + partnerColumns + `
		FROM partners
		WHERE id = $1`
	partner, err := scanPartner(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Partner{}, ErrNotFound
		}
		return types.Partner{}, err
	}
	return partner, nil
}

func (r *PartnerRepository) Create(ctx context.Context, partner types.Partner) (types.Partner, error) {
	now := time.Now()
	partner.CreatedAt = now
	partner.UpdatedAt = now

	const query = `
		INSERT INTO partners (name, logo_url, website, description, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		partner.Name,
		partner.LogoURL,
		partner.Website,
		partner.Description,
		partner.Active,
		partner.CreatedAt,
		partner.UpdatedAt,
	).Scan(&partner.ID); err != nil {
		return types.Partner{}, err
	}
	return partner, nil
}

func (r *PartnerRepository) Update(ctx context.Context, partner types.Partner) (types.Partner, error) {
	partner.UpdatedAt = time.Now()

	const query = `
		UPDATE partners
		SET name = $1,
			logo_url = $2,
			website = $3,
			description = $4,
			active = $5,
			updated_at = $6
		WHERE id = $7`
	result, err := r.db.ExecContext(
		ctx,
		query,
		partner.Name,
		partner.LogoURL,
		partner.Website,
		partner.Description,
		partner.Active,
		partner.UpdatedAt,
		partner.ID,
	)
	if err != nil {
		return types.Partner{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Partner{}, err
	}
	if affected == 0 {
		return types.Partner{}, ErrNotFound
	}
	return partner, nil
}

func (r *PartnerRepository) Delete(ctx context.Context, id int) error {
	const query = `DELETE FROM partners WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PartnerRepository) Count(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(1) FROM partners`
	var total int
	if err := r.db.QueryRowContext(ctx, query).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}
