package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dorothy-center/apiserver/types"
)

// TeamRepository handles persistence for team member profiles.
type TeamRepository struct {
	db *sql.DB
}

func NewTeamRepository(db *sql.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

const teamColumns = `id, name, role, bio, photo_url, sort_order, active, created_at, updated_at`

func scanTeamMember(row interface{ Scan(...any) error }) (types.TeamMember, error) {
	var member types.TeamMember
	err := row.Scan(
		&member.ID,
		&member.Name,
		&member.Role,
		&member.Bio,
		&member.PhotoURL,
		&member.SortOrder,
		&member.Active,
		&member.CreatedAt,
		&member.UpdatedAt,
	)
	return member, err
}

func (r *TeamRepository) List(ctx context.Context, activeOnly bool) ([]types.TeamMember, error) {
	query := `
		SELECT ` + teamColumns + `
		FROM team_members
		WHERE ($1 = FALSE OR active = TRUE)
		ORDER BY sort_order, id`
	rows, err := r.db.QueryContext(ctx, query, activeOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := make([]types.TeamMember, 0)
	for rows.Next() {
		member, err := scanTeamMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return members, nil
}

func (r *TeamRepository) Get(ctx context.Context, id int) (types.TeamMember, error) {
	query := `
		SELECT ` + teamColumns + `
		FROM team_members
		WHERE id = $1`
	member, err := scanTeamMember(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.TeamMember{}, ErrNotFound
		}
		return types.TeamMember{}, err
	}
	return member, nil
}

func (r *TeamRepository) Create(ctx context.Context, member types.TeamMember) (types.TeamMember, error) {
	now := time.Now()
	member.CreatedAt = now
	member.UpdatedAt = now

	const query = `
		INSERT INTO team_members (name, role, bio, photo_url, sort_order, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		member.Name,
		member.Role,
		member.Bio,
		member.PhotoURL,
		member.SortOrder,
		member.Active,
		member.CreatedAt,
		member.UpdatedAt,
	).Scan(&member.ID); err != nil {
		return types.TeamMember{}, err
	}
	return member, nil
}

func (r *TeamRepository) Update(ctx context.Context, member types.TeamMember) (types.TeamMember, error) {
	member.UpdatedAt = time.Now()

	const query = `
		UPDATE team_members
		SET name = $1,
			role = $2,
			bio = $3,
			photo_url = $4,
			sort_order = $5,
			active = $6,
			updated_at = $7
		WHERE id = $8`
	result, err := r.db.ExecContext(
		ctx,
		query,
		member.Name,
		member.Role,
		member.Bio,
		member.PhotoURL,
		member.SortOrder,
		member.Active,
		member.UpdatedAt,
		member.ID,
	)
	if err != nil {
		return types.TeamMember{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.TeamMember{}, err
	}
	if affected == 0 {
		return types.TeamMember{}, ErrNotFound
	}
	return member, nil
}

func (r *TeamRepository) Delete(ctx context.Context, id int) error {
	const query = `DELETE FROM team_members WHERE id = $1`
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

func (r *TeamRepository) Count(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(1) FROM team_members`
	var total int
	if err := r.db.QueryRowContext(ctx, query).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}
