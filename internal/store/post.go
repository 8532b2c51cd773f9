package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dorothy-center/apiserver/types"
)

// PostRepository handles persistence for news posts.
type PostRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) *PostRepository {
	return &PostRepository{db: db}
}

const postColumns = `id, title, excerpt, content, image_url, category, status, tags,
		published_at, created_at, updated_at`

func scanPost(row interface{ Scan(...any) error }) (types.Post, error) {
	var post types.Post
	var tagsJSON []byte
	err := row.Scan(
		&post.ID,
		&post.Title,
		&post.Excerpt,
		&post.Content,
		&post.ImageURL,
		&post.Category,
		&post.Status,
		&tagsJSON,
		&post.PublishedAt,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	if err != nil {
		return types.Post{}, err
	}
	post.Tags = decodeTags(tagsJSON)
	return post, nil
}

func (r *PostRepository) List(ctx context.Context, status, category string) ([]types.Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts
		WHERE ($1 = '' OR status = $1)
		  AND ($2 = '' OR category = $2)
		ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, status, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := make([]types.Post, 0)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *PostRepository) Get(ctx context.Context, id int) (types.Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts
		WHERE id = $1`
	post, err := scanPost(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Post{}, ErrNotFound
		}
		return types.Post{}, err
	}
	return post, nil
}

func (r *PostRepository) Create(ctx context.Context, post types.Post) (types.Post, error) {
	now := time.Now()
	post.CreatedAt = now
	post.UpdatedAt = now
	if post.Tags == nil {
		post.Tags = []string{}
	}

	const query = `
		INSERT INTO posts (title, excerpt, content, image_url, category, status, tags,
			published_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		post.Title,
		post.Excerpt,
		post.Content,
		post.ImageURL,
		post.Category,
		post.Status,
		encodeTags(post.Tags),
		post.PublishedAt,
		post.CreatedAt,
		post.UpdatedAt,
	).Scan(&post.ID); err != nil {
		return types.Post{}, err
	}
	return post, nil
}

func (r *PostRepository) Update(ctx context.Context, post types.Post) (types.Post, error) {
	post.UpdatedAt = time.Now()
	if post.Tags == nil {
		post.Tags = []string{}
	}

	const query = `
		UPDATE posts
		SET title = $1,
			excerpt = $2,
			content = $3,
			image_url = $4,
			category = $5,
			status = $6,
			tags = $7,
			published_at = $8,
			updated_at = $9
		WHERE id = $10`
	result, err := r.db.ExecContext(
		ctx,
		query,
		post.Title,
		post.Excerpt,
		post.Content,
		post.ImageURL,
		post.Category,
		post.Status,
		encodeTags(post.Tags),
		post.PublishedAt,
		post.UpdatedAt,
		post.ID,
	)
	if err != nil {
		return types.Post{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Post{}, err
	}
	if affected == 0 {
		return types.Post{}, ErrNotFound
	}
	return post, nil
}

func (r *PostRepository) Delete(ctx context.Context, id int) error {
	const query = `DELETE FROM posts WHERE id = $1`
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

func (r *PostRepository) Count(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(1) FROM posts`
	var total int
	if err := r.db.QueryRowContext(ctx, query).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}
