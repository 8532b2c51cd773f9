package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dorothy-center/apiserver/types"
)

// GalleryRepository handles persistence for gallery images.
type GalleryRepository struct {
	db *sql.DB
}

func NewGalleryRepository(db *sql.DB) *GalleryRepository {
	return &GalleryRepository{db: db}
}

const galleryColumns = `id, title, image_url, category, sort_order, tags, created_at, updated_at`

func scanGalleryImage(row interface{ Scan(...any) error }) (types.GalleryImage, error) {
	var image types.GalleryImage
	var rawTags []byte
	err := row.Scan(
		&image.ID,
		&image.Title,
		&image.ImageURL,
		&image.Category,
		&image.SortOrder,
		&rawTags,
		&image.CreatedAt,
		&image.UpdatedAt,
	)
	if err != nil {
		return types.GalleryImage{}, err
	}
	image.Tags = decodeTags(rawTags)
	return image, nil
}

func (r *GalleryRepository) List(ctx context.Context, category string) ([]types.GalleryImage, error) {
	query := `
		SELECT ` + galleryColumns + `
		FROM gallery_images
		WHERE ($1 = '' OR category = $1)
		ORDER BY sort_order, id`
	rows, err := r.db.QueryContext(ctx, query, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	images := make([]types.GalleryImage, 0)
	for rows.Next() {
		image, err := scanGalleryImage(rows)
		if err != nil {
			return nil, err
		}
		images = append(images, image)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return images, nil
}

func (r *GalleryRepository) Get(ctx context.Context, id int) (types.GalleryImage, error) {
	query := `
		SELECT ` + galleryColumns + `
		FROM gallery_images
		WHERE id = $1`
	image, err := scanGalleryImage(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.GalleryImage{}, ErrNotFound
		}
		return types.GalleryImage{}, err
	}
	return image, nil
}

func (r *GalleryRepository) Create(ctx context.Context, image types.GalleryImage) (types.GalleryImage, error) {
	now := time.Now()
	image.CreatedAt = now
	image.UpdatedAt = now
	if image.Tags == nil {
		image.Tags = []string{}
	}

	const query = `
		INSERT INTO gallery_images (title, image_url, category, sort_order, tags, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		image.Title,
		image.ImageURL,
		image.Category,
		image.SortOrder,
		encodeTags(image.Tags),
		image.CreatedAt,
		image.UpdatedAt,
	).Scan(&image.ID); err != nil {
		return types.GalleryImage{}, err
	}
	return image, nil
}

func (r *GalleryRepository) Update(ctx context.Context, image types.GalleryImage) (types.GalleryImage, error) {
	image.UpdatedAt = time.Now()
	if image.Tags == nil {
		image.Tags = []string{}
	}

	const query = `
		UPDATE gallery_images
		SET title = $1,
			image_url = $2,
			category = $3,
			sort_order = $4,
			tags = $5,
			updated_at = $6
		WHERE id = $7`
	result, err := r.db.ExecContext(
		ctx,
		query,
		image.Title,
		image.ImageURL,
		image.Category,
		image.SortOrder,
		encodeTags(image.Tags),
		image.UpdatedAt,
		image.ID,
	)
	if err != nil {
		return types.GalleryImage{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.GalleryImage{}, err
	}
	if affected == 0 {
		return types.GalleryImage{}, ErrNotFound
	}
	return image, nil
}

func (r *GalleryRepository) Delete(ctx context.Context, id int) error {
	const query = `DELETE FROM gallery_images WHERE id = $1`
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

func (r *GalleryRepository) Count(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(1) FROM gallery_images`
	var total int
	if err := r.db.QueryRowContext(ctx, query).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}
