package store

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dorothy-center/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var postTestColumns = []string{
	"id", "title", "excerpt", "content", "image_url", "category", "status", "tags",
	"published_at", "created_at", "updated_at",
}

func postRow(post types.Post) *sqlmock.Rows {
	return sqlmock.NewRows(postTestColumns).AddRow(
		post.ID, post.Title, post.Excerpt, post.Content, post.ImageURL,
		post.Category, post.Status, encodeTags(post.Tags),
		post.PublishedAt, post.CreatedAt, post.UpdatedAt,
	)
}

func TestPostRepositoryTagRoundTrip(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostRepository(db)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO posts`).
		WithArgs(
			"Nouvelle saison", "Le programme", "Tout le détail", "",
			"VIE_LOCALE", types.PostStatusPublished,
			[]byte(`["a","b"]`),
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
		).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))

	created, err := repo.Create(context.Background(), types.Post{
		Title:       "Nouvelle saison",
		Excerpt:     "Le programme",
		Content:     "Tout le détail",
		Category:    "VIE_LOCALE",
		Status:      types.PostStatusPublished,
		Tags:        []string{"a", "b"},
		PublishedAt: &now,
	})
	require.NoError(t, err)
	require.Equal(t, 3, created.ID)

	mock.ExpectQuery(`SELECT (.+) FROM posts\s+WHERE id = \$1`).
		WithArgs(3).
		WillReturnRows(postRow(created))

	got, err := repo.Get(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got.Tags)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepositoryGetNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostRepository(db)

	mock.ExpectQuery(`SELECT (.+) FROM posts\s+WHERE id = \$1`).
		WithArgs(404).
		WillReturnRows(sqlmock.NewRows(postTestColumns))

	_, err = repo.Get(context.Background(), 404)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
