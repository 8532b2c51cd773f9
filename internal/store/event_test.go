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

var eventTestColumns = []string{
	"id", "title", "description", "content", "date", "time", "location", "image_url",
	"category", "status", "featured", "max_participants", "tags", "created_by",
	"created_at", "updated_at",
}

func eventRow(event types.Event) *sqlmock.Rows {
	return sqlmock.NewRows(eventTestColumns).AddRow(
		event.ID, event.Title, event.Description, event.Content,
		event.Date, event.Time, event.Location, event.ImageURL,
		event.Category, event.Status, event.Featured, event.MaxParticipants,
		encodeTags(event.Tags), event.CreatedBy,
		event.CreatedAt, event.UpdatedAt,
	)
}

func TestEventRepositoryGetDecodesTags(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewEventRepository(db)
	now := time.Now()
	want := types.Event{
		ID:        7,
		Title:     "Atelier poterie",
		Date:      "2026-10-12",
		Location:  "Salle B",
		Category:  "ATELIER",
		Status:    types.EventStatusPublished,
		Tags:      []string{"famille", "gratuit"},
		CreatedAt: now,
		UpdatedAt: now,
	}

	mock.ExpectQuery(`SELECT (.+) FROM events\s+WHERE id = \$1`).
		WithArgs(7).
		WillReturnRows(eventRow(want))

	got, err := repo.Get(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, []string{"famille", "gratuit"}, got.Tags)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepositoryGetNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewEventRepository(db)

	mock.ExpectQuery(`SELECT (.+) FROM events\s+WHERE id = \$1`).
		WithArgs(404).
		WillReturnRows(sqlmock.NewRows(eventTestColumns))

	_, err = repo.Get(context.Background(), 404)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepositoryListFilters(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewEventRepository(db)

	mock.ExpectQuery(`SELECT (.+) FROM events`).
		WithArgs(types.EventStatusPublished, "ATELIER").
		WillReturnRows(eventRow(types.Event{
			ID:       7,
			Title:    "Atelier poterie",
			Category: "ATELIER",
			Status:   types.EventStatusPublished,
		}))

	events, err := repo.List(context.Background(), EventFilter{
		Status:   types.EventStatusPublished,
		Category: "ATELIER",
	})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Atelier poterie", events[0].Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepositoryCreateEncodesTags(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewEventRepository(db)

	mock.ExpectQuery(`INSERT INTO events`).
		WithArgs(
			"Atelier poterie", "Initiation", "", "2026-10-12", "14:00", "Salle B", "",
			"ATELIER", types.EventStatusDraft, false, 0,
			[]byte(`["famille","gratuit"]`), 1,
			sqlmock.AnyArg(), sqlmock.AnyArg(),
		).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	created, err := repo.Create(context.Background(), types.Event{
		Title:       "Atelier poterie",
		Description: "Initiation",
		Date:        "2026-10-12",
		Time:        "14:00",
		Location:    "Salle B",
		Category:    "ATELIER",
		Status:      types.EventStatusDraft,
		Tags:        []string{"famille", "gratuit"},
		CreatedBy:   1,
	})
	require.NoError(t, err)
	assert.Equal(t, 7, created.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepositoryDeleteNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewEventRepository(db)

	mock.ExpectExec(`DELETE FROM events WHERE id = \$1`).
		WithArgs(404).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), 404), ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDecodeTagsFallsBackToEmpty(t *testing.T) {
	assert.Equal(t, []string{}, decodeTags([]byte(`not json`)))
	assert.Equal(t, []string{}, decodeTags(nil))
	assert.Equal(t, []string{}, decodeTags([]byte(`null`)))
	assert.Equal(t, []string{"a"}, decodeTags([]byte(`["a"]`)))
}

func TestEncodeTagsNilBecomesEmptyList(t *testing.T) {
	assert.Equal(t, []byte(`[]`), encodeTags(nil))
	assert.Equal(t, []byte(`["a","b"]`), encodeTags([]string{"a", "b"}))
}
