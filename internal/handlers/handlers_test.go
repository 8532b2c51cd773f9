package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dorothy-center/apiserver/internal/mailer"
	"github.com/dorothy-center/apiserver/internal/services"
	"github.com/dorothy-center/apiserver/internal/store"
	"github.com/dorothy-center/apiserver/types"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// In-memory fakes backing the HTTP tests. The router assembled by
// newTestRouter mirrors the production route table so the tests cover
// routing, auth guards and handler logic together.

const testJWTSecret = "test-secret-test-secret-test-secret!"

type memRegistrationRepo struct {
	regs map[string]types.Registration
}

func (f *memRegistrationRepo) Get(_ context.Context, id string) (types.Registration, error) {
	reg, ok := f.regs[id]
	if !ok {
		return types.Registration{}, store.ErrNotFound
	}
	return reg, nil
}

func (f *memRegistrationRepo) GetByToken(_ context.Context, token string) (types.Registration, error) {
	for _, reg := range f.regs {
		if reg.EmailToken == token || reg.ConsumedEmailToken == token {
			return reg, nil
		}
	}
	return types.Registration{}, store.ErrNotFound
}

func (f *memRegistrationRepo) HasActive(_ context.Context, eventID int, email string) (bool, error) {
	for _, reg := range f.regs {
		if reg.EventID == eventID && reg.Email == email && reg.Status != types.RegistrationCancelled {
			return true, nil
		}
	}
	return false, nil
}

func (f *memRegistrationRepo) List(_ context.Context, offset, limit int) ([]types.Registration, int, error) {
	all := make([]types.Registration, 0, len(f.regs))
	for _, reg := range f.regs {
		all = append(all, reg)
	}
	if offset > len(all) {
		offset = len(all)
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], len(f.regs), nil
}

func (f *memRegistrationRepo) Create(_ context.Context, reg types.Registration) (types.Registration, error) {
	reg.CreatedAt = time.Now()
	reg.UpdatedAt = reg.CreatedAt
	f.regs[reg.ID] = reg
	return reg, nil
}

func (f *memRegistrationRepo) Update(_ context.Context, reg types.Registration) (types.Registration, error) {
	if _, ok := f.regs[reg.ID]; !ok {
		return types.Registration{}, store.ErrNotFound
	}
	f.regs[reg.ID] = reg
	return reg, nil
}

func (f *memRegistrationRepo) CountByStatus(_ context.Context) (map[string]int, error) {
	counts := make(map[string]int)
	for _, reg := range f.regs {
		counts[reg.Status]++
	}
	return counts, nil
}

type memEventRepo struct {
	events map[int]types.Event
	nextID int
}

func (f *memEventRepo) List(_ context.Context, filter store.EventFilter) ([]types.Event, error) {
	out := make([]types.Event, 0)
	for _, e := range f.events {
		if filter.Status != "" && e.Status != filter.Status {
			continue
		}
		if filter.Category != "" && e.Category != filter.Category {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (f *memEventRepo) Get(_ context.Context, id int) (types.Event, error) {
	e, ok := f.events[id]
	if !ok {
		return types.Event{}, store.ErrNotFound
	}
	return e, nil
}

func (f *memEventRepo) Create(_ context.Context, e types.Event) (types.Event, error) {
	e.ID = f.nextID
	f.nextID++
	if e.Tags == nil {
		e.Tags = []string{}
	}
	f.events[e.ID] = e
	return e, nil
}

func (f *memEventRepo) Update(_ context.Context, e types.Event) (types.Event, error) {
	if _, ok := f.events[e.ID]; !ok {
		return types.Event{}, store.ErrNotFound
	}
	if e.Tags == nil {
		e.Tags = []string{}
	}
	f.events[e.ID] = e
	return e, nil
}

func (f *memEventRepo) Delete(_ context.Context, id int) error {
	if _, ok := f.events[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.events, id)
	return nil
}

func (f *memEventRepo) Count(_ context.Context, filter store.EventFilter) (int, error) {
	out, _ := f.List(context.Background(), filter)
	return len(out), nil
}

type memUserRepo struct {
	users  map[int]types.User
	nextID int
}

func (f *memUserRepo) GetByID(_ context.Context, id int) (types.User, error) {
	user, ok := f.users[id]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	return user, nil
}

func (f *memUserRepo) GetByEmail(_ context.Context, email string) (types.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (f *memUserRepo) Count(_ context.Context) (int, error) {
	return len(f.users), nil
}

func (f *memUserRepo) Create(_ context.Context, user types.User) (types.User, error) {
	user.ID = f.nextID
	f.nextID++
	f.users[user.ID] = user
	return user, nil
}

func (f *memUserRepo) Update(_ context.Context, user types.User) (types.User, error) {
	if _, ok := f.users[user.ID]; !ok {
		return types.User{}, store.ErrNotFound
	}
	f.users[user.ID] = user
	return user, nil
}

func (f *memUserRepo) Delete(_ context.Context, id int) error {
	if _, ok := f.users[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.users, id)
	return nil
}

type memMailer struct {
	sent []mailer.Message
}

func (f *memMailer) Send(_ context.Context, msg mailer.Message) error {
	f.sent = append(f.sent, msg)
	return nil
}

type memObjectStore struct {
	keys []string
}

func (f *memObjectStore) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	f.keys = append(f.keys, key)
	_, err := io.Copy(io.Discard, r)
	return err
}

func (f *memObjectStore) PublicURL(key string) string {
	return "https://media.example.com/" + key
}

type testEnv struct {
	router   *chi.Mux
	regRepo  *memRegistrationRepo
	events   *memEventRepo
	users    *memUserRepo
	mail     *memMailer
	uploaded *memObjectStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	regRepo := &memRegistrationRepo{regs: make(map[string]types.Registration)}
	eventRepo := &memEventRepo{events: make(map[int]types.Event), nextID: 1}
	userRepo := &memUserRepo{users: make(map[int]types.User), nextID: 1}
	mail := &memMailer{}
	objects := &memObjectStore{}

	userService := services.NewUserService(userRepo)
	eventService := services.NewEventService(eventRepo)
	registrationService := services.NewRegistrationService(
		regRepo, eventRepo, mail, nil,
		"admin@centre-dorothy.fr", "https://api.centre-dorothy.fr", zerolog.Nop(),
	)
	uploadService := services.NewUploadService(objects)

	eventHandler := NewEventHandler(eventService)
	registrationHandler := NewRegistrationHandler(registrationService, "https://centre-dorothy.fr")
	uploadHandler := NewUploadHandler(uploadService)

	router := chi.NewRouter()
	router.NotFound(NotFound)
	router.Get("/health", Health)
	router.Route("/auth", func(r chi.Router) {
		AuthRouter(r, userService, testJWTSecret)
	})
	router.Route("/events", eventHandler.Routes)
	router.Route("/registrations", registrationHandler.Routes)
	router.Route("/admin", func(r chi.Router) {
		r.Use(RequireAuth(testJWTSecret))
		r.Use(RequireAdmin)
		r.Route("/events", eventHandler.AdminRoutes)
		r.Route("/registrations", registrationHandler.AdminRoutes)
		r.Route("/uploads", uploadHandler.AdminRoutes)
	})

	return &testEnv{
		router:   router,
		regRepo:  regRepo,
		events:   eventRepo,
		users:    userRepo,
		mail:     mail,
		uploaded: objects,
	}
}

func (e *testEnv) addEvent(event types.Event) types.Event {
	created, _ := e.events.Create(context.Background(), event)
	return created
}

// adminToken registers the first account, which becomes admin.
func (e *testEnv) adminToken(t *testing.T) string {
	t.Helper()
	resp := e.doJSON(t, http.MethodPost, "/auth/register", "", map[string]string{
		"email":    "admin@centre-dorothy.fr",
		"name":     "Admin",
		"password": "secret123!",
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	var body AuthResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.NotEmpty(t, body.Token)
	return body.Token
}

// loginAdmin signs in with the admin account created by adminToken.
func (e *testEnv) loginAdmin(t *testing.T) string {
	t.Helper()
	resp := e.doJSON(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    "admin@centre-dorothy.fr",
		"password": "secret123!",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var body AuthResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	return body.Token
}

func (e *testEnv) userToken(t *testing.T) string {
	t.Helper()
	// Burn the first slot so the next account is a plain user.
	if len(e.users.users) == 0 {
		e.adminToken(t)
	}
	resp := e.doJSON(t, http.MethodPost, "/auth/register", "", map[string]string{
		"email":    "user@example.com",
		"name":     "User",
		"password": "secret123!",
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	var body AuthResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	return body.Token
}

func (e *testEnv) doJSON(t *testing.T, method, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}
