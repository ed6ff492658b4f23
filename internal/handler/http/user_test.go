package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/movieplatform/user-service/internal/domain"
	"github.com/movieplatform/user-service/internal/event"
	"github.com/movieplatform/user-service/internal/service"
	apperrors "github.com/movieplatform/user-service/pkg/errors"
	pkgkafka "github.com/movieplatform/user-service/pkg/kafka"
)

// ============================================================================
// Mock Repository
// ============================================================================

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) (int64, error) {
	args := m.Called(ctx, user)
	id := args.Get(0).(int64)
	if args.Error(1) == nil {
		user.ID = id
	}
	return id, args.Error(1)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) GetAll(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *mockUserRepo) GetByCity(ctx context.Context, city string) ([]domain.User, error) {
	args := m.Called(ctx, city)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *mockUserRepo) GetByState(ctx context.Context, state string) ([]domain.User, error) {
	args := m.Called(ctx, state)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *mockUserRepo) GetByCountry(ctx context.Context, country string) ([]domain.User, error) {
	args := m.Called(ctx, country)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *mockUserRepo) GetAllCreatedAfter(ctx context.Context, after time.Time) ([]domain.User, error) {
	args := m.Called(ctx, after)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *mockUserRepo) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockUserRepo) Exists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

// ============================================================================
// Test Helpers
// ============================================================================

func userTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func userTestOptions(t *testing.T) domain.Options {
	t.Helper()
	rule := func(min, max int) domain.LengthRule {
		r, err := domain.NewLengthRule(min, max)
		require.NoError(t, err)
		return r
	}
	return domain.Options{
		Name:           rule(2, 200),
		Username:       rule(3, 50),
		Email:          rule(5, 254),
		Street:         rule(5, 200),
		City:           rule(2, 100),
		State:          rule(2, 100),
		Country:        rule(2, 100),
		PhonePattern:   regexp.MustCompile(`^\+?[1-9]\d{1,14}$`),
		ZipCodePattern: regexp.MustCompile(`^\d{5}-?\d{3}$`),
		LaunchDate:     time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func userTestHandler(t *testing.T, repo *mockUserRepo) *UserHandler {
	t.Helper()
	logger := userTestLogger()
	kafkaCfg := pkgkafka.DefaultProducerConfig([]string{"localhost:19092"})
	producer := event.NewProducer(pkgkafka.NewProducer(kafkaCfg, logger), logger)
	svc := service.NewUserService(repo, userTestOptions(t), producer, logger)
	return NewUserHandler(svc)
}

// setupRouter mirrors the production route table without the cross-cutting
// middleware stack.
func setupRouter(handler *UserHandler) *chi.Mux {
	r := chi.NewRouter()
	r.Route("/api/v1/users", func(r chi.Router) {
		r.Get("/", handler.List)
		r.Post("/", handler.Create)
		r.Get("/search", handler.Search)
		r.Get("/created-after-date", handler.ListCreatedAfter)
		r.Get("/email/{email}", handler.GetByEmail)
		r.Get("/username/{username}", handler.GetByUsername)
		r.Get("/{id}", handler.GetByID)
		r.Put("/{id}", handler.Update)
		r.Delete("/{id}", handler.Delete)
		r.Post("/{id}/login", handler.RecordLogin)
	})
	return r
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) response {
	t.Helper()
	var resp response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func sampleActiveUser(id int64) *domain.User {
	return &domain.User{
		ID:       id,
		Name:     "Alice Smith",
		Username: "alice",
		Email:    "alice@example.com",
		Phone:    "+5511987654321",
		Address: domain.Address{
			Street:  "100 Main Street",
			City:    "Springfield",
			State:   "Illinois",
			ZipCode: "62704-001",
			Country: "USA",
		},
		CreatedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		IsActive:  true,
	}
}

func validCreateBody() map[string]any {
	return map[string]any{
		"name":     "Alice Smith",
		"username": "alice",
		"email":    "alice@example.com",
		"phone":    "+5511987654321",
		"street":   "100 Main Street",
		"city":     "Springfield",
		"state":    "Illinois",
		"zip_code": "62704-001",
		"country":  "USA",
	}
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	buf := new(bytes.Buffer)
	require.NoError(t, json.NewEncoder(buf).Encode(v))
	return buf
}

// ============================================================================
// Create Tests
// ============================================================================

func TestCreateUser_Success(t *testing.T) {
	repo := new(mockUserRepo)
	router := setupRouter(userTestHandler(t, repo))

	repo.On("EmailExists", mock.Anything, "alice@example.com").Return(false, nil)
	repo.On("UsernameExists", mock.Anything, "alice").Return(false, nil)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).Return(int64(42), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users", jsonBody(t, validCreateBody()))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Data)
	data := resp.Data.(map[string]any)
	assert.Equal(t, float64(42), data["id"])
	assert.Equal(t, "alice", data["username"])
	repo.AssertExpectations(t)
}

func TestCreateUser_InvalidBody(t *testing.T) {
	repo := new(mockUserRepo)
	router := setupRouter(userTestHandler(t, repo))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_INPUT", resp.Error.Code)
}

func TestCreateUser_MissingFields(t *testing.T) {
	repo := new(mockUserRepo)
	router := setupRouter(userTestHandler(t, repo))

	body := validCreateBody()
	delete(body, "email")
	delete(body, "city")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users", jsonBody(t, body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.NotEmpty(t, resp.Error.Fields)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateUser_Conflict_ReportsBothFields(t *testing.T) {
	repo := new(mockUserRepo)
	router := setupRouter(userTestHandler(t, repo))

	repo.On("EmailExists", mock.Anything, "alice@example.com").Return(true, nil)
	repo.On("UsernameExists", mock.Anything, "alice").Return(true, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users", jsonBody(t, validCreateBody()))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "CONFLICT", resp.Error.Code)
	assert.Len(t, resp.Error.Details, 2)
}

// ============================================================================
// Read Tests
// ============================================================================

func TestListUsers_Success(t *testing.T) {
	repo := new(mockUserRepo)
	router := setupRouter(userTestHandler(t, repo))

	repo.On("GetAll", mock.Anything).Return([]domain.User{*sampleActiveUser(1), *sampleActiveUser(2)}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Len(t, resp.Data, 2)
}

func TestGetUserByID_Success(t *testing.T) {
	repo := new(mockUserRepo)
	router := setupRouter(userTestHandler(t, repo))

	repo.On("GetByID", mock.Anything, int64(42)).Return(sampleActiveUser(42), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/42", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	data := resp.Data.(map[string]any)
	assert.Equal(t, "alice", data["username"])
}

func TestGetUserByID_NotFound(t *testing.T) {
	repo := new(mockUserRepo)
	router := setupRouter(userTestHandler(t, repo))

	repo.On("GetByID", mock.Anything, int64(999)).Return(nil, apperrors.ErrNotFound)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/999", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
}

func TestGetUserByID_InvalidID(t *testing.T) {
	repo := new(mockUserRepo)
	router := setupRouter(userTestHandler(t, repo))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/abc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestGetUserByEmail_Success(t *testing.T) {
	repo := new(mockUserRepo)
	router := setupRouter(userTestHandler(t, repo))

	repo.On("GetByEmail", mock.Anything, "alice@example.com").Return(sampleActiveUser(42), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/email/alice@example.com", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetUserByUsername_NotFound(t *testing.T) {
	repo := new(mockUserRepo)
	router := setupRouter(userTestHandler(t, repo))

	repo.On("GetByUsername", mock.Anything, "ghost").Return(nil, apperrors.ErrNotFound)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/username/ghost", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// ============================================================================
// Search Tests
// ============================================================================

func TestSearchUsers_ByUsername(t *testing.T) {
	repo := new(mockUserRepo)
	router := setupRouter(userTestHandler(t, repo))

	repo.On("GetByUsername", mock.Anything, "alice").Return(sampleActiveUser(42), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/search?username=alice", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Len(t, resp.Data, 1)
}

func TestSearchUsers_NoFilters_ValidationError(t *testing.T) {
	repo := new(mockUserRepo)
	router := setupRouter(userTestHandler(t, repo))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/search", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.Contains(t, resp.Error.Details, "at least one filter must be provided")
	repo.AssertNotCalled(t, "GetAll", mock.Anything)
}

func TestSearchUsers_ByStartDate(t *testing.T) {
	repo := new(mockUserRepo)
	router := setupRouter(userTestHandler(t, repo))

	after := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	repo.On("GetAllCreatedAfter", mock.Anything, after).Return([]domain.User{*sampleActiveUser(42)}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/search?start_date=2024-01-01", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	repo.AssertExpectations(t)
}

func TestSearchUsers_MalformedStartDate(t *testing.T) {
	repo := new(mockUserRepo)
	router := setupRouter(userTestHandler(t, repo))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/search?start_date=yesterday", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_INPUT", resp.Error.Code)
}

func TestSearchUsers_MultipleFilters_FirstWins(t *testing.T) {
	repo := new(mockUserRepo)
	router := setupRouter(userTestHandler(t, repo))

	repo.On("GetByUsername", mock.Anything, "alice").Return(sampleActiveUser(42), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/search?username=alice&city=Springfield", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	repo.AssertNotCalled(t, "GetByCity", mock.Anything, mock.Anything)
}

// ============================================================================
// Created-After-Date Tests
// ============================================================================

func TestListCreatedAfter_Success(t *testing.T) {
	repo := new(mockUserRepo)
	router := setupRouter(userTestHandler(t, repo))

	after := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	repo.On("GetAllCreatedAfter", mock.Anything, after).Return([]domain.User{*sampleActiveUser(42)}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/created-after-date?date=2024-06-01", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	repo.AssertExpectations(t)
}

func TestListCreatedAfter_MissingDate(t *testing.T) {
	repo := new(mockUserRepo)
	router := setupRouter(userTestHandler(t, repo))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/created-after-date", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	repo.AssertNotCalled(t, "GetAllCreatedAfter", mock.Anything, mock.Anything)
}

// ============================================================================
// Update / Login / Delete Tests
// ============================================================================

func TestUpdateUser_Success(t *testing.T) {
	repo := new(mockUserRepo)
	router := setupRouter(userTestHandler(t, repo))

	existing := sampleActiveUser(42)
	repo.On("GetByID", mock.Anything, int64(42)).Return(existing, nil)
	repo.On("Update", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)

	body := validCreateBody()
	body["name"] = "Alice Jones"

	req := httptest.NewRequest(http.MethodPut, "/api/v1/users/42", jsonBody(t, body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	data := resp.Data.(map[string]any)
	assert.Equal(t, "Alice Jones", data["name"])
	repo.AssertExpectations(t)
}

func TestRecordLogin_Success(t *testing.T) {
	repo := new(mockUserRepo)
	router := setupRouter(userTestHandler(t, repo))

	existing := sampleActiveUser(42)
	repo.On("GetByID", mock.Anything, int64(42)).Return(existing, nil)
	repo.On("Update", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/42/login", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	repo.AssertExpectations(t)
}

func TestDeleteUser_Success(t *testing.T) {
	repo := new(mockUserRepo)
	router := setupRouter(userTestHandler(t, repo))

	repo.On("Exists", mock.Anything, int64(42)).Return(true, nil)
	repo.On("Delete", mock.Anything, int64(42)).Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/users/42", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	data := resp.Data.(map[string]any)
	assert.Equal(t, "deactivated", data["status"])
	repo.AssertExpectations(t)
}

func TestDeleteUser_NotFound(t *testing.T) {
	repo := new(mockUserRepo)
	router := setupRouter(userTestHandler(t, repo))

	repo.On("Exists", mock.Anything, int64(999)).Return(false, nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/users/999", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
