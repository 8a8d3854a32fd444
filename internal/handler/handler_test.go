package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/vacancy-diary/tracker/backend/internal/access"
	"github.com/vacancy-diary/tracker/backend/internal/config"
	"github.com/vacancy-diary/tracker/backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// fakeRepository держит пользователей и вакансии в памяти и повторяет
// контракт настоящего repository: sql.ErrNoRows на промахах и
// pgconn.PgError с именем нарушенного ограничения на конфликтах.
type fakeRepository struct {
	users     map[string]*domain.User    // ключ — login
	vacancies map[string]*domain.Vacancy // ключ — id
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		users:     make(map[string]*domain.User),
		vacancies: make(map[string]*domain.Vacancy),
	}
}

func (f *fakeRepository) CreateUser(user *domain.User) error {
	if _, ok := f.users[user.Login]; ok {
		return &pgconn.PgError{Code: "23505", ConstraintName: "users_login_key"}
	}
	if user.UserType == domain.UserTypeTeacher {
		for _, u := range f.users {
			if u.UserType == domain.UserTypeTeacher {
				return &pgconn.PgError{Code: "23505", ConstraintName: "users_single_teacher_idx"}
			}
		}
	}
	if user.Email != "" {
		for _, u := range f.users {
			if u.Email == user.Email {
				return &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
			}
		}
	}

	user.CreatedAt = time.Now()
	cp := *user
	f.users[user.Login] = &cp
	return nil
}

func (f *fakeRepository) GetUserByLogin(login string) (*domain.User, error) {
	user, ok := f.users[login]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *user
	return &cp, nil
}

func (f *fakeRepository) GetAllStudents() ([]*domain.User, error) {
	students := make([]*domain.User, 0)
	for _, user := range f.users {
		if user.UserType == domain.UserTypeStudent {
			cp := *user
			cp.PasswordHash = ""
			students = append(students, &cp)
		}
	}
	return students, nil
}

func (f *fakeRepository) UpdateUserPassword(user *domain.User) error {
	for _, u := range f.users {
		if u.ID == user.ID {
			u.PasswordHash = user.PasswordHash
			return nil
		}
	}
	return sql.ErrNoRows
}

func (f *fakeRepository) CreateVacancy(v *domain.Vacancy) error {
	v.CreatedAt = time.Now()
	cp := *v
	f.vacancies[v.ID] = &cp
	return nil
}

func (f *fakeRepository) GetVacancies(q access.ListQuery) ([]*domain.Vacancy, error) {
	vacancies := make([]*domain.Vacancy, 0)
	for _, v := range f.vacancies {
		if q.StudentID != "" && v.StudentID != q.StudentID {
			continue
		}
		if q.Status != "" && v.Status != q.Status {
			continue
		}
		cp := *v
		vacancies = append(vacancies, &cp)
	}
	return vacancies, nil
}

func (f *fakeRepository) GetVacancyForStudent(t access.MutationTarget) (*domain.Vacancy, error) {
	v, ok := f.vacancies[t.VacancyID]
	if !ok || v.StudentID != t.StudentID {
		return nil, sql.ErrNoRows
	}
	cp := *v
	return &cp, nil
}

func (f *fakeRepository) UpdateVacancy(v *domain.Vacancy) error {
	stored, ok := f.vacancies[v.ID]
	if !ok || stored.StudentID != v.StudentID {
		return sql.ErrNoRows
	}
	cp := *v
	cp.CreatedAt = stored.CreatedAt
	f.vacancies[v.ID] = &cp
	return nil
}

func (f *fakeRepository) DeleteVacancy(t access.MutationTarget) error {
	v, ok := f.vacancies[t.VacancyID]
	if !ok || v.StudentID != t.StudentID {
		return sql.ErrNoRows
	}
	delete(f.vacancies, t.VacancyID)
	return nil
}

// fakeOTPStore повторяет контракт repository.OTPStore: redis.Nil на
// промахе; err, если задан, возвращается из всех операций.
type fakeOTPStore struct {
	codes map[string]string
	err   error
}

func newFakeOTPStore() *fakeOTPStore {
	return &fakeOTPStore{codes: make(map[string]string)}
}

func (f *fakeOTPStore) SaveOTP(ctx context.Context, login, otp string, ttl time.Duration) error {
	if f.err != nil {
		return f.err
	}
	f.codes[login] = otp
	return nil
}

func (f *fakeOTPStore) GetOTP(ctx context.Context, login string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	otp, ok := f.codes[login]
	if !ok {
		return "", redis.Nil
	}
	return otp, nil
}

func (f *fakeOTPStore) DeleteOTP(ctx context.Context, login string) error {
	if f.err != nil {
		return f.err
	}
	delete(f.codes, login)
	return nil
}

func newTestHandler(t *testing.T) (*Handler, *fakeRepository) {
	h, repo, _ := newTestHandlerWithOTP(t)
	return h, repo
}

func newTestHandlerWithOTP(t *testing.T) (*Handler, *fakeRepository, *fakeOTPStore) {
	t.Helper()

	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.Expiration = 3600
	cfg.OTP.Expiration = 900

	repo := newFakeRepository()
	otpStore := newFakeOTPStore()
	h, err := NewHandler(cfg, repo, nil, otpStore)
	require.NoError(t, err)
	h.RegisterRoutes()

	return h, repo, otpStore
}

func seedUser(t *testing.T, repo *fakeRepository, id, login, password string, userType domain.UserType) *domain.User {
	t.Helper()

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user := &domain.User{
		ID:           id,
		UserType:     userType,
		Login:        login,
		PasswordHash: string(passwordHash),
	}
	require.NoError(t, repo.CreateUser(user))

	return user
}

func authToken(t *testing.T, h *Handler, userID string, userType domain.UserType) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, AuthClaims{
		UserType: string(userType),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			Subject:   userID,
		},
	})
	ss, err := token.SignedString([]byte(h.config.JWT.Secret))
	require.NoError(t, err)

	return ss
}

func doRequest(t *testing.T, h *Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	h.Mux.ServeHTTP(rec, req)

	return rec
}

type testResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) testResponse {
	t.Helper()

	var resp testResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	return resp
}

func TestAuthMiddleware(t *testing.T) {
	h, _ := newTestHandler(t)

	t.Run("без токена", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodGet, "/api/vacancies", "", nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("мусор вместо токена", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodGet, "/api/vacancies", "not-a-jwt", nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("токен с чужой подписью", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, AuthClaims{
			UserType: string(domain.UserTypeStudent),
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
				Subject:   "s1",
			},
		})
		ss, err := token.SignedString([]byte("other-secret"))
		require.NoError(t, err)

		rec := doRequest(t, h, http.MethodGet, "/api/vacancies", ss, nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("просроченный токен", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, AuthClaims{
			UserType: string(domain.UserTypeStudent),
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
				Subject:   "s1",
			},
		})
		ss, err := token.SignedString([]byte(h.config.JWT.Secret))
		require.NoError(t, err)

		rec := doRequest(t, h, http.MethodGet, "/api/vacancies", ss, nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
