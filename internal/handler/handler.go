package handler

import (
	"context"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/ru"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	ru_translations "github.com/go-playground/validator/v10/translations/ru"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/vacancy-diary/tracker/backend/internal/access"
	"github.com/vacancy-diary/tracker/backend/internal/config"
	"github.com/vacancy-diary/tracker/backend/internal/domain"
)

// Repository — всё, что handler-ам нужно от хранилища. Реализуется
// repository.Repository, в тестах подменяется фейком.
type Repository interface {
	CreateUser(user *domain.User) error
	GetUserByLogin(login string) (*domain.User, error)
	GetAllStudents() ([]*domain.User, error)
	UpdateUserPassword(user *domain.User) error

	CreateVacancy(v *domain.Vacancy) error
	GetVacancies(q access.ListQuery) ([]*domain.Vacancy, error)
	GetVacancyForStudent(t access.MutationTarget) (*domain.Vacancy, error)
	UpdateVacancy(v *domain.Vacancy) error
	DeleteVacancy(t access.MutationTarget) error
}

// OTPStore хранит одноразовые коды для сброса пароля. Реализуется
// repository.OTPStore поверх redis, в тестах подменяется фейком;
// промах сигнализируется как redis.Nil.
type OTPStore interface {
	SaveOTP(ctx context.Context, login, otp string, ttl time.Duration) error
	GetOTP(ctx context.Context, login string) (string, error)
	DeleteOTP(ctx context.Context, login string) error
}

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	repository  Repository
	translator  ut.Translator
	mailChannel *amqp.Channel
	otpStore    OTPStore

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo Repository, mailCh *amqp.Channel, otpStore OTPStore) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	ru := ru.New()
	uni := ut.New(ru, ru)
	trans, _ := uni.GetTranslator("ru")
	if err := ru_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:    validate,
		config:      cfg,
		repository:  repo,
		translator:  trans,
		mailChannel: mailCh,
		otpStore:    otpStore,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	h.Mux.Route("/api", func(r chi.Router) {
		// регистрация и вход
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.Route("/reset-password", func(r chi.Router) {
			r.Post("/require", h.RequireResetPassword)
			r.Post("/confirm", h.ConfirmResetPassword)
		})

		// всё остальное доступно только с токеном
		r.Group(func(r chi.Router) {
			r.Use(h.auth)

			r.Get("/students", h.GetAllStudents)

			r.Route("/vacancies", func(r chi.Router) {
				r.Post("/", h.CreateVacancy)
				r.Get("/", h.GetVacancies)
				r.Get("/{status}", h.GetVacanciesByStatus)
				r.Patch("/{id}", h.UpdateVacancy)
				r.Delete("/{id}", h.DeleteVacancy)
			})
		})
	})
}
