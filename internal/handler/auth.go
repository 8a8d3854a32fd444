package handler

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/vacancy-diary/tracker/backend/internal/domain"
	"github.com/vacancy-diary/tracker/backend/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

type AuthClaims struct {
	UserType string `json:"userType"`
	jwt.RegisteredClaims
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Login    string `json:"login" validate:"required,min=4"`
		Password string `json:"password" validate:"required,min=4"`
		UserType string `json:"userType" validate:"required,oneof=student teacher"`
		Email    string `json:"email" validate:"omitempty,email"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// хэшируем пароль
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		UserType:     domain.UserType(req.UserType),
		Login:        req.Login,
		PasswordHash: string(hashedPassword),
		Email:        req.Email,
	}

	// единственность преподавателя и уникальность логина обеспечивают
	// индексы в базе, поэтому вставка сама же и является проверкой
	if err := h.repository.CreateUser(user); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "users_single_teacher_idx":
				h.errorResponse(w, r, http.StatusBadRequest, "Преподаватель уже зарегистрирован. Пройдите аутентификацию")
			case "users_login_key":
				h.errorResponse(w, r, http.StatusBadRequest, "Пользователь с таким login уже существует")
			case "users_email_key":
				h.errorResponse(w, r, http.StatusBadRequest, "Пользователь с такой почтой уже существует")
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "Новый пользователь зарегистрирован", user)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Login    string `json:"login" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// проверяем логин и пароль; ответ в обоих случаях одинаковый, чтобы
	// нельзя было узнать, существует ли логин
	user, err := h.repository.GetUserByLogin(req.Login)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, http.StatusUnauthorized, "Неверный login или password")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		switch {
		case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
			h.errorResponse(w, r, http.StatusUnauthorized, "Неверный login или password")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	// выписываем JWT
	expiration := time.Now().Add(time.Duration(h.config.JWT.Expiration) * time.Second)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, AuthClaims{
		UserType: string(user.UserType),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiration),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Subject:   user.ID,
		},
	})
	ss, err := token.SignedString([]byte(h.config.JWT.Secret))
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Аутентификация успешна", map[string]string{"token": ss})
}

func (h *Handler) RequireResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Login string `json:"login" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	user, err := h.repository.GetUserByLogin(req.Login)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			// пользователя нет, но отвечаем как при успехе, чтобы по этому
			// эндпоинту нельзя было перебирать логины
			h.successResponse(w, r, "Код для сброса пароля отправлен на почту", nil)
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if user.Email == "" {
		// почта не указана при регистрации, отправлять некуда; ответ тот же
		h.successResponse(w, r, "Код для сброса пароля отправлен на почту", nil)
		return
	}

	// генерируем OTP и кладём его в redis
	otp := utils.GenerateRandomOTP()

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.Redis.OperationExpiration)*time.Minute)
	defer cancel()

	if err := h.otpStore.SaveOTP(ctx, user.Login, otp, time.Duration(h.config.OTP.Expiration)*time.Second); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// готовим письмо
	mailMessage := domain.MailMessage{
		Type: "reset_password",
		To:   user.Email,
		Data: domain.ResetPasswordMailData{
			Login:      user.Login,
			OTP:        otp,
			Expiration: h.config.OTP.Expiration / 60, // в письме срок действия в минутах
		},
	}

	mailData, err := json.Marshal(mailMessage)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// отправляем письмо в очередь
	ctx, cancel = context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	if err := h.mailChannel.PublishWithContext(
		ctx,
		"",
		"email_queue",
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        mailData,
		},
	); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Код для сброса пароля отправлен на почту", nil)
}

func (h *Handler) ConfirmResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Login    string `json:"login" validate:"required"`
		OTP      string `json:"otp" validate:"required"`
		Password string `json:"password" validate:"required,min=4"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// сверяем OTP
	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(h.config.Redis.OperationExpiration)*time.Minute)
	defer cancel()

	// на 400 отвечает только отсутствующий код; проблемы с хранилищем —
	// это внутренняя ошибка
	otp, err := h.otpStore.GetOTP(ctx, req.Login)
	if err != nil {
		switch {
		case errors.Is(err, redis.Nil):
			h.errorResponse(w, r, http.StatusBadRequest, "Неверный код подтверждения")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if subtle.ConstantTimeCompare([]byte(otp), []byte(req.OTP)) != 1 {
		h.errorResponse(w, r, http.StatusBadRequest, "Неверный код подтверждения")
		return
	}

	user, err := h.repository.GetUserByLogin(req.Login)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, http.StatusBadRequest, "Неверный код подтверждения")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	// обновляем пароль
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	user.PasswordHash = string(hashedPassword)
	if err := h.repository.UpdateUserPassword(user); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// удаляем OTP
	if err := h.otpStore.DeleteOTP(ctx, req.Login); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Пароль успешно изменён", nil)
}
