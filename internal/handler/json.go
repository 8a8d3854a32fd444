package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/go-playground/validator/v10"
	"github.com/vacancy-diary/tracker/backend/internal/access"
)

func (h *Handler) logInternalServerError(r *http.Request, err error) {
	slog.Error("внутренняя ошибка сервера", "method", r.Method, "path", r.URL.Path, "error", err)
	sentry.CaptureException(err)
}

func (h *Handler) readJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logInternalServerError(r, err)
		http.Error(w, "Внутренняя ошибка сервера", http.StatusInternalServerError)
	}
}

type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func (h *Handler) errorResponse(w http.ResponseWriter, r *http.Request, status int, msg string) {
	h.writeJSON(w, r, status, Response{
		Success: false,
		Message: msg,
		Data:    nil,
	})
}

func (h *Handler) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		h.errorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	h.errorResponse(w, r, http.StatusBadRequest, validationErrors[0].Translate(h.translator))
}

// accessDenied переводит отказы пакета access в ответ 403.
func (h *Handler) accessDenied(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, access.ErrStudentOnly):
		h.errorResponse(w, r, http.StatusForbidden, "Данное действие доступно только для студентов")
	case errors.Is(err, access.ErrTeacherOnly):
		h.errorResponse(w, r, http.StatusForbidden, "Данное действие доступно только для преподавателя")
	case errors.Is(err, access.ErrUnknownCaller):
		h.errorResponse(w, r, http.StatusForbidden, "Не удалось определить пользователя")
	default:
		h.errorResponse(w, r, http.StatusForbidden, "Неизвестный тип пользователя")
	}
}

func (h *Handler) internalServerError(w http.ResponseWriter, r *http.Request, err error) {
	h.logInternalServerError(r, err)
	h.writeJSON(w, r, http.StatusInternalServerError, Response{
		Success: false,
		Message: "Внутренняя ошибка сервера",
		Data:    nil,
	})
}

func (h *Handler) successResponse(w http.ResponseWriter, r *http.Request, msg string, data any) {
	h.writeJSON(w, r, http.StatusOK, Response{
		Success: true,
		Message: msg,
		Data:    data,
	})
}
