package handler

import (
	"net/http"

	"github.com/vacancy-diary/tracker/backend/internal/access"
	"github.com/vacancy-diary/tracker/backend/internal/domain"
)

func (h *Handler) GetAllStudents(w http.ResponseWriter, r *http.Request) {
	userType := r.Context().Value(UserTypeCtxKey).(domain.UserType)

	if err := access.CanListStudents(userType); err != nil {
		h.accessDenied(w, r, err)
		return
	}

	students, err := h.repository.GetAllStudents()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Список студентов получен", students)
}
