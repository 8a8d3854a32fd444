package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/vacancy-diary/tracker/backend/internal/access"
	"github.com/vacancy-diary/tracker/backend/internal/domain"
	"github.com/vacancy-diary/tracker/backend/internal/utils"
)

type recruiterRequest struct {
	Name          string `json:"name" validate:"required,min=3"`
	ContactMethod string `json:"contact_method" validate:"required"`
	ContactInfo   string `json:"contact_info" validate:"required,min=3"`
}

// способ связи проверяется так же, как статус вакансии, чтобы сообщение
// об ошибке было на русском
func validateRecruiters(reqs []recruiterRequest) error {
	for _, req := range reqs {
		if err := utils.ValidateContactMethod(req.ContactMethod); err != nil {
			return err
		}
	}
	return nil
}

func toRecruiters(reqs []recruiterRequest) []domain.Recruiter {
	recruiters := make([]domain.Recruiter, 0, len(reqs))
	for _, req := range reqs {
		recruiters = append(recruiters, domain.Recruiter{
			Name:          req.Name,
			ContactMethod: domain.ContactMethod(req.ContactMethod),
			ContactInfo:   req.ContactInfo,
		})
	}
	return recruiters
}

func (h *Handler) CreateVacancy(w http.ResponseWriter, r *http.Request) {
	sub := r.Context().Value(SubCtxKey).(string)
	userType := r.Context().Value(UserTypeCtxKey).(domain.UserType)

	// владелец вакансии всегда берётся из токена
	ownerID, err := access.ResolveCreateOwner(sub, userType)
	if err != nil {
		h.accessDenied(w, r, err)
		return
	}

	var req struct {
		Date            string             `json:"date" validate:"required,datetime=02.01.2006"`
		Status          string             `json:"status" validate:"required"`
		Company         string             `json:"company" validate:"required,min=3"`
		JobLink         string             `json:"job_link" validate:"required,url"`
		Position        string             `json:"position" validate:"required,min=3"`
		CoverLetterSent *bool              `json:"cover_letter_sent" validate:"required"`
		Recruiters      []recruiterRequest `json:"recruiters" validate:"required,dive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := utils.ValidateVacancyStatus(req.Status); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := validateRecruiters(req.Recruiters); err != nil {
		h.badRequest(w, r, err)
		return
	}

	vacancy := &domain.Vacancy{
		ID:              uuid.NewString(),
		StudentID:       ownerID,
		Date:            req.Date,
		Status:          domain.VacancyStatus(req.Status),
		Company:         req.Company,
		JobLink:         req.JobLink,
		Position:        req.Position,
		CoverLetterSent: *req.CoverLetterSent,
		Recruiters:      toRecruiters(req.Recruiters),
	}

	if err := h.repository.CreateVacancy(vacancy); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Новая вакансия создана", vacancy)
}

func (h *Handler) GetVacancies(w http.ResponseWriter, r *http.Request) {
	sub := r.Context().Value(SubCtxKey).(string)
	userType := r.Context().Value(UserTypeCtxKey).(domain.UserType)

	// параметр studentId учитывается только для преподавателя
	q, err := access.ResolveListQuery(sub, userType, r.URL.Query().Get("studentId"), "")
	if err != nil {
		h.accessDenied(w, r, err)
		return
	}

	vacancies, err := h.repository.GetVacancies(q)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Список вакансий получен", vacancies)
}

func (h *Handler) GetVacanciesByStatus(w http.ResponseWriter, r *http.Request) {
	sub := r.Context().Value(SubCtxKey).(string)
	userType := r.Context().Value(UserTypeCtxKey).(domain.UserType)

	// статусы содержат пробелы и кириллицу, поэтому приходят экранированными
	status := chi.URLParam(r, "status")
	if unescaped, err := url.PathUnescape(status); err == nil {
		status = unescaped
	}

	if err := utils.ValidateVacancyStatus(status); err != nil {
		h.errorResponse(w, r, http.StatusBadRequest, "Статус для фильтрации по вакансиям задан неверно")
		return
	}

	q, err := access.ResolveListQuery(sub, userType, r.URL.Query().Get("studentId"), domain.VacancyStatus(status))
	if err != nil {
		h.accessDenied(w, r, err)
		return
	}

	// пустой список — валидный результат, а не ошибка
	vacancies, err := h.repository.GetVacancies(q)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Список вакансий получен", vacancies)
}

func (h *Handler) UpdateVacancy(w http.ResponseWriter, r *http.Request) {
	sub := r.Context().Value(SubCtxKey).(string)
	userType := r.Context().Value(UserTypeCtxKey).(domain.UserType)

	target, err := access.ResolveMutationTarget(sub, userType, chi.URLParam(r, "id"))
	if err != nil {
		h.accessDenied(w, r, err)
		return
	}

	var req struct {
		Date            *string            `json:"date" validate:"omitempty,datetime=02.01.2006"`
		Status          *string            `json:"status"`
		Company         *string            `json:"company" validate:"omitempty,min=3"`
		JobLink         *string            `json:"job_link" validate:"omitempty,url"`
		Position        *string            `json:"position" validate:"omitempty,min=3"`
		CoverLetterSent *bool              `json:"cover_letter_sent"`
		Recruiters      []recruiterRequest `json:"recruiters" validate:"omitempty,dive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if req.Status != nil {
		if err := utils.ValidateVacancyStatus(*req.Status); err != nil {
			h.badRequest(w, r, err)
			return
		}
	}
	if err := validateRecruiters(req.Recruiters); err != nil {
		h.badRequest(w, r, err)
		return
	}

	vacancy, err := h.repository.GetVacancyForStudent(target)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, http.StatusNotFound, "Вакансия с указанным id не найдена")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	patch := access.VacancyPatch{
		Date:            req.Date,
		Company:         req.Company,
		JobLink:         req.JobLink,
		Position:        req.Position,
		CoverLetterSent: req.CoverLetterSent,
	}
	if req.Status != nil {
		status := domain.VacancyStatus(*req.Status)
		patch.Status = &status
	}
	if req.Recruiters != nil {
		patch.Recruiters = toRecruiters(req.Recruiters)
	}

	access.ApplyPatch(vacancy, patch)

	if err := h.repository.UpdateVacancy(vacancy); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, http.StatusNotFound, "Вакансия с указанным id не найдена")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "Вакансия обновлена", vacancy)
}

func (h *Handler) DeleteVacancy(w http.ResponseWriter, r *http.Request) {
	sub := r.Context().Value(SubCtxKey).(string)
	userType := r.Context().Value(UserTypeCtxKey).(domain.UserType)

	target, err := access.ResolveMutationTarget(sub, userType, chi.URLParam(r, "id"))
	if err != nil {
		h.accessDenied(w, r, err)
		return
	}

	if err := h.repository.DeleteVacancy(target); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, http.StatusNotFound, "Вакансия с указанным id не найдена")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "Вакансия удалена", nil)
}
