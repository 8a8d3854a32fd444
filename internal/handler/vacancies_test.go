package handler

import (
	"encoding/json"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vacancy-diary/tracker/backend/internal/domain"
)

func seedVacancy(t *testing.T, repo *fakeRepository, id, studentID string, status domain.VacancyStatus, company string) *domain.Vacancy {
	t.Helper()

	vacancy := &domain.Vacancy{
		ID:              id,
		StudentID:       studentID,
		Date:            "15.01.2026",
		Status:          status,
		Company:         company,
		JobLink:         "https://rabota.by/vacancy/" + id,
		Position:        "Backend developer",
		CoverLetterSent: false,
		Recruiters: []domain.Recruiter{
			{Name: "Иван Иванов", ContactMethod: domain.ContactTelegram, ContactInfo: "@ivanov"},
		},
	}
	require.NoError(t, repo.CreateVacancy(vacancy))

	return vacancy
}

func validVacancyBody() map[string]any {
	return map[string]any{
		"date":              "15.01.2026",
		"status":            string(domain.StatusSent),
		"company":           "Би-Лоджик",
		"job_link":          "https://rabota.by/vacancy/12345",
		"position":          "Go-разработчик",
		"cover_letter_sent": true,
		"recruiters": []map[string]any{
			{"name": "Мария Петрова", "contact_method": "LinkedIn", "contact_info": "linkedin.com/in/maria-petrova"},
		},
	}
}

func TestCreateVacancy(t *testing.T) {
	t.Run("студент создаёт вакансию", func(t *testing.T) {
		h, repo := newTestHandler(t)
		token := authToken(t, h, "s1", domain.UserTypeStudent)

		rec := doRequest(t, h, http.MethodPost, "/api/vacancies", token, validVacancyBody())
		require.Equal(t, http.StatusOK, rec.Code)

		resp := decodeResponse(t, rec)
		assert.Equal(t, "Новая вакансия создана", resp.Message)

		var created domain.Vacancy
		require.NoError(t, json.Unmarshal(resp.Data, &created))
		assert.NotEmpty(t, created.ID)
		// владелец берётся из токена, а не из тела запроса
		assert.Equal(t, "s1", created.StudentID)

		stored, ok := repo.vacancies[created.ID]
		require.True(t, ok)
		assert.Equal(t, "Би-Лоджик", stored.Company)
	})

	t.Run("преподавателю создание запрещено", func(t *testing.T) {
		h, repo := newTestHandler(t)
		token := authToken(t, h, "t1", domain.UserTypeTeacher)

		rec := doRequest(t, h, http.MethodPost, "/api/vacancies", token, validVacancyBody())
		require.Equal(t, http.StatusForbidden, rec.Code)
		assert.Empty(t, repo.vacancies)
	})

	t.Run("валидация полей", func(t *testing.T) {
		h, _ := newTestHandler(t)
		token := authToken(t, h, "s1", domain.UserTypeStudent)

		invalid := map[string]func(body map[string]any){
			"дата не в формате dd.MM.yyyy": func(b map[string]any) { b["date"] = "2026-01-15" },
			"несуществующий статус":        func(b map[string]any) { b["status"] = "Оффер" },
			"кривая ссылка":                func(b map[string]any) { b["job_link"] = "not-a-url" },
			"короткое название компании":   func(b map[string]any) { b["company"] = "AB" },
			"нет признака сопроводительного письма": func(b map[string]any) { delete(b, "cover_letter_sent") },
			"неизвестный способ связи рекрутера": func(b map[string]any) {
				b["recruiters"] = []map[string]any{
					{"name": "Мария Петрова", "contact_method": "WhatsApp", "contact_info": "+375291234567"},
				}
			},
		}

		for name, mutate := range invalid {
			t.Run(name, func(t *testing.T) {
				body := validVacancyBody()
				mutate(body)
				rec := doRequest(t, h, http.MethodPost, "/api/vacancies", token, body)
				assert.Equal(t, http.StatusBadRequest, rec.Code)
			})
		}
	})
}

func TestGetVacancies(t *testing.T) {
	h, repo := newTestHandler(t)
	seedVacancy(t, repo, "v1", "s1", domain.StatusSent, "Acme")
	seedVacancy(t, repo, "v2", "s1", domain.StatusScreening, "Глобус")
	seedVacancy(t, repo, "v3", "s2", domain.StatusSent, "Яндекс")

	t.Run("студент видит только свои", func(t *testing.T) {
		token := authToken(t, h, "s1", domain.UserTypeStudent)
		rec := doRequest(t, h, http.MethodGet, "/api/vacancies", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var vacancies []domain.Vacancy
		require.NoError(t, json.Unmarshal(decodeResponse(t, rec).Data, &vacancies))
		require.Len(t, vacancies, 2)
		for _, v := range vacancies {
			assert.Equal(t, "s1", v.StudentID)
		}
	})

	t.Run("studentId в запросе студента игнорируется", func(t *testing.T) {
		token := authToken(t, h, "s1", domain.UserTypeStudent)
		rec := doRequest(t, h, http.MethodGet, "/api/vacancies?studentId=s2", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var vacancies []domain.Vacancy
		require.NoError(t, json.Unmarshal(decodeResponse(t, rec).Data, &vacancies))
		require.Len(t, vacancies, 2)
		for _, v := range vacancies {
			assert.Equal(t, "s1", v.StudentID)
		}
	})

	t.Run("преподаватель видит всё", func(t *testing.T) {
		token := authToken(t, h, "t1", domain.UserTypeTeacher)
		rec := doRequest(t, h, http.MethodGet, "/api/vacancies", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var vacancies []domain.Vacancy
		require.NoError(t, json.Unmarshal(decodeResponse(t, rec).Data, &vacancies))
		assert.Len(t, vacancies, 3)
	})

	t.Run("преподаватель фильтрует по студенту", func(t *testing.T) {
		token := authToken(t, h, "t1", domain.UserTypeTeacher)
		rec := doRequest(t, h, http.MethodGet, "/api/vacancies?studentId=s2", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var vacancies []domain.Vacancy
		require.NoError(t, json.Unmarshal(decodeResponse(t, rec).Data, &vacancies))
		require.Len(t, vacancies, 1)
		assert.Equal(t, "v3", vacancies[0].ID)
	})
}

func TestGetVacanciesByStatus(t *testing.T) {
	h, repo := newTestHandler(t)
	seedVacancy(t, repo, "v1", "s1", domain.StatusTechInterview, "Acme")
	seedVacancy(t, repo, "v2", "s1", domain.StatusSent, "Глобус")

	token := authToken(t, h, "s1", domain.UserTypeStudent)

	t.Run("статус с пробелами приходит экранированным", func(t *testing.T) {
		path := "/api/vacancies/" + url.PathEscape(string(domain.StatusTechInterview))
		rec := doRequest(t, h, http.MethodGet, path, token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var vacancies []domain.Vacancy
		require.NoError(t, json.Unmarshal(decodeResponse(t, rec).Data, &vacancies))
		require.Len(t, vacancies, 1)
		assert.Equal(t, "v1", vacancies[0].ID)
	})

	t.Run("пустой результат это 200 с пустым списком", func(t *testing.T) {
		path := "/api/vacancies/" + url.PathEscape(string(domain.StatusNeedsReflection))
		rec := doRequest(t, h, http.MethodGet, path, token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var vacancies []domain.Vacancy
		require.NoError(t, json.Unmarshal(decodeResponse(t, rec).Data, &vacancies))
		assert.Empty(t, vacancies)
	})

	t.Run("несуществующий статус", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodGet, "/api/vacancies/"+url.PathEscape("Оффер"), token, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Статус для фильтрации по вакансиям задан неверно", decodeResponse(t, rec).Message)
	})
}

func TestUpdateVacancy(t *testing.T) {
	t.Run("меняются только присланные поля", func(t *testing.T) {
		h, repo := newTestHandler(t)
		seedVacancy(t, repo, "v1", "s1", domain.StatusSent, "Acme")
		token := authToken(t, h, "s1", domain.UserTypeStudent)

		rec := doRequest(t, h, http.MethodPatch, "/api/vacancies/v1", token, map[string]any{
			"status": string(domain.StatusScreening),
		})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Вакансия обновлена", decodeResponse(t, rec).Message)

		stored := repo.vacancies["v1"]
		assert.Equal(t, domain.StatusScreening, stored.Status)
		assert.Equal(t, "Acme", stored.Company)
		assert.Equal(t, "15.01.2026", stored.Date)
	})

	t.Run("повторный патч ничего не меняет", func(t *testing.T) {
		h, repo := newTestHandler(t)
		seedVacancy(t, repo, "v1", "s1", domain.StatusSent, "Acme")
		token := authToken(t, h, "s1", domain.UserTypeStudent)

		body := map[string]any{"company": "Глобус", "cover_letter_sent": true}

		first := doRequest(t, h, http.MethodPatch, "/api/vacancies/v1", token, body)
		require.Equal(t, http.StatusOK, first.Code)
		afterFirst := *repo.vacancies["v1"]

		second := doRequest(t, h, http.MethodPatch, "/api/vacancies/v1", token, body)
		require.Equal(t, http.StatusOK, second.Code)
		assert.Equal(t, afterFirst, *repo.vacancies["v1"])
	})

	t.Run("чужая вакансия неотличима от несуществующей", func(t *testing.T) {
		h, repo := newTestHandler(t)
		seedVacancy(t, repo, "v1", "s1", domain.StatusSent, "Acme")
		token := authToken(t, h, "s2", domain.UserTypeStudent)

		body := map[string]any{"company": "Глобус"}
		foreign := doRequest(t, h, http.MethodPatch, "/api/vacancies/v1", token, body)
		missing := doRequest(t, h, http.MethodPatch, "/api/vacancies/no-such-id", token, body)

		assert.Equal(t, http.StatusNotFound, foreign.Code)
		assert.Equal(t, http.StatusNotFound, missing.Code)
		assert.Equal(t, missing.Body.String(), foreign.Body.String())
		assert.Equal(t, "Вакансия с указанным id не найдена", decodeResponse(t, foreign).Message)

		// вакансия осталась нетронутой
		assert.Equal(t, "Acme", repo.vacancies["v1"].Company)
	})

	t.Run("преподавателю изменение запрещено", func(t *testing.T) {
		h, repo := newTestHandler(t)
		seedVacancy(t, repo, "v1", "s1", domain.StatusSent, "Acme")
		token := authToken(t, h, "t1", domain.UserTypeTeacher)

		rec := doRequest(t, h, http.MethodPatch, "/api/vacancies/v1", token, map[string]any{"company": "Глобус"})
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("неизвестный способ связи рекрутера", func(t *testing.T) {
		h, repo := newTestHandler(t)
		seedVacancy(t, repo, "v1", "s1", domain.StatusSent, "Acme")
		token := authToken(t, h, "s1", domain.UserTypeStudent)

		rec := doRequest(t, h, http.MethodPatch, "/api/vacancies/v1", token, map[string]any{
			"recruiters": []map[string]any{
				{"name": "Мария Петрова", "contact_method": "WhatsApp", "contact_info": "+375291234567"},
			},
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Len(t, repo.vacancies["v1"].Recruiters, 1)
		assert.Equal(t, "Иван Иванов", repo.vacancies["v1"].Recruiters[0].Name)
	})

	t.Run("рекрутеры заменяются целиком", func(t *testing.T) {
		h, repo := newTestHandler(t)
		seedVacancy(t, repo, "v1", "s1", domain.StatusSent, "Acme")
		token := authToken(t, h, "s1", domain.UserTypeStudent)

		rec := doRequest(t, h, http.MethodPatch, "/api/vacancies/v1", token, map[string]any{
			"recruiters": []map[string]any{
				{"name": "Мария Петрова", "contact_method": "Email", "contact_info": "maria@example.com"},
			},
		})
		require.Equal(t, http.StatusOK, rec.Code)

		stored := repo.vacancies["v1"]
		require.Len(t, stored.Recruiters, 1)
		assert.Equal(t, "Мария Петрова", stored.Recruiters[0].Name)
		assert.Equal(t, domain.ContactEmail, stored.Recruiters[0].ContactMethod)
	})
}

func TestDeleteVacancy(t *testing.T) {
	t.Run("студент удаляет свою вакансию", func(t *testing.T) {
		h, repo := newTestHandler(t)
		seedVacancy(t, repo, "v1", "s1", domain.StatusSent, "Acme")
		token := authToken(t, h, "s1", domain.UserTypeStudent)

		rec := doRequest(t, h, http.MethodDelete, "/api/vacancies/v1", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Вакансия удалена", decodeResponse(t, rec).Message)

		list := doRequest(t, h, http.MethodGet, "/api/vacancies", token, nil)
		require.Equal(t, http.StatusOK, list.Code)

		var vacancies []domain.Vacancy
		require.NoError(t, json.Unmarshal(decodeResponse(t, list).Data, &vacancies))
		assert.Empty(t, vacancies)
	})

	t.Run("чужую вакансию удалить нельзя", func(t *testing.T) {
		h, repo := newTestHandler(t)
		seedVacancy(t, repo, "v1", "s1", domain.StatusSent, "Acme")
		token := authToken(t, h, "s2", domain.UserTypeStudent)

		rec := doRequest(t, h, http.MethodDelete, "/api/vacancies/v1", token, nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, repo.vacancies, "v1")
	})

	t.Run("преподавателю удаление запрещено", func(t *testing.T) {
		h, repo := newTestHandler(t)
		seedVacancy(t, repo, "v1", "s1", domain.StatusSent, "Acme")
		token := authToken(t, h, "t1", domain.UserTypeTeacher)

		rec := doRequest(t, h, http.MethodDelete, "/api/vacancies/v1", token, nil)
		require.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, repo.vacancies, "v1")
	})
}
