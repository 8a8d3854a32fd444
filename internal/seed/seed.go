package seed

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/vacancy-diary/tracker/backend/internal/domain"
	"github.com/vacancy-diary/tracker/backend/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

type demoVacancy struct {
	Date            string
	Status          domain.VacancyStatus
	Company         string
	JobLink         string
	Position        string
	CoverLetterSent bool
	Recruiters      []domain.Recruiter
}

var demoStudents = map[string][]demoVacancy{
	"alice": {
		{
			Date:            "14.01.2025",
			Status:          domain.StatusSent,
			Company:         "Би-Лоджик",
			JobLink:         "https://rabota.by/vacancy/961519",
			Position:        "Frontend developer",
			CoverLetterSent: true,
			Recruiters: []domain.Recruiter{
				{Name: "Иван Иванов", ContactMethod: domain.ContactTelegram, ContactInfo: "@ivanov"},
				{Name: "Мария Петрова", ContactMethod: domain.ContactLinkedIn, ContactInfo: "linkedin.com/in/maria-petrova"},
			},
		},
		{
			Date:            "20.01.2025",
			Status:          domain.StatusScreening,
			Company:         "Яндекс",
			JobLink:         "https://hh.ru/vacancy/112233",
			Position:        "Frontend developer",
			CoverLetterSent: false,
			Recruiters:      []domain.Recruiter{},
		},
	},
	"boris": {
		{
			Date:            "02.02.2025",
			Status:          domain.StatusTestTask,
			Company:         "Контур",
			JobLink:         "https://hh.ru/vacancy/445566",
			Position:        "Backend developer",
			CoverLetterSent: true,
			Recruiters: []domain.Recruiter{
				{Name: "Анна Смирнова", ContactMethod: domain.ContactEmail, ContactInfo: "a.smirnova@example.com"},
			},
		},
	},
}

// SeedDemoData вставляет фиксированный набор: преподавателя и двух
// студентов с вакансиями. Пароль у всех одинаковый, из конфигурации.
func SeedDemoData(r *repository.Repository, password string) {
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		slog.Error("не удалось захэшировать пароль", "error", err)
		return
	}

	teacher := &domain.User{
		ID:           uuid.NewString(),
		UserType:     domain.UserTypeTeacher,
		Login:        "teacher",
		PasswordHash: string(passwordHash),
	}
	if err := r.CreateUser(teacher); err != nil {
		slog.Error("не удалось вставить преподавателя", "error", err)
	}

	for login, vacancies := range demoStudents {
		student := &domain.User{
			ID:           uuid.NewString(),
			UserType:     domain.UserTypeStudent,
			Login:        login,
			PasswordHash: string(passwordHash),
			Email:        login + "@example.com",
		}
		if err := r.CreateUser(student); err != nil {
			slog.Error("не удалось вставить студента", "login", login, "error", err)
			continue
		}

		for _, dv := range vacancies {
			vacancy := &domain.Vacancy{
				ID:              uuid.NewString(),
				StudentID:       student.ID,
				Date:            dv.Date,
				Status:          dv.Status,
				Company:         dv.Company,
				JobLink:         dv.JobLink,
				Position:        dv.Position,
				CoverLetterSent: dv.CoverLetterSent,
				Recruiters:      dv.Recruiters,
			}
			if err := r.CreateVacancy(vacancy); err != nil {
				slog.Error("не удалось вставить вакансию", "login", login, "company", dv.Company, "error", err)
			}
		}

		slog.Info("студент с вакансиями вставлен", "login", login, "count", len(vacancies))
	}
}
