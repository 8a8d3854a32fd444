package utils

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/vacancy-diary/tracker/backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

var commonFirstNames = []string{
	"Иван", "Алексей", "Дмитрий", "Сергей", "Андрей", "Павел", "Никита", "Максим",
	"Анна", "Мария", "Ольга", "Елена", "Наталья", "Дарья", "Ксения", "Полина",
}
var commonSurnames = []string{
	"Иванов", "Петров", "Сидоров", "Смирнов", "Кузнецов", "Попов", "Васильев",
	"Соколов", "Михайлов", "Новиков", "Фёдоров", "Морозов", "Волков", "Козлов",
}

func GenerateRandomRussianName() string {
	return commonFirstNames[rand.Intn(len(commonFirstNames))] + " " + commonSurnames[rand.Intn(len(commonSurnames))]
}

var digits = "0123456789"

// GenerateLoginFromName транслитерирует кириллическое имя и добавляет
// несколько случайных цифр, чтобы логины не повторялись.
func GenerateLoginFromName(name string) string {
	login := slug.Make(name)

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		login += string(digits[rand.Intn(len(digits))])
	}

	return login
}

func GenerateRandomStudent(password string) (*domain.User, error) {
	name := GenerateRandomRussianName()
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	login := GenerateLoginFromName(name)

	user := &domain.User{
		ID:           uuid.NewString(),
		UserType:     domain.UserTypeStudent,
		Login:        login,
		PasswordHash: string(passwordHash),
		Email:        login + "@example.com",
	}

	return user, nil
}

func GenerateRandomOTP() string {
	return fmt.Sprintf("%06d", rand.Intn(1000000))
}

var companies = []string{
	"Би-Лоджик", "Яндекс", "СберТех", "Ozon", "Тинькофф", "ВКонтакте", "Авито", "Контур",
}
var positions = []string{
	"Frontend developer", "Backend developer", "Fullstack developer", "QA engineer", "DevOps engineer",
}

func GenerateRandomRecruiter() domain.Recruiter {
	method := domain.ContactMethods[rand.Intn(len(domain.ContactMethods))]

	recruiter := domain.Recruiter{
		Name:          GenerateRandomRussianName(),
		ContactMethod: method,
	}

	switch method {
	case domain.ContactTelegram:
		recruiter.ContactInfo = "@" + GenerateLoginFromName(recruiter.Name)
	case domain.ContactLinkedIn:
		recruiter.ContactInfo = "linkedin.com/in/" + GenerateLoginFromName(recruiter.Name)
	case domain.ContactEmail:
		recruiter.ContactInfo = GenerateLoginFromName(recruiter.Name) + "@example.com"
	}

	return recruiter
}

func GenerateRandomVacancy(studentID string) *domain.Vacancy {
	date := time.Now().AddDate(0, 0, -rand.Intn(90))

	recruiters := make([]domain.Recruiter, 0, 2)
	for i := 0; i < rand.Intn(3); i++ {
		recruiters = append(recruiters, GenerateRandomRecruiter())
	}

	return &domain.Vacancy{
		ID:              uuid.NewString(),
		StudentID:       studentID,
		Date:            date.Format("02.01.2006"),
		Status:          domain.VacancyStatuses[rand.Intn(len(domain.VacancyStatuses))],
		Company:         companies[rand.Intn(len(companies))],
		JobLink:         "https://rabota.by/vacancy/" + uuid.NewString(),
		Position:        positions[rand.Intn(len(positions))],
		CoverLetterSent: rand.Intn(2) == 0,
		Recruiters:      recruiters,
	}
}
