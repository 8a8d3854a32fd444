// Package access решает, какие вакансии видны и изменяемы для
// аутентифицированного пользователя, и описывает соответствующие
// условия выборки. Сами запросы выполняет repository.
package access

import (
	"errors"

	"github.com/vacancy-diary/tracker/backend/internal/domain"
)

var (
	ErrInvalidUserType = errors.New("неизвестный тип пользователя")
	ErrUnknownCaller   = errors.New("не удалось определить пользователя")
	ErrStudentOnly     = errors.New("данное действие доступно только для студентов")
	ErrTeacherOnly     = errors.New("данное действие доступно только для преподавателя")
)

// ListQuery — условия выборки вакансий. Пустое поле означает
// отсутствие ограничения.
type ListQuery struct {
	StudentID string
	Status    domain.VacancyStatus
}

// ResolveListQuery строит условия выборки по типу пользователя.
// Студент всегда видит только свои вакансии, параметр filterStudentID
// для него не применяется. Преподаватель видит всё, либо вакансии
// одного студента, если filterStudentID задан.
func ResolveListQuery(callerID string, callerType domain.UserType, filterStudentID string, status domain.VacancyStatus) (ListQuery, error) {
	switch callerType {
	case domain.UserTypeStudent:
		// пустой callerID снял бы ограничение по владельцу целиком
		if callerID == "" {
			return ListQuery{}, ErrUnknownCaller
		}
		return ListQuery{StudentID: callerID, Status: status}, nil
	case domain.UserTypeTeacher:
		return ListQuery{StudentID: filterStudentID, Status: status}, nil
	default:
		return ListQuery{}, ErrInvalidUserType
	}
}

// MutationTarget — цель изменения: вакансия ищется одним запросом
// сразу по id и владельцу, чтобы нельзя было отличить чужую вакансию
// от несуществующей.
type MutationTarget struct {
	VacancyID string
	StudentID string
}

// ResolveMutationTarget разрешает изменение и удаление только
// студенту и только над собственными вакансиями.
func ResolveMutationTarget(callerID string, callerType domain.UserType, vacancyID string) (MutationTarget, error) {
	if callerType != domain.UserTypeStudent {
		return MutationTarget{}, ErrStudentOnly
	}

	return MutationTarget{VacancyID: vacancyID, StudentID: callerID}, nil
}

// ResolveCreateOwner возвращает владельца создаваемой вакансии.
// Владелец всегда берётся из токена, а не из тела запроса.
func ResolveCreateOwner(callerID string, callerType domain.UserType) (string, error) {
	if callerType != domain.UserTypeStudent {
		return "", ErrStudentOnly
	}

	return callerID, nil
}

// CanListStudents разрешает просмотр списка студентов только преподавателю.
func CanListStudents(callerType domain.UserType) error {
	if callerType != domain.UserTypeTeacher {
		return ErrTeacherOnly
	}

	return nil
}

// VacancyPatch — частичное обновление вакансии. nil-поле означает
// «не менять». Массив рекрутеров заменяется целиком, без слияния.
type VacancyPatch struct {
	Date            *string
	Status          *domain.VacancyStatus
	Company         *string
	JobLink         *string
	Position        *string
	CoverLetterSent *bool
	Recruiters      []domain.Recruiter
}

// ApplyPatch перезаписывает в вакансии только присланные поля.
func ApplyPatch(v *domain.Vacancy, p VacancyPatch) {
	if p.Date != nil {
		v.Date = *p.Date
	}
	if p.Status != nil {
		v.Status = *p.Status
	}
	if p.Company != nil {
		v.Company = *p.Company
	}
	if p.JobLink != nil {
		v.JobLink = *p.JobLink
	}
	if p.Position != nil {
		v.Position = *p.Position
	}
	if p.CoverLetterSent != nil {
		v.CoverLetterSent = *p.CoverLetterSent
	}
	if p.Recruiters != nil {
		v.Recruiters = p.Recruiters
	}
}
