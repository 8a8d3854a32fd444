package utils

import (
	"fmt"
	"slices"
	"strings"

	"github.com/vacancy-diary/tracker/backend/internal/domain"
)

// ValidateVacancyStatus проверяет принадлежность статуса фиксированному
// перечню. Статусы содержат пробелы, поэтому тег oneof тут не подходит.
func ValidateVacancyStatus(status string) error {
	if !slices.Contains(domain.VacancyStatuses, domain.VacancyStatus(status)) {
		quoted := make([]string, 0, len(domain.VacancyStatuses))
		for _, s := range domain.VacancyStatuses {
			quoted = append(quoted, "'"+string(s)+"'")
		}
		return fmt.Errorf("статус должен быть одним из перечисленных: %s", strings.Join(quoted, ", "))
	}

	return nil
}

func ValidateContactMethod(method string) error {
	if !slices.Contains(domain.ContactMethods, domain.ContactMethod(method)) {
		return fmt.Errorf("возможный способ связи должен быть одним из Telegram, LinkedIn, Email")
	}

	return nil
}
