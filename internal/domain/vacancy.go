package domain

import (
	"time"
)

type VacancyStatus string

const (
	StatusSent            VacancyStatus = "Отправлено"
	StatusRejectedAtOnce  VacancyStatus = "Отказ сразу"
	StatusRejectedAfter   VacancyStatus = "Отказ после ..."
	StatusTestTask        VacancyStatus = "+Тестовое"
	StatusScreening       VacancyStatus = "Скрининг"
	StatusTechInterview   VacancyStatus = "Техническое интервью"
	StatusNeedsReflection VacancyStatus = "Продумать"
)

var VacancyStatuses = []VacancyStatus{
	StatusSent,
	StatusRejectedAtOnce,
	StatusRejectedAfter,
	StatusTestTask,
	StatusScreening,
	StatusTechInterview,
	StatusNeedsReflection,
}

type ContactMethod string

const (
	ContactTelegram ContactMethod = "Telegram"
	ContactLinkedIn ContactMethod = "LinkedIn"
	ContactEmail    ContactMethod = "Email"
)

var ContactMethods = []ContactMethod{
	ContactTelegram,
	ContactLinkedIn,
	ContactEmail,
}

type Recruiter struct {
	Name          string        `json:"name"`
	ContactMethod ContactMethod `json:"contact_method"`
	ContactInfo   string        `json:"contact_info"`
}

type Vacancy struct {
	ID              string        `json:"id"`
	StudentID       string        `json:"studentId"`
	Date            string        `json:"date"`
	Status          VacancyStatus `json:"status"`
	Company         string        `json:"company"`
	JobLink         string        `json:"job_link"`
	Position        string        `json:"position"`
	CoverLetterSent bool          `json:"cover_letter_sent"`
	Recruiters      []Recruiter   `json:"recruiters"`
	CreatedAt       time.Time     `json:"createdAt"`
}
