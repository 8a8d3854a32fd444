package domain

import (
	"time"
)

type UserType string

const (
	UserTypeStudent UserType = "student"
	UserTypeTeacher UserType = "teacher"
)

type User struct {
	ID           string    `json:"id"`
	UserType     UserType  `json:"userType"`
	Login        string    `json:"login"`
	PasswordHash string    `json:"-"`
	Email        string    `json:"email,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}
