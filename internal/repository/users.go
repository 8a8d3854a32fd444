package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/vacancy-diary/tracker/backend/internal/domain"
)

func (r *Repository) CreateUser(user *domain.User) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO users (id, user_type, login, password_hash, email)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	// пустой email храним как NULL, иначе уникальный индекс не даст
	// зарегистрировать двух пользователей без почты
	email := sql.NullString{String: user.Email, Valid: user.Email != ""}

	args := []any{user.ID, user.UserType, user.Login, user.PasswordHash, email}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&user.CreatedAt); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetUserByLogin(login string) (*domain.User, error) {
	query := `
		SELECT id, user_type, password_hash, email, created_at
		FROM users WHERE login = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	user := &domain.User{
		Login: login,
	}

	var email sql.NullString
	dst := []any{&user.ID, &user.UserType, &user.PasswordHash, &email, &user.CreatedAt}
	if err := r.dbpool.QueryRowContext(ctx, query, login).Scan(dst...); err != nil {
		return nil, err
	}
	user.Email = email.String

	return user, nil
}

// GetAllStudents намеренно не выбирает password_hash: список уходит
// преподавателю как есть.
func (r *Repository) GetAllStudents() ([]*domain.User, error) {
	query := `
		SELECT id, login, email, created_at
		FROM users WHERE user_type = $1
		ORDER BY created_at
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, domain.UserTypeStudent)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	students := make([]*domain.User, 0)
	for rows.Next() {
		user := &domain.User{UserType: domain.UserTypeStudent}
		var email sql.NullString
		if err := rows.Scan(&user.ID, &user.Login, &email, &user.CreatedAt); err != nil {
			return nil, err
		}
		user.Email = email.String
		students = append(students, user)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return students, nil
}

func (r *Repository) UpdateUserPassword(user *domain.User) error {
	query := `
		UPDATE users
		SET password_hash = $1
		WHERE id = $2
		RETURNING created_at
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, user.PasswordHash, user.ID).Scan(&user.CreatedAt); err != nil {
		return err
	}

	return nil
}
