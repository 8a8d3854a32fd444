package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/vacancy-diary/tracker/backend/internal/access"
	"github.com/vacancy-diary/tracker/backend/internal/domain"
)

func (r *Repository) CreateVacancy(v *domain.Vacancy) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	recruiters, err := json.Marshal(v.Recruiters)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO vacancies (id, student_id, date, status, company, job_link, position, cover_letter_sent, recruiters)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at
	`

	args := []any{v.ID, v.StudentID, v.Date, v.Status, v.Company, v.JobLink, v.Position, v.CoverLetterSent, recruiters}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&v.CreatedAt); err != nil {
		return err
	}

	return nil
}

// GetVacancies выполняет выборку по условиям, которые построил пакет access.
func (r *Repository) GetVacancies(q access.ListQuery) ([]*domain.Vacancy, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, student_id, date, status, company, job_link, position, cover_letter_sent, recruiters, created_at
		FROM vacancies
	`

	conds := make([]string, 0, 2)
	args := make([]any, 0, 2)
	if q.StudentID != "" {
		args = append(args, q.StudentID)
		conds = append(conds, fmt.Sprintf("student_id = $%d", len(args)))
	}
	if q.Status != "" {
		args = append(args, q.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at"

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	vacancies := make([]*domain.Vacancy, 0)
	for rows.Next() {
		v := &domain.Vacancy{}
		var recruiters []byte

		dst := []any{&v.ID, &v.StudentID, &v.Date, &v.Status, &v.Company, &v.JobLink, &v.Position, &v.CoverLetterSent, &recruiters, &v.CreatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(recruiters, &v.Recruiters); err != nil {
			return nil, err
		}

		vacancies = append(vacancies, v)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return vacancies, nil
}

// GetVacancyForStudent ищет вакансию одним запросом сразу по id и
// владельцу. Чужая вакансия неотличима от несуществующей.
func (r *Repository) GetVacancyForStudent(t access.MutationTarget) (*domain.Vacancy, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT date, status, company, job_link, position, cover_letter_sent, recruiters, created_at
		FROM vacancies WHERE id = $1 AND student_id = $2
	`

	v := &domain.Vacancy{
		ID:        t.VacancyID,
		StudentID: t.StudentID,
	}

	var recruiters []byte
	dst := []any{&v.Date, &v.Status, &v.Company, &v.JobLink, &v.Position, &v.CoverLetterSent, &recruiters, &v.CreatedAt}
	if err := r.dbpool.QueryRowContext(ctx, query, t.VacancyID, t.StudentID).Scan(dst...); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(recruiters, &v.Recruiters); err != nil {
		return nil, err
	}

	return v, nil
}

func (r *Repository) UpdateVacancy(v *domain.Vacancy) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	recruiters, err := json.Marshal(v.Recruiters)
	if err != nil {
		return err
	}

	// условие по владельцу повторяется и здесь, чтобы проверка и запись
	// оставались одним запросом
	query := `
		UPDATE vacancies
		SET
			date = $1,
			status = $2,
			company = $3,
			job_link = $4,
			position = $5,
			cover_letter_sent = $6,
			recruiters = $7
		WHERE id = $8 AND student_id = $9
		RETURNING created_at
	`

	args := []any{v.Date, v.Status, v.Company, v.JobLink, v.Position, v.CoverLetterSent, recruiters, v.ID, v.StudentID}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&v.CreatedAt); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteVacancy(t access.MutationTarget) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		DELETE FROM vacancies WHERE id = $1 AND student_id = $2
	`

	res, err := r.dbpool.ExecContext(ctx, query, t.VacancyID, t.StudentID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}
