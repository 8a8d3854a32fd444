package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/vacancy-diary/tracker/backend/internal/config"
	"github.com/vacancy-diary/tracker/backend/internal/repository"
	"github.com/vacancy-diary/tracker/backend/internal/seed"
	"github.com/vacancy-diary/tracker/backend/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int

	flag.IntVar(&op, "op", 0, "операция (1: вставить случайных студентов, 2: вставить случайные вакансии, 3: вставить демо-данные)")
	flag.IntVar(&n, "n", 5, "количество вставляемых записей")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// загружаем конфигурацию
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("не удалось загрузить конфигурацию", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// создаём пул соединений с базой
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("не удалось создать пул соединений с базой", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open только создаёт пул, поэтому явно делаем ping
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("не удалось подключиться к базе данных", "error", err)
		return
	}

	// создаём repository
	repo := repository.NewRepository(cfg, dbpool)

	// выполняем операцию
	switch op {
	case 0:
		slog.Error("операция не указана")
	case 1:
		if n <= 0 {
			slog.Error("введите корректное количество студентов")
		} else {
			cnt := n
			for i := 0; i < n; i++ {
				student, err := utils.GenerateRandomStudent(cfg.Seed.User.Password)
				if err != nil {
					slog.Error("не удалось сгенерировать студента", slog.String("error", err.Error()))
					continue
				}

				if err := repo.CreateUser(student); err != nil {
					slog.Error("не удалось вставить студента", slog.String("error", err.Error()))
					continue
				}

				cnt--
			}

			slog.Info("студенты вставлены", slog.Int("count", n-cnt))
		}
	case 2:
		if n <= 0 {
			slog.Error("введите корректное количество вакансий")
		} else {
			// раскидываем вакансии по уже существующим студентам
			students, err := repo.GetAllStudents()
			if err != nil {
				slog.Error("не удалось получить список студентов", slog.String("error", err.Error()))
				return
			}
			if len(students) == 0 {
				slog.Error("в базе нет ни одного студента, сначала выполните -op 1")
				return
			}

			cnt := n
			for i := 0; i < n; i++ {
				student := students[rand.Intn(len(students))]

				vacancy := utils.GenerateRandomVacancy(student.ID)
				if err := repo.CreateVacancy(vacancy); err != nil {
					slog.Error("не удалось вставить вакансию", slog.String("error", err.Error()))
					continue
				}

				cnt--
			}

			slog.Info("вакансии вставлены", slog.Int("count", n-cnt))
		}
	case 3:
		seed.SeedDemoData(repo, cfg.Seed.User.Password)
	default:
		slog.Error("указана несуществующая операция")
	}
}
