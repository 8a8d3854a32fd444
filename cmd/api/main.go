package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/vacancy-diary/tracker/backend/internal/config"
	"github.com/vacancy-diary/tracker/backend/internal/handler"
	"github.com/vacancy-diary/tracker/backend/internal/repository"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	/**********************************************
	 * создаём logger
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	/**********************************************
	 * загружаем конфигурацию
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("не удалось загрузить конфигурацию", "error", err)
		return
	}

	/**********************************************
	 * инициализируем sentry
	 **********************************************/
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.Sentry.DSN,
		Environment: cfg.Environment,
	}); err != nil {
		logger.Error("не удалось инициализировать sentry", "error", err)
		return
	}
	defer sentry.Flush(2 * time.Second)

	/**********************************************
	 * подключаемся к базе данных
	 **********************************************/
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

	// sql.Open только создаёт пул и не устанавливает соединение, поэтому
	// нужно явно сделать ping
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("не удалось подключиться к базе данных", "error", err)
		return
	}

	/**********************************************
	 * создаём repository
	 **********************************************/
	repo := repository.NewRepository(cfg, dbpool)

	/**********************************************
	 * подключаемся к rabbitmq
	 **********************************************/
	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		logger.Error("не удалось подключиться к rabbitmq", "error", err)
		return
	}
	defer conn.Close()

	// открываем канал
	ch, err := conn.Channel()
	if err != nil {
		logger.Error("не удалось открыть канал", "error", err)
		return
	}
	defer ch.Close()

	// объявляем очередь
	_, err = ch.QueueDeclare(
		"email_queue",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		logger.Error("не удалось объявить очередь", "error", err)
		return
	}

	/**********************************************
	 * подключаемся к redis
	 **********************************************/
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       0,
	})
	otpStore := repository.NewOTPStore(cfg, rdb)

	/**********************************************
	 * создаём handler
	 **********************************************/
	handler, err := handler.NewHandler(cfg, repo, ch, otpStore)
	if err != nil {
		logger.Error("не удалось создать handler", "error", err)
		return
	}
	handler.RegisterRoutes()

	/**********************************************
	 * запускаем HTTP-сервер
	 **********************************************/
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      handler.Mux,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("запускаем сервер...", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("не удалось запустить сервер", slog.String("error", err.Error()))
			return
		}
	}()

	<-quit
	logger.Info("останавливаем сервер...")

	ctx, cancel = context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("не удалось остановить сервер", slog.String("error", err.Error()))
	}
	logger.Info("сервер успешно остановлен")
}
