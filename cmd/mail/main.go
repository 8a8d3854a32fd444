package main

import (
	"context"
	"encoding/json"
	"html/template"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/vacancy-diary/tracker/backend/internal/config"
	"github.com/vacancy-diary/tracker/backend/internal/domain"
	"github.com/wneessen/go-mail"
)

func main() {
	/**********************************************
	 * создаём logger
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	/**********************************************
	 * загружаем конфигурацию
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("не удалось загрузить конфигурацию", slog.String("error", err.Error()))
		return
	}

	/**********************************************
	 * создаём почтовый клиент
	 **********************************************/
	client, err := mail.NewClient(cfg.Email.SMTP.Host,
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithSSL(),
		mail.WithPort(cfg.Email.SMTP.Port),
		mail.WithUsername(cfg.Email.SMTP.Username),
		mail.WithPassword(cfg.Email.SMTP.Password),
	)
	if err != nil {
		logger.Error("не удалось создать почтовый клиент", slog.String("error", err.Error()))
		return
	}
	defer client.Close()

	// проверяем, что клиент может подключиться к серверу
	clientDialCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Email.SMTP.DialTimeout)*time.Second)
	defer cancel()
	if err := client.DialWithContext(clientDialCtx); err != nil {
		logger.Error("не удалось подключиться к почтовому серверу", slog.String("error", err.Error()))
		return
	}

	/**********************************************
	 * подключаемся к RabbitMQ
	 **********************************************/
	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		logger.Error("не удалось подключиться к RabbitMQ", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	// открываем канал
	ch, err := conn.Channel()
	if err != nil {
		logger.Error("не удалось открыть канал", slog.String("error", err.Error()))
		return
	}
	defer ch.Close()

	// объявляем очередь
	q, err := ch.QueueDeclare(
		"email_queue", // имя очереди
		true,          // durable
		false,         // false, чтобы очередь не удалялась без потребителей
		false,         // эксклюзивность
		false,         // ждём подтверждения от RabbitMQ
		nil,           // дополнительные параметры
	)
	if err != nil {
		logger.Error("не удалось объявить очередь", slog.String("error", err.Error()))
		return
	}

	// слушаем CTRL+C
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// потребляем сообщения
	msgs, err := ch.Consume(
		q.Name, // очередь
		"",     // идентификатор потребителя, пустой — назначит RabbitMQ
		false,  // без автоподтверждения
		false,  // эксклюзивность
		false,  // no-local, RabbitMQ этот параметр не поддерживает
		false,  // ждём ответа RabbitMQ
		nil,    // дополнительные параметры
	)
	if err != nil {
		logger.Error("не удалось начать потребление сообщений", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// контекст для остановки горутины
	ctx, cancel := context.WithCancel(context.Background())
	wg := sync.WaitGroup{}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-msgs:
				logger.Info("получено сообщение", slog.String("message", string(msg.Body)))
				// десериализуем сообщение
				mailMessage := domain.MailMessage{}
				if err := json.Unmarshal(msg.Body, &mailMessage); err != nil {
					logger.Error("не удалось десериализовать сообщение", slog.String("error", err.Error()))
					_ = msg.Nack(false, false)
					continue
				}

				// собираем письмо
				mail := mail.NewMsg()
				if err := mail.From(cfg.Email.SMTP.Username); err != nil {
					logger.Error("не удалось указать отправителя письма", slog.String("error", err.Error()))
					_ = msg.Nack(false, false)
					continue
				}
				if err := mail.To(mailMessage.To); err != nil {
					logger.Error("не удалось указать получателя письма", slog.String("error", err.Error()))
					_ = msg.Nack(false, false)
					continue
				}

				// выбираем шаблон по типу письма
				switch mailMessage.Type {
				case "reset_password":
					data, err := mailMessage.ResetPasswordData()
					if err != nil {
						logger.Error("не удалось восстановить данные письма", slog.String("error", err.Error()))
						_ = msg.Nack(false, false)
						continue
					}
					tmpl, err := template.ParseFiles("./templates/reset_password_otp_email.html")
					if err != nil {
						logger.Error("не удалось разобрать шаблон письма", slog.String("error", err.Error()))
						_ = msg.Nack(false, false)
						continue
					}
					if err := mail.SetBodyHTMLTemplate(tmpl, data); err != nil {
						logger.Error("не удалось заполнить тело письма", slog.String("error", err.Error()))
						_ = msg.Nack(false, false)
						continue
					}
					mail.Subject("Дневник вакансий - сброс пароля")
				default:
					logger.Error("неподдерживаемый тип письма", slog.String("type", mailMessage.Type))
					_ = msg.Nack(false, false)
					continue
				}

				// отправляем письмо
				if err := client.DialAndSend(mail); err != nil {
					logger.Error("не удалось отправить письмо", slog.String("error", err.Error()))
					_ = msg.Nack(false, true) // возвращаем сообщение в очередь
					continue
				}

				// подтверждаем сообщение
				_ = msg.Ack(false)
			}
		}
	}()

	// ждём CTRL+C
	logger.Info("ожидаем сообщения... (CTRL+C для выхода)")
	<-sigChan

	// останавливаемся аккуратно
	slog.Info("останавливаем mail worker...")
	cancel()
	wg.Wait() // дожидаемся все горутины
	slog.Info("mail worker успешно остановлен")
}
