package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vacancy-diary/tracker/backend/internal/config"
)

// OTPStore хранит одноразовые коды для сброса пароля в redis.
// Промах сигнализируется как redis.Nil.
type OTPStore struct {
	cfg *config.Config
	rdb *redis.Client
}

func NewOTPStore(cfg *config.Config, rdb *redis.Client) *OTPStore {
	return &OTPStore{
		cfg: cfg,
		rdb: rdb,
	}
}

func (s *OTPStore) key(login string) string {
	return fmt.Sprintf("otp_%s_reset_password", login)
}

func (s *OTPStore) SaveOTP(ctx context.Context, login, otp string, ttl time.Duration) error {
	return s.rdb.Set(ctx, s.key(login), otp, ttl).Err()
}

func (s *OTPStore) GetOTP(ctx context.Context, login string) (string, error) {
	return s.rdb.Get(ctx, s.key(login)).Result()
}

func (s *OTPStore) DeleteOTP(ctx context.Context, login string) error {
	return s.rdb.Del(ctx, s.key(login)).Err()
}
