// Package admin — service.go содержит аутентификацию администратора
// и доступ к сводной статистике.
package admin

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"kirbystars.ru/stars-bot/internal/common"
	"kirbystars.ru/stars-bot/internal/config"
)

// Длительности, управляющие доступом в админку
const (
	sessionTTL       = 24 * time.Hour
	lockoutWindow    = 1 * time.Hour
	maxLoginAttempts = 3
)

// Service управляет админ-панелью.
type Service struct {
	repo *Repository
	cfg  *config.Config
}

// NewService создаёт сервис админ-панели.
func NewService(repo *Repository, cfg *config.Config) *Service {
	return &Service{repo: repo, cfg: cfg}
}

// Login проверяет пароль администратора (Argon2id) и открывает сессию.
// Три неудачные попытки за час блокируют вход на час.
func (s *Service) Login(ctx context.Context, userID int64, password string) error {
	attempts, err := s.repo.GetRecentAttempts(ctx, userID, lockoutWindow)
	if err != nil {
		return err
	}
	if attempts >= maxLoginAttempts {
		return common.ErrTooManyAttempts
	}

	match := VerifyHash(password, s.cfg.AdminPasswordHash)

	if err := s.repo.LogAttempt(ctx, userID, match); err != nil {
		log.WithError(err).WithField("user_id", userID).Warn("Не удалось записать попытку входа")
	}

	if !match {
		log.WithField("user_id", userID).Warn("Неудачная попытка входа в админку")
		return common.ErrWrongPassword
	}

	token, err := generateSecureToken()
	if err != nil {
		return err
	}
	session := &Session{
		UserID:       userID,
		SessionToken: token,
		ExpiresAt:    time.Now().Add(sessionTTL),
	}
	if err := s.repo.CreateSession(ctx, session); err != nil {
		return err
	}

	log.WithField("user_id", userID).Info("Администратор вошёл в панель")
	return nil
}

// Logout закрывает сессии администратора.
func (s *Service) Logout(ctx context.Context, userID int64) error {
	return s.repo.DeactivateSession(ctx, userID)
}

// IsAuthenticated проверяет активную сессию и продлевает её активность.
func (s *Service) IsAuthenticated(ctx context.Context, userID int64) bool {
	session, err := s.repo.GetActiveSession(ctx, userID)
	if err != nil || session == nil {
		return false
	}
	if err := s.repo.UpdateActivity(ctx, userID); err != nil {
		log.WithError(err).WithField("user_id", userID).Warn("Не удалось обновить активность сессии")
	}
	return true
}

// Stats возвращает сводную статистику бота.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	return s.repo.GetStats(ctx)
}
