// Package tasks — handlers.go обрабатывает команды /task и /done.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	log "github.com/sirupsen/logrus"

	"kirbystars.ru/stars-bot/internal/common"
	"kirbystars.ru/stars-bot/internal/telegram"
)

// Handler обрабатывает команды заданий.
type Handler struct {
	service *Service
	client  *telegram.Client
}

// NewHandler создаёт обработчик заданий.
func NewHandler(service *Service, client *telegram.Client) *Handler {
	return &Handler{service: service, client: client}
}

// HandleTask обрабатывает /task — показывает следующее задание.
func (h *Handler) HandleTask(ctx context.Context, chatID, userID int64) {
	task, err := h.service.Next(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrTaskNotFound) {
			h.client.Send(ctx, chatID, "🎉 Все задания выполнены! Загляни позже.")
			return
		}
		log.WithError(err).Error("Ошибка получения задания")
		h.client.Send(ctx, chatID, "❌ Ошибка получения задания")
		return
	}

	h.client.Send(ctx, chatID, fmt.Sprintf(
		"📋 Задание #%d: %s\nНаграда: %s\nЦель: %s\n\nВыполнил? Жми /done %d",
		task.ID, task.Title, common.FormatStars(task.Reward), task.Target, task.ID,
	))
}

// HandleDone обрабатывает /done <id> — проверка и награда.
func (h *Handler) HandleDone(ctx context.Context, chatID, userID int64, args []string) {
	if len(args) < 1 {
		h.client.Send(ctx, chatID, "❌ Формат: /done <номер задания>")
		return
	}
	taskID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || taskID <= 0 {
		h.client.Send(ctx, chatID, "❌ Номер задания должен быть числом")
		return
	}

	result, err := h.service.Complete(ctx, userID, taskID)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrTaskNotFound):
			h.client.Send(ctx, chatID, "❌ Задание не найдено")
		case errors.Is(err, common.ErrTaskAlreadyCompleted):
			h.client.Send(ctx, chatID, "❌ Это задание уже выполнено")
		case errors.Is(err, common.ErrNotSubscribed):
			h.client.Send(ctx, chatID, "❌ Подписка не найдена. Подпишись и повтори /done")
		case errors.Is(err, common.ErrSubscriptionCheck):
			h.client.Send(ctx, chatID, "⚠️ Не удалось проверить подписку, попробуйте позже")
		default:
			log.WithError(err).Error("Ошибка выполнения задания")
			h.client.Send(ctx, chatID, "❌ Ошибка, попробуйте позже")
		}
		return
	}

	h.client.Send(ctx, chatID, fmt.Sprintf(
		"✅ Задание «%s» выполнено! +%s\nСледующее: /task",
		result.Task.Title, common.FormatStars(result.Amount),
	))
}
