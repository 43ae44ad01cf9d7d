// Package pets — handlers.go обрабатывает команды магазина питомцев:
// /pets (каталог и свои питомцы), /buypet <id>, /uppet <id>.
package pets

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"kirbystars.ru/stars-bot/internal/common"
	"kirbystars.ru/stars-bot/internal/telegram"
)

// Handler обрабатывает команды питомцев.
type Handler struct {
	service *Service
	client  *telegram.Client
}

// NewHandler создаёт обработчик питомцев.
func NewHandler(service *Service, client *telegram.Client) *Handler {
	return &Handler{service: service, client: client}
}

// HandlePets обрабатывает /pets — каталог и питомцы пользователя.
func (h *Handler) HandlePets(ctx context.Context, chatID, userID int64) {
	catalog, err := h.service.List(ctx)
	if err != nil {
		log.WithError(err).Error("Ошибка получения каталога питомцев")
		h.client.Send(ctx, chatID, "❌ Ошибка получения каталога")
		return
	}
	owned, err := h.service.MyPets(ctx, userID)
	if err != nil {
		log.WithError(err).Error("Ошибка получения питомцев пользователя")
		h.client.Send(ctx, chatID, "❌ Ошибка получения питомцев")
		return
	}

	ownedLevels := make(map[int64]int, len(owned))
	for _, up := range owned {
		ownedLevels[up.PetID] = up.Level
	}

	var b strings.Builder
	b.WriteString("🐾 Магазин питомцев:\n\n")
	for _, p := range catalog {
		if level, ok := ownedLevels[p.ID]; ok {
			fmt.Fprintf(&b, "✅ #%d %s — уровень %d (улучшить: /uppet %d, цена %s)\n",
				p.ID, p.Name, level, p.ID, common.FormatStars(UpgradeCost(p.Price, level)))
		} else {
			fmt.Fprintf(&b, "🛒 #%d %s — %s (/buypet %d)\n   %s\n",
				p.ID, p.Name, common.FormatStars(p.Price), p.ID, p.Description)
		}
	}
	h.client.Send(ctx, chatID, b.String())
}

// HandleBuy обрабатывает /buypet <id>.
func (h *Handler) HandleBuy(ctx context.Context, chatID, userID int64, args []string) {
	petID, ok := parsePetID(args)
	if !ok {
		h.client.Send(ctx, chatID, "❌ Формат: /buypet <номер питомца>")
		return
	}

	pet, err := h.service.Buy(ctx, userID, petID)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrPetNotFound):
			h.client.Send(ctx, chatID, "❌ Питомец не найден")
		case errors.Is(err, common.ErrPetAlreadyOwned):
			h.client.Send(ctx, chatID, "❌ Этот питомец у тебя уже есть, улучшай его: /uppet")
		case errors.Is(err, common.ErrInsufficientBalance):
			h.client.Send(ctx, chatID, "❌ Недостаточно звёзд")
		default:
			log.WithError(err).Error("Ошибка покупки питомца")
			h.client.Send(ctx, chatID, "❌ Ошибка покупки")
		}
		return
	}

	h.client.Send(ctx, chatID, fmt.Sprintf("🎉 Питомец %s куплен за %s!", pet.Name, common.FormatStars(pet.Price)))
}

// HandleUpgrade обрабатывает /uppet <id>.
func (h *Handler) HandleUpgrade(ctx context.Context, chatID, userID int64, args []string) {
	petID, ok := parsePetID(args)
	if !ok {
		h.client.Send(ctx, chatID, "❌ Формат: /uppet <номер питомца>")
		return
	}

	newLevel, err := h.service.Upgrade(ctx, userID, petID)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrPetNotFound):
			h.client.Send(ctx, chatID, "❌ Сначала купи этого питомца: /pets")
		case errors.Is(err, common.ErrInsufficientBalance):
			h.client.Send(ctx, chatID, "❌ Недостаточно звёзд на улучшение")
		default:
			log.WithError(err).Error("Ошибка улучшения питомца")
			h.client.Send(ctx, chatID, "❌ Ошибка улучшения")
		}
		return
	}

	h.client.Send(ctx, chatID, fmt.Sprintf("⬆️ Питомец улучшен до уровня %d!", newLevel))
}

func parsePetID(args []string) (int64, bool) {
	if len(args) < 1 {
		return 0, false
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
