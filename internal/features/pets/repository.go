// Package pets — repository.go выполняет операции с таблицами pets и user_pets.
// Покупка и улучшение — денежные операции, выполняются в транзакциях БД.
package pets

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"kirbystars.ru/stars-bot/internal/common"
	"kirbystars.ru/stars-bot/internal/db/postgres"
)

// Repository предоставляет методы для работы с питомцами.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт новый репозиторий питомцев.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// GetActive возвращает активных питомцев каталога, от дешёвых к дорогим.
func (r *Repository) GetActive(ctx context.Context) ([]*Pet, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, description, price, boost_type, boost_value, is_active, created_at
		FROM pets
		WHERE is_active = TRUE
		ORDER BY price ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения питомцев: %w", err)
	}
	defer rows.Close()

	var pets []*Pet
	for rows.Next() {
		var p Pet
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.BoostType, &p.BoostValue, &p.IsActive, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования питомца: %w", err)
		}
		pets = append(pets, &p)
	}
	return pets, nil
}

// GetByID возвращает питомца каталога по ID.
func (r *Repository) GetByID(ctx context.Context, petID int64) (*Pet, error) {
	var p Pet
	err := r.db.QueryRow(ctx, `
		SELECT id, name, description, price, boost_type, boost_value, is_active, created_at
		FROM pets
		WHERE id = $1
	`, petID).Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.BoostType, &p.BoostValue, &p.IsActive, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrPetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка получения питомца: %w", err)
	}
	return &p, nil
}

// GetOwned возвращает питомцев пользователя вместе с данными каталога.
func (r *Repository) GetOwned(ctx context.Context, userID int64) ([]*UserPet, error) {
	rows, err := r.db.Query(ctx, `
		SELECT up.id, up.user_id, up.pet_id, up.level, up.created_at, up.updated_at,
		       p.id, p.name, p.description, p.price, p.boost_type, p.boost_value, p.is_active, p.created_at
		FROM user_pets up
		JOIN pets p ON p.id = up.pet_id
		WHERE up.user_id = $1
		ORDER BY up.created_at ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения питомцев пользователя: %w", err)
	}
	defer rows.Close()

	var owned []*UserPet
	for rows.Next() {
		var up UserPet
		var p Pet
		err := rows.Scan(
			&up.ID, &up.UserID, &up.PetID, &up.Level, &up.CreatedAt, &up.UpdatedAt,
			&p.ID, &p.Name, &p.Description, &p.Price, &p.BoostType, &p.BoostValue, &p.IsActive, &p.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования: %w", err)
		}
		up.Pet = &p
		owned = append(owned, &up)
	}
	return owned, nil
}

// GetOwnedBoosts возвращает лёгкий срез владения для калькулятора бустов.
func (r *Repository) GetOwnedBoosts(ctx context.Context, userID int64) ([]OwnedBoost, error) {
	rows, err := r.db.Query(ctx, `
		SELECT p.boost_type, p.boost_value, up.level
		FROM user_pets up
		JOIN pets p ON p.id = up.pet_id
		WHERE up.user_id = $1
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения бустов: %w", err)
	}
	defer rows.Close()

	var boosts []OwnedBoost
	for rows.Next() {
		var b OwnedBoost
		if err := rows.Scan(&b.BoostType, &b.BoostValue, &b.Level); err != nil {
			return nil, fmt.Errorf("ошибка сканирования буста: %w", err)
		}
		boosts = append(boosts, b)
	}
	return boosts, nil
}

// Buy покупает питомца: списание цены и создание владения — одна транзакция.
// Уникальное ограничение (user_id, pet_id) не даёт купить питомца дважды
// даже при двух параллельных нажатиях.
func (r *Repository) Buy(ctx context.Context, userID int64, pet *Pet) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		INSERT INTO user_pets (user_id, pet_id, level)
		VALUES ($1, $2, 1)
	`, userID, pet.ID); err != nil {
		if postgres.IsUniqueViolation(err) {
			return common.ErrPetAlreadyOwned
		}
		return fmt.Errorf("ошибка создания владения: %w", err)
	}

	desc := fmt.Sprintf("Покупка питомца «%s»", pet.Name)
	if err := postgres.DebitUser(ctx, tx, userID, pet.Price, OpPetBuy, desc); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Upgrade улучшает питомца: списание стоимости и level+1 — одна транзакция.
// Строка владения блокируется, чтобы два параллельных улучшения
// не прошли по цене одного уровня.
func (r *Repository) Upgrade(ctx context.Context, userID int64, pet *Pet) (int, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	var level int
	err = tx.QueryRow(ctx, `
		SELECT level FROM user_pets
		WHERE user_id = $1 AND pet_id = $2
		FOR UPDATE
	`, userID, pet.ID).Scan(&level)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, common.ErrPetNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("ошибка получения уровня: %w", err)
	}

	cost := UpgradeCost(pet.Price, level)
	desc := fmt.Sprintf("Улучшение питомца «%s» до уровня %d", pet.Name, level+1)
	if err := postgres.DebitUser(ctx, tx, userID, cost, OpPetUpgrade, desc); err != nil {
		return 0, err
	}

	if _, err := tx.Exec(ctx, `
		UPDATE user_pets SET level = level + 1, updated_at = NOW()
		WHERE user_id = $1 AND pet_id = $2
	`, userID, pet.ID); err != nil {
		return 0, fmt.Errorf("ошибка улучшения: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return level + 1, nil
}

// Create добавляет питомца в каталог (админ-операция).
func (r *Repository) Create(ctx context.Context, p *Pet) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO pets (name, description, price, boost_type, boost_value, is_active)
		VALUES ($1, $2, $3, $4, $5, TRUE)
		RETURNING id, created_at
	`, p.Name, p.Description, p.Price, p.BoostType, p.BoostValue).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("ошибка создания питомца: %w", err)
	}
	return nil
}

// SetActive включает или выключает питомца в каталоге.
func (r *Repository) SetActive(ctx context.Context, petID int64, active bool) error {
	_, err := r.db.Exec(ctx, `UPDATE pets SET is_active = $2 WHERE id = $1`, petID, active)
	return err
}

// Count возвращает число питомцев в каталоге. Нужно для стартового наполнения.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM pets`).Scan(&n)
	return n, err
}
