// Package app инициализирует все компоненты приложения.
// app.go — точка сборки: создаёт БД-пул, репозитории, сервисы, обработчики
// и собирает всё в один объект Bot.
package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"kirbystars.ru/stars-bot/internal/bot"
	"kirbystars.ru/stars-bot/internal/common"
	"kirbystars.ru/stars-bot/internal/config"
	"kirbystars.ru/stars-bot/internal/db/postgres"
	"kirbystars.ru/stars-bot/internal/features/admin"
	"kirbystars.ru/stars-bot/internal/features/channels"
	"kirbystars.ru/stars-bot/internal/features/lottery"
	"kirbystars.ru/stars-bot/internal/features/pets"
	"kirbystars.ru/stars-bot/internal/features/promo"
	"kirbystars.ru/stars-bot/internal/features/rewards"
	"kirbystars.ru/stars-bot/internal/features/tasks"
	"kirbystars.ru/stars-bot/internal/features/users"
	"kirbystars.ru/stars-bot/internal/features/withdrawals"
	"kirbystars.ru/stars-bot/internal/jobs"
	"kirbystars.ru/stars-bot/internal/telegram"
)

// App содержит все компоненты приложения.
type App struct {
	Bot       *bot.Bot
	Scheduler *jobs.Scheduler
	DB        *pgxpool.Pool
	Client    *telegram.Client
}

// New создаёт и инициализирует приложение.
// Порядок инициализации важен — компоненты зависят друг от друга.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	loc := common.LoadTimezone(cfg.AppTimezone)

	// === 1. База данных ===
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к БД: %w", err)
	}

	if err := runMigrations(ctx, pool); err != nil {
		return nil, fmt.Errorf("ошибка миграций: %w", err)
	}

	// === 2. Telegram ===
	client, err := telegram.NewClient(ctx, cfg.TelegramBotToken)
	if err != nil {
		return nil, err
	}

	// === 3. Репозитории ===
	userRepo := users.NewRepository(pool)
	petRepo := pets.NewRepository(pool)
	rewardRepo := rewards.NewRepository(pool)
	taskRepo := tasks.NewRepository(pool)
	lotteryRepo := lottery.NewRepository(pool)
	promoRepo := promo.NewRepository(pool)
	withdrawalRepo := withdrawals.NewRepository(pool)
	channelRepo := channels.NewRepository(pool)
	adminRepo := admin.NewRepository(pool)
	jobRepo := jobs.NewRepository(pool)

	// === 4. Сервисы ===
	petService := pets.NewService(petRepo)
	userService := users.NewService(userRepo, petService, cfg)
	rewardService := rewards.NewService(rewardRepo, petService, cfg, loc)
	taskService := tasks.NewService(taskRepo, petService, client)
	lotteryService := lottery.NewService(lotteryRepo)
	promoService := promo.NewService(promoRepo)
	withdrawalService := withdrawals.NewService(withdrawalRepo, client, cfg.WithdrawalChatID, loc)
	channelService := channels.NewService(channelRepo, client)
	adminService := admin.NewService(adminRepo, cfg)

	// Стартовый каталог питомцев (только при пустой таблице)
	if err := petService.SeedDefaults(ctx); err != nil {
		return nil, fmt.Errorf("ошибка создания каталога питомцев: %w", err)
	}

	// === 5. Обработчики ===
	userHandler := users.NewHandler(userService, client, client.Username())
	rewardHandler := rewards.NewHandler(rewardService, client)
	petHandler := pets.NewHandler(petService, client)
	taskHandler := tasks.NewHandler(taskService, client)
	lotteryHandler := lottery.NewHandler(lotteryService, client)
	promoHandler := promo.NewHandler(promoService, client)
	withdrawalHandler := withdrawals.NewHandler(withdrawalService, client)
	adminHandler := admin.NewHandler(
		adminService, taskService, promoService, lotteryService,
		withdrawalService, channelService, petService, client,
	)

	// === 6. Собираем бота ===
	b := bot.New(
		client, cfg, channelService,
		userHandler, rewardHandler, petHandler, taskHandler,
		lotteryHandler, promoHandler, withdrawalHandler, adminHandler,
	)

	// === 7. Планировщик задач ===
	scheduler := jobs.NewScheduler(jobRepo, userService, lotteryService, loc)

	return &App{
		Bot:       b,
		Scheduler: scheduler,
		DB:        pool,
		Client:    client,
	}, nil
}

// runMigrations выполняет все SQL-миграции.
func runMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return err
	}

	migrations := []struct {
		version int
		sql     string
	}{
		{1, migration001Users},
		{2, migration002Pets},
		{3, migration003Tasks},
		{4, migration004Lotteries},
		{5, migration005Promocodes},
		{6, migration006Withdrawals},
		{7, migration007Channels},
		{8, migration008Admin},
		{9, migration009Jobs},
	}

	for _, m := range migrations {
		if err := postgres.ExecMigrationSQL(ctx, pool, m.version, m.sql); err != nil {
			return fmt.Errorf("миграция %d: %w", m.version, err)
		}
		log.Infof("Миграция %d применена", m.version)
	}

	return nil
}

// SQL-миграции встроены в код для упрощения деплоя.

var migration001Users = `
CREATE TABLE IF NOT EXISTS users (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT UNIQUE NOT NULL,
    username VARCHAR(255) DEFAULT '',
    first_name VARCHAR(255) DEFAULT '',
    last_name VARCHAR(255) DEFAULT '',
    balance DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (balance >= 0),
    referral_code VARCHAR(16) UNIQUE NOT NULL,
    referrer_id BIGINT,
    referrals_count INTEGER NOT NULL DEFAULT 0,
    weekly_referrals INTEGER NOT NULL DEFAULT 0,
    cases_opened INTEGER NOT NULL DEFAULT 0,
    tasks_completed INTEGER NOT NULL DEFAULT 0,
    last_click TIMESTAMPTZ,
    last_case_date TIMESTAMPTZ,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_users_referral_code ON users(referral_code);
CREATE INDEX IF NOT EXISTS idx_users_referrer_id ON users(referrer_id);
CREATE INDEX IF NOT EXISTS idx_users_weekly_referrals ON users(weekly_referrals DESC);

CREATE TABLE IF NOT EXISTS star_transactions (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT NOT NULL REFERENCES users(user_id),
    amount DOUBLE PRECISION NOT NULL,
    operation VARCHAR(50) NOT NULL,
    description TEXT DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_star_transactions_user_id ON star_transactions(user_id);
CREATE INDEX IF NOT EXISTS idx_star_transactions_created_at ON star_transactions(created_at DESC);
`

var migration002Pets = `
CREATE TABLE IF NOT EXISTS pets (
    id BIGSERIAL PRIMARY KEY,
    name VARCHAR(255) NOT NULL,
    description TEXT DEFAULT '',
    price DOUBLE PRECISION NOT NULL,
    boost_type VARCHAR(20) NOT NULL,
    boost_value DOUBLE PRECISION NOT NULL,
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS user_pets (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT NOT NULL REFERENCES users(user_id),
    pet_id BIGINT NOT NULL REFERENCES pets(id),
    level INTEGER NOT NULL DEFAULT 1,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    UNIQUE (user_id, pet_id)
);
CREATE INDEX IF NOT EXISTS idx_user_pets_user_id ON user_pets(user_id);
`

var migration003Tasks = `
CREATE TABLE IF NOT EXISTS tasks (
    id BIGSERIAL PRIMARY KEY,
    title VARCHAR(255) NOT NULL,
    type VARCHAR(20) NOT NULL,
    target VARCHAR(255) NOT NULL,
    reward DOUBLE PRECISION NOT NULL,
    order_num INTEGER NOT NULL DEFAULT 0,
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_tasks_order_num ON tasks(order_num);

CREATE TABLE IF NOT EXISTS user_tasks (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT NOT NULL REFERENCES users(user_id),
    task_id BIGINT NOT NULL REFERENCES tasks(id),
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    UNIQUE (user_id, task_id)
);
CREATE INDEX IF NOT EXISTS idx_user_tasks_user_id ON user_tasks(user_id);
`

var migration004Lotteries = `
CREATE TABLE IF NOT EXISTS lotteries (
    id BIGSERIAL PRIMARY KEY,
    title VARCHAR(255) NOT NULL,
    ticket_price DOUBLE PRECISION NOT NULL,
    max_tickets INTEGER NOT NULL DEFAULT 0,
    tickets_sold INTEGER NOT NULL DEFAULT 0,
    prize_pool DOUBLE PRECISION NOT NULL DEFAULT 0,
    commission_percent DOUBLE PRECISION NOT NULL DEFAULT 0,
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    winner_selected BOOLEAN NOT NULL DEFAULT FALSE,
    winner_id BIGINT,
    expires_at TIMESTAMPTZ,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS lottery_tickets (
    id BIGSERIAL PRIMARY KEY,
    lottery_id BIGINT NOT NULL REFERENCES lotteries(id) ON DELETE CASCADE,
    user_id BIGINT NOT NULL REFERENCES users(user_id),
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    UNIQUE (lottery_id, user_id)
);
CREATE INDEX IF NOT EXISTS idx_lottery_tickets_lottery_id ON lottery_tickets(lottery_id);
`

var migration005Promocodes = `
CREATE TABLE IF NOT EXISTS promocodes (
    id BIGSERIAL PRIMARY KEY,
    code VARCHAR(64) UNIQUE NOT NULL,
    reward DOUBLE PRECISION NOT NULL,
    max_uses INTEGER NOT NULL DEFAULT 0,
    used_count INTEGER NOT NULL DEFAULT 0,
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS user_promocodes (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT NOT NULL REFERENCES users(user_id),
    promocode_id BIGINT NOT NULL REFERENCES promocodes(id),
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    UNIQUE (user_id, promocode_id)
);
`

var migration006Withdrawals = `
CREATE TABLE IF NOT EXISTS withdrawals (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT NOT NULL REFERENCES users(user_id),
    amount DOUBLE PRECISION NOT NULL,
    label VARCHAR(64) NOT NULL,
    status VARCHAR(20) NOT NULL DEFAULT 'pending',
    reject_reason TEXT NOT NULL DEFAULT '',
    decided_at TIMESTAMPTZ,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_withdrawals_one_pending
    ON withdrawals(user_id) WHERE status = 'pending';
CREATE INDEX IF NOT EXISTS idx_withdrawals_status ON withdrawals(status);
`

var migration007Channels = `
CREATE TABLE IF NOT EXISTS required_channels (
    id BIGSERIAL PRIMARY KEY,
    chat_id VARCHAR(255) NOT NULL,
    title VARCHAR(255) NOT NULL,
    url VARCHAR(255) NOT NULL,
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

var migration008Admin = `
CREATE TABLE IF NOT EXISTS admin_sessions (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT NOT NULL,
    session_token VARCHAR(255) UNIQUE,
    authenticated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    expires_at TIMESTAMPTZ,
    last_activity TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    is_active BOOLEAN NOT NULL DEFAULT TRUE
);
CREATE INDEX IF NOT EXISTS idx_admin_sessions_user_id ON admin_sessions(user_id);

CREATE TABLE IF NOT EXISTS admin_login_attempts (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT NOT NULL,
    attempt_time TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    success BOOLEAN NOT NULL DEFAULT FALSE
);
CREATE INDEX IF NOT EXISTS idx_admin_login_attempts_user_id ON admin_login_attempts(user_id, attempt_time DESC);
`

var migration009Jobs = `
CREATE TABLE IF NOT EXISTS job_runs (
    id BIGSERIAL PRIMARY KEY,
    job_name VARCHAR(64) NOT NULL,
    period_key VARCHAR(32) NOT NULL,
    executed_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    UNIQUE (job_name, period_key)
);
`
