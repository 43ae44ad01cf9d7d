// Package common — errors.go определяет пользовательские ошибки,
// которые используются во всех модулях бота.
// Каждая причина отказа — отдельная ошибка, чтобы обработчики
// могли показать пользователю точное сообщение.
package common

import "errors"

// Ошибки экономики (звёзды, балансы)
var (
	// ErrInsufficientBalance — недостаточно звёзд на балансе
	ErrInsufficientBalance = errors.New("недостаточно звёзд на балансе")
	// ErrInvalidAmount — некорректная сумма (ноль или отрицательная)
	ErrInvalidAmount = errors.New("сумма должна быть положительной")
	// ErrUserNotFound — пользователь не найден в базе
	ErrUserNotFound = errors.New("пользователь не найден")
)

// Ошибки ежедневных наград
var (
	// ErrAlreadyClicked — клик за сегодня уже засчитан
	ErrAlreadyClicked = errors.New("вы уже кликали сегодня")
	// ErrAlreadyOpenedCase — кейс за сегодня уже открыт
	ErrAlreadyOpenedCase = errors.New("вы уже открывали кейс сегодня")
	// ErrNotEnoughReferrals — недостаточно приглашённых за сегодня для кейса
	ErrNotEnoughReferrals = errors.New("недостаточно рефералов за сегодня")
)

// Ошибки рефералов
var (
	// ErrSelfReferral — попытка зарегистрироваться по собственной ссылке
	ErrSelfReferral = errors.New("нельзя использовать собственную реферальную ссылку")
)

// Ошибки заданий
var (
	// ErrTaskNotFound — задание не найдено или отключено
	ErrTaskNotFound = errors.New("задание не найдено")
	// ErrTaskAlreadyCompleted — награда за задание уже получена
	ErrTaskAlreadyCompleted = errors.New("задание уже выполнено")
	// ErrNotSubscribed — пользователь не подписан на целевой канал/чат
	ErrNotSubscribed = errors.New("подпишитесь на канал для выполнения задания")
	// ErrSubscriptionCheck — не удалось проверить подписку.
	// Внешний сбой трактуется как отказ, а не как молчаливый пропуск.
	ErrSubscriptionCheck = errors.New("не удалось проверить подписку")
)

// Ошибки питомцев
var (
	// ErrPetNotFound — питомец не найден или снят с продажи
	ErrPetNotFound = errors.New("питомец не найден")
	// ErrPetAlreadyOwned — питомец уже куплен (один экземпляр на пользователя)
	ErrPetAlreadyOwned = errors.New("питомец уже куплен")
)

// Ошибки лотерей
var (
	// ErrLotteryNotFound — лотерея не найдена
	ErrLotteryNotFound = errors.New("лотерея не найдена")
	// ErrLotteryInactive — лотерея не принимает билеты
	ErrLotteryInactive = errors.New("лотерея не активна")
	// ErrLotteryExpired — срок лотереи истёк
	ErrLotteryExpired = errors.New("срок лотереи истёк")
	// ErrLotterySoldOut — все билеты распроданы
	ErrLotterySoldOut = errors.New("все билеты распроданы")
	// ErrTicketAlreadyBought — один билет на пользователя в одной лотерее
	ErrTicketAlreadyBought = errors.New("у вас уже есть билет в этой лотерее")
	// ErrLotteryFinished — победитель уже выбран, повторный розыгрыш невозможен
	ErrLotteryFinished = errors.New("лотерея уже завершена")
	// ErrNoTickets — нет ни одного проданного билета
	ErrNoTickets = errors.New("нет участников в лотерее")
	// ErrTicketsRemain — удаление лотереи при невозвращённых билетах
	ErrTicketsRemain = errors.New("в лотерее остались невозвращённые билеты")
	// ErrWinnerNotParticipant — указанный победитель не покупал билет
	ErrWinnerNotParticipant = errors.New("указанный пользователь не участвует в лотерее")
)

// Ошибки промокодов
var (
	// ErrPromoNotFound — промокод не существует
	ErrPromoNotFound = errors.New("промокод не найден")
	// ErrPromoInactive — промокод отключён
	ErrPromoInactive = errors.New("промокод больше не активен")
	// ErrPromoExhausted — лимит использований исчерпан
	ErrPromoExhausted = errors.New("промокод исчерпан")
	// ErrPromoAlreadyUsed — пользователь уже активировал этот промокод
	ErrPromoAlreadyUsed = errors.New("вы уже использовали этот промокод")
)

// Ошибки вывода
var (
	// ErrInvalidWithdrawalAmount — сумма не входит в список доступных вариантов
	ErrInvalidWithdrawalAmount = errors.New("неверная сумма для вывода")
	// ErrWithdrawalPending — у пользователя уже есть заявка на рассмотрении
	ErrWithdrawalPending = errors.New("у вас уже есть заявка на вывод")
	// ErrWithdrawalNotFound — заявка не найдена
	ErrWithdrawalNotFound = errors.New("заявка не найдена")
	// ErrWithdrawalProcessed — заявка уже обработана (повторное решение запрещено)
	ErrWithdrawalProcessed = errors.New("заявка уже обработана")
)

// Ошибки админки
var (
	// ErrWrongPassword — неверный пароль администратора
	ErrWrongPassword = errors.New("неверный пароль")
	// ErrTooManyAttempts — слишком много неудачных попыток входа
	ErrTooManyAttempts = errors.New("слишком много попыток, подождите 1 час")
)
