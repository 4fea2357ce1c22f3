package service

import (
	"context"
	"fmt"
	"sync"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"ares_bot/internal/models"
	"ares_bot/internal/modules/config"
	"ares_bot/pkg/logger"
)

// Engine — команды движка, доступные из чата.
type Engine interface {
	Start(ctx context.Context) error
	Stop() error
	Snapshot() models.EngineSnapshot
}

// Settings — правка пользовательских настроек из чата.
type Settings interface {
	Get() config.UserSettings
	SetLotSize(raw string) (float64, error)
	SetActiveIndices(symbols []string) []string
	Save() error
}

// sender — часть *tgbot.BotAPI, которой пользуется консоль.
type sender interface {
	Send(c tgbot.Chattable) (tgbot.Message, error)
	Request(c tgbot.Chattable) (*tgbot.APIResponse, error)
}

// Console — управление движком через Telegram: кнопки старт/стоп, статус, настройки.
// Если chatID задан, сообщения из других чатов игнорируются.
type Console struct {
	api      sender
	bot      *tgbot.BotAPI
	chatID   int64
	engine   Engine
	settings Settings
	await    *awaitStore

	stopOnce sync.Once
}

func NewConsole(cfg *config.Config, engine Engine, settings Settings) (*Console, error) {
	b, err := tgbot.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return nil, err
	}
	c := newConsole(b, cfg.Telegram.ChatID, engine, settings)
	c.bot = b
	return c, nil
}

func newConsole(api sender, chatID int64, engine Engine, settings Settings) *Console {
	return &Console{
		api:      api,
		chatID:   chatID,
		engine:   engine,
		settings: settings,
		await:    newAwaitStore(),
	}
}

func (c *Console) Send(chatID int64, msg string) {
	m := tgbot.NewMessage(chatID, msg)
	m.ParseMode = tgbot.ModeMarkdown
	if _, err := c.api.Send(m); err != nil {
		logger.Warn("[TELEGRAM] send: %v", err)
	}
}

func (c *Console) SendF(chatID int64, format string, args ...any) {
	c.Send(chatID, fmt.Sprintf(format, args...))
}

func (c *Console) sendMessage(m tgbot.MessageConfig) {
	if _, err := c.api.Send(m); err != nil {
		logger.Warn("[TELEGRAM] send: %v", err)
	}
}

func (c *Console) editText(chatID int64, msgID int, text string, kb *tgbot.InlineKeyboardMarkup) {
	var edit tgbot.EditMessageTextConfig
	if kb != nil {
		edit = tgbot.NewEditMessageTextAndMarkup(chatID, msgID, text, *kb)
	} else {
		edit = tgbot.NewEditMessageText(chatID, msgID, text)
	}
	edit.ParseMode = tgbot.ModeMarkdown
	if _, err := c.api.Request(edit); err != nil {
		logger.Warn("[TELEGRAM] edit: %v", err)
	}
}

func (c *Console) allowed(chatID int64) bool {
	return c.chatID == 0 || c.chatID == chatID
}

// Start читает апдейты long-poll'ом в отдельной горутине.
func (c *Console) Start(ctx context.Context) {
	if c.bot == nil {
		return
	}
	u := tgbot.NewUpdate(0)
	u.Timeout = 30
	updates := c.bot.GetUpdatesChan(u)
	go func() {
		for update := range updates {
			c.handleUpdate(ctx, update)
		}
	}()
	logger.Info("[TELEGRAM] console @%s started", c.bot.Self.UserName)
}

func (c *Console) Stop() {
	if c.bot == nil {
		return
	}
	c.stopOnce.Do(c.bot.StopReceivingUpdates)
}
