package notify

import (
	"fmt"
	"sync"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"ares_bot/pkg/logger"
)

// Notifier — fire-and-forget уведомления. Ошибки доставки никогда не возвращаются.
type Notifier interface {
	Notify(subject, body string)
}

// Telegram — пассивный нотифайер в один чат.
type Telegram struct {
	bot    *tgbot.BotAPI
	chatID int64
}

func NewTelegram(token string, chatID int64) (*Telegram, error) {
	b, err := tgbot.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &Telegram{bot: b, chatID: chatID}, nil
}

func (t *Telegram) Notify(subject, body string) {
	if t == nil || t.bot == nil || t.chatID == 0 {
		return
	}
	if _, err := t.bot.Send(tgbot.NewMessage(t.chatID, fmt.Sprintf("%s\n%s", subject, body))); err != nil {
		logger.Warn("[NOTIFY] telegram: %v", err)
	}
}

// Stdout — всё в лог.
type Stdout struct{}

func NewStdout() *Stdout { return &Stdout{} }

func (s *Stdout) Notify(subject, body string) {
	logger.Info("[NOTIFY] %s: %s", subject, body)
}

// Multi рассылает по всем бэкендам по очереди.
type Multi []Notifier

func (m Multi) Notify(subject, body string) {
	for _, n := range m {
		if n != nil {
			n.Notify(subject, body)
		}
	}
}

// Async не блокирует вызывающего: доставка идёт в своей горутине.
type Async struct {
	next Notifier
	wg   sync.WaitGroup
}

func NewAsync(next Notifier) *Async { return &Async{next: next} }

func (a *Async) Notify(subject, body string) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				logger.Error("[NOTIFY] panic: %v", r)
			}
		}()
		a.next.Notify(subject, body)
	}()
}

// Wait дожидается доставок в полёте (при остановке сервиса).
func (a *Async) Wait() { a.wg.Wait() }
