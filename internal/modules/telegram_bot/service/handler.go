package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"ares_bot/internal/models"
	"ares_bot/internal/modules/config"
	"ares_bot/internal/runner"
	"ares_bot/pkg/logger"
)

const (
	btnStart    = "▶️ Запустить движок"
	btnStop     = "⏹ Остановить движок"
	btnSettings = "⚙️ Настройки"
	btnStatus   = "📊 Статус"

	awaitLot = "lot"

	cbSetLot     = "SET::lot"
	cbSymbol     = "SYM::"
	cbSymbolsAll = "SYM::all"
)

func (c *Console) handleUpdate(ctx context.Context, update tgbot.Update) {
	// 1) Обычные сообщения
	if msg := update.Message; msg != nil {
		if msg.Chat == nil || !c.allowed(msg.Chat.ID) {
			return
		}
		chatID := msg.Chat.ID

		if msg.IsCommand() {
			switch msg.Command() {
			case "start", "help":
				c.handleMenu(chatID)
			case "status":
				c.handleStatus(chatID)
			case "lot":
				c.applyLot(chatID, msg.CommandArguments())
			}
			return
		}

		c.handleTextMessage(ctx, chatID, strings.TrimSpace(msg.Text))
		return
	}

	// 2) Inline-кнопки
	if cb := update.CallbackQuery; cb != nil {
		if cb.Message == nil || cb.Message.Chat == nil || !c.allowed(cb.Message.Chat.ID) {
			return
		}
		if _, err := c.api.Request(tgbot.NewCallback(cb.ID, "")); err != nil {
			logger.Warn("[TELEGRAM] answer callback: %v", err)
		}
		c.handleCallback(cb.Message.Chat.ID, cb.Message.MessageID, cb.Data)
	}
}

func (c *Console) handleMenu(chatID int64) {
	replyKb := tgbot.NewReplyKeyboard(
		tgbot.NewKeyboardButtonRow(
			tgbot.NewKeyboardButton(btnStart),
			tgbot.NewKeyboardButton(btnStop),
		),
		tgbot.NewKeyboardButtonRow(
			tgbot.NewKeyboardButton(btnSettings),
			tgbot.NewKeyboardButton(btnStatus),
		),
	)

	msg := tgbot.NewMessage(chatID, "Ares: пульт движка.\n\n"+
		"Кнопками запускается и останавливается цикл, в настройках меняются лот и набор индексов.\n"+
		"Лот можно задать и командой `/lot 0.2`.")
	msg.ParseMode = tgbot.ModeMarkdown
	msg.ReplyMarkup = replyKb
	c.sendMessage(msg)
}

func (c *Console) handleTextMessage(ctx context.Context, chatID int64, text string) {
	switch text {
	case btnStart:
		c.await.clear(chatID)
		if err := c.engine.Start(ctx); err != nil {
			if errors.Is(err, runner.ErrAlreadyRunning) {
				c.Send(chatID, "ℹ️ Движок уже запущен")
				return
			}
			c.Send(chatID, "❌ Не удалось запустить: "+err.Error())
			return
		}
		c.Send(chatID, "✅ Движок запущен")
		return

	case btnStop:
		c.await.clear(chatID)
		if err := c.engine.Stop(); err != nil {
			c.Send(chatID, "ℹ️ Движок не запущен")
			return
		}
		c.Send(chatID, "🛑 Движок остановлен")
		return

	case btnSettings:
		c.await.clear(chatID)
		c.handleSettingsMenu(chatID)
		return

	case btnStatus:
		c.handleStatus(chatID)
		return
	}

	if key, ok := c.await.pop(chatID); ok {
		if strings.EqualFold(text, "отмена") {
			c.handleSettingsMenu(chatID)
			return
		}
		switch key {
		case awaitLot:
			if !c.applyLot(chatID, text) {
				// ждём ещё одну попытку
				c.await.set(chatID, awaitLot)
			}
		}
	}
}

func (c *Console) handleStatus(chatID int64) {
	c.Send(chatID, formatStatus(c.engine.Snapshot()))
}

func (c *Console) handleSettingsMenu(chatID int64) {
	msg := tgbot.NewMessage(chatID, formatSettings(c.settings.Get()))
	msg.ParseMode = tgbot.ModeMarkdown
	msg.ReplyMarkup = c.settingsKeyboard()
	c.sendMessage(msg)
}

func (c *Console) settingsKeyboard() tgbot.InlineKeyboardMarkup {
	active := activeSet(c.settings.Get())
	rows := [][]tgbot.InlineKeyboardButton{
		tgbot.NewInlineKeyboardRow(tgbot.NewInlineKeyboardButtonData("📦 Лот", cbSetLot)),
	}
	for i, sym := range models.Symbols {
		label := "⬜️ " + sym
		if active[sym] {
			label = "✅ " + sym
		}
		rows = append(rows, tgbot.NewInlineKeyboardRow(
			tgbot.NewInlineKeyboardButtonData(label, cbSymbol+strconv.Itoa(i)),
		))
	}
	rows = append(rows, tgbot.NewInlineKeyboardRow(tgbot.NewInlineKeyboardButtonData("🌐 Все индексы", cbSymbolsAll)))
	return tgbot.NewInlineKeyboardMarkup(rows...)
}

func (c *Console) handleCallback(chatID int64, msgID int, data string) {
	switch {
	case data == cbSetLot:
		c.await.set(chatID, awaitLot)
		c.Send(chatID, "✍️ Введи *лот*, например: `0.2`\n\nОтмена: напиши `отмена`")

	case data == cbSymbolsAll:
		c.settings.SetActiveIndices(nil)
		c.saveAndRefresh(chatID, msgID)

	case strings.HasPrefix(data, cbSymbol):
		i, err := strconv.Atoi(strings.TrimPrefix(data, cbSymbol))
		if err != nil || i < 0 || i >= len(models.Symbols) {
			return
		}
		next := toggle(c.settings.Get().ActiveIndices, models.Symbols[i])
		if len(next) == 0 {
			// пустой набор означает «все», молча включать все индексы нельзя
			c.Send(chatID, "❗️ Должен остаться хотя бы один индекс. Чтобы торговать всеми, нажми «🌐 Все индексы»")
			return
		}
		c.settings.SetActiveIndices(next)
		c.saveAndRefresh(chatID, msgID)
	}
}

// applyLot валидирует и сохраняет лот; false — ввод отклонён, прежний лот остался.
func (c *Console) applyLot(chatID int64, raw string) bool {
	lot, err := c.settings.SetLotSize(strings.ReplaceAll(raw, ",", "."))
	if err != nil {
		if errors.Is(err, config.ErrInvalidLotSize) {
			c.SendF(chatID, "❗️Нужно положительное число не больше 100, например `0.2`. Лот остался `%s`", f2(lot))
			return false
		}
		c.Send(chatID, "⚠️ "+err.Error())
		return false
	}
	if err := c.settings.Save(); err != nil {
		c.Send(chatID, "⚠️ Не удалось сохранить: "+err.Error())
		return true
	}
	c.SendF(chatID, "✅ Лот: `%s`", f2(lot))
	return true
}

func (c *Console) saveAndRefresh(chatID int64, msgID int) {
	if err := c.settings.Save(); err != nil {
		c.Send(chatID, "⚠️ Не удалось сохранить: "+err.Error())
		return
	}
	kb := c.settingsKeyboard()
	c.editText(chatID, msgID, formatSettings(c.settings.Get()), &kb)
}

// toggle добавляет символ в явный набор или убирает его. Пустой набор значит «все»,
// поэтому снятие галочки с «всех» оставляет остальные символы.
func toggle(active []string, sym string) []string {
	if len(active) == 0 {
		active = models.Symbols
	}
	out := make([]string, 0, len(active)+1)
	found := false
	for _, s := range active {
		if s == sym {
			found = true
			continue
		}
		out = append(out, s)
	}
	if !found {
		out = append(out, sym)
	}
	return out
}

func activeSet(us config.UserSettings) map[string]bool {
	set := make(map[string]bool, len(models.Symbols))
	if len(us.ActiveIndices) == 0 {
		for _, s := range models.Symbols {
			set[s] = true
		}
		return set
	}
	for _, s := range us.ActiveIndices {
		set[s] = true
	}
	return set
}
