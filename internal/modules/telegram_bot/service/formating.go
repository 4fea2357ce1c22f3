package service

import (
	"fmt"
	"strings"

	"ares_bot/internal/models"
	"ares_bot/internal/modules/config"
)

const statusLogLines = 5

func onOff(v bool) string {
	if v {
		return "вкл"
	}
	return "выкл"
}

func f2(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func formatSettings(us config.UserSettings) string {
	indices := "все"
	if len(us.ActiveIndices) > 0 {
		indices = strings.Join(us.ActiveIndices, ", ")
	}
	return fmt.Sprintf(
		"*⚙️ Настройки*\n\n"+
			"Лот: `%s`\n"+
			"Индексы: %s\n"+
			"Почта: *%s*\n",
		f2(us.LotSize),
		indices,
		onOff(us.EnableEmail),
	)
}

func formatStatus(s models.EngineSnapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*📊 Статус:* `%s`\n", s.Status)
	if s.Account != nil {
		fmt.Fprintf(&b, "Счёт: %s #%d\n", s.Account.Server, s.Account.Login)
		fmt.Fprintf(&b, "Баланс: `%s` %s, эквити: `%s`\n", f2(s.Account.Balance), s.Account.Currency, f2(s.Account.Equity))
	}
	fmt.Fprintf(&b, "Пик: `%s`, просадка: `%s%%`\n", f2(s.PeakEquity), f2(s.DrawdownPct))
	fmt.Fprintf(&b, "Циклов: `%d`\n", s.Ticks)

	if len(s.Symbols) > 0 {
		b.WriteString("\n")
		for _, sym := range models.Symbols {
			if st, ok := s.Symbols[sym]; ok {
				fmt.Fprintf(&b, "%s: `%s`\n", sym, st)
			}
		}
	}
	if len(s.Logs) > 0 {
		n := min(len(s.Logs), statusLogLines)
		b.WriteString("\n```\n")
		b.WriteString(strings.Join(s.Logs[:n], "\n"))
		b.WriteString("\n```")
	}
	return b.String()
}
