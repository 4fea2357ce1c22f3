package service

import (
	"context"
	"fmt"
	"sync"

	"ares_bot/internal/notify"
	"ares_bot/internal/strategy"
	"ares_bot/pkg/logger"
)

// Connector — разовое подключение к счёту.
type Connector interface {
	Connect(ctx context.Context) error
}

// Warmuper подключает счёт и прогоняет анализ по символам до старта движка,
// чтобы сразу увидеть, кому не хватает истории.
type Warmuper struct {
	analyzer strategy.Analyzer
	conn     Connector
	n        notify.Notifier

	// ограничитель параллелизма, чтобы не забить шлюз
	sem chan struct{}
}

func NewWarmuper(analyzer strategy.Analyzer, conn Connector, n notify.Notifier) *Warmuper {
	return &Warmuper{
		analyzer: analyzer,
		conn:     conn,
		n:        n,
		sem:      make(chan struct{}, 4),
	}
}

// Warmup возвращает символы, по которым анализ прошёл. Ошибка — только если
// не удалось подключиться к счёту; проблемы отдельных символов логируются.
func (w *Warmuper) Warmup(ctx context.Context, symbols []string) ([]string, error) {
	if err := w.conn.Connect(ctx); err != nil {
		w.n.Notify("Ares Warmup", "⚠️ account connect failed: "+err.Error())
		return nil, fmt.Errorf("warmup: %w", err)
	}
	if len(symbols) == 0 {
		return nil, nil
	}

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		ready = make([]bool, len(symbols))
	)
	for i, sym := range symbols {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.sem <- struct{}{}
			defer func() { <-w.sem }()

			if _, err := w.analyzer.Analyze(ctx, sym); err != nil {
				logger.Warn("[BOOT] %s: %v", sym, err)
				return
			}
			mu.Lock()
			ready[i] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	out := make([]string, 0, len(symbols))
	for i, ok := range ready {
		if ok {
			out = append(out, symbols[i])
		}
	}
	w.n.Notify("Ares Warmup", fmt.Sprintf("✅ %d/%d symbols ready", len(out), len(symbols)))
	return out, nil
}
