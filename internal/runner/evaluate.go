package runner

import (
	"context"
	"errors"
	"fmt"

	"github.com/opentracing/opentracing-go"

	"ares_bot/internal/exchange"
	"ares_bot/internal/models"
	"ares_bot/internal/strategy"
)

// classify — состояние символа на текущем цикле.
func (r *Runner) classify(symbol string, positioned map[string]bool) models.SymbolState {
	if positioned[symbol] {
		return models.StatePositioned
	}
	if r.cooldown.Eligible(symbol, models.ParamsFor(symbol).Cooldown, r.now()) {
		return models.StateArmed
	}
	return models.StateIdle
}

// Evaluate — один цикл по символу: фильтры состояния, решение, заявка.
// Ошибка заявки не меняет состояния: символ переоценится на следующем цикле.
func (r *Runner) Evaluate(ctx context.Context, symbol string, positioned bool) (models.Signal, error) {
	params := models.ParamsFor(symbol)
	now := r.now()

	if positioned {
		return models.NoAction(symbol, "positioned"), nil
	}
	if !r.cooldown.Eligible(symbol, params.Cooldown, now) {
		return models.NoAction(symbol, "cooldown"), nil
	}

	snap, err := r.analyzer.Analyze(ctx, symbol)
	if err != nil {
		return models.NoAction(symbol, "no market data"), err
	}
	quote, err := r.gw.Quote(ctx, symbol)
	if err != nil {
		return models.NoAction(symbol, "no quote"), fmt.Errorf("quote %s: %w", symbol, err)
	}

	sig := strategy.Decide(params, snap, quote, now)
	if sig.Action == models.ActionNone {
		return sig, nil
	}
	r.metrics.SignalsTotal.WithLabelValues(symbol, string(sig.Action)).Inc()
	r.logf("[SIGNAL] %s %s @ %.2f (%s)", symbol, sig.Action.Side(), sig.Price, sig.Reason)

	return sig, r.execute(ctx, sig)
}

func (r *Runner) execute(ctx context.Context, sig models.Signal) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "engine.order")
	defer span.Finish()
	span.SetTag("symbol", sig.Symbol)
	span.SetTag("side", string(sig.Action.Side()))

	side := sig.Action.Side()
	stop := sig.Price - sig.StopDistance
	if side == models.SideSell {
		stop = sig.Price + sig.StopDistance
	}
	req := models.OrderRequest{
		Symbol:       sig.Symbol,
		Side:         side,
		Volume:       r.settings.LotSize(),
		Price:        sig.Price,
		StopPrice:    stop,
		StopDistance: sig.StopDistance,
		Deviation:    r.cfg.Deviation,
		StrategyID:   sig.StrategyID,
		Comment:      sig.Reason,
	}

	fill, err := r.gw.OpenPosition(ctx, req)
	if err != nil {
		result := "error"
		if errors.Is(err, exchange.ErrRejected) {
			result = "rejected"
		}
		r.metrics.OrdersTotal.WithLabelValues(result).Inc()
		span.SetTag("error", true)
		r.logf("[ORDER] %s %s failed, will retry next cycle: %v", sig.Symbol, side, err)
		return fmt.Errorf("open %s: %w", sig.Symbol, err)
	}

	r.metrics.OrdersTotal.WithLabelValues("filled").Inc()
	r.cooldown.Mark(sig.Symbol, r.now())
	r.state.SetSymbolState(sig.Symbol, models.StatePositioned)
	r.logf("⚡ OPENED: %s | %s", sig.Symbol, side)
	r.notifier.Notify("Trade Opened: "+sig.Symbol, fmt.Sprintf("%s @ %v", side, fill.FillPrice))

	if err := r.journal.RecordOpen(ctx, req, fill); err != nil {
		r.logf("[JOURNAL] %v", err)
	}
	return nil
}
