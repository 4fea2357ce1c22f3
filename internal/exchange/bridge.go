package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"ares_bot/internal/models"
	"ares_bot/pkg/logger"
)

const (
	methodCandles      = "candles"
	methodCandlesRange = "candles_range"
	methodQuote        = "quote"
	methodOrderSend    = "order_send"
	methodPositions    = "positions"
	methodClose        = "position_close"
	methodAccount      = "account"

	codeRejected = "rejected"
	codeNoData   = "no_data"
)

type rpcRequest struct {
	ID     int64  `json:"id"`
	Method string `json:"method"`
	Params any    `json:"params,omitempty"`
}

type rpcError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	ID     int64           `json:"id"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  *rpcError       `json:"error,omitempty"`
}

// wireCandle — свеча в формате моста: время в unix-секундах.
type wireCandle struct {
	Time  int64   `json:"time"`
	Open  float64 `json:"open"`
	High  float64 `json:"high"`
	Low   float64 `json:"low"`
	Close float64 `json:"close"`
}

// Bridge — JSON-RPC клиент к терминальному мосту поверх одного WebSocket.
// Соединение поднимается лениво и сбрасывается при любой ошибке транспорта;
// переподключение происходит на следующем вызове.
type Bridge struct {
	url     string
	timeout time.Duration
	dialer  *websocket.Dialer

	mu   sync.Mutex // один запрос в полёте
	conn *websocket.Conn
	seq  atomic.Int64

	connected atomic.Bool
}

func NewBridge(url string, timeout time.Duration) *Bridge {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Bridge{
		url:     url,
		timeout: timeout,
		dialer:  &websocket.Dialer{HandshakeTimeout: timeout},
	}
}

func (b *Bridge) Connected() bool { return b.connected.Load() }

func (b *Bridge) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dropLocked()
}

func (b *Bridge) dropLocked() error {
	b.connected.Store(false)
	if b.conn == nil {
		return nil
	}
	err := b.conn.Close()
	b.conn = nil
	return err
}

func (b *Bridge) call(ctx context.Context, method string, params, out any) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.conn == nil {
		conn, _, err := b.dialer.DialContext(ctx, b.url, nil)
		if err != nil {
			return errors.Wrapf(ErrConnectivity, "[BRIDGE] dial %s: %v", b.url, err)
		}
		logger.Info("[BRIDGE] connected %s", b.url)
		b.conn = conn
		b.connected.Store(true)
	}

	deadline := time.Now().Add(b.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	req := rpcRequest{ID: b.seq.Add(1), Method: method, Params: params}
	payload, err := sonic.Marshal(req)
	if err != nil {
		return errors.Wrapf(err, "marshal %s", method)
	}

	_ = b.conn.SetWriteDeadline(deadline)
	if err := b.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		_ = b.dropLocked()
		return errors.Wrapf(ErrConnectivity, "[BRIDGE] write %s: %v", method, err)
	}

	_ = b.conn.SetReadDeadline(deadline)
	for {
		_, msg, err := b.conn.ReadMessage()
		if err != nil {
			_ = b.dropLocked()
			return errors.Wrapf(ErrConnectivity, "[BRIDGE] read %s: %v", method, err)
		}

		var resp rpcResponse
		if err := sonic.Unmarshal(msg, &resp); err != nil {
			logger.Warn("[BRIDGE] bad frame: %v", err)
			continue
		}
		if resp.ID != req.ID {
			// ответ на запрос, по которому мы уже вышли по таймауту
			continue
		}
		if resp.Error != nil {
			return mapRPCError(method, resp.Error)
		}
		if out == nil || len(resp.Result) == 0 {
			return nil
		}
		if err := sonic.Unmarshal(resp.Result, out); err != nil {
			return errors.Wrapf(err, "decode %s result", method)
		}
		return nil
	}
}

func mapRPCError(method string, e *rpcError) error {
	switch e.Code {
	case codeRejected:
		return errors.Wrapf(ErrRejected, "%s: %s", method, e.Message)
	case codeNoData:
		return errors.Wrapf(ErrNoData, "%s: %s", method, e.Message)
	default:
		return fmt.Errorf("%s: bridge error %s: %s", method, e.Code, e.Message)
	}
}

func toCandles(in []wireCandle) []models.Candle {
	out := make([]models.Candle, len(in))
	for i, c := range in {
		out[i] = models.Candle{
			Time:  time.Unix(c.Time, 0).UTC(),
			Open:  c.Open,
			High:  c.High,
			Low:   c.Low,
			Close: c.Close,
		}
	}
	return out
}

func (b *Bridge) Candles(ctx context.Context, symbol string, tf models.Timeframe, count int) ([]models.Candle, error) {
	var raw []wireCandle
	params := map[string]any{"symbol": symbol, "timeframe": tf, "count": count}
	if err := b.call(ctx, methodCandles, params, &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("candles %s %s: %w", symbol, tf, ErrNoData)
	}
	return toCandles(raw), nil
}

func (b *Bridge) CandlesRange(ctx context.Context, symbol string, tf models.Timeframe, from, to time.Time) ([]models.Candle, error) {
	var raw []wireCandle
	params := map[string]any{"symbol": symbol, "timeframe": tf, "from": from.Unix(), "to": to.Unix()}
	if err := b.call(ctx, methodCandlesRange, params, &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("candles %s %s: %w", symbol, tf, ErrNoData)
	}
	return toCandles(raw), nil
}

func (b *Bridge) Quote(ctx context.Context, symbol string) (models.Quote, error) {
	var q models.Quote
	err := b.call(ctx, methodQuote, map[string]any{"symbol": symbol}, &q)
	return q, err
}

func (b *Bridge) OpenPosition(ctx context.Context, req models.OrderRequest) (models.Fill, error) {
	var f models.Fill
	err := b.call(ctx, methodOrderSend, req, &f)
	return f, err
}

func (b *Bridge) OpenPositions(ctx context.Context, strategyIDs []int64) ([]models.Position, error) {
	var out []models.Position
	err := b.call(ctx, methodPositions, map[string]any{"strategy_ids": strategyIDs}, &out)
	return out, err
}

func (b *Bridge) ClosePosition(ctx context.Context, req models.CloseRequest) error {
	return b.call(ctx, methodClose, req, nil)
}

func (b *Bridge) Account(ctx context.Context) (models.AccountSnapshot, error) {
	var a models.AccountSnapshot
	err := b.call(ctx, methodAccount, nil, &a)
	return a, err
}
