package health

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"go.uber.org/fx"

	"ares_bot/internal/journal"
	"ares_bot/internal/metrics"
	"ares_bot/internal/models"
	"ares_bot/internal/modules/config"
	"ares_bot/internal/modules/health/service"
	"ares_bot/internal/runner"
	"ares_bot/pkg/logger"
)

const (
	maxBody = 1 << 16

	defaultJournalLimit = 20
	maxJournalLimit     = 200
)

type Config struct {
	Addr string // например ":8080"
}

func NewConfig(cfg *config.Config) Config {
	return Config{Addr: fmt.Sprintf("%s:%d", cfg.Service.Host, cfg.Service.Port)}
}

// EngineControl — внешние команды движка.
type EngineControl interface {
	Start(ctx context.Context) error
	Stop() error
	Snapshot() models.EngineSnapshot
}

// SettingsEditor — правка пользовательских настроек.
type SettingsEditor interface {
	Get() config.UserSettings
	SetLotSize(raw string) (float64, error)
	SetActiveIndices(symbols []string) []string
	SetEmail(address, appPassword string, enabled bool)
	Save() error
}

// settingsPatch — все поля необязательны. lot_size принимается строкой или числом.
type settingsPatch struct {
	LotSize       any       `json:"lot_size"`
	ActiveIndices *[]string `json:"active_indices"`
	EmailAddress  *string   `json:"email_address"`
	AppPassword   *string   `json:"app_password"`
	EnableEmail   *bool     `json:"enable_email"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	data, err := sonic.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(data)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

// journalLimit разбирает ?limit=; пусто даёт дефолт, сверху режем до maxJournalLimit.
func journalLimit(raw string) (int, error) {
	if raw == "" {
		return defaultJournalLimit, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("limit must be a positive integer, got %q", raw)
	}
	return min(n, maxJournalLimit), nil
}

func NewMux(state *service.State, engine EngineControl, settings SettingsEditor, trades journal.Reader, m *metrics.Metrics) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /livez", func(w http.ResponseWriter, r *http.Request) {
		// liveness: процесс жив
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if !state.Ready() {
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		snap := engine.Snapshot()
		resp := map[string]any{
			"ready":     state.Ready(),
			"uptimeSec": int64(state.Uptime().Seconds()),
			"engine":    snap.Status,
			"ticks":     snap.Ticks,
			"lastControlUnix": func() int64 {
				t := state.LastControl()
				if t.IsZero() {
					return 0
				}
				return t.Unix()
			}(),
		}
		writeJSON(w, http.StatusOK, resp)
	})

	mux.HandleFunc("GET /engine/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, engine.Snapshot())
	})

	mux.HandleFunc("POST /engine/start", func(w http.ResponseWriter, r *http.Request) {
		state.TouchControl(time.Now())
		if err := engine.Start(r.Context()); err != nil {
			code := http.StatusBadGateway
			if errors.Is(err, runner.ErrAlreadyRunning) {
				code = http.StatusConflict
			}
			writeError(w, code, err)
			return
		}
		writeJSON(w, http.StatusOK, engine.Snapshot())
	})

	mux.HandleFunc("POST /engine/stop", func(w http.ResponseWriter, r *http.Request) {
		state.TouchControl(time.Now())
		if err := engine.Stop(); err != nil {
			code := http.StatusInternalServerError
			if errors.Is(err, runner.ErrNotRunning) {
				code = http.StatusConflict
			}
			writeError(w, code, err)
			return
		}
		writeJSON(w, http.StatusOK, engine.Snapshot())
	})

	mux.HandleFunc("GET /settings", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, settings.Get())
	})

	mux.HandleFunc("POST /settings", func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBody))
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		var patch settingsPatch
		if err := sonic.Unmarshal(body, &patch); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		// лот валидируем первым: при ошибке ничего не меняем
		if patch.LotSize != nil {
			if _, err := settings.SetLotSize(fmt.Sprint(patch.LotSize)); err != nil {
				writeError(w, http.StatusBadRequest, err)
				return
			}
		}
		if patch.ActiveIndices != nil {
			settings.SetActiveIndices(*patch.ActiveIndices)
		}
		if patch.EmailAddress != nil || patch.AppPassword != nil || patch.EnableEmail != nil {
			cur := settings.Get()
			addr, pw, on := cur.EmailAddress, cur.AppPassword, cur.EnableEmail
			if patch.EmailAddress != nil {
				addr = *patch.EmailAddress
			}
			if patch.AppPassword != nil {
				pw = *patch.AppPassword
			}
			if patch.EnableEmail != nil {
				on = *patch.EnableEmail
			}
			settings.SetEmail(addr, pw, on)
		}

		if err := settings.Save(); err != nil {
			logger.Error("[HTTP] save settings: %v", err)
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, settings.Get())
	})

	mux.HandleFunc("GET /journal/recent", func(w http.ResponseWriter, r *http.Request) {
		limit, err := journalLimit(r.URL.Query().Get("limit"))
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		entries, err := trades.Recent(r.Context(), limit)
		if err != nil {
			logger.Error("[HTTP] journal recent: %v", err)
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		if entries == nil {
			entries = []journal.Entry{}
		}
		writeJSON(w, http.StatusOK, entries)
	})

	mux.Handle("GET /metrics", m.Handler())

	return mux
}

func RunHTTP(lc fx.Lifecycle, cfg Config, state *service.State, mux *http.ServeMux) {
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", cfg.Addr)
			if err != nil {
				return err
			}
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("[HTTP] serve: %v", err)
				}
			}()
			state.SetReady(true)
			logger.Info("[HTTP] listening on %s", ln.Addr())
			return nil
		},
		OnStop: func(ctx context.Context) error {
			state.SetReady(false)
			return srv.Shutdown(ctx)
		},
	})
}

func Module() fx.Option {
	return fx.Module("health",
		fx.Provide(
			service.NewState,
			NewConfig,
			NewMux,
			func(r *runner.Runner) EngineControl { return r },
			func(s *config.Settings) SettingsEditor { return s },
		),
		fx.Invoke(RunHTTP),
	)
}
