package notify

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type creds struct {
	address, password string
	enabled           bool
}

func (c creds) Email() (string, string, bool) { return c.address, c.password, c.enabled }

type recorder struct {
	mu   sync.Mutex
	msgs []string
}

func (r *recorder) Notify(subject, body string) {
	r.mu.Lock()
	r.msgs = append(r.msgs, subject+"|"+body)
	r.mu.Unlock()
}

func TestEmailSkipsWhenDisabled(t *testing.T) {
	for _, c := range []creds{
		{address: "a@b.c", password: "x", enabled: false},
		{address: "a@b.c", password: "", enabled: true},
	} {
		called := false
		e := &Email{creds: c, send: func(string, string, []byte) error { called = true; return nil }}
		e.Notify("Trade Opened: Boom 500 Index", "BUY @ 5000.1")
		assert.False(t, called)
	}
}

func TestEmailSendsToSelf(t *testing.T) {
	var gotAddr, gotPass string
	var gotMsg []byte
	e := &Email{
		creds: creds{address: "me@example.com", password: "app-pass", enabled: true},
		send: func(a, p string, m []byte) error {
			gotAddr, gotPass, gotMsg = a, p, m
			return nil
		},
	}
	e.Notify("Ares Bot Started", "Engine Online")

	assert.Equal(t, "me@example.com", gotAddr)
	assert.Equal(t, "app-pass", gotPass)
	assert.Contains(t, string(gotMsg), "Subject: Ares Bot Started\r\n")
	assert.Contains(t, string(gotMsg), "To: me@example.com\r\n")
	assert.Contains(t, string(gotMsg), "Engine Online")
}

func TestEmailErrorIsSwallowed(t *testing.T) {
	e := &Email{
		creds: creds{address: "me@example.com", password: "p", enabled: true},
		send:  func(string, string, []byte) error { return errors.New("smtp down") },
	}
	assert.NotPanics(t, func() { e.Notify("s", "b") })
}

func TestMultiAndAsync(t *testing.T) {
	r1, r2 := &recorder{}, &recorder{}
	a := NewAsync(Multi{r1, nil, r2})

	a.Notify("Trade Opened: Crash 500 Index", "SELL @ 3000")
	a.Wait()

	require.Len(t, r1.msgs, 1)
	assert.Equal(t, []string{"Trade Opened: Crash 500 Index|SELL @ 3000"}, r2.msgs)
}

type panicky struct{}

func (panicky) Notify(string, string) { panic("boom") }

func TestAsyncRecoversPanics(t *testing.T) {
	a := NewAsync(panicky{})
	a.Notify("s", "b")
	a.Wait()
}

func TestTelegramNilSafe(t *testing.T) {
	var tg *Telegram
	assert.NotPanics(t, func() { tg.Notify("s", "b") })
}
