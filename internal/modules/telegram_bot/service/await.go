package service

import "sync"

// awaitStore помнит, какое значение чат должен прислать следующим сообщением.
type awaitStore struct {
	mu sync.Mutex
	m  map[int64]string // chatID -> key
}

func newAwaitStore() *awaitStore {
	return &awaitStore{m: make(map[int64]string)}
}

func (a *awaitStore) set(chatID int64, key string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.m[chatID] = key
}

func (a *awaitStore) pop(chatID int64) (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	key, ok := a.m[chatID]
	delete(a.m, chatID)
	return key, ok
}

func (a *awaitStore) clear(chatID int64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.m, chatID)
}
