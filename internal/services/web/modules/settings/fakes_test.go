package settings

import (
	"context"

	"github.com/helpdeck-io/helpdeck/internal/services/web/prefs"
)

// fakeStore implements the preferences store contract in memory.
type fakeStore struct {
	accounts      map[string]prefs.Account
	notifications map[string]prefs.Notifications
	behaviors     map[string]prefs.AIBehavior
	saveErr       error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		accounts:      make(map[string]prefs.Account),
		notifications: make(map[string]prefs.Notifications),
		behaviors:     make(map[string]prefs.AIBehavior),
	}
}

func (f *fakeStore) Account(_ context.Context, userID string) (prefs.Account, error) {
	return f.accounts[userID], nil
}

func (f *fakeStore) SaveAccount(_ context.Context, userID string, account prefs.Account) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.accounts[userID] = account
	return nil
}

func (f *fakeStore) Notifications(_ context.Context, userID string) (prefs.Notifications, error) {
	if stored, ok := f.notifications[userID]; ok {
		return stored, nil
	}
	return prefs.DefaultNotifications(), nil
}

func (f *fakeStore) SaveNotifications(_ context.Context, userID string, notifications prefs.Notifications) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.notifications[userID] = notifications
	return nil
}

func (f *fakeStore) AIBehavior(_ context.Context, userID string) (prefs.AIBehavior, error) {
	if stored, ok := f.behaviors[userID]; ok {
		return stored, nil
	}
	return prefs.DefaultAIBehavior(), nil
}

func (f *fakeStore) SaveAIBehavior(_ context.Context, userID string, behavior prefs.AIBehavior) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.behaviors[userID] = behavior
	return nil
}
