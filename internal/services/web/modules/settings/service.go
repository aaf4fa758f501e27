package settings

import (
	"context"
	"strconv"
	"strings"

	module "github.com/helpdeck-io/helpdeck/internal/services/web/module"
	apperrors "github.com/helpdeck-io/helpdeck/internal/services/web/platform/errors"
	"github.com/helpdeck-io/helpdeck/internal/services/web/prefs"
)

type unavailableStore struct{}

func (unavailableStore) Account(context.Context, string) (prefs.Account, error) {
	return prefs.Account{}, apperrors.E(apperrors.KindUnavailable, "preference storage is not configured")
}

func (unavailableStore) SaveAccount(context.Context, string, prefs.Account) error {
	return apperrors.E(apperrors.KindUnavailable, "preference storage is not configured")
}

func (unavailableStore) Notifications(context.Context, string) (prefs.Notifications, error) {
	return prefs.Notifications{}, apperrors.E(apperrors.KindUnavailable, "preference storage is not configured")
}

func (unavailableStore) SaveNotifications(context.Context, string, prefs.Notifications) error {
	return apperrors.E(apperrors.KindUnavailable, "preference storage is not configured")
}

func (unavailableStore) AIBehavior(context.Context, string) (prefs.AIBehavior, error) {
	return prefs.AIBehavior{}, apperrors.E(apperrors.KindUnavailable, "preference storage is not configured")
}

func (unavailableStore) SaveAIBehavior(context.Context, string, prefs.AIBehavior) error {
	return apperrors.E(apperrors.KindUnavailable, "preference storage is not configured")
}

type service struct {
	store module.PreferencesStore
}

func newService(store module.PreferencesStore) service {
	if store == nil {
		store = unavailableStore{}
	}
	return service{store: store}
}

func requireUser(userID string) (string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", apperrors.E(apperrors.KindUnauthorized, "sign in to manage settings")
	}
	return userID, nil
}

func (s service) account(ctx context.Context, userID string) (prefs.Account, error) {
	userID, err := requireUser(userID)
	if err != nil {
		return prefs.Account{}, err
	}
	return s.store.Account(ctx, userID)
}

func (s service) saveAccount(ctx context.Context, userID string, account prefs.Account) error {
	userID, err := requireUser(userID)
	if err != nil {
		return err
	}
	account.DisplayName = strings.TrimSpace(account.DisplayName)
	account.Timezone = strings.TrimSpace(account.Timezone)
	if len(account.DisplayName) > 120 {
		return apperrors.E(apperrors.KindInvalidInput, "Display name is too long.")
	}
	return s.store.SaveAccount(ctx, userID, account)
}

func (s service) notifications(ctx context.Context, userID string) (prefs.Notifications, error) {
	userID, err := requireUser(userID)
	if err != nil {
		return prefs.Notifications{}, err
	}
	return s.store.Notifications(ctx, userID)
}

func (s service) saveNotifications(ctx context.Context, userID string, notifications prefs.Notifications) error {
	userID, err := requireUser(userID)
	if err != nil {
		return err
	}
	return s.store.SaveNotifications(ctx, userID, notifications)
}

func (s service) aiBehavior(ctx context.Context, userID string) (prefs.AIBehavior, error) {
	userID, err := requireUser(userID)
	if err != nil {
		return prefs.AIBehavior{}, err
	}
	return s.store.AIBehavior(ctx, userID)
}

func (s service) saveAIBehavior(ctx context.Context, userID string, rawThreshold string, behavior prefs.AIBehavior) error {
	userID, err := requireUser(userID)
	if err != nil {
		return err
	}
	threshold, err := strconv.ParseFloat(strings.TrimSpace(rawThreshold), 64)
	if err != nil || threshold < 0 || threshold > 1 {
		return apperrors.E(apperrors.KindInvalidInput, "Confidence threshold must be a number between 0 and 1.")
	}
	behavior.ConfidenceThreshold = threshold
	return s.store.SaveAIBehavior(ctx, userID, behavior)
}
