// Package sqlite provides a SQLite-backed preference store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	sqlitemigrate "github.com/helpdeck-io/helpdeck/internal/platform/storage/sqlitemigrate"
	"github.com/helpdeck-io/helpdeck/internal/services/web/prefs"
	"github.com/helpdeck-io/helpdeck/internal/services/web/prefs/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// Store persists user preferences in SQLite.
type Store struct {
	sqlDB *sql.DB
}

// Open opens a SQLite preference store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) ready(ctx context.Context, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("user id is required")
	}
	return nil
}

// ensureRow inserts a default row so section updates can target it.
func (s *Store) ensureRow(ctx context.Context, userID string) error {
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO user_preferences (user_id, updated_at) VALUES (?, ?)
		 ON CONFLICT(user_id) DO NOTHING`,
		userID,
		time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("ensure preferences row: %w", err)
	}
	return nil
}

// Account returns stored account preferences, or zero values when absent.
func (s *Store) Account(ctx context.Context, userID string) (prefs.Account, error) {
	if err := s.ready(ctx, userID); err != nil {
		return prefs.Account{}, err
	}
	var account prefs.Account
	err := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT display_name, email, timezone FROM user_preferences WHERE user_id = ?`,
		strings.TrimSpace(userID),
	).Scan(&account.DisplayName, &account.Email, &account.Timezone)
	if errors.Is(err, sql.ErrNoRows) {
		return prefs.Account{}, nil
	}
	if err != nil {
		return prefs.Account{}, fmt.Errorf("load account preferences: %w", err)
	}
	return account, nil
}

// SaveAccount upserts account preferences.
func (s *Store) SaveAccount(ctx context.Context, userID string, account prefs.Account) error {
	if err := s.ready(ctx, userID); err != nil {
		return err
	}
	userID = strings.TrimSpace(userID)
	if err := s.ensureRow(ctx, userID); err != nil {
		return err
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE user_preferences
		 SET display_name = ?, email = ?, timezone = ?, updated_at = ?
		 WHERE user_id = ?`,
		strings.TrimSpace(account.DisplayName),
		strings.TrimSpace(account.Email),
		strings.TrimSpace(account.Timezone),
		time.Now().UTC().UnixMilli(),
		userID,
	)
	if err != nil {
		return fmt.Errorf("save account preferences: %w", err)
	}
	return nil
}

// Notifications returns stored notification preferences, or defaults when absent.
func (s *Store) Notifications(ctx context.Context, userID string) (prefs.Notifications, error) {
	if err := s.ready(ctx, userID); err != nil {
		return prefs.Notifications{}, err
	}
	var notifications prefs.Notifications
	err := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT email_on_assignment, email_on_approval, daily_digest, desktop_alerts
		 FROM user_preferences WHERE user_id = ?`,
		strings.TrimSpace(userID),
	).Scan(
		&notifications.EmailOnAssignment,
		&notifications.EmailOnApproval,
		&notifications.DailyDigest,
		&notifications.DesktopAlerts,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return prefs.DefaultNotifications(), nil
	}
	if err != nil {
		return prefs.Notifications{}, fmt.Errorf("load notification preferences: %w", err)
	}
	return notifications, nil
}

// SaveNotifications upserts notification preferences.
func (s *Store) SaveNotifications(ctx context.Context, userID string, notifications prefs.Notifications) error {
	if err := s.ready(ctx, userID); err != nil {
		return err
	}
	userID = strings.TrimSpace(userID)
	if err := s.ensureRow(ctx, userID); err != nil {
		return err
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE user_preferences
		 SET email_on_assignment = ?, email_on_approval = ?, daily_digest = ?, desktop_alerts = ?, updated_at = ?
		 WHERE user_id = ?`,
		notifications.EmailOnAssignment,
		notifications.EmailOnApproval,
		notifications.DailyDigest,
		notifications.DesktopAlerts,
		time.Now().UTC().UnixMilli(),
		userID,
	)
	if err != nil {
		return fmt.Errorf("save notification preferences: %w", err)
	}
	return nil
}

// AIBehavior returns stored assistant preferences, or defaults when absent.
func (s *Store) AIBehavior(ctx context.Context, userID string) (prefs.AIBehavior, error) {
	if err := s.ready(ctx, userID); err != nil {
		return prefs.AIBehavior{}, err
	}
	var behavior prefs.AIBehavior
	err := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT auto_resolve_enabled, confidence_threshold, require_approval
		 FROM user_preferences WHERE user_id = ?`,
		strings.TrimSpace(userID),
	).Scan(&behavior.AutoResolveEnabled, &behavior.ConfidenceThreshold, &behavior.RequireApproval)
	if errors.Is(err, sql.ErrNoRows) {
		return prefs.DefaultAIBehavior(), nil
	}
	if err != nil {
		return prefs.AIBehavior{}, fmt.Errorf("load assistant preferences: %w", err)
	}
	return behavior, nil
}

// SaveAIBehavior upserts assistant preferences.
func (s *Store) SaveAIBehavior(ctx context.Context, userID string, behavior prefs.AIBehavior) error {
	if err := s.ready(ctx, userID); err != nil {
		return err
	}
	if behavior.ConfidenceThreshold < 0 || behavior.ConfidenceThreshold > 1 {
		return fmt.Errorf("confidence threshold must be between 0 and 1")
	}
	userID = strings.TrimSpace(userID)
	if err := s.ensureRow(ctx, userID); err != nil {
		return err
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE user_preferences
		 SET auto_resolve_enabled = ?, confidence_threshold = ?, require_approval = ?, updated_at = ?
		 WHERE user_id = ?`,
		behavior.AutoResolveEnabled,
		behavior.ConfidenceThreshold,
		behavior.RequireApproval,
		time.Now().UTC().UnixMilli(),
		userID,
	)
	if err != nil {
		return fmt.Errorf("save assistant preferences: %w", err)
	}
	return nil
}
