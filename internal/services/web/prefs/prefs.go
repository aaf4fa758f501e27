// Package prefs defines dashboard-local user preferences.
//
// Preferences are stored by the dashboard itself. The support backend has no
// notion of per-agent settings, so these never leave this service.
package prefs

// Account holds profile fields shown in account settings.
type Account struct {
	DisplayName string
	Email       string
	Timezone    string
}

// Notifications holds notification delivery toggles.
type Notifications struct {
	EmailOnAssignment bool
	EmailOnApproval   bool
	DailyDigest       bool
	DesktopAlerts     bool
}

// AIBehavior holds assistant behavior controls.
type AIBehavior struct {
	AutoResolveEnabled  bool
	ConfidenceThreshold float64
	RequireApproval     bool
}

// DefaultNotifications returns notification defaults for a new user.
func DefaultNotifications() Notifications {
	return Notifications{
		EmailOnAssignment: true,
		EmailOnApproval:   true,
	}
}

// DefaultAIBehavior returns assistant defaults for a new user.
func DefaultAIBehavior() AIBehavior {
	return AIBehavior{
		ConfidenceThreshold: 0.8,
		RequireApproval:     true,
	}
}
