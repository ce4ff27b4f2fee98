package enums

import "fmt"

// NotificationKind categorizes in-app notification payloads.
type NotificationKind string

const (
	NotificationKindInfo    NotificationKind = "info"
	NotificationKindSuccess NotificationKind = "success"
	NotificationKindWarning NotificationKind = "warning"
	NotificationKindError   NotificationKind = "error"
)

var validNotificationKinds = []NotificationKind{
	NotificationKindInfo,
	NotificationKindSuccess,
	NotificationKindWarning,
	NotificationKindError,
}

// IsValid reports whether the value matches the canonical notification kind enum.
func (n NotificationKind) IsValid() bool {
	for _, candidate := range validNotificationKinds {
		if candidate == n {
			return true
		}
	}
	return false
}

// Normalize maps unknown or empty kinds to info.
func (n NotificationKind) Normalize() NotificationKind {
	if n.IsValid() {
		return n
	}
	return NotificationKindInfo
}

// ParseNotificationKind converts the raw string to NotificationKind.
func ParseNotificationKind(value string) (NotificationKind, error) {
	if value == "" {
		return NotificationKindInfo, nil
	}
	for _, candidate := range validNotificationKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification kind %q", value)
}
