package entity

// PermissionType represents a capability a page can ask for.
type PermissionType string

const (
	PermissionNotifications PermissionType = "notifications"
	PermissionFullscreen    PermissionType = "fullscreen"
	PermissionGeolocation   PermissionType = "geolocation"
	PermissionCamera        PermissionType = "camera"
	PermissionMicrophone    PermissionType = "microphone"
	PermissionClipboard     PermissionType = "clipboard"
	PermissionMIDI          PermissionType = "midi"
	PermissionDisplay       PermissionType = "display"
)

// KnownPermissions lists every capability the shell arbitrates.
var KnownPermissions = []PermissionType{
	PermissionNotifications,
	PermissionFullscreen,
	PermissionGeolocation,
	PermissionCamera,
	PermissionMicrophone,
	PermissionClipboard,
	PermissionMIDI,
	PermissionDisplay,
}

// DefaultAllowedPermissions is the allow-list used when none is configured.
var DefaultAllowedPermissions = []PermissionType{PermissionNotifications, PermissionFullscreen}

// PermissionDecision represents the outcome of a permission request.
type PermissionDecision string

const (
	// PermissionGranted means the permission was allowed.
	PermissionGranted PermissionDecision = "granted"

	// PermissionDenied means the permission was denied.
	PermissionDenied PermissionDecision = "denied"
)

// IsKnownPermission reports whether p names a capability from KnownPermissions.
func IsKnownPermission(p PermissionType) bool {
	for _, known := range KnownPermissions {
		if known == p {
			return true
		}
	}
	return false
}
