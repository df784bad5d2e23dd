package cdp

import (
	"context"

	"github.com/chromedp/cdproto/browser"

	"github.com/bnema/tabshell/internal/application/port"
	"github.com/bnema/tabshell/internal/domain/entity"
)

// chromiumPermissions maps capabilities to Chromium permission types.
// Fullscreen has no Chromium permission and is always available.
var chromiumPermissions = map[entity.PermissionType][]browser.PermissionType{
	entity.PermissionNotifications: {"notifications"},
	entity.PermissionGeolocation:   {"geolocation"},
	entity.PermissionCamera:        {"videoCapture"},
	entity.PermissionMicrophone:    {"audioCapture"},
	entity.PermissionClipboard:     {"clipboardReadWrite", "clipboardSanitizedWrite"},
	entity.PermissionMIDI:          {"midi"},
	entity.PermissionDisplay:       {"displayCapture"},
}

// grantedPermissions asks policy about every known capability. A policy that
// does not answer synchronously denies.
func grantedPermissions(ctx context.Context, policy port.PermissionPolicy) []browser.PermissionType {
	var granted []browser.PermissionType
	for _, perm := range entity.KnownPermissions {
		mapped, ok := chromiumPermissions[perm]
		if !ok {
			continue
		}
		allowed := false
		policy(ctx, perm, port.PermissionCallback{
			Allow: func() { allowed = true },
			Deny:  func() {},
		})
		if allowed {
			granted = append(granted, mapped...)
		}
	}
	return granted
}
