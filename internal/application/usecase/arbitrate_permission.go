package usecase

import (
	"context"

	"github.com/bnema/tabshell/internal/application/port"
	"github.com/bnema/tabshell/internal/domain/entity"
	"github.com/bnema/tabshell/internal/logging"
)

// ArbitratePermissionUseCase approves capability requests found on an
// allow-list and denies everything else.
type ArbitratePermissionUseCase struct {
	allowed map[entity.PermissionType]bool
}

// NewArbitratePermissionUseCase creates the use case. A nil list selects
// entity.DefaultAllowedPermissions; an empty one denies everything.
func NewArbitratePermissionUseCase(allow []entity.PermissionType) *ArbitratePermissionUseCase {
	if allow == nil {
		allow = entity.DefaultAllowedPermissions
	}
	allowed := make(map[entity.PermissionType]bool, len(allow))
	for _, p := range allow {
		allowed[p] = true
	}
	return &ArbitratePermissionUseCase{allowed: allowed}
}

// Decide returns the decision for perm.
func (uc *ArbitratePermissionUseCase) Decide(perm entity.PermissionType) entity.PermissionDecision {
	if uc.allowed[perm] {
		return entity.PermissionGranted
	}
	return entity.PermissionDenied
}

// Arbitrate calls exactly one of callback.Allow or callback.Deny.
// It satisfies port.PermissionPolicy.
func (uc *ArbitratePermissionUseCase) Arbitrate(ctx context.Context, perm entity.PermissionType, callback port.PermissionCallback) {
	decision := uc.Decide(perm)
	logging.FromContext(ctx).Debug().
		Str("component", "permission").
		Str("type", string(perm)).
		Str("decision", string(decision)).
		Msg("permission request")

	if decision == entity.PermissionGranted {
		callback.Allow()
		return
	}
	callback.Deny()
}
