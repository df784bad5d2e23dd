// Package input turns raw pointer input from the tab strip into intents.
package input

import "github.com/bnema/tabshell/internal/application/port"

// Default swipe thresholds, in scroll delta units.
const (
	DefaultSwipeThresholdY = 30
	DefaultSwipeThresholdX = 10
)

// SwipeDetector recognises the swipe down that expands the tab strip. A
// swipe down on a touchpad, like turning the wheel up, reports a negative
// DeltaY.
type SwipeDetector struct {
	ThresholdY float64
	ThresholdX float64
}

// NewSwipeDetector creates a detector; non-positive thresholds select the defaults.
func NewSwipeDetector(thresholdY, thresholdX float64) SwipeDetector {
	if thresholdY <= 0 {
		thresholdY = DefaultSwipeThresholdY
	}
	if thresholdX <= 0 {
		thresholdX = DefaultSwipeThresholdX
	}
	return SwipeDetector{ThresholdY: thresholdY, ThresholdX: thresholdX}
}

// IsExpandSwipe reports a mostly vertical swipe down (DeltaY below -ThresholdY).
// The horizontal bound is one-sided: large leftward deltas still count.
func (d SwipeDetector) IsExpandSwipe(ev port.ScrollEvent) bool {
	return ev.DeltaY < -d.ThresholdY && ev.DeltaX < d.ThresholdX
}
