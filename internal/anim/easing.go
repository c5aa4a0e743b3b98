// Package anim provides time-based tweens for terminal animations.
//
// Nothing in this package schedules work: callers pass the current time
// and redraw on their own frame clock.
package anim

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tanema/gween/ease"
)

// Easing is a gween easing curve.
type Easing = ease.TweenFunc

// GSAP's powerN curves are polynomials of degree N+1.
var easings = map[string]Easing{
	"linear":       ease.Linear,
	"none":         ease.Linear,
	"power1.in":    ease.InQuad,
	"power1.out":   ease.OutQuad,
	"power1.inout": ease.InOutQuad,
	"power2.in":    ease.InCubic,
	"power2.out":   ease.OutCubic,
	"power2.inout": ease.InOutCubic,
	"power3.in":    ease.InQuart,
	"power3.out":   ease.OutQuart,
	"power3.inout": ease.InOutQuart,
	"sine.in":      ease.InSine,
	"sine.out":     ease.OutSine,
	"sine.inout":   ease.InOutSine,
}

// DefaultEase is power2.out.
var DefaultEase Easing = ease.OutCubic

// ParseEasing returns the curve registered under name (case-insensitive).
func ParseEasing(name string) (Easing, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if e, ok := easings[key]; ok {
		return e, nil
	}
	return nil, fmt.Errorf("unknown ease %q (want one of %s)", name, strings.Join(EasingNames(), ", "))
}

// EasingNames lists the accepted curve names.
func EasingNames() []string {
	names := make([]string, 0, len(easings))
	for n := range easings {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Ease evaluates e at linear progress p, clamped to [0, 1]. The endpoints
// are exact.
func Ease(e Easing, p float64) float64 {
	switch {
	case p <= 0:
		return 0
	case p >= 1:
		return 1
	}
	if e == nil {
		e = DefaultEase
	}
	return float64(e(float32(p), 0, 1, 1))
}
