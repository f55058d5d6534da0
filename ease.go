package motion

import "github.com/tanema/gween/ease"

var easeNames = map[string]ease.TweenFunc{
	"linear":       ease.Linear,
	"easeIn":       ease.InQuad,
	"easeOut":      ease.OutQuad,
	"easeInOut":    ease.InOutQuad,
	"inQuad":       ease.InQuad,
	"outQuad":      ease.OutQuad,
	"inOutQuad":    ease.InOutQuad,
	"inCubic":      ease.InCubic,
	"outCubic":     ease.OutCubic,
	"inOutCubic":   ease.InOutCubic,
	"inSine":       ease.InSine,
	"outSine":      ease.OutSine,
	"inOutSine":    ease.InOutSine,
	"inExpo":       ease.InExpo,
	"outExpo":      ease.OutExpo,
	"inOutExpo":    ease.InOutExpo,
	"outBack":      ease.OutBack,
	"inOutBack":    ease.InOutBack,
	"outBounce":    ease.OutBounce,
	"outElastic":   ease.OutElastic,
	"circOut":      ease.OutCirc,
	"inOutCirc":    ease.InOutCirc,
	"backOut":      ease.OutBack,
	"anticipate":   ease.InOutBack,
	"easeInOutSin": ease.InOutSine,
}

// EaseByName returns the easing function registered under name. The empty
// name resolves to nil, which transitions treat as their default.
func EaseByName(name string) (ease.TweenFunc, bool) {
	if name == "" {
		return nil, true
	}
	fn, ok := easeNames[name]
	return fn, ok
}
