package chart

import colorful "github.com/lucasb-eyer/go-colorful"

const defaultBackground = "#0f172a"

// Tint blends accent over background with the given alpha (0..1), giving an
// opaque stand-in for a translucent fill on surfaces without an alpha
// channel. An unparsable accent is returned unchanged.
func Tint(accent, background string, alpha float64) string {
	fg, err := colorful.Hex(accent)
	if err != nil {
		return accent
	}
	bg, err := colorful.Hex(background)
	if err != nil {
		bg, _ = colorful.Hex(defaultBackground)
	}
	alpha = min(max(alpha, 0), 1)
	return bg.BlendRgb(fg, alpha).Clamped().Hex()
}
