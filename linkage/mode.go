package linkage

import (
	"strings"

	"github.com/viant/pprl/pprlerr"
)

// Mode selects the matching strategy.
type Mode string

const (
	StableMarriage      Mode = "stable-marriage"
	SemiMonogamousLeft  Mode = "semi-monogamous-left"
	SemiMonogamousRight Mode = "semi-monogamous-right"
	Polygamous          Mode = "polygamous"
)

// ParseMode accepts mode names, their short forms (SM, SL, SR, PO) and the
// SEMI_LEFT/SEMI_RIGHT spellings, case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "stable-marriage", "stable_marriage", "sm":
		return StableMarriage, nil
	case "semi-monogamous-left", "semi_monogamous_left", "semi_left", "sl":
		return SemiMonogamousLeft, nil
	case "semi-monogamous-right", "semi_monogamous_right", "semi_right", "sr":
		return SemiMonogamousRight, nil
	case "polygamous", "po":
		return Polygamous, nil
	}
	return "", pprlerr.Config("linkage: unknown linking mode %q", s)
}

// UsesThreshold reports whether the mode filters pairs by similarity.
func (m Mode) UsesThreshold() bool { return m != StableMarriage }
