package record

import (
	"strings"

	"github.com/antzucaro/matchr"
)

// Soundex returns the four character American Soundex code of s: the first
// letter followed by three digits. Characters outside A..Z are dropped before
// coding, so an input without such letters yields "".
func Soundex(s string) string {
	letters := strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' {
			return r
		}
		return -1
	}, strings.ToUpper(s))
	if letters == "" {
		return ""
	}
	return matchr.Soundex(letters)
}
