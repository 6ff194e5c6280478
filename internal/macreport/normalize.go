package macreport

import (
	"fmt"
	"math"
	"strings"
)

// StripMAC reduces a raw MAC value to bare lowercase hex: trimmed,
// lowercased, every "0x" removed, every non-hex character removed. This is
// the form used for substring matching, never for display.
func StripMAC(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, "0x", "")
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FormatMAC renders a raw MAC value as canonical colon-separated uppercase
// pairs (AA:BB:CC:DD:EE:FF) when at least 12 hex characters survive
// stripping; extra characters beyond the 12th are dropped. Shorter values
// fall back to the original input uppercased, so partially-entered MACs
// stay visible instead of vanishing.
func FormatMAC(raw string) string {
	if raw == "" {
		return ""
	}
	s := StripMAC(raw)
	if len(s) < 12 {
		return strings.ToUpper(raw)
	}
	pairs := make([]string, 6)
	for i := 0; i < 6; i++ {
		pairs[i] = s[i*2 : i*2+2]
	}
	return strings.ToUpper(strings.Join(pairs, ":"))
}

// FormatSOCTransition renders a state-of-charge evolution such as
// "40% → 80%". Either bound missing yields the empty string.
func FormatSOCTransition(start, end *float64) string {
	if start == nil || end == nil || math.IsNaN(*start) || math.IsNaN(*end) {
		return ""
	}
	return fmt.Sprintf("%d%% → %d%%", int(math.Round(*start)), int(math.Round(*end)))
}
