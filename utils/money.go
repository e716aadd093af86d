package utils

import (
	"strconv"
	"strings"
)

// FormatINR formats an integer amount (in rupees) as a string like "₹1,24,999".
// Uses Indian digit grouping: the last three digits, then groups of two.
func FormatINR(amount int64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}

	s := strconv.FormatInt(amount, 10)
	prefix := "₹"
	if neg {
		prefix = "-₹"
	}
	if len(s) <= 3 {
		return prefix + s
	}

	head := s[:len(s)-3]
	tail := s[len(s)-3:]

	var b strings.Builder
	b.Grow(len(s) + len(s)/2 + len(prefix))
	b.WriteString(prefix)

	rem := len(head) % 2
	if rem == 0 {
		rem = 2
	}
	b.WriteString(head[:rem])
	for i := rem; i < len(head); i += 2 {
		b.WriteByte(',')
		b.WriteString(head[i : i+2])
	}
	b.WriteByte(',')
	b.WriteString(tail)

	return b.String()
}
