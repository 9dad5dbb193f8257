package format

import (
	"strconv"
	"strings"
)

// Dollars renders n as a whole-dollar amount with thousands separators, e.g. $12,450.
func Dollars(n int) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}

	digits := strconv.Itoa(n)
	var sb strings.Builder
	sb.WriteString(sign)
	sb.WriteByte('$')

	lead := len(digits) % 3
	if lead == 0 {
		lead = 3
	}
	sb.WriteString(digits[:lead])
	for i := lead; i < len(digits); i += 3 {
		sb.WriteByte(',')
		sb.WriteString(digits[i : i+3])
	}

	return sb.String()
}

// Percent returns part as a whole percentage of total, or 0 when total is 0.
func Percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return part * 100 / total
}
