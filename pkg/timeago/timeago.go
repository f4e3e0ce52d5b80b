package timeago

import (
	"fmt"
	"time"
)

// Since 按经过时长分档返回 t 相对 now 的友好描述，如 "5 minutes ago"、"Yesterday"
// 24~48 小时为 "Yesterday"，与日历日无关
func Since(t, now time.Time) string {
	d := now.Sub(t)
	if d < time.Minute {
		return "Just now"
	}
	if d < time.Hour {
		return plural(int(d/time.Minute), "minute")
	}

	days := int(d / (24 * time.Hour))
	if days == 0 {
		return plural(int(d/time.Hour), "hour")
	}
	switch {
	case days == 1:
		return "Yesterday"
	case days < 7:
		return plural(days, "day")
	case days < 30:
		return plural(days/7, "week")
	case days < 365:
		return plural(days/30, "month")
	default:
		return plural(days/365, "year")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
