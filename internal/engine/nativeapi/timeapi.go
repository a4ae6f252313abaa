package nativeapi

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

func (p *Provider) execTime(api string, args []string) string {
	switch api {
	case "nowMillis":
		return strconv.FormatInt(time.Now().UnixMilli(), 10)

	case "timeFormat":
		return formatMillis(arg(args, 0), arg(args, 1), time.Local)

	case "timeFormatUtc":
		return formatMillis(arg(args, 0), arg(args, 1), time.UTC)

	case "uuidV4":
		return uuid.New().String()
	}
	return ""
}

func formatMillis(millisStr, layout string, loc *time.Location) string {
	millis, err := strconv.ParseInt(millisStr, 10, 64)
	if err != nil {
		return ""
	}
	if layout == "" {
		layout = "2006-01-02 15:04:05"
	}
	return time.UnixMilli(millis).In(loc).Format(goLayout(layout))
}

// goLayout translates the handful of Java/JS-style date tokens rule authors
// write (yyyy-MM-dd HH:mm:ss) into Go's reference layout. Unrecognized
// layouts are passed through unchanged, letting callers write a Go layout
// directly if they prefer.
func goLayout(layout string) string {
	replacer := strings.NewReplacer(
		"yyyy", "2006",
		"MM", "01",
		"dd", "02",
		"HH", "15",
		"mm", "04",
		"ss", "05",
	)
	return replacer.Replace(layout)
}
