package templates

import (
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatCount renders an integer with thousands separators.
func FormatCount(value int) string {
	return printer.Sprintf("%d", value)
}

// FormatPercent renders a ratio given in percentage points, one decimal.
func FormatPercent(value float64) string {
	return printer.Sprintf("%.1f%%", value)
}

// FormatMinutes renders a duration given in minutes.
func FormatMinutes(value float64) string {
	return printer.Sprintf("%.1f min", value)
}

// FormatScore renders a satisfaction or confidence score, one decimal.
func FormatScore(value float64) string {
	return printer.Sprintf("%.1f", value)
}

// FormatTimestamp renders an absolute timestamp for ticket rows and threads.
func FormatTimestamp(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.UTC().Format("Jan 2, 2006 15:04 MST")
}

// FormatLabel turns an API enum such as IN_PROGRESS into display text.
func FormatLabel(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	words := strings.Split(strings.ToLower(strings.ReplaceAll(value, "_", " ")), " ")
	for i, word := range words {
		if word == "" {
			continue
		}
		if word == "ai" {
			words[i] = "AI"
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
