package helpers

import (
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// EscapeMarkdown escapes the characters that break Telegram's legacy
// Markdown parse mode. Applied to upstream-supplied names only, never to
// text the formatter builds itself.
func EscapeMarkdown(text string) string {
	charactersToEscape := []string{"_", "*", "[", "`"}

	for _, char := range charactersToEscape {
		text = strings.ReplaceAll(text, char, "\\"+char)
	}
	return text
}

// FormatUSD renders a dollar amount with a thousands separator and exactly
// two decimals, e.g. 65432.1 -> "$65,432.10".
func FormatUSD(amount float64) string {
	return "$" + humanize.FormatFloat("#,###.##", amount)
}

// FormatRoundedUSD renders a dollar amount rounded to whole dollars,
// e.g. 1234567.89 -> "$1,234,568".
func FormatRoundedUSD(amount float64) string {
	p := message.NewPrinter(language.English)
	return "$" + p.Sprintf("%d", int64(math.Round(amount)))
}

// FormatPercent renders a percent change with an explicit sign and two
// decimals, e.g. -2.5 -> "-2.50%".
func FormatPercent(change float64) string {
	return fmt.Sprintf("%+.2f%%", change)
}

// FormatRank renders an integer rank with a leading #.
func FormatRank(rank int64) string {
	return fmt.Sprintf("#%d", rank)
}
