package translation

import (
	"github.com/leonelquinteros/gotext"
)

// GetLanguage returns the active locale, falling back to English when gotext
// has not been configured.
func GetLanguage() string {
	lang := gotext.GetLanguage()

	if lang == "und" || lang == "" {
		return "en"
	}

	return lang
}

// Translate resolves a user-facing message by its id.
func Translate(msgID string, vars ...interface{}) string {
	return gotext.Get(msgID, vars...)
}
