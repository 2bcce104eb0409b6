// Package i18n holds the user-facing string tables for Polish and English.
package i18n

import (
	"fmt"
	"sync"
)

var (
	mu      sync.RWMutex
	current = "pl"
)

var locales = map[string]map[string]string{
	"pl": pl,
	"en": en,
}

// SetLanguage switches the active language. Unknown codes are ignored.
func SetLanguage(lang string) {
	mu.Lock()
	defer mu.Unlock()
	if _, ok := locales[lang]; ok {
		current = lang
	}
}

// Language returns the active language code.
func Language() string {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// T returns the translated string for key, formatted with args. Missing keys
// fall back to Polish, then to the key itself.
func T(key string, args ...any) string {
	mu.RLock()
	strings := locales[current]
	mu.RUnlock()
	text, ok := strings[key]
	if !ok {
		text, ok = pl[key]
	}
	if !ok {
		return key
	}
	if len(args) == 0 {
		return text
	}
	return fmt.Sprintf(text, args...)
}
