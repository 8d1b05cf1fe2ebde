package pattern

// predefinedPatterns maps well-known pattern names to their canonical regex
// sources. Lookups are delegated to regex execution with case-insensitive
// matching forced.
var predefinedPatterns = map[string]string{
	"email":   `[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`,
	"url":     `https?://[^\s]+`,
	"phone":   `\+?[0-9][0-9()\-\s.]{6,}[0-9]`,
	"date":    `\d{4}-\d{2}-\d{2}|\d{1,2}/\d{1,2}/\d{2,4}`,
	"time":    `\d{1,2}:\d{2}(?::\d{2})?(?:\s?[ap]m)?`,
	"hashtag": `#\w+`,
	"mention": `@\w+`,
	"number":  `-?\d+(?:\.\d+)?`,
	"word":    `\b\w+\b`,
}

// IsPredefined reports whether name resolves to a predefined pattern.
func IsPredefined(name string) bool {
	_, ok := predefinedPatterns[name]
	return ok
}
