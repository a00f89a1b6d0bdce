package transcribe

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// NormalizeLanguage validates a language code or locale ("fr", "pt-BR",
// "zh_Hant") and returns the ISO 639-1 base code the transcription API
// accepts. Empty input means auto-detect and returns "".
func NormalizeLanguage(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}

	tag, err := language.Parse(strings.ReplaceAll(s, "_", "-"))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidLanguage, s)
	}
	base, conf := tag.Base()
	if conf == language.No {
		return "", fmt.Errorf("%w: %q", ErrInvalidLanguage, s)
	}

	code := base.String()
	if len(code) != 2 {
		return "", fmt.Errorf("%w: %q has no two-letter ISO 639-1 code", ErrInvalidLanguage, s)
	}
	return code, nil
}
