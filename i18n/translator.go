package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

// Message codes used by the rules package.
const (
	CodeRequired      = "required"
	CodeRequiredField = "required_field"
	CodeInvalidEmail  = "invalid_email"
	CodeInvalidURL    = "invalid_url"
	CodeNotInteger    = "not_integer"
	CodeNotNumber     = "not_number"
	CodeTooSmall      = "too_small"
	CodeTooBig        = "too_big"
	CodeNotGreater    = "not_greater"
	CodeNotLess       = "not_less"
	CodeTooShort      = "too_short"
	CodeTooLong       = "too_long"
	CodePattern       = "pattern"
	CodeInvalidEnum   = "invalid_enum"
	CodeBlacklisted   = "blacklisted"
	CodeAtLeastOne    = "at_least_one"
	CodeUniqueness    = "uniqueness"
	CodeMismatch      = "mismatch"
)

// Translator retrieves localized messages for rule codes.
// data provides optional parameters embedded in the message as {name}
// placeholders (for example "min" or "field").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var catalog = map[string]map[string]string{
	"en": {
		CodeRequired:      "This field is required",
		CodeRequiredField: "{field} is required",
		CodeInvalidEmail:  "Enter a valid email address",
		CodeInvalidURL:    "Enter a valid URL",
		CodeNotInteger:    "Must be a whole number",
		CodeNotNumber:     "Must be a number",
		CodeTooSmall:      "Must be greater than or equal to {min}",
		CodeTooBig:        "Must be less than or equal to {max}",
		CodeNotGreater:    "Must be greater than {min}",
		CodeNotLess:       "Must be less than {max}",
		CodeTooShort:      "Length must be at least {min}",
		CodeTooLong:       "Length must be at most {max}",
		CodePattern:       "Invalid format",
		CodeInvalidEnum:   "Must be one of {values}",
		CodeBlacklisted:   "This value is not allowed",
		CodeAtLeastOne:    "At least one item is required",
		CodeUniqueness:    "Duplicate value {key}",
		CodeMismatch:      "{field} must match {other}",
	},
	"ja": {
		CodeRequired:      "必須項目です",
		CodeRequiredField: "{field} は必須です",
		CodeInvalidEmail:  "有効なメールアドレスを入力してください",
		CodeInvalidURL:    "有効なURLを入力してください",
		CodeNotInteger:    "整数を入力してください",
		CodeNotNumber:     "数値を入力してください",
		CodeTooSmall:      "{min} 以上の値を入力してください",
		CodeTooBig:        "{max} 以下の値を入力してください",
		CodeNotGreater:    "{min} より大きい値を入力してください",
		CodeNotLess:       "{max} より小さい値を入力してください",
		CodeTooShort:      "{min} 以上の長さが必要です",
		CodeTooLong:       "{max} 以下の長さにしてください",
		CodePattern:       "形式が不正です",
		CodeInvalidEnum:   "{values} のいずれかを指定してください",
		CodeBlacklisted:   "この値は使用できません",
		CodeAtLeastOne:    "少なくとも1件必要です",
		CodeUniqueness:    "値 {key} が重複しています",
		CodeMismatch:      "{field} は {other} と一致する必要があります",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	msg, ok := catalog[t.lang][code]
	if !ok {
		return code
	}
	if len(data) == 0 {
		return msg
	}
	pairs := make([]string, 0, len(data)*2)
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(msg)
}

var currentTranslator Translator = dictTranslator{lang: "en"}

var (
	catalogLangs = []string{"en", "ja"}
	matcher      = language.NewMatcher([]language.Tag{language.English, language.Japanese})
)

// Match returns the catalogue language ("en" or "ja") that best fits lang,
// which may be a BCP 47 tag ("ja-JP") or an Accept-Language list
// ("fr;q=0.9, ja;q=0.8"). Anything unmatched falls back to "en".
func Match(lang string) string {
	tags, _, err := language.ParseAcceptLanguage(lang)
	if err != nil || len(tags) == 0 {
		return "en"
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return "en"
	}
	return catalogLangs[idx]
}

// SetLanguage switches the built-in Translator to the catalogue chosen by Match.
func SetLanguage(lang string) {
	currentTranslator = dictTranslator{lang: Match(lang)}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
