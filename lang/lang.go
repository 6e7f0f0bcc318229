// Package lang normalizes free-form subtitle language labels to ISO 639-1 codes.
package lang

import (
	"strings"

	"github.com/samber/lo"
)

// Language is a known subtitle language.
type Language struct {
	Code    string
	English string
	Native  string
	// Region is the ISO 3166 country most associated with the language, used for flags.
	Region string
	// Aliases are extra labels seen upstream for the same language.
	Aliases []string
}

// Variants returns every lowercase label under which the language may appear, the code included.
func (l Language) Variants() []string {
	names := append([]string{l.Code, l.English, l.Native}, l.Aliases...)
	return lo.Uniq(lo.FilterMap(names, func(s string, _ int) (string, bool) {
		s = strings.ToLower(s)
		return s, s != ""
	}))
}

// Flag returns the regional indicator emoji of the language's region.
func (l Language) Flag() string {
	if len(l.Region) != 2 {
		return ""
	}

	var b strings.Builder
	for _, r := range strings.ToUpper(l.Region) {
		b.WriteRune(0x1F1E6 + r - 'A')
	}
	return b.String()
}

// Known languages, keyed by the labels the catalog uses.
var Known = []Language{
	{Code: "en", English: "English", Native: "English", Region: "GB"},
	{Code: "fr", English: "French", Native: "Français", Region: "FR"},
	{Code: "id", English: "Indonesian", Native: "Bahasa Indonesia", Aliases: []string{"Indonesia"}, Region: "ID"},
	{Code: "ms", English: "Malay", Native: "Bahasa Melayu", Region: "MY"},
	{Code: "ar", English: "Arabic", Native: "العربية", Region: "SA"},
	{Code: "km", English: "Khmer", Native: "ខ្មែរ", Region: "KH"},
	{Code: "es", English: "Spanish", Native: "Español", Region: "ES"},
	{Code: "pt", English: "Portuguese", Native: "Português", Region: "PT"},
	{Code: "de", English: "German", Native: "Deutsch", Region: "DE"},
	{Code: "it", English: "Italian", Native: "Italiano", Region: "IT"},
	{Code: "ko", English: "Korean", Native: "한국어", Region: "KR"},
	{Code: "ja", English: "Japanese", Native: "日本語", Region: "JP"},
	{Code: "zh", English: "Chinese", Native: "中文", Region: "CN"},
	{Code: "th", English: "Thai", Native: "ไทย", Region: "TH"},
	{Code: "vi", English: "Vietnamese", Native: "Tiếng Việt", Region: "VN"},
	{Code: "hi", English: "Hindi", Native: "हिन्दी", Region: "IN"},
	{Code: "ru", English: "Russian", Native: "Русский", Region: "RU"},
	{Code: "tr", English: "Turkish", Native: "Türkçe", Region: "TR"},
	{Code: "pl", English: "Polish", Native: "Polski", Region: "PL"},
	{Code: "nl", English: "Dutch", Native: "Nederlands", Region: "NL"},
	{Code: "el", English: "Greek", Native: "Ελληνικά", Region: "GR"},
	{Code: "he", English: "Hebrew", Native: "עברית", Region: "IL"},
	{Code: "ro", English: "Romanian", Native: "Română", Region: "RO"},
	{Code: "cs", English: "Czech", Native: "Čeština", Region: "CZ"},
	{Code: "hu", English: "Hungarian", Native: "Magyar", Region: "HU"},
	{Code: "sv", English: "Swedish", Native: "Svenska", Region: "SE"},
	{Code: "da", English: "Danish", Native: "Dansk", Region: "DK"},
	{Code: "fi", English: "Finnish", Native: "Suomi", Region: "FI"},
	{Code: "no", English: "Norwegian", Native: "Norsk", Region: "NO"},
}

var byLabel = func() map[string]Language {
	m := make(map[string]Language)
	for _, l := range Known {
		for _, v := range l.Variants() {
			if _, taken := m[v]; !taken {
				m[v] = l
			}
		}
	}
	return m
}()

// ByCode finds a language by its two-letter code.
func ByCode(code string) (Language, bool) {
	return lo.Find(Known, func(l Language) bool {
		return strings.EqualFold(l.Code, code)
	})
}

// Code normalizes a label. Unknown labels fall back to their first two lowercase letters,
// an empty label to "un".
func Code(label string) string {
	label = strings.TrimSpace(label)
	if l, ok := byLabel[strings.ToLower(label)]; ok {
		return l.Code
	}

	if label == "" {
		label = "Unknown"
	}

	runes := []rune(strings.ToLower(label))
	return string(runes[:min(2, len(runes))])
}

// Matches reports whether label names the language with the given code, under any of its
// variants, case-insensitively.
func Matches(label, code string) bool {
	label = strings.ToLower(strings.TrimSpace(label))
	if label == "" {
		return false
	}

	l, ok := ByCode(code)
	if !ok {
		return label == strings.ToLower(code)
	}

	return lo.Contains(l.Variants(), label)
}
