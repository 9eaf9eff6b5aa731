package models

import "strings"

// Values applied to optional post fields left empty by the publisher.
const (
	DefaultDescription = "No description."
	DefaultLanguage    = "javascript"
	DefaultTag         = "code"
)

// languageExtensions maps a language tag to the file extension used for downloads.
var languageExtensions = map[string]string{
	"javascript": "js",
	"python":     "py",
	"java":       "java",
	"php":        "php",
	"html":       "html",
	"cpp":        "cpp",
	"csharp":     "cs",
}

// FallbackExtension is used for languages missing from the catalogue.
const FallbackExtension = "txt"

// Normalize trims every field of the input and fills the optional ones with their defaults.
func (in PostInput) Normalize() PostInput {
	out := PostInput{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Author:      strings.TrimSpace(in.Author),
		Language:    strings.TrimSpace(in.Language),
		Tags:        NormalizeTags(in.Tags),
		Code:        strings.TrimSpace(in.Code),
	}
	if out.Description == "" {
		out.Description = DefaultDescription
	}
	if out.Language == "" {
		out.Language = DefaultLanguage
	}
	if len(out.Tags) == 0 {
		out.Tags = []string{DefaultTag}
	}
	return out
}

// NormalizeTags trims each tag and drops the empty ones, keeping order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// ExtensionFor returns the download extension for a language tag.
func ExtensionFor(language string) string {
	if ext, ok := languageExtensions[strings.ToLower(strings.TrimSpace(language))]; ok {
		return ext
	}
	return FallbackExtension
}

// LanguageExtensions returns a copy of the language catalogue.
func LanguageExtensions() map[string]string {
	out := make(map[string]string, len(languageExtensions))
	for k, v := range languageExtensions {
		out[k] = v
	}
	return out
}
