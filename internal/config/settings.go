// Package config holds the user-facing application settings, loaded
// once at startup and persisted on every change.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// Settings is the explicit configuration object handed to the
// collaborators that need it. It is not process-global state: callers
// pass it along and persist through Save after mutating.
type Settings struct {
	NativeLanguage   string `json:"native_language"`
	LearningLanguage string `json:"learning_language"`
	KeepTTSCache     bool   `json:"keep_tts_cache"`
	UILanguage       string `json:"ui_language"`
}

// Defaults returns the out-of-the-box settings.
func Defaults() Settings {
	return Settings{
		NativeLanguage:   "English",
		LearningLanguage: "Swedish",
		KeepTTSCache:     true,
		UILanguage:       "en",
	}
}

// Path returns the settings file location. POWERLANG_SETTINGS overrides
// it.
func Path() string {
	if p := os.Getenv("POWERLANG_SETTINGS"); p != "" {
		return p
	}
	return "settings.json"
}

// Load reads settings from disk. A missing file yields the defaults,
// persisted immediately so the file exists from then on. Unknown keys
// are ignored; missing keys keep their default values.
func Load() (Settings, error) {
	s := Defaults()

	data, err := os.ReadFile(Path())
	if os.IsNotExist(err) {
		return s, Save(s)
	}
	if err != nil {
		return s, fmt.Errorf("failed to read settings: %w", err)
	}

	if err := json.Unmarshal(data, &s); err != nil {
		return Defaults(), fmt.Errorf("failed to parse settings: %w", err)
	}
	return s, nil
}

// Save writes settings to disk.
func Save(s Settings) error {
	data, err := json.MarshalIndent(s, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := os.WriteFile(Path(), data, 0644); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}

// LangCodes maps supported language names to the codes the translation
// and speech services understand.
var LangCodes = map[string]string{
	"Arabic":             "ar",
	"Chinese (Mandarin)": "zh-CN",
	"Dutch":              "nl",
	"English":            "en",
	"Finnish":            "fi",
	"French":             "fr",
	"German":             "de",
	"Hungarian":          "hu",
	"Italian":            "it",
	"Japanese":           "ja",
	"Norwegian":          "no",
	"Polish":             "pl",
	"Portuguese":         "pt",
	"Russian":            "ru",
	"Spanish":            "es",
	"Swedish":            "sv",
	"Turkish":            "tr",
}

// KnownLanguage reports whether name is one of the supported language
// names. Settings updates reject anything else, since an unknown name
// has no service code.
func KnownLanguage(name string) bool {
	_, ok := LangCodes[name]
	return ok
}

// LanguageNames returns the supported language names sorted
// alphabetically, for display.
func LanguageNames() []string {
	names := make([]string, 0, len(LangCodes))
	for name := range LangCodes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NativeCode returns the code for the configured native language.
func (s Settings) NativeCode() string {
	return LangCodes[s.NativeLanguage]
}

// LearningCode returns the code for the configured learning language.
func (s Settings) LearningCode() string {
	return LangCodes[s.LearningLanguage]
}
