package config

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useTempSettings(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.json")
	t.Setenv("POWERLANG_SETTINGS", path)
	return path
}

func TestLoadCreatesDefaultsWhenMissing(t *testing.T) {
	path := useTempSettings(t)

	s, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Defaults(), s)

	// The file now exists for the next run.
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	useTempSettings(t)

	s := Settings{
		NativeLanguage:   "Hungarian",
		LearningLanguage: "Japanese",
		KeepTTSCache:     false,
		UILanguage:       "hu",
	}
	require.NoError(t, Save(s))

	got, err := Load()
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestLoadKeepsDefaultsForMissingKeys(t *testing.T) {
	path := useTempSettings(t)
	require.NoError(t, os.WriteFile(path, []byte(`{"learning_language": "French"}`), 0644))

	s, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "French", s.LearningLanguage)
	assert.Equal(t, "English", s.NativeLanguage)
	assert.True(t, s.KeepTTSCache)
}

func TestLoadCorruptFileFallsBackToDefaults(t *testing.T) {
	path := useTempSettings(t)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	s, err := Load()
	assert.Error(t, err)
	assert.Equal(t, Defaults(), s)
}

func TestLanguageCodes(t *testing.T) {
	s := Defaults()
	assert.Equal(t, "en", s.NativeCode())
	assert.Equal(t, "sv", s.LearningCode())

	s.LearningLanguage = "Chinese (Mandarin)"
	assert.Equal(t, "zh-CN", s.LearningCode())

	s.LearningLanguage = "Klingon"
	assert.Equal(t, "", s.LearningCode(), "unknown language has no code")
}

func TestKnownLanguage(t *testing.T) {
	assert.True(t, KnownLanguage("Swedish"))
	assert.False(t, KnownLanguage("Sweedish"), "typos must be rejected, not saved")
	assert.False(t, KnownLanguage("swedish"), "names are exact, matching the language table")

	names := LanguageNames()
	assert.Len(t, names, len(LangCodes))
	assert.True(t, sort.StringsAreSorted(names))
	assert.Contains(t, names, "Chinese (Mandarin)")
}
