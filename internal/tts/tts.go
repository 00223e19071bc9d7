// Package tts generates and plays word pronunciations through the
// Google Translate text-to-speech endpoint, with a content-addressed
// file cache.
package tts

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"
	"time"
)

const defaultSpeechURL = "https://translate.google.com/translate_tts"

// ErrBusy means another pronunciation is already playing; the request
// was dropped, not queued.
var ErrBusy = errors.New("audio is already playing")

// Player turns an audio file into sound.
type Player interface {
	Play(path string) error
}

// Speaker generates, caches and plays pronunciations. Playback is
// globally serialized: a request arriving while audio plays is
// dropped.
type Speaker struct {
	speechURL string
	cacheDir  string
	http      *http.Client
	player    Player
	playing   sync.Mutex
}

// New creates a Speaker caching audio under cacheDir.
// POWERLANG_TTS_URL overrides the synthesis endpoint (used by tests).
func New(cacheDir string, player Player) *Speaker {
	speechURL := os.Getenv("POWERLANG_TTS_URL")
	if speechURL == "" {
		speechURL = defaultSpeechURL
	}
	if player == nil {
		player = &ExecPlayer{}
	}
	return &Speaker{
		speechURL: speechURL,
		cacheDir:  cacheDir,
		http:      &http.Client{Timeout: 15 * time.Second},
		player:    player,
	}
}

// CachePath returns the cache file for a text/language pair. The name
// is the language code plus an MD5 of the text, so identical requests
// share one file.
func (s *Speaker) CachePath(text, langCode string) string {
	sum := md5.Sum([]byte(text))
	return filepath.Join(s.cacheDir, fmt.Sprintf("%s_%s.mp3", langCode, hex.EncodeToString(sum[:])))
}

// Speak pronounces text in the given language. The generated audio is
// kept in the cache afterwards only when keepCache is true. If audio
// is already playing the call returns ErrBusy immediately.
func (s *Speaker) Speak(text, langCode string, keepCache bool) error {
	if text == "" || langCode == "" {
		return errors.New("no text to speak")
	}

	// Drop-on-busy, never queue.
	if !s.playing.TryLock() {
		return ErrBusy
	}
	defer s.playing.Unlock()

	if err := os.MkdirAll(s.cacheDir, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	path := s.CachePath(text, langCode)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := s.generate(text, langCode, path); err != nil {
			return err
		}
	}

	playErr := s.player.Play(path)

	if !keepCache {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			// Playback already happened; a leftover file is not fatal.
			fmt.Fprintf(os.Stderr, "failed to delete cached audio %s: %v\n", path, err)
		}
	}

	if playErr != nil {
		return fmt.Errorf("playback failed: %w", playErr)
	}
	return nil
}

// generate fetches synthesized speech into path, writing through a
// temp file so a failed download never leaves a half-written cache
// entry.
func (s *Speaker) generate(text, langCode, path string) error {
	reqURL := fmt.Sprintf("%s?ie=UTF-8&client=tw-ob&tl=%s&q=%s",
		s.speechURL, url.QueryEscape(langCode), url.QueryEscape(text))

	resp, err := s.http.Get(reqURL)
	if err != nil {
		return fmt.Errorf("speech request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("speech service returned status %d", resp.StatusCode)
	}

	tmp, err := os.CreateTemp(s.cacheDir, "tts-*.mp3")
	if err != nil {
		return fmt.Errorf("failed to create audio file: %w", err)
	}
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write audio file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close audio file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to store audio file: %w", err)
	}
	return nil
}

// ExecPlayer plays audio by shelling out to a system player.
// POWERLANG_AUDIO_PLAYER overrides the command.
type ExecPlayer struct{}

// Play blocks until the player exits.
func (p *ExecPlayer) Play(path string) error {
	cmd := os.Getenv("POWERLANG_AUDIO_PLAYER")
	if cmd == "" {
		switch runtime.GOOS {
		case "darwin":
			cmd = "afplay"
		case "windows":
			cmd = "cmdmp3"
		default:
			cmd = "mpg123"
		}
	}
	return exec.Command(cmd, path).Run()
}
