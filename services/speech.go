// services/speech.go
package services

import (
	"context"
	"crypto/sha1"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	appContext "github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"

	"github.com/wordnest/vocab_api/shared"
)

// SpeechService synthesizes pronunciation audio. Synthesized clips are
// cached on disk so each (voice, rate, text) combination is fetched once.
type SpeechService struct {
	appContext.DefaultService

	client   *http.Client
	cacheDir string
	endpoint string

	voices         []Voice
	preferredNames []string

	// resolved voice per language; guarded by mu.
	mu       sync.Mutex
	resolved map[string]Voice
}

// Voice describes one synthesis voice offered by the provider.
type Voice struct {
	Name     string
	Language string
	Default  bool
}

const SPEECH_SVC = "speech_svc"

func (svc *SpeechService) Id() string {
	return SPEECH_SVC
}

func (svc *SpeechService) Configure(ctx *appContext.Context) error {
	svc.cacheDir = os.Getenv("SPEECH_CACHE_DIR")
	if svc.cacheDir == "" {
		svc.cacheDir = filepath.Join(os.TempDir(), "wordnest-speech")
	}

	svc.endpoint = os.Getenv("SPEECH_ENDPOINT")
	if svc.endpoint == "" {
		svc.endpoint = "https://translate.google.com/translate_tts"
	}

	svc.client = &http.Client{Timeout: 30 * time.Second}
	svc.resolved = map[string]Voice{}

	// Names tried first during voice selection, best quality first.
	svc.preferredNames = []string{"Google US English", "Samantha", "Microsoft Zira"}
	if names := os.Getenv("SPEECH_PREFERRED_VOICES"); names != "" {
		svc.preferredNames = strings.Split(names, ",")
	}

	svc.voices = defaultVoices()

	return svc.DefaultService.Configure(ctx)
}

func (svc *SpeechService) Start() error {
	if err := os.MkdirAll(svc.cacheDir, 0o755); err != nil {
		return fmt.Errorf("failed to create speech cache dir: %w", err)
	}
	return nil
}

func defaultVoices() []Voice {
	return []Voice{
		{Name: "Google US English", Language: "en", Default: true},
		{Name: "Google UK English Female", Language: "en"},
		{Name: "Google 한국의", Language: "ko", Default: true},
	}
}

// SetVoices replaces the voice catalog and drops cached resolutions.
func (svc *SpeechService) SetVoices(voices []Voice) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.voices = voices
	svc.resolved = map[string]Voice{}
}

// PickVoice resolves the voice to use for a language. Preference order:
// a preferred name matching the language, then the language's default
// voice, then any voice for the language, then the catalog's first default.
// The resolution is cached until the catalog changes.
func (svc *SpeechService) PickVoice(language string) Voice {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	language = normalizeLanguage(language)
	if v, ok := svc.resolved[language]; ok {
		return v
	}

	v := svc.pickVoiceLocked(language)
	svc.resolved[language] = v
	return v
}

func (svc *SpeechService) pickVoiceLocked(language string) Voice {
	for _, name := range svc.preferredNames {
		name = strings.TrimSpace(name)
		for _, v := range svc.voices {
			if v.Name == name && normalizeLanguage(v.Language) == language {
				return v
			}
		}
	}

	for _, v := range svc.voices {
		if normalizeLanguage(v.Language) == language && v.Default {
			return v
		}
	}

	for _, v := range svc.voices {
		if normalizeLanguage(v.Language) == language {
			return v
		}
	}

	for _, v := range svc.voices {
		if v.Default {
			return v
		}
	}

	if len(svc.voices) > 0 {
		return svc.voices[0]
	}
	return Voice{Name: "system", Language: language}
}

func normalizeLanguage(language string) string {
	language = strings.ToLower(strings.TrimSpace(language))
	if idx := strings.IndexAny(language, "-_"); idx > 0 {
		language = language[:idx]
	}
	return language
}

// Speak returns mp3 audio for the text, fetching from the provider on a
// cache miss.
func (svc *SpeechService) Speak(ctx context.Context, text, language string, rate float64) ([]byte, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, shared.NewBadRequestError(nil, "Nothing to speak")
	}
	if rate <= 0 {
		rate = 1
	}

	voice := svc.PickVoice(language)
	cachePath := svc.cachePath(language, voice.Name, rate, text)

	if data, err := os.ReadFile(cachePath); err == nil {
		return data, nil
	}

	data, err := svc.fetchAudio(ctx, text, normalizeLanguage(language))
	if err != nil {
		return nil, err
	}

	if err := os.WriteFile(cachePath, data, 0o644); err != nil {
		log.WithError(err).Warn("Failed to cache speech audio")
	}

	return data, nil
}

func (svc *SpeechService) cachePath(language, voice string, rate float64, text string) string {
	sum := sha1.Sum([]byte(fmt.Sprintf("%s:%s:%.2f:%s", normalizeLanguage(language), voice, rate, text)))
	return filepath.Join(svc.cacheDir, fmt.Sprintf("%x.mp3", sum))
}

func (svc *SpeechService) fetchAudio(ctx context.Context, text, language string) ([]byte, error) {
	endpoint := fmt.Sprintf(
		"%s?ie=UTF-8&tl=%s&client=tw-ob&q=%s",
		svc.endpoint, url.QueryEscape(language), url.QueryEscape(text))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to build speech request")
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := svc.client.Do(req)
	if err != nil {
		return nil, shared.NewServiceUnavailableError(err, "Speech service is unavailable")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, shared.NewServiceUnavailableError(
			fmt.Errorf("speech provider returned %d", resp.StatusCode),
			"Speech service is unavailable")
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, shared.NewServiceUnavailableError(err, "Speech service is unavailable")
	}

	return data, nil
}
