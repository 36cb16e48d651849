// services/ai.go
package services

import (
	"bufio"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	appContext "github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"

	"github.com/wordnest/vocab_api/dto"
	"github.com/wordnest/vocab_api/shared"
)

// AIService wraps the generative-AI provider behind a retry/backoff/cooldown
// policy. It is the only source of unbounded latency and failure in the app,
// so every public method is context-aware and never panics outward.
type AIService struct {
	appContext.DefaultService

	redisSvc *RedisService

	client    *http.Client
	baseURL   string
	apiKey    string
	model     string
	imageSize string

	// process-wide quota cooldown; guarded by mu. A second quota hit while
	// the window is active must not restart it.
	mu            sync.Mutex
	cooldownUntil time.Time

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

const AI_SVC = "ai_svc"

const (
	aiCooldownWindow  = 15 * time.Minute
	aiCooldownKey     = "ai:cooldown_until"
	aiLookupCachePref = "ai:lookup:"
	aiLookupCacheTTL  = 7 * 24 * time.Hour
)

// Per-call-type retry budgets and initial backoff delays. Image generation
// is expensive, so it only gets a single retry.
type aiCallPolicy struct {
	retries      int
	initialDelay time.Duration
}

var aiPolicies = map[string]aiCallPolicy{
	"lookup":  {retries: 2, initialDelay: 5 * time.Second},
	"example": {retries: 2, initialDelay: 6 * time.Second},
	"summary": {retries: 2, initialDelay: 6 * time.Second},
	"chat":    {retries: 2, initialDelay: 5 * time.Second},
	"image":   {retries: 1, initialDelay: 8 * time.Second},
}

// Provider failure classification.
type aiErrorKind int

const (
	aiErrTransient aiErrorKind = iota
	aiErrRateLimited
	aiErrQuotaExhausted
	aiErrMalformed
)

type aiError struct {
	kind   aiErrorKind
	status int
	msg    string
}

func (e *aiError) Error() string {
	return fmt.Sprintf("ai provider error (%d): %s", e.status, e.msg)
}

// ErrAICoolingDown marks a call short-circuited by the quota cooldown; no
// request was sent to the provider.
var ErrAICoolingDown = errors.New("ai provider is cooling down")

func (svc *AIService) Id() string {
	return AI_SVC
}

func (svc *AIService) Configure(ctx *appContext.Context) error {
	svc.baseURL = os.Getenv("AI_BASE_URL")
	if svc.baseURL == "" {
		svc.baseURL = "https://api.openai.com/v1"
	}

	svc.apiKey = os.Getenv("AI_API_KEY")

	svc.model = os.Getenv("AI_MODEL")
	if svc.model == "" {
		svc.model = "gpt-4o-mini"
	}

	svc.imageSize = "512x512"

	svc.client = &http.Client{Timeout: 120 * time.Second}
	svc.now = time.Now
	svc.sleep = sleepContext

	return svc.DefaultService.Configure(ctx)
}

func (svc *AIService) Start() error {
	svc.redisSvc = svc.Service(REDIS_SVC).(*RedisService)

	// Restore a cooldown stamp left by a previous run.
	var stamp int64
	if err := svc.redisSvc.GetJSON(context.Background(), aiCooldownKey, &stamp); err == nil && stamp > 0 {
		until := time.Unix(stamp, 0)
		if until.After(svc.now()) {
			svc.mu.Lock()
			svc.cooldownUntil = until
			svc.mu.Unlock()
			log.WithField("until", until).Warn("AI quota cooldown restored from cache")
		}
	}

	return nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// ==================== COOLDOWN STATE ====================

// CoolingDown reports whether calls are currently short-circuited, and for
// how much longer.
func (svc *AIService) CoolingDown() (bool, time.Duration) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	remaining := svc.cooldownUntil.Sub(svc.now())
	if remaining <= 0 {
		return false, 0
	}
	return true, remaining
}

func (svc *AIService) Status() dto.AIStatusResponse {
	cooling, remaining := svc.CoolingDown()
	return dto.AIStatusResponse{
		Available:      !cooling,
		CooldownForSec: int64(remaining.Seconds()),
	}
}

func (svc *AIService) tripCooldown() {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	now := svc.now()
	if svc.cooldownUntil.After(now) {
		// Window already running; do not restart it.
		return
	}
	svc.cooldownUntil = now.Add(aiCooldownWindow)
	log.WithField("until", svc.cooldownUntil).Warn("AI quota exhausted, tripping cooldown")

	if svc.redisSvc != nil {
		if err := svc.redisSvc.Set(context.Background(), aiCooldownKey, svc.cooldownUntil.Unix(), aiCooldownWindow); err != nil {
			log.WithError(err).Debug("Failed to mirror cooldown stamp")
		}
	}
}

// ==================== RETRY DRIVER ====================

// withRetries runs fn under the call type's retry budget. Quota exhaustion
// aborts immediately and trips the cooldown; rate limiting and transient or
// malformed responses are retried with doubling backoff.
func (svc *AIService) withRetries(ctx context.Context, callType string, fn func() *aiError) error {
	if cooling, remaining := svc.CoolingDown(); cooling {
		recordAICall(callType, "cooldown")
		return shared.NewServiceUnavailableError(ErrAICoolingDown,
			fmt.Sprintf("AI features are paused for another %d minutes", int(remaining.Minutes())+1))
	}

	policy, ok := aiPolicies[callType]
	if !ok {
		policy = aiCallPolicy{retries: 2, initialDelay: 5 * time.Second}
	}

	delay := policy.initialDelay
	var lastErr *aiError

	for attempt := 0; attempt <= policy.retries; attempt++ {
		if attempt > 0 {
			if err := svc.sleep(ctx, delay); err != nil {
				return err
			}
			delay *= 2
		}

		lastErr = fn()
		if lastErr == nil {
			recordAICall(callType, "ok")
			return nil
		}

		if lastErr.kind == aiErrQuotaExhausted {
			svc.tripCooldown()
			recordAICall(callType, "quota")
			return shared.NewServiceUnavailableError(lastErr,
				"AI features are paused for a while: the daily quota was used up")
		}

		log.WithFields(log.Fields{
			"call":    callType,
			"attempt": attempt + 1,
			"status":  lastErr.status,
		}).Warn("AI call failed")
	}

	switch lastErr.kind {
	case aiErrRateLimited:
		recordAICall(callType, "rate_limited")
		return shared.NewTooManyRequestsError(lastErr,
			"The AI service is busy right now, please try again in a minute")
	case aiErrMalformed:
		recordAICall(callType, "malformed")
		return lastErr
	default:
		recordAICall(callType, "error")
		return shared.NewServiceUnavailableError(lastErr,
			"Could not reach the AI service, please try again later")
	}
}

func isMalformedAIError(err error) bool {
	var aiErr *aiError
	return errors.As(err, &aiErr) && aiErr.kind == aiErrMalformed
}

func classifyProviderError(status int, body string) *aiError {
	lower := strings.ToLower(body)

	if status == http.StatusTooManyRequests {
		if strings.Contains(lower, "quota") || strings.Contains(lower, "resource exhausted") ||
			strings.Contains(lower, "resource_exhausted") || strings.Contains(lower, "billing") {
			return &aiError{kind: aiErrQuotaExhausted, status: status, msg: body}
		}
		return &aiError{kind: aiErrRateLimited, status: status, msg: body}
	}

	if strings.Contains(lower, "resource_exhausted") {
		return &aiError{kind: aiErrQuotaExhausted, status: status, msg: body}
	}

	return &aiError{kind: aiErrTransient, status: status, msg: body}
}

// ==================== WIRE FORMAT ====================

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Stream      bool          `json:"stream"`
	Temperature *float64      `json:"temperature,omitempty"`
	MaxTokens   *int          `json:"max_tokens,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type streamingResponse struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
		FinishReason *string `json:"finish_reason"`
	} `json:"choices"`
}

type imageRequest struct {
	Model          string `json:"model,omitempty"`
	Prompt         string `json:"prompt"`
	N              int    `json:"n"`
	Size           string `json:"size"`
	ResponseFormat string `json:"response_format"`
}

type imageResponse struct {
	Data []struct {
		B64JSON string `json:"b64_json"`
	} `json:"data"`
}

func (svc *AIService) chatCompletion(ctx context.Context, system, user string, temperature float64) (string, *aiError) {
	temp := temperature
	request := chatCompletionRequest{
		Model: svc.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: &temp,
	}

	jsonData, err := json.Marshal(request)
	if err != nil {
		return "", &aiError{kind: aiErrTransient, msg: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, svc.baseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", &aiError{kind: aiErrTransient, msg: err.Error()}
	}

	req.Header.Set("Content-Type", "application/json")
	if svc.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+svc.apiKey)
	}

	resp, err := svc.client.Do(req)
	if err != nil {
		return "", &aiError{kind: aiErrTransient, msg: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &aiError{kind: aiErrTransient, status: resp.StatusCode, msg: err.Error()}
	}

	if resp.StatusCode != http.StatusOK {
		return "", classifyProviderError(resp.StatusCode, string(body))
	}

	var response chatCompletionResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", &aiError{kind: aiErrMalformed, status: resp.StatusCode, msg: err.Error()}
	}

	if len(response.Choices) == 0 {
		return "", &aiError{kind: aiErrMalformed, status: resp.StatusCode, msg: "no choices returned"}
	}

	return strings.TrimSpace(response.Choices[0].Message.Content), nil
}

// stripCodeFences removes ```json ... ``` wrappers some models insist on.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 && !strings.HasPrefix(s, "{") && !strings.HasPrefix(s, "[") {
		// Drop the language tag line ("json").
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// ==================== CALLS ====================

const lookupSystemPrompt = "You are a dictionary assistant for school students learning English vocabulary. " +
	"Always answer with a single JSON object and nothing else."

// LookupWord asks the provider for word details. Responses missing required
// fields are retried, then degraded to a partial result carrying just the
// term, never a hard failure.
func (svc *AIService) LookupWord(ctx context.Context, term string) (*dto.WordLookupResult, error) {
	term = strings.TrimSpace(term)

	cacheKey := aiLookupCachePref + strings.ToLower(term)
	var cached dto.WordLookupResult
	if err := svc.redisSvc.GetJSON(ctx, cacheKey, &cached); err == nil && cached.Meaning != "" {
		return &cached, nil
	}

	prompt := fmt.Sprintf(
		"Give details for the English word '%s' as JSON with the fields "+
			"pronunciation (IPA, optional), partOfSpeech, meaning (Korean, alternatives separated by '/'), "+
			"exampleSentence (English) and exampleSentenceMeaning (Korean).", term)

	var result dto.WordLookupResult
	err := svc.withRetries(ctx, "lookup", func() *aiError {
		content, aiErr := svc.chatCompletion(ctx, lookupSystemPrompt, prompt, 0.3)
		if aiErr != nil {
			return aiErr
		}

		var parsed dto.WordLookupResult
		if err := json.Unmarshal([]byte(stripCodeFences(content)), &parsed); err != nil {
			return &aiError{kind: aiErrMalformed, msg: "unparseable lookup response"}
		}
		if parsed.PartOfSpeech == "" || parsed.Meaning == "" || parsed.ExampleSentence == "" {
			return &aiError{kind: aiErrMalformed, msg: "lookup response missing required fields"}
		}

		parsed.Term = term
		result = parsed
		return nil
	})

	if err != nil {
		if isMalformedAIError(err) {
			// Soft failure: hand back what we know.
			return &dto.WordLookupResult{Term: term, Partial: true}, nil
		}
		return nil, err
	}

	if err := svc.redisSvc.Set(ctx, cacheKey, result, aiLookupCacheTTL); err != nil {
		log.WithError(err).Debug("Failed to cache lookup result")
	}

	return &result, nil
}

// RegenerateExample produces a fresh example sentence for a known word.
func (svc *AIService) RegenerateExample(ctx context.Context, term, meaning string) (*dto.RegenerateExampleResult, error) {
	prompt := fmt.Sprintf(
		"Write one new, simple example sentence for the English word '%s' (meaning: %s). "+
			"Answer as JSON with fields exampleSentence and exampleSentenceMeaning (Korean translation).",
		term, meaning)

	var result dto.RegenerateExampleResult
	err := svc.withRetries(ctx, "example", func() *aiError {
		content, aiErr := svc.chatCompletion(ctx, lookupSystemPrompt, prompt, 0.8)
		if aiErr != nil {
			return aiErr
		}

		var parsed dto.RegenerateExampleResult
		if err := json.Unmarshal([]byte(stripCodeFences(content)), &parsed); err != nil {
			return &aiError{kind: aiErrMalformed, msg: "unparseable example response"}
		}
		if parsed.ExampleSentence == "" {
			return &aiError{kind: aiErrMalformed, msg: "example response missing sentence"}
		}

		result = parsed
		return nil
	})

	if err != nil {
		if isMalformedAIError(err) {
			return nil, shared.NewServiceUnavailableError(err, "Could not generate a new example this time")
		}
		return nil, err
	}

	return &result, nil
}

// Summarize condenses a passage for the reading helper.
func (svc *AIService) Summarize(ctx context.Context, text string) (*dto.SummarizeResult, error) {
	prompt := fmt.Sprintf(
		"Summarize the following text in 2-3 short sentences a student can follow. "+
			"Answer as JSON with a single field summary.\n\n%s", text)

	var result dto.SummarizeResult
	err := svc.withRetries(ctx, "summary", func() *aiError {
		content, aiErr := svc.chatCompletion(ctx, lookupSystemPrompt, prompt, 0.3)
		if aiErr != nil {
			return aiErr
		}

		var parsed dto.SummarizeResult
		if err := json.Unmarshal([]byte(stripCodeFences(content)), &parsed); err != nil {
			return &aiError{kind: aiErrMalformed, msg: "unparseable summary response"}
		}
		if parsed.Summary == "" {
			return &aiError{kind: aiErrMalformed, msg: "summary response missing summary"}
		}

		result = parsed
		return nil
	})

	if err != nil {
		if isMalformedAIError(err) {
			return nil, shared.NewServiceUnavailableError(err, "Could not summarize the text this time")
		}
		return nil, err
	}

	return &result, nil
}

// GenerateImage returns raw image bytes illustrating a word.
func (svc *AIService) GenerateImage(ctx context.Context, term string) ([]byte, error) {
	request := imageRequest{
		Prompt:         fmt.Sprintf("A simple, friendly illustration for children of the word '%s'. No text in the image.", term),
		N:              1,
		Size:           svc.imageSize,
		ResponseFormat: "b64_json",
	}

	var imageData []byte
	err := svc.withRetries(ctx, "image", func() *aiError {
		jsonData, err := json.Marshal(request)
		if err != nil {
			return &aiError{kind: aiErrTransient, msg: err.Error()}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, svc.baseURL+"/images/generations", bytes.NewBuffer(jsonData))
		if err != nil {
			return &aiError{kind: aiErrTransient, msg: err.Error()}
		}
		req.Header.Set("Content-Type", "application/json")
		if svc.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+svc.apiKey)
		}

		resp, err := svc.client.Do(req)
		if err != nil {
			return &aiError{kind: aiErrTransient, msg: err.Error()}
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return &aiError{kind: aiErrTransient, status: resp.StatusCode, msg: err.Error()}
		}

		if resp.StatusCode != http.StatusOK {
			return classifyProviderError(resp.StatusCode, string(body))
		}

		var parsed imageResponse
		if err := json.Unmarshal(body, &parsed); err != nil {
			return &aiError{kind: aiErrMalformed, status: resp.StatusCode, msg: err.Error()}
		}
		if len(parsed.Data) == 0 || parsed.Data[0].B64JSON == "" {
			return &aiError{kind: aiErrMalformed, status: resp.StatusCode, msg: "image response missing data"}
		}

		decoded, err := base64.StdEncoding.DecodeString(parsed.Data[0].B64JSON)
		if err != nil {
			return &aiError{kind: aiErrMalformed, status: resp.StatusCode, msg: "undecodable image payload"}
		}

		imageData = decoded
		return nil
	})

	if err != nil {
		if isMalformedAIError(err) {
			return nil, shared.NewServiceUnavailableError(err, "Could not generate an image this time")
		}
		return nil, err
	}

	return imageData, nil
}

const tutorSystemPrompt = "You are a friendly vocabulary tutor for school students. " +
	"Keep answers short, encouraging and age-appropriate. Use simple English with Korean explanations where helpful."

// Chat streams a tutor reply chunk by chunk. The channel is always closed,
// and the final chunk carries Done (and possibly Error).
func (svc *AIService) Chat(ctx context.Context, message string, out chan<- dto.ChatChunk) {
	defer close(out)

	if cooling, remaining := svc.CoolingDown(); cooling {
		out <- dto.ChatChunk{
			Done:  true,
			Error: fmt.Sprintf("AI tutor is taking a break for another %d minutes", int(remaining.Minutes())+1),
		}
		return
	}

	policy := aiPolicies["chat"]
	delay := policy.initialDelay
	var err error

	for attempt := 0; attempt <= policy.retries; attempt++ {
		if attempt > 0 {
			if sleepErr := svc.sleep(ctx, delay); sleepErr != nil {
				break
			}
			delay *= 2
		}

		var emitted bool
		emitted, err = svc.streamChat(ctx, message, out)
		if err == nil {
			return
		}

		var aiErr *aiError
		if errors.As(err, &aiErr) && aiErr.kind == aiErrQuotaExhausted {
			svc.tripCooldown()
			recordAICall("chat", "quota")
			out <- dto.ChatChunk{Done: true, Error: "AI features are paused for a while: the daily quota was used up"}
			return
		}

		// Once content has reached the client the stream cannot be
		// replayed, so a mid-stream failure ends it.
		if emitted {
			break
		}

		log.WithFields(log.Fields{
			"attempt": attempt + 1,
		}).WithError(err).Warn("Chat stream failed before any content")
	}

	recordAICall("chat", "error")
	log.WithError(err).Warn("Chat stream failed")
	out <- dto.ChatChunk{Done: true, Error: "The AI tutor is unavailable right now, please try again later"}
}

// streamChat reports whether any chunk was delivered before the error, so the
// caller knows whether a retry is still safe.
func (svc *AIService) streamChat(ctx context.Context, message string, out chan<- dto.ChatChunk) (bool, error) {
	request := chatCompletionRequest{
		Model: svc.model,
		Messages: []chatMessage{
			{Role: "system", Content: tutorSystemPrompt},
			{Role: "user", Content: message},
		},
		Stream: true,
	}

	jsonData, err := json.Marshal(request)
	if err != nil {
		return false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, svc.baseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return false, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")
	if svc.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+svc.apiKey)
	}

	resp, err := svc.client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return false, classifyProviderError(resp.StatusCode, string(body))
	}

	emitted := false
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" {
			continue
		}

		if !strings.HasPrefix(line, "data: ") {
			continue
		}

		data := line[6:]
		if data == "[DONE]" {
			out <- dto.ChatChunk{Done: true}
			recordAICall("chat", "ok")
			return true, nil
		}

		var chunk streamingResponse
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			log.WithError(err).Debug("Skipping unparseable stream chunk")
			continue
		}

		if len(chunk.Choices) > 0 {
			content := chunk.Choices[0].Delta.Content
			if content != "" {
				out <- dto.ChatChunk{Content: content}
				emitted = true
			}
			if chunk.Choices[0].FinishReason != nil {
				out <- dto.ChatChunk{Done: true}
				recordAICall("chat", "ok")
				return true, nil
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return emitted, err
	}

	out <- dto.ChatChunk{Done: true}
	recordAICall("chat", "ok")
	return true, nil
}
