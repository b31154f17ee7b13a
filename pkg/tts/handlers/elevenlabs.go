package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/5h1v4n1-2025/daruma/pkg/voices"
)

const defaultBaseURL = "https://api.elevenlabs.io"

// Client is a low-level ElevenLabs REST client. Retries are bounded:
// 429 and 5xx responses are retried with multiplier backoff, anything
// else fails fast.
type Client struct {
	APIKey          string
	BaseURL         string
	HTTPClient      *http.Client
	MaxRetries      int
	RetryDelay      time.Duration
	RetryMultiplier float64
}

func NewClient(apiKey string) *Client {
	return &Client{
		APIKey:          apiKey,
		BaseURL:         defaultBaseURL,
		HTTPClient:      &http.Client{},
		MaxRetries:      2,
		RetryDelay:      time.Second,
		RetryMultiplier: 2.0,
	}
}

// StatusCodeError is a non-success reply from the API.
type StatusCodeError struct {
	StatusCode int
	Message    string
}

func (e *StatusCodeError) Error() string {
	return fmt.Sprintf("API request failed with status %d: %s", e.StatusCode, e.Message)
}

// IsRateLimited reports whether err is an HTTP 429 reply.
func IsRateLimited(err error) bool {
	var statusErr *StatusCodeError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode == http.StatusTooManyRequests
	}
	return false
}

// IsRetryable reports whether err is worth another attempt: rate
// limits and server errors are, client errors are not.
func IsRetryable(err error) bool {
	if IsRateLimited(err) {
		return true
	}
	var statusErr *StatusCodeError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode >= 500 && statusErr.StatusCode < 600
	}
	return false
}

// Convert synthesizes text with the given voice and returns the mp3
// bytes.
func (c *Client) Convert(ctx context.Context, text, voiceID, modelID string) ([]byte, error) {
	var lastErr error

	delay := c.RetryDelay
	for attempt := 0; attempt <= c.MaxRetries; attempt++ {
		if attempt > 0 {
			log.Printf("Retry attempt %d/%d after %v", attempt, c.MaxRetries, delay)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			delay = time.Duration(float64(delay) * c.RetryMultiplier)
		}

		audio, err := c.doConvert(ctx, text, voiceID, modelID)
		if err == nil {
			return audio, nil
		}
		lastErr = err

		if !IsRetryable(err) {
			return nil, err
		}
		log.Printf("Request failed (attempt %d/%d): %v", attempt+1, c.MaxRetries+1, err)
	}

	return nil, fmt.Errorf("all %d conversion attempts failed, last error: %w", c.MaxRetries+1, lastErr)
}

func (c *Client) doConvert(ctx context.Context, text, voiceID, modelID string) ([]byte, error) {
	reqBodyMap := map[string]interface{}{
		"text":     text,
		"model_id": modelID,
		"voice_settings": map[string]interface{}{
			"stability":        0.5,
			"similarity_boost": 0.5,
			"style":            0,
		},
	}

	reqBodyBytes, err := json.Marshal(reqBodyMap)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	url := fmt.Sprintf("%s/v1/text-to-speech/%s", c.BaseURL, voiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(reqBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("xi-api-key", c.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errorBodyBytes, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return nil, fmt.Errorf("API request failed with status %d, and could not read error response body: %w",
				resp.StatusCode, readErr)
		}
		return nil, &StatusCodeError{
			StatusCode: resp.StatusCode,
			Message:    string(errorBodyBytes),
		}
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio response: %w", err)
	}
	if len(audio) == 0 {
		return nil, errors.New("API returned an empty audio body")
	}

	return audio, nil
}

// ListVoices fetches the account's available voices with their labels.
func (c *Client) ListVoices(ctx context.Context) (voices.Voices, error) {
	url := fmt.Sprintf("%s/v1/voices", c.BaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("xi-api-key", c.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &StatusCodeError{StatusCode: resp.StatusCode, Message: string(body)}
	}

	var listing struct {
		Voices voices.Voices `json:"voices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, fmt.Errorf("failed to decode voice listing: %w", err)
	}
	return listing.Voices, nil
}
