package model

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"cryptorank-telegram-bot/lib/translation"
)

const systemPrompt = "You are an advanced cryptocurrency assistant bot with access to real-time " +
	"crypto data. You can explain market trends, blockchain technology and crypto concepts in " +
	"simple terms. Respond helpfully and concisely, use emojis appropriately, and politely " +
	"redirect non-crypto questions to crypto topics."

// Model forwards free text to an OpenAI-compatible chat-completions backend.
// An unconfigured or failing backend degrades to a static fallback message;
// no backend error ever reaches the end user.
type Model struct {
	apiKey     string
	baseURL    string
	modelID    string
	httpClient *http.Client
}

type Option func(*Model)

func WithTimeout(d time.Duration) Option {
	return func(m *Model) {
		m.httpClient.Timeout = d
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(m *Model) {
		m.httpClient = hc
	}
}

func New(baseURL, modelID, apiKey string, opts ...Option) *Model {
	m := &Model{
		apiKey:     apiKey,
		baseURL:    baseURL,
		modelID:    modelID,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Respond returns the backend's answer verbatim, or the static fallback when
// no backend is configured or the call fails in any way.
func (m *Model) Respond(ctx context.Context, text string) string {
	if m.apiKey == "" {
		return FallbackMessage()
	}

	answer, err := m.query(ctx, text)
	if err != nil {
		log.Errorf("model query failed: %v", err)
		return FallbackMessage()
	}
	return answer
}

func (m *Model) query(ctx context.Context, text string) (string, error) {
	payload := map[string]interface{}{
		"model": m.modelID,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": text},
		},
		"temperature": 0.0,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", errors.Wrap(err, "could not encode completion request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, "could not build completion request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "completion request failed")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "could not read completion response")
	}
	if resp.StatusCode != http.StatusOK {
		return "", errors.Errorf("completion backend returned status %d", resp.StatusCode)
	}

	answer := gjson.GetBytes(respBody, "choices.0.message.content").String()
	if answer == "" {
		return "", errors.New("completion response carried no content")
	}
	return answer, nil
}

// FallbackMessage advertises the structured commands; it stands in for the
// AI whenever the backend is missing or misbehaving.
func FallbackMessage() string {
	return translation.Translate("🚀 *CryptoRank Bot*\n\n" +
		"I'm your cryptocurrency assistant! I can help you with:\n\n" +
		"💰 *Prices* - /price BTC or ask 'What's Bitcoin's price?'\n" +
		"🔥 *Trending* - /trending for hot cryptocurrencies\n" +
		"🏦 *Funds* - /funds for top crypto investors\n" +
		"🎯 *Drophunting* - /drophunting for airdrop activities\n\n" +
		"Type /help for all commands!")
}
