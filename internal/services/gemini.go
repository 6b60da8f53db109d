package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"brewhaven-backend/internal/models"
)

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1"

// systemPrompt is the barista persona sent as the opening turn of every
// conversation.
const systemPrompt = `You are Venessa, an expert AI barista and coffee consultant at BrewHaven. Your role is to help users discover their perfect coffee match based on their preferences, mood, and taste.

Key responsibilities:
- Recommend coffee drinks based on user preferences (taste, temperature, strength, sweetness)
- Explain different coffee types and brewing methods
- Suggest drinks for specific occasions or moods
- Be friendly, enthusiastic, and knowledgeable about coffee
- Keep responses concise but informative (2-4 sentences typically)
- When recommending, explain WHY you're suggesting that coffee

Coffee knowledge:
- Espresso: Strong, concentrated shot - base for many drinks
- Americano: Espresso diluted with hot water - smooth and bold
- Latte: Espresso with steamed milk - creamy and mild
- Cappuccino: Equal parts espresso, steamed milk, and foam - balanced
- Mocha: Chocolate espresso drink - sweet and indulgent
- Cold Brew: Smooth, less acidic - refreshing and bold
- Macchiato: Espresso "marked" with foam - strong with a touch of sweetness

Always be helpful and encouraging in guiding users to find their perfect coffee!`

const personaAck = "Understood! I'm Venessa, ready to help you find your perfect coffee match."

// GeminiContent is one role-tagged turn in the provider's wire format.
type GeminiContent struct {
	Role  string       `json:"role"`
	Parts []GeminiPart `json:"parts"`
}

type GeminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiRequest struct {
	Contents         []GeminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []GeminiPart `json:"parts"`
			Role  string       `json:"role"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
}

// ErrNotConfigured means no provider credential was present at invocation
// time. No upstream call is made in that case.
var ErrNotConfigured = errors.New("gemini API key is not configured")

// ErrEmptyReply means the provider answered 2xx but carried no reply text.
var ErrEmptyReply = errors.New("no reply text in provider response")

// ProviderError is a non-2xx answer from the provider. Message holds the
// provider's own error message when the body had the expected
// {"error":{"message":...}} shape; Body keeps the raw payload as the
// unknown-shape fallback.
type ProviderError struct {
	StatusCode int
	Message    string
	Body       string
}

func (e *ProviderError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("gemini API error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("gemini API error (status %d)", e.StatusCode)
}

type GeminiService struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

func NewGeminiService(apiKey, model string) *GeminiService {
	return &GeminiService{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultGeminiBaseURL,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

// Configured reports whether a provider credential is present.
func (s *GeminiService) Configured() bool {
	return s.apiKey != ""
}

// BuildContents assembles the ordered turn list for the provider: the
// persona instruction, a fixed acknowledgment, each usable history entry,
// then the current message as the final user turn. History entries without
// content are dropped rather than forwarded as empty turns; any role other
// than "assistant" maps to the user role.
func BuildContents(history []models.HistoryEntry, message string) []GeminiContent {
	contents := []GeminiContent{
		{Role: "user", Parts: []GeminiPart{{Text: systemPrompt}}},
		{Role: "model", Parts: []GeminiPart{{Text: personaAck}}},
	}

	for _, entry := range history {
		if entry.Content == "" {
			continue
		}
		role := "user"
		if entry.Role == "assistant" {
			role = "model"
		}
		contents = append(contents, GeminiContent{
			Role:  role,
			Parts: []GeminiPart{{Text: entry.Content}},
		})
	}

	contents = append(contents, GeminiContent{
		Role:  "user",
		Parts: []GeminiPart{{Text: message}},
	})
	return contents
}

// GenerateReply makes a single synchronous generateContent call. It never
// retries; callers decide what any failure means.
func (s *GeminiService) GenerateReply(ctx context.Context, contents []GeminiContent) (string, error) {
	if s.apiKey == "" {
		return "", ErrNotConfigured
	}

	reqBody, err := json.Marshal(geminiRequest{
		Contents: contents,
		GenerationConfig: geminiGenerationConfig{
			Temperature:     0.7,
			MaxOutputTokens: 500,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", s.baseURL, s.model, s.apiKey)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to reach Gemini API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return "", &ProviderError{
			StatusCode: resp.StatusCode,
			Message:    parseProviderMessage(body),
			Body:       string(body),
		}
	}

	var geminiResp geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&geminiResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	text := extractText(geminiResp)
	if text == "" {
		return "", ErrEmptyReply
	}
	return text, nil
}

// parseProviderMessage probes the provider's error envelope. An empty
// result means the body did not have the expected shape.
func parseProviderMessage(body []byte) string {
	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}
	return envelope.Error.Message
}

func extractText(resp geminiResponse) string {
	var text strings.Builder
	for _, cand := range resp.Candidates {
		for _, part := range cand.Content.Parts {
			text.WriteString(part.Text)
		}
		// Only the first candidate is requested or used.
		break
	}
	return strings.TrimSpace(text.String())
}
