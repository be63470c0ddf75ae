package narrative

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	errorvalues "github.com/limbo/accountability/internal/error_values"
)

const DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

// AIConfig holds the Gemini connection settings.
type AIConfig struct {
	APIKey    string `json:"-"`
	BaseURL   string `json:"baseUrl"`
	Model     string `json:"model"`
	TimeoutMS int    `json:"timeoutMs"`
}

func (c *AIConfig) IsEnabled() bool {
	return c.APIKey != ""
}

func (c *AIConfig) ModelEndpoint() string {
	return strings.TrimRight(c.BaseURL, "/") + "/" + c.Model + ":generateContent"
}

type GeminiClient struct {
	config AIConfig
	client *http.Client
}

func NewGeminiClient(cfg AIConfig) *GeminiClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultGeminiBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.0-flash"
	}
	if cfg.TimeoutMS <= 0 {
		cfg.TimeoutMS = 15000
	}
	return &GeminiClient{
		config: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond,
		},
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig struct {
		ResponseMimeType string `json:"responseMimeType"`
	} `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Generate asks the model for a JSON reply and returns the text of the first candidate.
func (g *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	if !g.config.IsEnabled() {
		return "", errorvalues.ErrGeneratorDisabled
	}
	reqBody := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	}
	reqBody.GenerationConfig.ResponseMimeType = "application/json"
	jsonBody, err := sonic.Marshal(reqBody)
	if err != nil {
		return "", errors.New("encoding gemini request error: " + err.Error())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.config.ModelEndpoint(), bytes.NewReader(jsonBody))
	if err != nil {
		return "", errors.New("creating gemini request error: " + err.Error())
	}
	req.Header.Set("Content-Type", "application/json")
	// the key stays out of the URL, which ends up in transport errors and logs
	req.Header.Set("x-goog-api-key", g.config.APIKey)

	resp, err := g.client.Do(req)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return "", errors.New("calling gemini error: " + err.Error())
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.New("reading gemini response error: " + err.Error())
	}

	var geminiResp geminiResponse
	if err := sonic.Unmarshal(body, &geminiResp); err != nil {
		return "", fmt.Errorf("decoding gemini response error (status %d): %s", resp.StatusCode, err.Error())
	}
	if geminiResp.Error != nil {
		return "", fmt.Errorf("gemini error %d: %s", geminiResp.Error.Code, geminiResp.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini returned status %d", resp.StatusCode)
	}
	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("gemini returned no candidates")
	}
	return geminiResp.Candidates[0].Content.Parts[0].Text, nil
}
