package qa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"wikiqa/internal/httputil"
)

// HuggingFaceClient calls a question-answering pipeline behind the Hugging
// Face inference API (or a compatible text-generation-inference style host).
type HuggingFaceClient struct {
	URL        string
	APIKey     string
	TopK       int
	MaxRetries int
	HTTPClient *http.Client
}

func NewHuggingFaceClient(url, apiKey string, topK, maxRetries int, timeout time.Duration) *HuggingFaceClient {
	return &HuggingFaceClient{
		URL:        url,
		APIKey:     apiKey,
		TopK:       topK,
		MaxRetries: maxRetries,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

type hfRequest struct {
	Inputs struct {
		Question string `json:"question"`
		Context  string `json:"context"`
	} `json:"inputs"`
	Parameters struct {
		TopK int `json:"top_k"`
	} `json:"parameters"`
}

type hfAnswer struct {
	Answer string  `json:"answer"`
	Score  float64 `json:"score"`
	Start  int     `json:"start"`
	End    int     `json:"end"`
}

func (c *HuggingFaceClient) Predict(ctx context.Context, in Input) (*Prediction, error) {
	var payload hfRequest
	payload.Inputs.Question = in.Question
	payload.Inputs.Context = in.Context
	payload.Parameters.TopK = c.TopK
	if payload.Parameters.TopK <= 0 {
		payload.Parameters.TopK = DefaultNBest
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("qa: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("qa: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := httputil.DoWithRetry(ctx, c.HTTPClient, req, c.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("qa: request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("qa: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &UpstreamError{Status: resp.StatusCode, Body: string(raw)}
	}

	answers, err := decodeHFAnswers(raw)
	if err != nil {
		return nil, err
	}
	if len(answers) == 0 {
		return nil, ErrNoPrediction
	}

	p := &Prediction{ID: uuid.New().String()}
	for _, a := range answers {
		p.Answers = append(p.Answers, a.Answer)
		p.Probabilities = append(p.Probabilities, a.Score)
	}
	return p, nil
}

// decodeHFAnswers accepts both the array form (top_k > 1) and the single
// object the pipeline returns for top_k == 1.
func decodeHFAnswers(raw []byte) ([]hfAnswer, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '{' {
		var one hfAnswer
		if err := json.Unmarshal(raw, &one); err != nil {
			return nil, fmt.Errorf("qa: decode response: %w", err)
		}
		return []hfAnswer{one}, nil
	}
	var many []hfAnswer
	if err := json.Unmarshal(raw, &many); err != nil {
		return nil, fmt.Errorf("qa: decode response: %w", err)
	}
	return many, nil
}
