package qa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"wikiqa/internal/httputil"
)

// SquadClient talks to a model server that accepts SQuAD-style prediction
// items and returns per-question n-best answers and probabilities.
type SquadClient struct {
	URL        string
	NBest      int
	MaxRetries int
	HTTPClient *http.Client
}

func NewSquadClient(url string, nBest, maxRetries int, timeout time.Duration) *SquadClient {
	return &SquadClient{
		URL:        url,
		NBest:      nBest,
		MaxRetries: maxRetries,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

type squadResponse struct {
	Answers []struct {
		ID     string   `json:"id"`
		Answer []string `json:"answer"`
	} `json:"answers"`
	Probabilities []struct {
		ID          string    `json:"id"`
		Probability []float64 `json:"probability"`
	} `json:"probabilities"`
}

func (c *SquadClient) Predict(ctx context.Context, in Input) (*Prediction, error) {
	payload := BuildRequest(in, c.NBest)
	qid := payload.ToPredict[0].QAS[0].ID

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("qa: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("qa: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httputil.DoWithRetry(ctx, c.HTTPClient, req, c.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("qa: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &UpstreamError{Status: resp.StatusCode, Body: string(b)}
	}

	var sr squadResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("qa: decode response: %w", err)
	}
	if len(sr.Answers) == 0 {
		return nil, ErrNoPrediction
	}

	// Prefer the entry carrying our question id; servers that renumber get
	// their first entry used.
	idx := 0
	for i, a := range sr.Answers {
		if a.ID == qid {
			idx = i
			break
		}
	}
	p := &Prediction{ID: sr.Answers[idx].ID, Answers: sr.Answers[idx].Answer}
	for _, pr := range sr.Probabilities {
		if pr.ID == p.ID {
			p.Probabilities = pr.Probability
			break
		}
	}
	return p, nil
}
