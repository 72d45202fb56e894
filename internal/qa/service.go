package qa

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"wikiqa/internal/cache"
	"wikiqa/internal/config"
)

// Result is what the UI needs from one prediction.
type Result struct {
	Answer     string   `json:"answer"`
	Candidates []string `json:"candidates"`
	NoAnswer   bool     `json:"no_answer"`
	Cached     bool     `json:"cached"`
}

// Service answers questions through a Predictor, memoizing results and
// guarding the endpoint with a Breaker.
type Service struct {
	predictor Predictor
	cache     cache.Cache
	ttl       time.Duration
	breaker   *Breaker
}

func NewService(p Predictor, c cache.Cache, ttl time.Duration, b *Breaker) *Service {
	if b == nil {
		b = NewBreaker(0, 0)
	}
	return &Service{predictor: p, cache: c, ttl: ttl, breaker: b}
}

// NewPredictor builds the Predictor selected by qa.backend.
func NewPredictor(cfg config.QAConfig) (Predictor, error) {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	switch cfg.Backend {
	case config.BackendSquad:
		return NewSquadClient(cfg.URL, cfg.NBestSize, cfg.MaxRetries, timeout), nil
	case config.BackendHuggingFace:
		return NewHuggingFaceClient(cfg.URL, cfg.APIKey, cfg.NBestSize, cfg.MaxRetries, timeout), nil
	default:
		return nil, fmt.Errorf("qa: unknown backend %q", cfg.Backend)
	}
}

// NewServiceFromConfig wires predictor, breaker and cache from config.
func NewServiceFromConfig(cfg *config.Config, c cache.Cache) (*Service, error) {
	p, err := NewPredictor(cfg.QA)
	if err != nil {
		return nil, err
	}
	b := NewBreaker(cfg.QA.BreakerThreshold, time.Duration(cfg.QA.BreakerTimeoutSeconds)*time.Second)
	return NewService(p, c, time.Duration(cfg.Cache.TTLSeconds)*time.Second, b), nil
}

// Breaker exposes the breaker for status reporting.
func (s *Service) Breaker() *Breaker { return s.breaker }

// Answer returns the model's answer to question about passage.
func (s *Service) Answer(ctx context.Context, passage, question string) (*Result, error) {
	if strings.TrimSpace(passage) == "" {
		return nil, ErrEmptyContext
	}
	if strings.TrimSpace(question) == "" {
		return nil, ErrEmptyQuestion
	}

	computed := false
	raw, err := cache.Remember(ctx, s.cache, cache.Key("qa", passage, question), s.ttl, func() (string, error) {
		computed = true
		res, err := s.predict(ctx, Input{Context: passage, Question: question})
		if err != nil {
			return "", err
		}
		b, err := json.Marshal(res)
		if err != nil {
			return "", err
		}
		return string(b), nil
	})
	if err != nil {
		return nil, err
	}

	var res Result
	if err := json.Unmarshal([]byte(raw), &res); err != nil {
		return nil, fmt.Errorf("qa: corrupt cached result: %w", err)
	}
	res.Cached = !computed
	return &res, nil
}

func (s *Service) predict(ctx context.Context, in Input) (*Result, error) {
	var pred *Prediction
	err := s.breaker.Call(func() error {
		var err error
		pred, err = s.predictor.Predict(ctx, in)
		return err
	}, countsAgainstModel)
	if err != nil {
		return nil, err
	}

	answer, err := SelectAnswer(pred.Answers)
	if err != nil {
		return nil, err
	}
	return &Result{
		Answer:     answer,
		Candidates: pred.Answers,
		NoAnswer:   IsNoAnswer(answer),
	}, nil
}

func countsAgainstModel(err error) bool {
	return !errors.Is(err, context.Canceled) && !errors.Is(err, ErrNoPrediction)
}
