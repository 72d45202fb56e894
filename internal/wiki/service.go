package wiki

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"wikiqa/internal/cache"
)

// Fetcher produces the paragraph for a search term.
type Fetcher interface {
	Paragraph(ctx context.Context, query string) (*Article, error)
}

// Service memoizes a Fetcher per normalized search term.
type Service struct {
	fetcher Fetcher
	cache   cache.Cache
	ttl     time.Duration
}

func NewService(f Fetcher, c cache.Cache, ttl time.Duration) *Service {
	return &Service{fetcher: f, cache: c, ttl: ttl}
}

func (s *Service) Paragraph(ctx context.Context, query string) (*Article, error) {
	q := NormalizeQuery(query)
	if q == "" {
		return nil, ErrEmptyQuery
	}
	raw, err := cache.Remember(ctx, s.cache, cache.Key("wiki", q), s.ttl, func() (string, error) {
		a, err := s.fetcher.Paragraph(ctx, q)
		if err != nil {
			return "", err
		}
		b, err := json.Marshal(a)
		return string(b), err
	})
	if err != nil {
		return nil, err
	}
	var a Article
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		return nil, fmt.Errorf("wiki: corrupt cached article: %w", err)
	}
	return &a, nil
}
