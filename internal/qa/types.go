// Package qa binds the app to an extractive question-answering model served
// over HTTP. Prediction is entirely the model's job; this package shapes the
// request, picks the top answer span and protects the endpoint.
package qa

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrEmptyContext  = errors.New("qa: empty context")
	ErrEmptyQuestion = errors.New("qa: empty question")
	ErrNoPrediction  = errors.New("qa: model returned no answers")
)

// Input is one question asked against one passage.
type Input struct {
	Context  string
	Question string
}

// Prediction is the model's n-best answer list for a single question, best
// first. Probabilities is parallel to Answers when the backend reports it.
type Prediction struct {
	ID            string
	Answers       []string
	Probabilities []float64
}

// Predictor runs an extractive QA model.
type Predictor interface {
	Predict(ctx context.Context, in Input) (*Prediction, error)
}

// UpstreamError is a non-2xx reply from the model endpoint.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("qa: model endpoint returned status %d: %s", e.Status, e.Body)
}
