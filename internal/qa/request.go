package qa

import "github.com/google/uuid"

// DefaultNBest matches the n_best_size the demo always asks for.
const DefaultNBest = 10

// QAS is one question inside a SQuAD-style prediction item.
type QAS struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Context  string `json:"context"`
}

// PredictItem is a passage with the questions asked about it.
type PredictItem struct {
	Context string `json:"context"`
	QAS     []QAS  `json:"qas"`
}

// PredictRequest is the body posted to a SQuAD-format model server.
type PredictRequest struct {
	ToPredict []PredictItem `json:"to_predict"`
	NBestSize int           `json:"n_best_size"`
}

// BuildRequest shapes one input into the model's expected list of a single
// item with a single freshly-identified question.
func BuildRequest(in Input, nBest int) PredictRequest {
	if nBest <= 0 {
		nBest = DefaultNBest
	}
	return PredictRequest{
		ToPredict: []PredictItem{{
			Context: in.Context,
			QAS: []QAS{{
				ID:       uuid.New().String(),
				Question: in.Question,
				Context:  in.Context,
			}},
		}},
		NBestSize: nBest,
	}
}
