package scoring

import "context"

// NeutralScore is used whenever the scorer has nothing to say about a request.
const NeutralScore = 0.5

type ScoreInput struct {
	RequestID string `json:"request_id"`
	Message   string `json:"message"`
}

type ScoreResult struct {
	RequestID string  `json:"request_id"`
	Score     float64 `json:"score"`
}

// Scorer rates how needy each requester appears. Results are advisory; an
// implementation may return fewer results than inputs.
type Scorer interface {
	Score(ctx context.Context, inputs []ScoreInput) ([]ScoreResult, error)
}

type NeutralScorer struct{}

func (NeutralScorer) Score(_ context.Context, inputs []ScoreInput) ([]ScoreResult, error) {
	results := make([]ScoreResult, len(inputs))
	for i, in := range inputs {
		results[i] = ScoreResult{RequestID: in.RequestID, Score: NeutralScore}
	}
	return results, nil
}
