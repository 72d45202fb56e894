package qa

import "strings"

// NoAnswerToken is what the model emits when the passage holds no answer.
const NoAnswerToken = "empty"

// IsNoAnswer reports whether a selected answer means "no answer".
func IsNoAnswer(answer string) bool {
	a := strings.TrimSpace(answer)
	return a == "" || a == NoAnswerToken
}

// SelectAnswer picks the top answer from an n-best list. When the list has
// more than one entry and the best is a no-answer, the runner-up wins.
func SelectAnswer(answers []string) (string, error) {
	if len(answers) == 0 {
		return "", ErrNoPrediction
	}
	if len(answers) > 1 && IsNoAnswer(answers[0]) {
		return answers[1], nil
	}
	return answers[0], nil
}
