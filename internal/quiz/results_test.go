package quiz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sentence-quiz/internal/domain"
)

func TestTierFor(t *testing.T) {
	tests := []struct {
		score, total int
		want         domain.Tier
	}{
		{10, 10, domain.TierHigh},
		{7, 10, domain.TierHigh},
		{6, 10, domain.TierMedium},
		{4, 10, domain.TierMedium},
		{3, 10, domain.TierLow},
		{1, 2, domain.TierMedium},
		{0, 0, domain.TierLow},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TierFor(tt.score, tt.total), "%d/%d", tt.score, tt.total)
	}
}

func TestDetailReportTreatsMissingAnswersAsSkipped(t *testing.T) {
	questions := twoQuestions()
	answers := []domain.Answer{
		{QuestionID: "q1", UserAnswer: []string{"fast"}, IsCorrect: true},
	}

	report := DetailReport(questions, answers)
	require.Len(t, report, 2)

	assert.True(t, report[0].Correct)
	assert.Equal(t, "The car is fast.", report[0].UserSentence)
	assert.Empty(t, report[0].CorrectSentence)

	assert.False(t, report[1].Correct)
	assert.True(t, report[1].Skipped)
	assert.Equal(t, 2, report[1].Number)
	assert.Equal(t, "The sky is blue.", report[1].CorrectSentence)
	assert.Equal(t, "The sky is __________.", report[1].UserSentence)
}

func TestCompile(t *testing.T) {
	answers := []domain.Answer{
		{QuestionID: "q1", UserAnswer: []string{"fast"}, IsCorrect: true},
		{QuestionID: "q2", UserAnswer: []string{}, Skipped: true},
	}
	result := Compile(twoQuestions(), answers)

	assert.Equal(t, 1, result.Score)
	assert.Equal(t, 2, result.Total)
	assert.Equal(t, domain.TierMedium, result.Tier)
	assert.Len(t, result.Report, 2)

	// the result owns its answers
	answers[0].UserAnswer[0] = "slow"
	assert.Equal(t, []string{"fast"}, result.Answers[0].UserAnswer)
}

func twoQuestions() []domain.Question {
	return []domain.Question{
		{
			ID:            "q1",
			Prompt:        "The car is __________.",
			Options:       []string{"fast", "slow"},
			CorrectAnswer: []string{"fast"},
		},
		{
			ID:            "q2",
			Prompt:        "The sky is __________.",
			Options:       []string{"green", "blue"},
			CorrectAnswer: []string{"blue"},
		},
	}
}
