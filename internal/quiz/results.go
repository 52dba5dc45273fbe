package quiz

import "sentence-quiz/internal/domain"

// TotalScore counts correct answers.
func TotalScore(answers []domain.Answer) int {
	score := 0
	for _, a := range answers {
		if a.IsCorrect {
			score++
		}
	}
	return score
}

// TierFor bands score/total: at least 70% is high, at least 40% medium.
func TierFor(score, total int) domain.Tier {
	if total <= 0 {
		return domain.TierLow
	}
	// integer form of score/total >= 0.7 and >= 0.4
	switch {
	case score*10 >= total*7:
		return domain.TierHigh
	case score*10 >= total*4:
		return domain.TierMedium
	default:
		return domain.TierLow
	}
}

// DetailReport lines up answers with questions by position. A question
// without an answer is reported as skipped.
func DetailReport(questions []domain.Question, answers []domain.Answer) []domain.ReportEntry {
	report := make([]domain.ReportEntry, 0, len(questions))
	for i, q := range questions {
		answer := domain.Answer{QuestionID: q.ID, Skipped: true}
		if i < len(answers) {
			answer = answers[i]
		}

		entry := domain.ReportEntry{
			Number:        i + 1,
			QuestionID:    q.ID,
			Prompt:        q.Prompt,
			Correct:       answer.IsCorrect,
			Skipped:       answer.Skipped,
			UserAnswer:    append([]string{}, answer.UserAnswer...),
			CorrectAnswer: append([]string{}, q.CorrectAnswer...),
			UserSentence:  domain.FillPrompt(q.Prompt, answer.UserAnswer),
		}
		if !entry.Correct {
			entry.CorrectSentence = domain.FillPrompt(q.Prompt, q.CorrectAnswer)
		}
		report = append(report, entry)
	}
	return report
}

// Compile derives the full result from the answer log.
func Compile(questions []domain.Question, answers []domain.Answer) domain.Result {
	score := TotalScore(answers)
	return domain.Result{
		Score:   score,
		Total:   len(questions),
		Tier:    TierFor(score, len(questions)),
		Answers: cloneAnswers(answers),
		Report:  DetailReport(questions, answers),
	}
}

func cloneAnswers(answers []domain.Answer) []domain.Answer {
	out := make([]domain.Answer, len(answers))
	for i, a := range answers {
		a.UserAnswer = append([]string{}, a.UserAnswer...)
		out[i] = a
	}
	return out
}
