package quiz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sentence-quiz/internal/domain"
)

func newTestController(t *testing.T, questions []domain.Question, seconds int) (*Controller, *manualClock, *[]Completion) {
	t.Helper()
	clock := &manualClock{}
	completed := &[]Completion{}
	c := NewController(questions, Config{
		QuestionSeconds: seconds,
		Clock:           clock,
		OnComplete: func(done Completion) {
			*completed = append(*completed, done)
		},
	})
	t.Cleanup(c.Close)
	return c, clock, completed
}

func TestStartRequiresQuestions(t *testing.T) {
	c, clock, _ := newTestController(t, nil, 30)

	view := c.Start()
	assert.Equal(t, domain.PhaseNotStarted, view.Phase)
	assert.Zero(t, clock.Active())
}

func TestStartOnlyFromNotStarted(t *testing.T) {
	c, _, _ := newTestController(t, twoQuestions(), 30)

	view := c.Start()
	require.Equal(t, domain.PhaseInProgress, view.Phase)
	require.NotNil(t, view.Question)
	assert.Equal(t, "q1", view.Question.ID)
	assert.Equal(t, []string{"The car is ", "."}, view.Question.Segments)
	assert.Equal(t, []domain.Slot{{}}, view.Blanks)
	assert.Equal(t, []string{"fast", "slow"}, view.Pool)
	assert.Equal(t, 30, view.SecondsRemaining)

	c.SelectWord("fast")
	again := c.Start()
	assert.Equal(t, []string{"slow"}, again.Pool, "second start must not reset the assembly")
}

func TestEndToEndScenario(t *testing.T) {
	c, _, completed := newTestController(t, twoQuestions(), 30)

	c.Start()
	view := c.SelectWord("fast")
	assert.True(t, view.Complete)

	view = c.Advance(false)
	require.Equal(t, domain.PhaseInProgress, view.Phase)
	assert.Equal(t, 1, view.QuestionIndex)
	assert.True(t, view.IsLastQuestion)
	assert.Equal(t, 1, view.Score)

	view = c.Advance(true)
	require.Equal(t, domain.PhaseCompleted, view.Phase)

	answers := c.Answers()
	require.Len(t, answers, 2)
	assert.Equal(t, domain.Answer{QuestionID: "q1", UserAnswer: []string{"fast"}, IsCorrect: true}, answers[0])
	assert.Equal(t, domain.Answer{QuestionID: "q2", UserAnswer: []string{}, Skipped: true}, answers[1])

	require.NotNil(t, view.Result)
	assert.Equal(t, 1, view.Result.Score)
	assert.Equal(t, domain.TierMedium, view.Result.Tier)
	require.Len(t, *completed, 1)
	assert.Equal(t, *view.Result, (*completed)[0].Result)
	assert.Equal(t, uint64(1), (*completed)[0].Seq)
}

func TestAdvanceOnLastQuestionCompletes(t *testing.T) {
	c, clock, _ := newTestController(t, twoQuestions(), 30)
	c.Start()
	c.Advance(false)

	view := c.Advance(false)
	assert.Equal(t, domain.PhaseCompleted, view.Phase)
	assert.Equal(t, 1, view.QuestionIndex, "index stays on the last question")
	assert.Len(t, c.Answers(), 2)
	assert.Zero(t, clock.Active())

	// further commands are rejected
	view = c.Advance(false)
	assert.Len(t, c.Answers(), 2)
	assert.Equal(t, domain.PhaseCompleted, view.Phase)
}

func TestAdvanceGradesIncompleteAssembly(t *testing.T) {
	questions := []domain.Question{{
		ID:            "q1",
		Prompt:        "The __________ fox __________ away.",
		Options:       []string{"quick", "ran", "sat"},
		CorrectAnswer: []string{"quick", "ran"},
	}}
	c, _, _ := newTestController(t, questions, 30)
	c.Start()
	c.SelectWord("quick")

	c.Advance(false)
	answers := c.Answers()
	require.Len(t, answers, 1)
	assert.False(t, answers[0].IsCorrect)
	assert.False(t, answers[0].Skipped)
	assert.Equal(t, []string{"quick", ""}, answers[0].UserAnswer)
}

func TestInvalidSelectionsAreNoOps(t *testing.T) {
	c, _, _ := newTestController(t, twoQuestions(), 30)
	before := c.Start()

	assert.Equal(t, before, c.SelectWord("blue"))
	assert.Equal(t, before, c.DeselectBlank(0))
	assert.Equal(t, before, c.DeselectBlank(5))

	c.SelectWord("fast")
	full := c.View()
	assert.Equal(t, full, c.SelectWord("slow"))
}

func TestCommandsBeforeStartAreNoOps(t *testing.T) {
	c, _, _ := newTestController(t, twoQuestions(), 30)
	fresh := c.View()

	assert.Equal(t, fresh, c.SelectWord("fast"))
	assert.Equal(t, fresh, c.DeselectBlank(0))
	assert.Equal(t, fresh, c.Advance(false))
	assert.Equal(t, fresh, c.Quit())
	assert.Empty(t, c.Answers())
}

func TestTimerExpirySubmitsOnce(t *testing.T) {
	questions := []domain.Question{
		{
			ID:            "q1",
			Prompt:        "The __________ fox __________ away.",
			Options:       []string{"quick", "ran", "sat"},
			CorrectAnswer: []string{"quick", "ran"},
		},
		twoQuestions()[1],
	}
	c, clock, completed := newTestController(t, questions, 3)
	c.Start()
	c.SelectWord("quick")

	clock.Advance(2)
	view := c.View()
	assert.Equal(t, 1, view.SecondsRemaining)
	assert.Equal(t, 0, view.QuestionIndex)

	clock.Tick()
	view = c.View()
	assert.Equal(t, 1, view.QuestionIndex, "advanced exactly once")
	assert.Equal(t, 3, view.SecondsRemaining, "next question starts from full duration")
	answers := c.Answers()
	require.Len(t, answers, 1)
	assert.Equal(t, []string{"quick", ""}, answers[0].UserAnswer)
	assert.False(t, answers[0].Skipped)
	assert.Equal(t, 1, clock.Active(), "only the new question's timer is live")

	c.SelectWord("blue")
	clock.Advance(3)
	view = c.View()
	assert.Equal(t, domain.PhaseCompleted, view.Phase)
	answers = c.Answers()
	require.Len(t, answers, 2)
	assert.True(t, answers[1].IsCorrect, "assembled answer is graded normally on expiry")
	assert.Len(t, *completed, 1)

	clock.Advance(5)
	assert.Len(t, c.Answers(), 2)
	assert.Len(t, *completed, 1)
}

func TestStaleTicksAreIgnored(t *testing.T) {
	c, clock, _ := newTestController(t, twoQuestions(), 2)
	c.Start()
	clock.Tick()
	c.Advance(false) // moves to q2 with a fresh timer

	// every callback from q1 arrives late, as if racing Stop
	clock.FireStale()
	view := c.View()
	assert.Equal(t, 1, view.QuestionIndex)
	assert.Len(t, c.Answers(), 1)
}

func TestQuitMarksRemainingSkipped(t *testing.T) {
	questions := append(twoQuestions(), domain.Question{
		ID:            "q3",
		Prompt:        "Grass is __________.",
		Options:       []string{"green", "red"},
		CorrectAnswer: []string{"green"},
	})
	c, clock, completed := newTestController(t, questions, 30)

	updates, cancel := c.Subscribe()
	defer cancel()
	<-updates // initial

	c.Start()
	c.SelectWord("fast")
	c.Advance(false)
	c.SelectWord("blue")
	for len(updates) > 0 {
		<-updates
	}

	view := c.Quit()
	require.Equal(t, domain.PhaseCompleted, view.Phase)

	answers := c.Answers()
	require.Len(t, answers, len(questions))
	assert.True(t, answers[0].IsCorrect)
	for _, a := range answers[1:] {
		assert.True(t, a.Skipped)
		assert.False(t, a.IsCorrect)
		assert.Empty(t, a.UserAnswer)
	}
	assert.Zero(t, clock.Active())
	assert.Len(t, *completed, 1)

	// observers see one completed view, never a partial quit
	require.Len(t, updates, 1)
	quitView := <-updates
	assert.Equal(t, domain.PhaseCompleted, quitView.Phase)
	assert.Len(t, quitView.Result.Answers, 3)
}

func TestRestartMatchesFreshSession(t *testing.T) {
	fresh, _, _ := newTestController(t, twoQuestions(), 30)
	c, clock, _ := newTestController(t, twoQuestions(), 30)

	c.Start()
	c.SelectWord("fast")
	c.Advance(false)
	clock.Advance(4)
	c.Quit()

	view := c.Restart()
	assert.Equal(t, fresh.View(), view)
	assert.Empty(t, c.Answers())
	assert.Zero(t, clock.Active())

	// a restarted session plays again
	view = c.Start()
	assert.Equal(t, domain.PhaseInProgress, view.Phase)
	assert.Equal(t, 30, view.SecondsRemaining)
}

func TestRestartMidQuestionCancelsTimer(t *testing.T) {
	c, clock, _ := newTestController(t, twoQuestions(), 2)
	c.Start()
	c.Restart()

	clock.Advance(5)
	clock.FireStale()
	assert.Equal(t, domain.PhaseNotStarted, c.View().Phase)
	assert.Empty(t, c.Answers())
}

func TestSubscribeReceivesTicks(t *testing.T) {
	c, clock, _ := newTestController(t, twoQuestions(), 30)
	updates, cancel := c.Subscribe()
	defer cancel()

	initial := <-updates
	assert.Equal(t, domain.PhaseNotStarted, initial.Phase)

	c.Start()
	started := <-updates
	assert.Equal(t, domain.PhaseInProgress, started.Phase)

	clock.Tick()
	ticked := <-updates
	assert.Equal(t, 29, ticked.SecondsRemaining)
}

func TestCloseStopsTimerAndSubscribers(t *testing.T) {
	c, clock, _ := newTestController(t, twoQuestions(), 30)
	updates, _ := c.Subscribe()
	<-updates

	c.Start()
	<-updates
	c.Close()

	_, open := <-updates
	assert.False(t, open)
	assert.Zero(t, clock.Active())

	view := c.SelectWord("fast")
	assert.Equal(t, []string{"fast", "slow"}, view.Pool)
}

func TestCompletionSeqGrowsAcrossRestarts(t *testing.T) {
	c, _, completed := newTestController(t, twoQuestions(), 30)

	c.Start()
	c.Quit()
	c.Restart()
	c.Start()
	c.SelectWord("fast")
	c.Advance(false)
	c.SelectWord("blue")
	c.Advance(false)

	require.Len(t, *completed, 2)
	assert.Equal(t, uint64(1), (*completed)[0].Seq)
	assert.Equal(t, 0, (*completed)[0].Result.Score)
	assert.Equal(t, uint64(2), (*completed)[1].Seq)
	assert.Equal(t, 2, (*completed)[1].Result.Score)
}
