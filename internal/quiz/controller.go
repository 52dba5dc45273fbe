package quiz

import (
	"sync"
	"time"

	"sentence-quiz/internal/domain"
)

const (
	// DefaultQuestionSeconds is the countdown length of each question.
	DefaultQuestionSeconds = 30
	// DefaultTickInterval is the wall-clock length of one countdown unit.
	DefaultTickInterval = time.Second
)

// Timer is a scheduled callback that can be cancelled.
type Timer interface {
	Stop() bool
}

// Clock schedules countdown ticks.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type systemClock struct{}

func (systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// SystemClock schedules ticks on real time.
var SystemClock Clock = systemClock{}

// Completion is one transition into PhaseCompleted. Seq grows with every
// completion of the controller, across restarts.
type Completion struct {
	Seq    uint64
	Result domain.Result
}

// Config tunes a Controller. Zero values fall back to the defaults.
type Config struct {
	QuestionSeconds int
	TickInterval    time.Duration
	Clock           Clock
	// OnComplete runs after the session reaches PhaseCompleted, outside the
	// controller lock. It may call back into the controller. Calls for
	// different completions can overlap; order them by Seq.
	OnComplete func(Completion)
}

func (c Config) withDefaults() Config {
	if c.QuestionSeconds <= 0 {
		c.QuestionSeconds = DefaultQuestionSeconds
	}
	if c.TickInterval <= 0 {
		c.TickInterval = DefaultTickInterval
	}
	if c.Clock == nil {
		c.Clock = SystemClock
	}
	return c
}

// Controller is the session state machine for one player over one bank.
// Commands and countdown ticks are serialized by a single lock, so no two
// mutations ever interleave. Invalid commands are no-ops that return the
// unchanged view.
type Controller struct {
	cfg       Config
	questions []domain.Question

	mu        sync.Mutex
	phase     domain.Phase
	index     int
	answers   []domain.Answer
	assembly  Assembly
	countdown Countdown

	// timer is the single pending tick; generation invalidates ticks that
	// were already in flight when the timer was stopped or replaced.
	timer      Timer
	generation uint64

	completions uint64

	subscribers map[chan domain.View]struct{}
	closed      bool
}

// NewController builds a NotStarted session over questions. The slice is
// treated as read-only.
func NewController(questions []domain.Question, cfg Config) *Controller {
	cfg = cfg.withDefaults()
	return &Controller{
		cfg:         cfg,
		questions:   questions,
		countdown:   NewCountdown(cfg.QuestionSeconds),
		subscribers: make(map[chan domain.View]struct{}),
	}
}

// Start begins the session at the first question.
func (c *Controller) Start() domain.View {
	return c.apply(func() (bool, bool) {
		if c.phase != domain.PhaseNotStarted || len(c.questions) == 0 {
			return false, false
		}
		c.phase = domain.PhaseInProgress
		c.index = 0
		c.beginQuestionLocked()
		return true, false
	})
}

// SelectWord moves word from the pool into the first empty blank.
func (c *Controller) SelectWord(word string) domain.View {
	return c.apply(func() (bool, bool) {
		if c.phase != domain.PhaseInProgress {
			return false, false
		}
		next, ok := c.assembly.Select(word)
		if ok {
			c.assembly = next
		}
		return ok, false
	})
}

// DeselectBlank returns the word in blank index to the pool.
func (c *Controller) DeselectBlank(index int) domain.View {
	return c.apply(func() (bool, bool) {
		if c.phase != domain.PhaseInProgress {
			return false, false
		}
		next, ok := c.assembly.Deselect(index)
		if ok {
			c.assembly = next
		}
		return ok, false
	})
}

// Advance finalizes the current question. With skip the answer is recorded
// empty and incorrect; otherwise whatever is assembled is graded as-is.
func (c *Controller) Advance(skip bool) domain.View {
	return c.apply(func() (bool, bool) {
		if c.phase != domain.PhaseInProgress {
			return false, false
		}
		return true, c.finalizeLocked(skip)
	})
}

// Quit marks the current and every later question skipped and completes
// the session in one step.
func (c *Controller) Quit() domain.View {
	return c.apply(func() (bool, bool) {
		if c.phase != domain.PhaseInProgress {
			return false, false
		}
		c.stopTimerLocked()
		for _, q := range c.questions[c.index:] {
			c.answers = append(c.answers, skippedAnswer(q))
		}
		c.phase = domain.PhaseCompleted
		return true, true
	})
}

// Restart discards all progress and returns to a fresh NotStarted session
// over the same questions.
func (c *Controller) Restart() domain.View {
	return c.apply(func() (bool, bool) {
		c.stopTimerLocked()
		c.phase = domain.PhaseNotStarted
		c.index = 0
		c.answers = nil
		c.assembly = Assembly{}
		c.countdown.Reset()
		return true, false
	})
}

// View returns the current snapshot.
func (c *Controller) View() domain.View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Answers returns a copy of the answer log.
func (c *Controller) Answers() []domain.Answer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneAnswers(c.answers)
}

// Subscribe returns a channel that receives a view after every state
// change, starting with the current one. Slow readers only miss
// intermediate views, never the latest. The caller must invoke cancel.
func (c *Controller) Subscribe() (<-chan domain.View, func()) {
	ch := make(chan domain.View, 8)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	c.subscribers[ch] = struct{}{}
	ch <- c.snapshotLocked()
	c.mu.Unlock()

	cancel := func() {
		c.mu.Lock()
		if _, ok := c.subscribers[ch]; ok {
			delete(c.subscribers, ch)
			close(ch)
		}
		c.mu.Unlock()
	}
	return ch, cancel
}

// Close stops the countdown and releases subscribers. Later commands are no-ops.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.stopTimerLocked()
	for ch := range c.subscribers {
		delete(c.subscribers, ch)
		close(ch)
	}
}

// apply runs mutate under the lock, broadcasts when it changed state and
// fires OnComplete after unlocking when it completed the session.
func (c *Controller) apply(mutate func() (changed, completed bool)) domain.View {
	c.mu.Lock()
	if c.closed {
		view := c.snapshotLocked()
		c.mu.Unlock()
		return view
	}
	changed, completed := mutate()
	view := c.snapshotLocked()
	if changed {
		c.broadcastLocked(view)
	}
	var seq uint64
	if completed {
		c.completions++
		seq = c.completions
	}
	c.mu.Unlock()

	if completed && c.cfg.OnComplete != nil {
		c.cfg.OnComplete(Completion{Seq: seq, Result: *view.Result})
	}
	return view
}

// tick handles one countdown unit for the timer of the given generation.
func (c *Controller) tick(generation uint64) {
	c.apply(func() (bool, bool) {
		if generation != c.generation || c.phase != domain.PhaseInProgress {
			return false, false
		}
		if c.countdown.Tick() {
			// time is up: submit what is assembled, graded normally
			return true, c.finalizeLocked(false)
		}
		c.scheduleLocked(generation)
		return true, false
	})
}

// finalizeLocked records the current answer and moves on. It reports
// whether the session completed.
func (c *Controller) finalizeLocked(skip bool) bool {
	c.stopTimerLocked()

	q := c.questions[c.index]
	answer := skippedAnswer(q)
	if !skip {
		words := c.assembly.Words()
		answer = domain.Answer{
			QuestionID: q.ID,
			UserAnswer: words,
			IsCorrect:  Grade(words, q.CorrectAnswer),
		}
	}
	c.answers = append(c.answers, answer)

	if c.index == len(c.questions)-1 {
		c.phase = domain.PhaseCompleted
		return true
	}
	c.index++
	c.beginQuestionLocked()
	return false
}

func (c *Controller) beginQuestionLocked() {
	q := c.questions[c.index]
	c.assembly = NewAssembly(domain.CountBlanks(q.Prompt), q.Options)
	c.countdown.Reset()
	c.countdown.Start()
	c.generation++
	c.scheduleLocked(c.generation)
}

func (c *Controller) scheduleLocked(generation uint64) {
	c.timer = c.cfg.Clock.AfterFunc(c.cfg.TickInterval, func() {
		c.tick(generation)
	})
}

func (c *Controller) stopTimerLocked() {
	c.generation++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.countdown.Stop()
}

func (c *Controller) snapshotLocked() domain.View {
	view := domain.View{
		Phase:            c.phase,
		QuestionIndex:    c.index,
		TotalQuestions:   len(c.questions),
		IsLastQuestion:   len(c.questions) > 0 && c.index == len(c.questions)-1,
		SecondsRemaining: c.countdown.Remaining(),
		Score:            TotalScore(c.answers),
	}

	switch c.phase {
	case domain.PhaseInProgress:
		q := c.questions[c.index]
		view.Question = &domain.QuestionView{
			ID:       q.ID,
			Prompt:   q.Prompt,
			Segments: domain.SplitPrompt(q.Prompt),
		}
		view.Blanks = c.assembly.Slots()
		view.Pool = c.assembly.Pool()
		view.Complete = c.assembly.IsComplete()
	case domain.PhaseCompleted:
		result := Compile(c.questions, c.answers)
		view.Result = &result
	}
	return view
}

func (c *Controller) broadcastLocked(view domain.View) {
	for ch := range c.subscribers {
		select {
		case ch <- view:
		default:
			// drop the oldest queued view so the newest always lands
			select {
			case <-ch:
			default:
			}
			ch <- view
		}
	}
}

func skippedAnswer(q domain.Question) domain.Answer {
	return domain.Answer{
		QuestionID: q.ID,
		UserAnswer: []string{},
		IsCorrect:  false,
		Skipped:    true,
	}
}
