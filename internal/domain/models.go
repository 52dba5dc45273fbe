package domain

import "time"

// Question is a sentence with blank markers and the words that may fill them.
type Question struct {
	ID            string   `json:"id" yaml:"id" validate:"required"`
	Prompt        string   `json:"prompt" yaml:"prompt" validate:"required"`
	Options       []string `json:"options" yaml:"options" validate:"required,min=1,dive,required"`
	CorrectAnswer []string `json:"correctAnswer" yaml:"correctAnswer" validate:"required,min=1,dive,required"`
}

// Bank is an ordered, read-only list of questions.
type Bank struct {
	ID        string     `json:"id" yaml:"id" validate:"required"`
	Title     string     `json:"title" yaml:"title"`
	Questions []Question `json:"questions" yaml:"questions" validate:"required,min=1,dive"`
}

// BankSummary is the public description of a bank, without answers.
type BankSummary struct {
	ID                 string `json:"id"`
	Title              string `json:"title"`
	QuestionCount      int    `json:"questionCount"`
	SecondsPerQuestion int    `json:"secondsPerQuestion"`
}

// Answer is the immutable record of one finalized question.
type Answer struct {
	QuestionID string   `json:"questionId"`
	UserAnswer []string `json:"userAnswer"`
	IsCorrect  bool     `json:"isCorrect"`
	Skipped    bool     `json:"skipped"`
}

// Slot is one blank of the active question.
type Slot struct {
	Word   string `json:"word"`
	Filled bool   `json:"filled"`
}

// QuestionView is what the renderer sees of the active question.
type QuestionView struct {
	ID       string   `json:"id"`
	Prompt   string   `json:"prompt"`
	Segments []string `json:"segments"`
}

// ReportEntry is the post-session review line for one question.
type ReportEntry struct {
	Number        int      `json:"number"`
	QuestionID    string   `json:"questionId"`
	Prompt        string   `json:"prompt"`
	Correct       bool     `json:"correct"`
	Skipped       bool     `json:"skipped"`
	UserAnswer    []string `json:"userAnswer"`
	CorrectAnswer []string `json:"correctAnswer"`
	UserSentence  string   `json:"userSentence"`
	// CorrectSentence is only set when the answer was wrong.
	CorrectSentence string `json:"correctSentence,omitempty"`
}

// Result is the compiled outcome of a completed session.
type Result struct {
	Score   int           `json:"score"`
	Total   int           `json:"total"`
	Tier    Tier          `json:"tier"`
	Answers []Answer      `json:"answers"`
	Report  []ReportEntry `json:"report"`
}

// SessionRecord is a completed session kept for review and export.
type SessionRecord struct {
	SessionID   string    `json:"sessionId"`
	BankID      string    `json:"bankId"`
	BankTitle   string    `json:"bankTitle"`
	CompletedAt time.Time `json:"completedAt"`
	Result      Result    `json:"result"`
}

// View is the read-only snapshot exposed after every mutation.
type View struct {
	Phase            Phase         `json:"phase"`
	QuestionIndex    int           `json:"questionIndex"`
	TotalQuestions   int           `json:"totalQuestions"`
	IsLastQuestion   bool          `json:"isLastQuestion"`
	Question         *QuestionView `json:"question,omitempty"`
	Blanks           []Slot        `json:"blanks"`
	Pool             []string      `json:"pool"`
	Complete         bool          `json:"complete"`
	SecondsRemaining int           `json:"secondsRemaining"`
	Score            int           `json:"score"`
	// Result is set once Phase is PhaseCompleted.
	Result *Result `json:"result,omitempty"`
}

// CommandType names a player command.
type CommandType string

const (
	CommandStart    CommandType = "start"
	CommandSelect   CommandType = "select"
	CommandDeselect CommandType = "deselect"
	CommandNext     CommandType = "next"
	CommandSkip     CommandType = "skip"
	CommandQuit     CommandType = "quit"
	CommandRestart  CommandType = "restart"
)

// Command is a player input routed to a session.
type Command struct {
	Type  CommandType `json:"type"`
	Word  string      `json:"word,omitempty"`
	Index int         `json:"index,omitempty"`
}
