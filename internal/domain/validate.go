package domain

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func bankValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterStructValidation(validateQuestion, Question{})
	})
	return validate
}

// validateQuestion enforces the question data contract: one correct word per
// blank, and every correct word available among the options.
func validateQuestion(sl validator.StructLevel) {
	q := sl.Current().Interface().(Question)

	if blanks := CountBlanks(q.Prompt); blanks != len(q.CorrectAnswer) {
		sl.ReportError(q.CorrectAnswer, "CorrectAnswer", "correctAnswer", "blankcount", fmt.Sprint(blanks))
	}
	if !containsAll(q.Options, q.CorrectAnswer) {
		sl.ReportError(q.Options, "Options", "options", "containsanswer", "")
	}
}

// containsAll reports whether want is a sub-multiset of have.
func containsAll(have, want []string) bool {
	counts := make(map[string]int, len(have))
	for _, w := range have {
		counts[w]++
	}
	for _, w := range want {
		if counts[w] == 0 {
			return false
		}
		counts[w]--
	}
	return true
}

// ValidateBank rejects banks that break the question data contract. The
// returned error wraps ErrInvalidBank.
func ValidateBank(bank Bank) error {
	err := bankValidator().Struct(bank)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidBank, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describeFieldError(fe))
	}
	return fmt.Errorf("%w %q: %s", ErrInvalidBank, bank.ID, strings.Join(msgs, "; "))
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "blankcount":
		return fmt.Sprintf("%s: prompt has %s blanks but correct answer has %d words", fe.Namespace(), fe.Param(), len(fe.Value().([]string)))
	case "containsanswer":
		return fmt.Sprintf("%s: correct answer uses words missing from options", fe.Namespace())
	default:
		return fmt.Sprintf("%s: failed %q", fe.Namespace(), fe.Tag())
	}
}
