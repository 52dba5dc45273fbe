package quiz

import "slices"

// Grade reports whether the assembled words match the expected answer
// position by position. A right word in the wrong blank is wrong.
func Grade(userAnswer, correctAnswer []string) bool {
	return slices.Equal(userAnswer, correctAnswer)
}
