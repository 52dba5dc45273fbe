package quiz

import "sentence-quiz/internal/domain"

// Assembly tracks which words sit in which blank and which remain in the
// pool for the active question. It is a value: every move returns a new
// Assembly and leaves the receiver untouched, so the union of placed words
// and pool always equals the options the assembly was built from.
type Assembly struct {
	slots []domain.Slot
	pool  []string
}

// NewAssembly returns an assembly with blanks empty slots and every option in the pool.
func NewAssembly(blanks int, options []string) Assembly {
	if blanks < 0 {
		blanks = 0
	}
	return Assembly{
		slots: make([]domain.Slot, blanks),
		pool:  append([]string(nil), options...),
	}
}

// Select places one instance of word into the first empty slot. It reports
// false and returns a unchanged when the assembly is full or word is not in the pool.
func (a Assembly) Select(word string) (Assembly, bool) {
	slot := a.firstEmpty()
	if slot < 0 {
		return a, false
	}
	at := indexOf(a.pool, word)
	if at < 0 {
		return a, false
	}

	next := a.clone()
	next.slots[slot] = domain.Slot{Word: word, Filled: true}
	next.pool = append(next.pool[:at], next.pool[at+1:]...)
	return next, true
}

// Deselect clears slot index and returns its word to the end of the pool.
// It reports false when index is out of range or the slot is empty.
func (a Assembly) Deselect(index int) (Assembly, bool) {
	if index < 0 || index >= len(a.slots) || !a.slots[index].Filled {
		return a, false
	}

	next := a.clone()
	next.pool = append(next.pool, next.slots[index].Word)
	next.slots[index] = domain.Slot{}
	return next, true
}

// IsComplete reports whether every slot holds a word.
func (a Assembly) IsComplete() bool {
	return a.firstEmpty() < 0
}

// Slots returns a copy of the blanks in order.
func (a Assembly) Slots() []domain.Slot {
	return append([]domain.Slot(nil), a.slots...)
}

// Pool returns a copy of the words not currently placed.
func (a Assembly) Pool() []string {
	return append([]string(nil), a.pool...)
}

// Words returns the slot contents in blank order; empty slots yield "".
func (a Assembly) Words() []string {
	words := make([]string, len(a.slots))
	for i, s := range a.slots {
		words[i] = s.Word
	}
	return words
}

func (a Assembly) firstEmpty() int {
	for i, s := range a.slots {
		if !s.Filled {
			return i
		}
	}
	return -1
}

func (a Assembly) clone() Assembly {
	return Assembly{
		slots: a.Slots(),
		pool:  a.Pool(),
	}
}

func indexOf(words []string, word string) int {
	for i, w := range words {
		if w == word {
			return i
		}
	}
	return -1
}
