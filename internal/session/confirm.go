package session

// Confirmer gates destructive actions behind a yes/no question.
type Confirmer interface {
	Confirm(title, message string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(title, message string) bool

func (f ConfirmFunc) Confirm(title, message string) bool { return f(title, message) }

// Answer is a pre-recorded reply, used once a modal has already asked the user.
type Answer bool

func (a Answer) Confirm(string, string) bool { return bool(a) }
