// Package attribution tracks which cardholder owns the transactions being
// parsed. The state is created per document and threaded explicitly through
// every page parse, so nothing can leak between documents handled by the
// same parser.
package attribution

// State is the carry-forward cardholder identity for one document. It
// persists across page boundaries and continuation headers and changes only
// when a validated name declaration is accepted.
type State struct {
	current string
}

// NewState returns a State starting with the given holder. The initial value
// may be empty for AmEx documents, where no identity exists until the first
// declaration.
func NewState(initial string) *State {
	return &State{current: initial}
}

// Current returns the active cardholder, or the empty string when none has
// been established.
func (s *State) Current() string {
	return s.current
}

// Switch makes name the active cardholder. It reports whether this changed
// the active identity.
func (s *State) Switch(name string) bool {
	if name == s.current {
		return false
	}
	s.current = name
	return true
}

// CurrentOr returns the active cardholder, or fallback when none is set.
func (s *State) CurrentOr(fallback string) string {
	if s.current == "" {
		return fallback
	}
	return s.current
}
