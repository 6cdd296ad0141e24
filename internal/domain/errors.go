package domain

import "errors"

var (
	// ErrQuestionNotFound indicates a question id or order number with no catalog entry.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrSessionNotFound indicates an unknown session token.
	ErrSessionNotFound = errors.New("session not found")
	// ErrResponseNotFound indicates no stored answer for a (session, question) pair.
	ErrResponseNotFound = errors.New("response not found")
)
