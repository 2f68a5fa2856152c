package domain

import "errors"

var (
	// ErrBankNotFound indicates the question bank could not be loaded.
	ErrBankNotFound = errors.New("question bank not found")
	// ErrQuestionNotFound is returned for an index outside the bank.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrInvalidQuestion marks a question whose correct index does not point at an option.
	ErrInvalidQuestion = errors.New("invalid question")
	// ErrRoomNotFound is returned when a battle room has not been created.
	ErrRoomNotFound = errors.New("room not found")
	// ErrParticipantNotFound is returned when a user tries to act before joining.
	ErrParticipantNotFound = errors.New("participant not found in room")
)
