package domain

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrCommentingSuspended = errors.New("commenting suspended")
	ErrNoContent           = errors.New("comment must have content")
	ErrAlreadyVoted        = errors.New("already voted")
	ErrInvalidOption       = errors.New("invalid poll option")
	ErrNoPoll              = errors.New("post has no poll")
	ErrTransactionConflict = errors.New("transaction conflict")
	ErrInvalidCampaign     = errors.New("invalid campaign")
	ErrUnknownTheme        = errors.New("unknown chat theme")
	ErrBusy                = errors.New("a command is already being processed")
	ErrSessionClosed       = errors.New("session closed")
	ErrCacheMiss           = errors.New("cache miss")
)
