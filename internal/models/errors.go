package models

import (
	"errors"
	"fmt"
)

var (
	ErrAuth       = errors.New("api key rejected")
	ErrQuota      = errors.New("quota exceeded")
	ErrNotFound   = errors.New("not found")
	ErrTransport  = errors.New("transport failure")
	ErrValidation = errors.New("invalid parameter")
)

// Stage names the step of a collection in which an error happened
type Stage string

const (
	StageRequest Stage = "request validation"
	StageResolve Stage = "channel resolution"
	StageChannel Stage = "channel lookup"
	StageListing Stage = "video listing"
	StageDetails Stage = "detail fetch"
)

// Error carries the kind of a failure (one of the Err* sentinels), the
// stage it happened in and the channel or listing it concerned.
type Error struct {
	Kind      error
	Stage     Stage
	ChannelID string
	Err       error
}

// NewError builds an Error. err may be nil.
func NewError(kind error, stage Stage, channelID string, err error) *Error {
	return &Error{Kind: kind, Stage: stage, ChannelID: channelID, Err: err}
}

// Validationf returns a request validation error
func Validationf(format string, args ...interface{}) error {
	return NewError(ErrValidation, StageRequest, "", fmt.Errorf(format, args...))
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Stage, e.Kind)
	if e.ChannelID != "" {
		msg += fmt.Sprintf(" (channel %s)", e.ChannelID)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// KindOf returns the sentinel describing err, or nil when err is not one of ours
func KindOf(err error) error {
	for _, kind := range []error{ErrValidation, ErrAuth, ErrQuota, ErrNotFound, ErrTransport} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

// StageOf returns the stage recorded on err, if any
func StageOf(err error) Stage {
	var e *Error
	if errors.As(err, &e) {
		return e.Stage
	}
	return ""
}
