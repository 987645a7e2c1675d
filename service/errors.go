package service

import (
	"errors"
	"fmt"
)

// ApologyText replaces the content of an assistant turn whose reply could not be delivered.
const ApologyText = "Sorry, I'm having trouble connecting right now. Please try again in a moment."

var (
	// ErrStreamOpen is returned when input is submitted while a reply is still streaming.
	ErrStreamOpen = errors.New("a reply is still streaming")
	// ErrEmptyInput is returned for blank submissions.
	ErrEmptyInput = errors.New("message is empty")
)

// DeliveryStage names where a reply delivery broke down.
type DeliveryStage string

const (
	StageRequest   DeliveryStage = "request"
	StageStatus    DeliveryStage = "status"
	StageTransport DeliveryStage = "transport"
	StageDecode    DeliveryStage = "decode"
	StageCanceled  DeliveryStage = "canceled"
)

// ReplyDeliveryFailure is the single error kind of the chat client. It covers
// request construction, non-success status, transport and decode errors alike.
type ReplyDeliveryFailure struct {
	Stage      DeliveryStage
	StatusCode int
	Err        error
}

func (e *ReplyDeliveryFailure) Error() string {
	if e.Stage == StageStatus {
		return fmt.Sprintf("reply delivery failed: unexpected status %d", e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("reply delivery failed (%s): %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("reply delivery failed (%s)", e.Stage)
}

func (e *ReplyDeliveryFailure) Unwrap() error {
	return e.Err
}

func IsReplyDeliveryFailure(err error) bool {
	var f *ReplyDeliveryFailure
	return errors.As(err, &f)
}

// asDeliveryFailure wraps err unless it already is a delivery failure.
func asDeliveryFailure(stage DeliveryStage, err error) *ReplyDeliveryFailure {
	var f *ReplyDeliveryFailure
	if errors.As(err, &f) {
		return f
	}
	return &ReplyDeliveryFailure{Stage: stage, Err: err}
}
