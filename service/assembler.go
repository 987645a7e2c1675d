package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"
)

const defaultChunkSize = 4096

// Assembler sends the conversation to the reply service and grows the newest
// assistant turn chunk by chunk as the reply streams in.
type Assembler struct {
	convo     *Conversation
	transport ReplyTransport
	observer  Observer
	chunkSize int
}

// NewAssembler wires a conversation to a transport. observer may be nil.
func NewAssembler(convo *Conversation, transport ReplyTransport, observer Observer) *Assembler {
	if convo == nil {
		convo = NewConversation()
	}
	return &Assembler{
		convo:     convo,
		transport: transport,
		observer:  observer,
		chunkSize: defaultChunkSize,
	}
}

// Conversation returns the history the assembler appends to.
func (a *Assembler) Conversation() *Conversation {
	return a.convo
}

// SetObserver replaces the observer. Not safe while a reply is streaming.
func (a *Assembler) SetObserver(o Observer) {
	a.observer = o
}

// Busy reports whether a reply is streaming.
func (a *Assembler) Busy() bool {
	return a.convo.Streaming()
}

// Submit appends text as a user turn, requests a reply and blocks until the
// reply completes or fails. Delivery problems never surface as an error: the
// returned assistant turn is Failed and carries the apology as its content.
// The only errors are ErrEmptyInput and ErrStreamOpen, both leaving the
// conversation untouched.
func (a *Assembler) Submit(ctx context.Context, text string) (Turn, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Turn{}, ErrEmptyInput
	}
	req, err := a.convo.begin(text)
	if err != nil {
		return Turn{}, err
	}
	start := time.Now()
	Debugf("Sending %d messages to the reply service", len(req.Messages))

	body, err := a.transport.Open(ctx, req)
	if err != nil {
		return a.failed("", asDeliveryFailure(requestStage(ctx), err), start), nil
	}
	defer body.Close()

	turn := a.convo.openAssistant()
	a.notify(StreamNotify{Status: StatusStarted, Turn: turn})

	var dec textDecoder
	buf := make([]byte, a.chunkSize)
	for {
		n, rerr := body.Read(buf)
		if n > 0 {
			chunk, derr := dec.Decode(buf[:n])
			if derr != nil {
				return a.failed(turn.ID, &ReplyDeliveryFailure{Stage: StageDecode, Err: derr}, start), nil
			}
			if chunk != "" {
				turn = a.convo.appendChunk(turn.ID, chunk)
				a.notify(StreamNotify{Status: StatusData, Data: chunk, Turn: turn})
			}
		}
		if errors.Is(rerr, io.EOF) {
			if ferr := dec.Flush(); ferr != nil {
				return a.failed(turn.ID, &ReplyDeliveryFailure{Stage: StageDecode, Err: ferr}, start), nil
			}
			turn = a.convo.finish(turn.ID)
			Debugf("Reply complete: %d bytes in %s", len(turn.Content), time.Since(start).Round(time.Millisecond))
			a.notify(StreamNotify{Status: StatusFinished, Turn: turn})
			return turn, nil
		}
		if rerr != nil {
			stage := StageTransport
			if ctx.Err() != nil {
				stage = StageCanceled
			}
			return a.failed(turn.ID, asDeliveryFailure(stage, rerr), start), nil
		}
		if ctx.Err() != nil {
			return a.failed(turn.ID, &ReplyDeliveryFailure{Stage: StageCanceled, Err: ctx.Err()}, start), nil
		}
	}
}

func (a *Assembler) failed(id string, reason *ReplyDeliveryFailure, start time.Time) Turn {
	turn := a.convo.fail(id, reason)
	if reason.Stage == StageCanceled {
		Debugf("Reply canceled after %s", time.Since(start).Round(time.Millisecond))
	} else {
		Warnf("Reply failed: %v", reason)
	}
	a.notify(StreamNotify{Status: StatusError, Data: reason.Error(), Turn: turn})
	return turn
}

func (a *Assembler) notify(n StreamNotify) {
	if a.observer != nil {
		a.observer(n)
	}
}
