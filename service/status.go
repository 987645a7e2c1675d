package service

type StreamStatus int

const (
	StatusUnknown StreamStatus = iota
	StatusStarted
	StatusData
	StatusFinished
	StatusError
)

func (s StreamStatus) String() string {
	switch s {
	case StatusStarted:
		return "started"
	case StatusData:
		return "data"
	case StatusFinished:
		return "finished"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// StreamNotify is delivered to the observer for every visible change of the
// assistant turn. Data is the delta for StatusData; Turn is a snapshot taken
// right after the change.
type StreamNotify struct {
	Status StreamStatus
	Data   string
	Turn   Turn
}

// Observer receives stream notifications. It is called synchronously from the
// reading goroutine, so the next chunk is not read until it returns.
type Observer func(StreamNotify)
