package model

import "time"

// EventKind tags an InboundEvent.
type EventKind int

const (
	EventUnknown EventKind = iota
	EventTextMessage
	EventButtonPress
)

func (k EventKind) String() string {
	switch k {
	case EventTextMessage:
		return "text"
	case EventButtonPress:
		return "button"
	default:
		return "unknown"
	}
}

// InboundEvent is the normalized event the dispatcher consumes.
// Text and Timestamp belong to text messages; Token, MessageID and
// CallbackAckID belong to button presses.
type InboundEvent struct {
	Kind          EventKind
	ChatID        int64
	Text          string
	Timestamp     time.Time
	Token         string
	MessageID     int
	CallbackAckID string
}

func TextMessage(chatID int64, text string, at time.Time) InboundEvent {
	return InboundEvent{Kind: EventTextMessage, ChatID: chatID, Text: text, Timestamp: at}
}

func ButtonPress(chatID int64, token string, messageID int, ackID string) InboundEvent {
	return InboundEvent{Kind: EventButtonPress, ChatID: chatID, Token: token, MessageID: messageID, CallbackAckID: ackID}
}
