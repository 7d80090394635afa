package errors

import (
	"sync"
	"time"
)

// maxMessages bounds the TUI message history.
const maxMessages = 50

// TUIHandler handles errors by storing them for display in the TUI.
type TUIHandler struct {
	mu       sync.RWMutex
	messages []Message
	onError  func(msg Message)
	now      func() time.Time
}

type Message struct {
	Text      string
	Type      MessageType
	Timestamp time.Time
}

type MessageType int

const (
	MessageTypeError MessageType = iota
	MessageTypeWarning
	MessageTypeInfo
	MessageTypeSuccess
)

func NewTUIHandler(onError func(msg Message)) *TUIHandler {
	return &TUIHandler{onError: onError, now: time.Now}
}

func (h *TUIHandler) Error(msg string)   { h.addMessage(msg, MessageTypeError) }
func (h *TUIHandler) Warning(msg string) { h.addMessage(msg, MessageTypeWarning) }
func (h *TUIHandler) Info(msg string)    { h.addMessage(msg, MessageTypeInfo) }
func (h *TUIHandler) Success(msg string) { h.addMessage(msg, MessageTypeSuccess) }

func (h *TUIHandler) addMessage(msg string, msgType MessageType) {
	h.mu.Lock()
	message := Message{Text: msg, Type: msgType, Timestamp: h.now()}
	h.messages = append(h.messages, message)
	if len(h.messages) > maxMessages {
		h.messages = h.messages[len(h.messages)-maxMessages:]
	}
	cb := h.onError
	h.mu.Unlock()

	if cb != nil {
		cb(message)
	}
}

// GetLatest returns the most recent message.
func (h *TUIHandler) GetLatest() (Message, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.messages) == 0 {
		return Message{}, false
	}
	return h.messages[len(h.messages)-1], true
}

// LatestWithin returns the most recent message if it is younger than age.
func (h *TUIHandler) LatestWithin(age time.Duration) (Message, bool) {
	msg, ok := h.GetLatest()
	if !ok || h.now().Sub(msg.Timestamp) > age {
		return Message{}, false
	}
	return msg, true
}

func (h *TUIHandler) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages = nil
}

func (h *TUIHandler) GetAll() []Message {
	h.mu.RLock()
	defer h.mu.RUnlock()
	copied := make([]Message, len(h.messages))
	copy(copied, h.messages)
	return copied
}
