package services

import (
	"fmt"
	"sync"
)

// SentMessage is one message recorded by the mock SMS service
type SentMessage struct {
	Message string
	Number  string
}

// MockSMSService is a mock implementation of the SMS service for testing
type MockSMSService struct {
	sent     []SentMessage
	failNext bool
	mu       sync.Mutex
}

// NewMockSMSService creates a new mock SMS service
func NewMockSMSService() *MockSMSService {
	return &MockSMSService{}
}

// SetAsMockForTesting sets this mock as the global SMS service instance
func (m *MockSMSService) SetAsMockForTesting() {
	SetSMSService(m)
}

// FailNext makes the next SendMessage call report failure
func (m *MockSMSService) FailNext() {
	m.mu.Lock()
	m.failNext = true
	m.mu.Unlock()
}

// SendMessage records the message instead of sending it
func (m *MockSMSService) SendMessage(message, number string) (bool, string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failNext {
		m.failNext = false
		return false, "mock gateway failure"
	}

	m.sent = append(m.sent, SentMessage{Message: message, Number: number})
	return true, fmt.Sprintf(`[{"message_id":%d,"status":"pending","recipient":"%s"}]`, len(m.sent), number)
}

// SentMessages returns a copy of all recorded messages
func (m *MockSMSService) SentMessages() []SentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]SentMessage, len(m.sent))
	copy(out, m.sent)
	return out
}

// Clear removes all recorded messages
func (m *MockSMSService) Clear() {
	m.mu.Lock()
	m.sent = nil
	m.mu.Unlock()
}
