package mocks

import (
	"context"
	"sync"

	"github.com/seu-repo/voicebook/internal/domain"
)

// MockLLMClient is a mock implementation of LLMClient interface
type MockLLMClient struct {
	mu               sync.Mutex
	Calls            int
	LastInstruction  string
	GenerateJSONFunc func(ctx context.Context, systemInstruction, utterance string) (string, error)
}

func (m *MockLLMClient) GenerateJSON(ctx context.Context, systemInstruction, utterance string) (string, error) {
	m.mu.Lock()
	m.Calls++
	m.LastInstruction = systemInstruction
	m.mu.Unlock()
	if m.GenerateJSONFunc != nil {
		return m.GenerateJSONFunc(ctx, systemInstruction, utterance)
	}
	return `{"intent": "unknown"}`, nil
}

func (m *MockLLMClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls
}

// MockImageGenerator is a mock implementation of ImageGenerator interface
type MockImageGenerator struct {
	GenerateImageFunc func(ctx context.Context, prompt string) ([]byte, string, error)
}

func (m *MockImageGenerator) GenerateImage(ctx context.Context, prompt string) ([]byte, string, error) {
	if m.GenerateImageFunc != nil {
		return m.GenerateImageFunc(ctx, prompt)
	}
	return []byte{0xff, 0xd8, 0xff}, "image/jpeg", nil
}

// MockMediaUploader is a mock implementation of MediaUploader interface
type MockMediaUploader struct {
	mu         sync.Mutex
	Uploaded   []string
	UploadFunc func(ctx context.Context, blob []byte, filename, contentType string) (domain.Upload, error)
}

func (m *MockMediaUploader) Upload(ctx context.Context, blob []byte, filename, contentType string) (domain.Upload, error) {
	m.mu.Lock()
	m.Uploaded = append(m.Uploaded, filename)
	m.mu.Unlock()
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, blob, filename, contentType)
	}
	return domain.Upload{URL: "https://media.test/" + filename, ResourceType: "video"}, nil
}

// MockAudioRecorder is a mock implementation of AudioRecorder interface
type MockAudioRecorder struct {
	mu        sync.Mutex
	Starts    int
	Stops     int
	StartFunc func(ctx context.Context) error
	StopFunc  func(ctx context.Context) (domain.AudioClip, error)
}

func (m *MockAudioRecorder) Start(ctx context.Context) error {
	m.mu.Lock()
	m.Starts++
	m.mu.Unlock()
	if m.StartFunc != nil {
		return m.StartFunc(ctx)
	}
	return nil
}

func (m *MockAudioRecorder) Stop(ctx context.Context) (domain.AudioClip, error) {
	m.mu.Lock()
	m.Stops++
	m.mu.Unlock()
	if m.StopFunc != nil {
		return m.StopFunc(ctx)
	}
	return domain.AudioClip{Data: []byte("webm"), MimeType: "audio/webm", Duration: 4}, nil
}

// MockNotifier records every message said to the user
type MockNotifier struct {
	mu       sync.Mutex
	Messages []string
}

func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

func (m *MockNotifier) Say(message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Messages = append(m.Messages, message)
}

// Last returns the most recent message, or "" when nothing was said.
func (m *MockNotifier) Last() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Messages) == 0 {
		return ""
	}
	return m.Messages[len(m.Messages)-1]
}

func (m *MockNotifier) All() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.Messages...)
}

// MockSecretProvider is a mock implementation of SecretProvider interface
type MockSecretProvider struct {
	GeminiAPIKeyFunc func(ctx context.Context) (string, error)
}

func (m *MockSecretProvider) GeminiAPIKey(ctx context.Context) (string, error) {
	if m.GeminiAPIKeyFunc != nil {
		return m.GeminiAPIKeyFunc(ctx)
	}
	return "test-key", nil
}

// MockPaymentGateway is a mock implementation of PaymentGateway interface
type MockPaymentGateway struct {
	CreatePaymentIntentFunc func(ctx context.Context, amount float64, currency string, customerID string) (string, error)
	RefundPaymentFunc       func(ctx context.Context, paymentID string) error
}

func (m *MockPaymentGateway) RefundPayment(ctx context.Context, paymentID string) error {
	if m.RefundPaymentFunc != nil {
		return m.RefundPaymentFunc(ctx, paymentID)
	}
	return nil
}

func (m *MockPaymentGateway) CreatePaymentIntent(ctx context.Context, amount float64, currency string, customerID string) (string, error) {
	if m.CreatePaymentIntentFunc != nil {
		return m.CreatePaymentIntentFunc(ctx, amount, currency, customerID)
	}
	return "pi_test_123", nil
}
