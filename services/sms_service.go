package services

import (
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/elsenior/tailoring-api/config"
)

// SMSInterface defines the interface for outbound SMS operations
type SMSInterface interface {
	SendMessage(message, number string) (bool, string)
}

// SemaphoreService sends SMS through the Semaphore gateway
// (POST https://api.semaphore.co/api/v4/messages, 120 requests/minute,
// messages over 160 characters are auto-split by the gateway).
type SemaphoreService struct {
	apiKey     string
	senderName string
	apiURL     string
	httpClient *http.Client
}

var smsServiceInstance SMSInterface

// InitSMSService initializes the SMS service from configuration
func InitSMSService() SMSInterface {
	cfg := config.GetConfig()

	smsServiceInstance = &SemaphoreService{
		apiKey:     cfg.SemaphoreAPIKey,
		senderName: cfg.SemaphoreSenderName,
		apiURL:     cfg.SemaphoreAPIURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	return smsServiceInstance
}

// GetSMSService returns the initialized SMS service instance
func GetSMSService() SMSInterface {
	return smsServiceInstance
}

// SetSMSService sets the SMS service instance (primarily for testing)
func SetSMSService(service SMSInterface) {
	smsServiceInstance = service
}

// SendMessage sends an SMS to a phone number via the Semaphore API.
// It returns whether the send succeeded and the provider response body or
// an error description. Callers treat failures as non-fatal.
func (s *SemaphoreService) SendMessage(message, number string) (bool, string) {
	if s.apiKey == "" {
		log.Println("Semaphore API key not configured")
		return false, "Semaphore API key not configured"
	}
	if number == "" {
		log.Println("SMS recipient number not provided")
		return false, "Phone number is required"
	}
	if message == "" {
		log.Println("SMS message content is required")
		return false, "Message content is required"
	}

	// Semaphore silently drops messages starting with TEST
	if strings.HasPrefix(strings.ToUpper(strings.TrimSpace(message)), "TEST") {
		log.Printf("SMS to %s starts with TEST and may be silently ignored by Semaphore", number)
	}

	params := url.Values{}
	params.Set("apikey", s.apiKey)
	params.Set("sendername", s.senderName)
	params.Set("message", message)
	params.Set("number", number)

	resp, err := s.httpClient.Post(s.apiURL+"?"+params.Encode(), "application/json", nil)
	if err != nil {
		log.Printf("SMS request to %s failed: %v", number, err)
		return false, err.Error()
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			log.Printf("warning: failed to close SMS response body: %v", closeErr)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("Failed to read SMS response for %s: %v", number, err)
		return false, err.Error()
	}

	log.Printf("SMS API response: status %d for number %s", resp.StatusCode, number)

	if resp.StatusCode != http.StatusOK {
		return false, string(body)
	}
	return true, string(body)
}
