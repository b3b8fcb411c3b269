package services

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/twilio/twilio-go"
	twilioclient "github.com/twilio/twilio-go/client"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"

	"github.com/example/siteapi/internal/logger"
)

var (
	// ErrSMSNotConfigured is returned when the provider credentials or sender number are missing.
	ErrSMSNotConfigured = errors.New("sms provider is not configured")
	// ErrSMSCredentials is returned when the provider rejects the configured credentials.
	ErrSMSCredentials = errors.New("sms provider rejected credentials")
)

// SMSSender delivers text messages to a phone number.
type SMSSender interface {
	SendSMS(to, body string) error
}

// ProviderError carries an error code reported by the SMS provider for a specific message.
type ProviderError struct {
	Code    int
	Message string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("sms provider error %d: %s", e.Code, e.Message)
}

// TwilioService sends SMS through Twilio's messaging API.
type TwilioService struct {
	client *twilio.RestClient
	from   string
}

var _ SMSSender = (*TwilioService)(nil)

// NewTwilioService creates a TwilioService. Missing credentials leave it unconfigured;
// every send then fails with ErrSMSNotConfigured.
func NewTwilioService(accountSID, authToken, from string) *TwilioService {
	s := &TwilioService{from: from}
	if accountSID != "" && authToken != "" {
		s.client = twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSID,
			Password: authToken,
		})
	}
	return s
}

// Configured reports whether credentials and a sender number are present.
func (s *TwilioService) Configured() bool {
	return s.client != nil && s.from != ""
}

// SendSMS sends body to the given phone number.
func (s *TwilioService) SendSMS(to, body string) error {
	if !s.Configured() {
		return ErrSMSNotConfigured
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetBody(body)

	msg, err := s.client.Api.CreateMessage(params)
	if err != nil {
		return translateTwilioError(err)
	}

	if err := messageError(msg); err != nil {
		return err
	}

	if msg.Sid != nil {
		logger.Log.Debug("sms queued", zap.String("sid", *msg.Sid), logger.WithPhone(to))
	}
	return nil
}

// messageError reports an error code attached to an accepted message.
func messageError(msg *openapi.ApiV2010Message) error {
	if msg == nil || msg.ErrorCode == nil {
		return nil
	}
	perr := &ProviderError{Code: *msg.ErrorCode}
	if msg.ErrorMessage != nil {
		perr.Message = *msg.ErrorMessage
	}
	return perr
}

func translateTwilioError(err error) error {
	var restErr *twilioclient.TwilioRestError
	if !errors.As(err, &restErr) {
		return err
	}
	if restErr.Status == http.StatusUnauthorized || restErr.Status == http.StatusForbidden {
		return fmt.Errorf("%w: %s", ErrSMSCredentials, restErr.Message)
	}
	return &ProviderError{Code: restErr.Code, Message: restErr.Message}
}
