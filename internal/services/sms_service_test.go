package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	twilioclient "github.com/twilio/twilio-go/client"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

func TestTwilioServiceUnconfigured(t *testing.T) {
	tests := []struct {
		name  string
		sid   string
		token string
		from  string
	}{
		{"no credentials", "", "", "+15550000000"},
		{"no token", "AC123", "", "+15550000000"},
		{"no sender number", "AC123", "secret", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewTwilioService(tt.sid, tt.token, tt.from)

			assert.False(t, svc.Configured())
			assert.ErrorIs(t, svc.SendSMS("+15551112222", "hi"), ErrSMSNotConfigured)
		})
	}
}

func TestTwilioServiceConfigured(t *testing.T) {
	assert.True(t, NewTwilioService("AC123", "secret", "+15550000000").Configured())
}

func TestMessageError(t *testing.T) {
	assert.NoError(t, messageError(nil))
	assert.NoError(t, messageError(&openapi.ApiV2010Message{}))

	code := 30003
	text := "Unreachable destination handset"
	err := messageError(&openapi.ApiV2010Message{ErrorCode: &code, ErrorMessage: &text})

	var perr *ProviderError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 30003, perr.Code)
	assert.Equal(t, text, perr.Message)
}

func TestTranslateTwilioError(t *testing.T) {
	err := translateTwilioError(&twilioclient.TwilioRestError{
		Code:    21211,
		Message: "Invalid 'To' Phone Number",
		Status:  400,
	})
	var perr *ProviderError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 21211, perr.Code)
	assert.Equal(t, "sms provider error 21211: Invalid 'To' Phone Number", perr.Error())

	err = translateTwilioError(&twilioclient.TwilioRestError{Code: 20003, Message: "Authenticate", Status: 401})
	assert.ErrorIs(t, err, ErrSMSCredentials)
	assert.False(t, errors.As(err, &perr))

	plain := errors.New("dial tcp: timeout")
	assert.Equal(t, plain, translateTwilioError(plain))
}
