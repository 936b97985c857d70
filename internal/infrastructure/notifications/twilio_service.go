package notifications

import (
	"fmt"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/Holocron-Auth/holocron-core/domain"
)

// TwilioNotifier implements domain.Notifier over SMS
type TwilioNotifier struct {
	client     *twilio.RestClient
	fromNumber string
}

// NewTwilioNotifier creates a new Twilio SMS notifier
func NewTwilioNotifier(accountSID, authToken, fromNumber string) domain.Notifier {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})

	return &TwilioNotifier{
		client:     client,
		fromNumber: fromNumber,
	}
}

// Send implements domain.Notifier
func (t *TwilioNotifier) Send(destination, code string, kind domain.TemplateKind) error {
	message := smsBody(code, kind)

	// If credentials are not configured, log instead of sending
	if t.fromNumber == "" {
		fmt.Printf("[MOCK SMS] To: %s, Message: %s\n", destination, message)
		return nil
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(destination)
	params.SetFrom(t.fromNumber)
	params.SetBody(message)

	_, err := t.client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("failed to send SMS: %w", err)
	}

	return nil
}

func smsBody(code string, kind domain.TemplateKind) string {
	if kind == domain.TemplateNewAccount {
		return fmt.Sprintf("Welcome to Holocron! Your registration code is %s. It expires in 2 minutes.", code)
	}
	return fmt.Sprintf("Your OTP for Holocron: %s", code)
}
