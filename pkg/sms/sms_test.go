package sms

import (
	"context"
	"errors"
	"testing"

	openapi "github.com/twilio/twilio-go/rest/api/v2010"

	"gather/pkg/logger"
)

type fakeCreator struct {
	params *openapi.CreateMessageParams
	err    error
}

func (f *fakeCreator) CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error) {
	f.params = params
	if f.err != nil {
		return nil, f.err
	}
	sid := "SM123"
	return &openapi.ApiV2010Message{Sid: &sid}, nil
}

func TestTwilioSender_NormalizesRecipient(t *testing.T) {
	fake := &fakeCreator{}
	s := &twilioSender{api: fake, from: "+15550000000", log: logger.Nop()}

	if err := s.Send(context.Background(), "(801) 555-1234", "See you Tuesday"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fake.params == nil || fake.params.To == nil || *fake.params.To != "+18015551234" {
		t.Errorf("To = %v, want +18015551234", fake.params.To)
	}
	if *fake.params.Body != "See you Tuesday" {
		t.Errorf("Body = %q", *fake.params.Body)
	}
}

func TestTwilioSender_Errors(t *testing.T) {
	tests := []struct {
		name    string
		to      string
		apiErr  error
		wantErr error
	}{
		{"unparseable number", "12", nil, ErrInvalidRecipient},
		{"api failure", "8015551234", errors.New("401"), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &twilioSender{api: &fakeCreator{err: tt.apiErr}, log: logger.Nop()}
			err := s.Send(context.Background(), tt.to, "hi")
			if err == nil {
				t.Fatal("expected an error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
