package domain

import (
	"errors"
	"testing"
)

func TestNewEmailIdentity(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{name: "plain address", value: "ada@example.com"},
		{name: "subdomain", value: "ada@mail.example.co.uk"},
		{name: "plus tag", value: "ada+tag@example.com"},
		{name: "missing at", value: "ada.example.com", wantErr: true},
		{name: "missing domain", value: "ada@", wantErr: true},
		{name: "missing tld", value: "ada@example", wantErr: true},
		{name: "spaces", value: "ada lovelace@example.com", wantErr: true},
		{name: "empty", value: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := NewEmailIdentity(tt.value)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidIdentity) {
					t.Errorf("expected ErrInvalidIdentity, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if id.Channel != ChannelEmail || id.Value != tt.value {
				t.Errorf("unexpected identity %+v", id)
			}
		})
	}
}

func TestNewPhoneIdentity(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{name: "e164", value: "+14155550100"},
		{name: "no plus", value: "14155550100"},
		{name: "leading zero", value: "04155550100", wantErr: true},
		{name: "letters", value: "+1415CALLME", wantErr: true},
		{name: "too short", value: "+1", wantErr: true},
		{name: "empty", value: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := NewPhoneIdentity(tt.value)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidIdentity) {
					t.Errorf("expected ErrInvalidIdentity, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if id.Channel != ChannelPhone {
				t.Errorf("unexpected channel %q", id.Channel)
			}
		})
	}
}
