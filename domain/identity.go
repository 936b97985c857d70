package domain

import "regexp"

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)
)

// NewEmailIdentity validates and wraps an email address.
func NewEmailIdentity(email string) (Identity, error) {
	if !emailPattern.MatchString(email) {
		return Identity{}, ErrInvalidIdentity
	}
	return Identity{Channel: ChannelEmail, Value: email}, nil
}

// NewPhoneIdentity validates and wraps an E.164-style phone number.
func NewPhoneIdentity(phone string) (Identity, error) {
	if !phonePattern.MatchString(phone) {
		return Identity{}, ErrInvalidIdentity
	}
	return Identity{Channel: ChannelPhone, Value: phone}, nil
}
