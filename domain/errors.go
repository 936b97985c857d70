package domain

import "errors"

// Identity errors
var (
	ErrInvalidIdentity = errors.New("invalid email or phone number")
)

// OTP errors
var (
	ErrOTPNotFound    = errors.New("invalid otp code")
	ErrOTPExpired     = errors.New("otp expired, request a new code")
	ErrOTPOutstanding = errors.New("an otp was already sent to this identity, try again later")
)

// User errors
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
)

// Session errors
var (
	ErrSessionInvalid     = errors.New("invalid session credential")
	ErrSessionExpired     = errors.New("session credential has expired")
	ErrProfileIncomplete  = errors.New("complete your profile first to unlock all features")
	ErrIdentityUnverified = errors.New("verify your email or phone to unlock all features")
	ErrUnauthorized       = errors.New("unauthorized access")
)

// Authorization flow errors
var (
	ErrAppNotFound          = errors.New("app not found")
	ErrLoginRequestNotFound = errors.New("login request not found")
	ErrLoginRequestExpired  = errors.New("login request expired")
	ErrTooManyLoginRequests = errors.New("too many login requests, try again in a few minutes")
)

// Token exchange errors
var (
	ErrCodeNotFound        = errors.New("authorization code not found")
	ErrClientMismatch      = errors.New("authorization code not issued to this client")
	ErrAccessTokenNotFound = errors.New("access token not found")
)

// Infrastructure errors
var (
	ErrNotifierFailed = errors.New("failed to deliver one-time code")
)
