package domain

import "time"

// IdentityChannel distinguishes how an identity reaches the user.
type IdentityChannel string

const (
	ChannelEmail IdentityChannel = "email"
	ChannelPhone IdentityChannel = "phone"
)

// Identity is an email address or a phone number a one-time password
// can be bound to.
type Identity struct {
	Channel IdentityChannel
	Value   string
}

// TemplateKind selects the notification template for an OTP dispatch.
type TemplateKind string

const (
	TemplateNewAccount      TemplateKind = "new_account"
	TemplateExistingAccount TemplateKind = "existing_account"
)

// User represents an account in the system
type User struct {
	ID               uint
	Email            string
	Phone            string
	Name             string
	EmailVerified    *time.Time
	PhoneVerified    *time.Time
	CompletedProfile bool
	Image            string
	Gender           string
	Address          string
	Pincode          string
	Country          string
	DateOfBirth      *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// OneTimeToken is an ephemeral six-digit credential bound to an identity.
// At most one unexpired token exists per identity at any time.
type OneTimeToken struct {
	ID        uint
	Code      string
	Email     string
	Phone     string
	UserID    *uint
	User      *User
	ExpiresAt time.Time
	CreatedAt time.Time
}

// RegisteredApp is a third-party OAuth client owned by a developer user.
type RegisteredApp struct {
	ID                uint
	ClientID          string
	Name              string
	Logo              string
	HomepageURL       string
	PrivacyPolicyURL  string
	TermsOfServiceURL string
	AuthorizedDomains []string
	DeveloperID       uint
	CreatedAt         time.Time
}

// LoginRequest is a staged, time-boxed third-party authorization attempt
// awaiting consent. Valid for 120 seconds after creation.
type LoginRequest struct {
	ID           string
	AppID        uint
	App          *RegisteredApp
	UserID       uint
	RedirectURI  string
	Scope        string
	State        string
	ResponseType string
	Consent      bool
	CreatedAt    time.Time
}

// ConnectedApp is the durable grant joining a user to a registered app
// with an agreed scope. At most one exists per (user, app) pair.
type ConnectedApp struct {
	ID        uint
	UserID    uint
	AppID     uint
	Scope     string
	CreatedAt time.Time
}

// AuthorizationToken is a single-use exchange code bound to a grant.
type AuthorizationToken struct {
	ID             uint
	Token          string
	ConnectedAppID uint
	ConnectedApp   *ConnectedApp
	CreatedAt      time.Time
}

// AccessToken is an opaque bearer credential bound to a grant.
type AccessToken struct {
	ID             uint
	Token          string
	ConnectedAppID uint
	ConnectedApp   *ConnectedApp
	CreatedAt      time.Time
}

// RefreshToken is an opaque bearer credential bound to a grant.
type RefreshToken struct {
	ID             uint
	Token          string
	ConnectedAppID uint
	CreatedAt      time.Time
}

// SessionClaims are the identity claims carried by a session credential.
// ExpiresAt is zero for web sessions, which carry no explicit expiry.
type SessionClaims struct {
	UserID        uint
	Name          string
	Email         string
	Phone         string
	EmailVerified *time.Time
	PhoneVerified *time.Time
	Image         string
	DateOfBirth   *time.Time
	IssuedAt      int64
	ExpiresAt     int64
}

// AuthResult is the outcome of a successful registration or login.
type AuthResult struct {
	User         *User
	SessionToken string
}

// StageResult is the outcome of staging an authorization attempt.
// When ConsentGranted is set an existing live code short-circuits the
// consent step; otherwise Part references the pending login request.
type StageResult struct {
	ConsentGranted bool
	Code           string
	RedirectURI    string
	State          string
	Part           string
}

// LoginRequestView is what the consent screen needs about a pending request.
type LoginRequestView struct {
	ClientName  string
	RedirectURI string
	Scope       string
	State       string
}

// AuthorizationGrant is the outcome of a granted consent.
type AuthorizationGrant struct {
	RedirectLink string
}

// TokenPair is the outcome of an authorization-code exchange.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// UserInfo is the scope-gated external view of a user. Fields for scopes
// that were not granted stay nil and are omitted from the serialized form.
type UserInfo struct {
	ID      *uint   `json:"id,omitempty"`
	Name    *string `json:"name,omitempty"`
	Image   *string `json:"image,omitempty"`
	Email   *string `json:"email,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
}

// DashboardStats summarizes a user's authorization activity.
type DashboardStats struct {
	LoginAttempts   int64
	Services        int64
	Permissions     int
	MinutesSaved    float64
	PendingRequests int64
	ConnectedApps   []ConnectedAppDetail
}

// ConnectedAppDetail pairs a grant with the app it targets.
type ConnectedAppDetail struct {
	Grant ConnectedApp
	App   RegisteredApp
}

// AppRegistration carries the developer-supplied attributes of a new app.
type AppRegistration struct {
	Name              string
	Logo              string
	HomepageURL       string
	PrivacyPolicyURL  string
	TermsOfServiceURL string
	AuthorizedDomains []string
}

// ProfileUpdate carries the mutable profile attributes.
type ProfileUpdate struct {
	Image       string
	Gender      string
	Address     string
	Pincode     string
	Country     string
	DateOfBirth time.Time
}
