package domain

import (
	"context"
	"time"
)

// UserRepository defines user data access operations
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByPhone(ctx context.Context, phone string) (*User, error)
	FindByID(ctx context.Context, id uint) (*User, error)
	Update(ctx context.Context, user *User) error
	MarkEmailVerified(ctx context.Context, userID uint, at time.Time) error
	MarkPhoneVerified(ctx context.Context, userID uint, at time.Time) error
}

// OTPRepository defines one-time token data access operations
type OTPRepository interface {
	Create(ctx context.Context, token *OneTimeToken) error
	// FindByIdentity returns the newest token bound to the identity, matching
	// either the raw stored field or the owning user's identity.
	FindByIdentity(ctx context.Context, identity Identity) (*OneTimeToken, error)
	// FindByCode returns the token matching (code, identity) with its user
	// preloaded, resolving the identity the same way as FindByIdentity.
	FindByCode(ctx context.Context, identity Identity, code string) (*OneTimeToken, error)
	Delete(ctx context.Context, id uint) error
}

// AppRepository defines registered-app data access operations
type AppRepository interface {
	// Create persists the app and its authorized domains as one unit.
	Create(ctx context.Context, app *RegisteredApp) error
	FindByClientID(ctx context.Context, clientID string) (*RegisteredApp, error)
	FindByID(ctx context.Context, id uint) (*RegisteredApp, error)
	ListByDeveloper(ctx context.Context, developerID uint) ([]RegisteredApp, error)
	// Delete removes the app and its authorized domains as one unit.
	Delete(ctx context.Context, id uint) error
}

// LoginRequestRepository defines login-request data access operations
type LoginRequestRepository interface {
	Create(ctx context.Context, req *LoginRequest) error
	// FindByID preloads the registered app the request targets.
	FindByID(ctx context.Context, id string) (*LoginRequest, error)
	// FindLatest returns the most recent request for (app, user).
	FindLatest(ctx context.Context, appID, userID uint) (*LoginRequest, error)
	MarkConsent(ctx context.Context, id string) error
	CountByUser(ctx context.Context, userID uint) (int64, error)
	CountPendingByUser(ctx context.Context, userID uint) (int64, error)
}

// GrantRepository defines data access for grants and the credentials
// hanging off them.
type GrantRepository interface {
	CreateConnectedApp(ctx context.Context, grant *ConnectedApp) error
	FindConnectedApp(ctx context.Context, userID, appID uint) (*ConnectedApp, error)
	DeleteConnectedApp(ctx context.Context, id uint) error
	ListConnectedAppsByUser(ctx context.Context, userID uint) ([]ConnectedAppDetail, error)
	CountConnectedAppsByUser(ctx context.Context, userID uint) (int64, error)

	CreateAuthorizationToken(ctx context.Context, token *AuthorizationToken) error
	FindAuthorizationTokenByGrant(ctx context.Context, connectedAppID uint) (*AuthorizationToken, error)
	// FindAuthorizationToken preloads the grant the code is bound to.
	FindAuthorizationToken(ctx context.Context, token string) (*AuthorizationToken, error)
	DeleteAuthorizationToken(ctx context.Context, id uint) error

	CreateAccessToken(ctx context.Context, token *AccessToken) error
	// FindAccessToken preloads the grant the token is bound to.
	FindAccessToken(ctx context.Context, token string) (*AccessToken, error)
	CreateRefreshToken(ctx context.Context, token *RefreshToken) error
}

// OTPService defines the one-time-password state machine
type OTPService interface {
	Generate(ctx context.Context, identity Identity) error
	// Verify consumes the token on any attempt that finds it. The returned
	// user is nil when the identity has no account yet.
	Verify(ctx context.Context, identity Identity, code string) (*User, error)
}

// SessionService converts verified identities into signed session credentials
type SessionService interface {
	// Issue mints a credential; a zero ttl omits the expiry claim.
	Issue(claims *SessionClaims, ttl time.Duration) (string, error)
	Verify(token string) (*SessionClaims, error)
	// Decode extracts claims without a signature check. Trusted contexts only.
	Decode(token string) (*SessionClaims, error)
}

// AuthService defines registration, login and profile business logic
type AuthService interface {
	RegisterWithEmail(ctx context.Context, email, name, phone, code string, dateOfBirth time.Time) (*AuthResult, error)
	RegisterWithPhone(ctx context.Context, phone, name, email, code string) (*AuthResult, error)
	LoginWithEmail(ctx context.Context, email, code string) (*AuthResult, error)
	LoginWithPhone(ctx context.Context, phone, code string) (*AuthResult, error)
	VerifyEmail(ctx context.Context, userID uint, code string) error
	UpdateProfile(ctx context.Context, userID uint, update ProfileUpdate) error
	GetUser(ctx context.Context, userID uint) (*User, error)
	Dashboard(ctx context.Context, userID uint) (*DashboardStats, error)
}

// OAuthFlowService manages the login-request lifecycle up to code minting
type OAuthFlowService interface {
	GetClientDetails(ctx context.Context, clientID string) (string, error)
	StageLoginRequest(ctx context.Context, userID uint, clientID, redirectURI, scope, state, responseType string) (*StageResult, error)
	FetchPendingRequest(ctx context.Context, clientID, part string, userID uint) (*LoginRequestView, error)
	GrantConsent(ctx context.Context, clientID, part string, userID uint) (*AuthorizationGrant, error)
}

// TokenExchangeService redeems authorization codes and resolves user info
type TokenExchangeService interface {
	Exchange(ctx context.Context, code, clientID string) (*TokenPair, error)
	UserInfo(ctx context.Context, accessToken string) (*UserInfo, error)
}

// DevService defines developer app management business logic
type DevService interface {
	RegisterApp(ctx context.Context, developerID uint, reg AppRegistration) (*RegisteredApp, error)
	ListApps(ctx context.Context, developerID uint) ([]RegisteredApp, error)
	DeleteApp(ctx context.Context, developerID, appID uint) error
	CreateUploadURL(ctx context.Context, developerID uint) (url string, fields map[string]string, err error)
}

// Notifier delivers a one-time code to a destination. Implementations
// either succeed or fail atomically.
type Notifier interface {
	Send(destination, code string, kind TemplateKind) error
}

// Locker guards read-then-write sections against concurrent execution.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// BlobStore issues presigned upload targets for profile and app assets.
type BlobStore interface {
	Presign(ctx context.Context, ownerID uint) (url string, fields map[string]string, err error)
}
