package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Holocron-Auth/holocron-core/domain"
)

// SessionServiceImpl implements domain.SessionService
type SessionServiceImpl struct {
	secretKey []byte
	issuer    string
}

// NewSessionService creates a new JWT-backed session service
func NewSessionService(secretKey, issuer string) domain.SessionService {
	return &SessionServiceImpl{
		secretKey: []byte(secretKey),
		issuer:    issuer,
	}
}

// Issue implements domain.SessionService. A zero ttl omits the exp claim,
// which is how web sessions are issued; mobile sessions carry 24h. Any
// non-zero ttl, past or future, is stamped verbatim.
func (s *SessionServiceImpl) Issue(sc *domain.SessionClaims, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"id":    sc.UserID,
		"name":  sc.Name,
		"email": sc.Email,
		"phone": sc.Phone,
		"image": sc.Image,
		"iss":   s.issuer,
		"iat":   now.Unix(),
	}
	if sc.EmailVerified != nil {
		claims["email_verified"] = sc.EmailVerified.Unix()
	}
	if sc.PhoneVerified != nil {
		claims["phone_verified"] = sc.PhoneVerified.Unix()
	}
	if sc.DateOfBirth != nil {
		claims["dob"] = sc.DateOfBirth.Unix()
	}
	if ttl != 0 {
		claims["exp"] = now.Add(ttl).Unix()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secretKey)
}

// Verify implements domain.SessionService
func (s *SessionServiceImpl) Verify(tokenString string) (*domain.SessionClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrSessionInvalid
		}
		return s.secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrSessionExpired
		}
		return nil, domain.ErrSessionInvalid
	}
	if !token.Valid {
		return nil, domain.ErrSessionInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, domain.ErrSessionInvalid
	}

	return s.extractClaims(claims)
}

// Decode implements domain.SessionService. No signature check is performed;
// callers must already trust the token's origin.
func (s *SessionServiceImpl) Decode(tokenString string) (*domain.SessionClaims, error) {
	token, _, err := jwt.NewParser().ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return nil, domain.ErrSessionInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, domain.ErrSessionInvalid
	}

	return s.extractClaims(claims)
}

func (s *SessionServiceImpl) extractClaims(claims jwt.MapClaims) (*domain.SessionClaims, error) {
	userID, ok := claims["id"].(float64)
	if !ok {
		return nil, domain.ErrSessionInvalid
	}

	sc := &domain.SessionClaims{UserID: uint(userID)}

	if name, ok := claims["name"].(string); ok {
		sc.Name = name
	}
	if email, ok := claims["email"].(string); ok {
		sc.Email = email
	}
	if phone, ok := claims["phone"].(string); ok {
		sc.Phone = phone
	}
	if image, ok := claims["image"].(string); ok {
		sc.Image = image
	}
	if iat, ok := claims["iat"].(float64); ok {
		sc.IssuedAt = int64(iat)
	}
	if ev, ok := claims["email_verified"].(float64); ok {
		t := time.Unix(int64(ev), 0)
		sc.EmailVerified = &t
	}
	if pv, ok := claims["phone_verified"].(float64); ok {
		t := time.Unix(int64(pv), 0)
		sc.PhoneVerified = &t
	}
	if dob, ok := claims["dob"].(float64); ok {
		t := time.Unix(int64(dob), 0)
		sc.DateOfBirth = &t
	}

	if exp, ok := claims["exp"].(float64); ok {
		sc.ExpiresAt = int64(exp)
		if time.Unix(int64(exp), 0).Before(time.Now()) {
			return nil, domain.ErrSessionExpired
		}
	}

	return sc, nil
}
