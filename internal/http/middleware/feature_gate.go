package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Holocron-Auth/holocron-core/domain"
)

// FeatureGate enforces the tiered access rules on top of SessionMiddleware.
type FeatureGate struct {
	userRepo domain.UserRepository
}

// NewFeatureGate creates the account-state gate middleware
func NewFeatureGate(userRepo domain.UserRepository) *FeatureGate {
	return &FeatureGate{userRepo: userRepo}
}

// loadUser resolves the session's user and stores the full record on the
// context. On failure the request is aborted with the response already
// written; callers must not touch the chain afterwards.
func (g *FeatureGate) loadUser(c *gin.Context) (*domain.User, bool) {
	userID, ok := UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		c.Abort()
		return nil, false
	}

	user, err := g.userRepo.FindByID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		c.Abort()
		return nil, false
	}

	c.Set("user", user)
	return user, true
}

// RequireAccount checks the session's user still exists.
func (g *FeatureGate) RequireAccount() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := g.loadUser(c); !ok {
			return
		}
		c.Next()
	}
}

// RequireCompleteProfile additionally demands a completed profile and at
// least one verified identity before the high-feature surface opens up.
func (g *FeatureGate) RequireCompleteProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := g.loadUser(c)
		if !ok {
			return
		}

		if !user.CompletedProfile {
			c.JSON(http.StatusForbidden, gin.H{"error": domain.ErrProfileIncomplete.Error()})
			c.Abort()
			return
		}
		if user.EmailVerified == nil && user.PhoneVerified == nil {
			c.JSON(http.StatusForbidden, gin.H{"error": domain.ErrIdentityUnverified.Error()})
			c.Abort()
			return
		}
		c.Next()
	}
}
