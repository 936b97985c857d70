package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Holocron-Auth/holocron-core/domain"
	"github.com/Holocron-Auth/holocron-core/internal/http/handlers"
	"github.com/Holocron-Auth/holocron-core/internal/http/middleware"
)

// RouterDeps carries everything the router needs wired in.
type RouterDeps struct {
	AuthHandlers  *handlers.AuthHandlers
	OAuthHandlers *handlers.OAuthHandlers
	DevHandlers   *handlers.DevHandlers
	SessionSvc    domain.SessionService
	FeatureGate   *middleware.FeatureGate
	OTPLimiter    *middleware.RateLimiter
}

// NewRouter builds the HTTP surface of the service.
func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	session := middleware.SessionMiddleware(deps.SessionSvc)

	authGroup := r.Group("/auth")
	{
		otp := authGroup.Group("/otp")
		otp.Use(deps.OTPLimiter.Limit())
		{
			otp.POST("/email", deps.AuthHandlers.GenerateEmailOTP)
			otp.POST("/phone", deps.AuthHandlers.GeneratePhoneOTP)
		}

		authGroup.POST("/register/email", deps.AuthHandlers.RegisterWithEmail)
		authGroup.POST("/register/phone", deps.AuthHandlers.RegisterWithPhone)
		authGroup.POST("/login/email", deps.AuthHandlers.LoginWithEmail)
		authGroup.POST("/login/phone", deps.AuthHandlers.LoginWithPhone)

		account := authGroup.Group("")
		account.Use(session, deps.FeatureGate.RequireAccount())
		{
			account.GET("/me", deps.AuthHandlers.Me)
			account.POST("/email/verify", deps.AuthHandlers.VerifyEmail)
			account.PUT("/profile", deps.AuthHandlers.UpdateProfile)
			account.GET("/dashboard", deps.AuthHandlers.Dashboard)
		}
	}

	oauthGroup := r.Group("/oauth")
	{
		oauthGroup.GET("/apps/:client_id", deps.OAuthHandlers.ClientDetails)
		oauthGroup.POST("/token", deps.OAuthHandlers.Exchange)
		oauthGroup.GET("/userinfo", deps.OAuthHandlers.UserInfo)

		// Staging and consent demand a fully set-up account.
		flow := oauthGroup.Group("")
		flow.Use(session, deps.FeatureGate.RequireCompleteProfile())
		{
			flow.POST("/authorize", deps.OAuthHandlers.Stage)
			flow.GET("/requests", deps.OAuthHandlers.PendingRequest)
			flow.POST("/consent", deps.OAuthHandlers.Consent)
		}
	}

	devGroup := r.Group("/dev")
	devGroup.Use(session, deps.FeatureGate.RequireCompleteProfile())
	{
		devGroup.POST("/apps", deps.DevHandlers.RegisterApp)
		devGroup.GET("/apps", deps.DevHandlers.ListApps)
		devGroup.DELETE("/apps/:id", deps.DevHandlers.DeleteApp)
		devGroup.POST("/upload-url", deps.DevHandlers.CreateUploadURL)
	}

	return r
}
