package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Holocron-Auth/holocron-core/domain"
	"github.com/Holocron-Auth/holocron-core/internal/http/middleware"
)

// AuthHandlers handles authentication HTTP requests
type AuthHandlers struct {
	authSvc domain.AuthService
	otpSvc  domain.OTPService
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(authSvc domain.AuthService, otpSvc domain.OTPService) *AuthHandlers {
	return &AuthHandlers{
		authSvc: authSvc,
		otpSvc:  otpSvc,
	}
}

// GenerateEmailOTPRequest represents an email OTP generation request
type GenerateEmailOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// GeneratePhoneOTPRequest represents a phone OTP generation request
type GeneratePhoneOTPRequest struct {
	Phone string `json:"phone" binding:"required"`
}

// RegisterEmailRequest represents an email registration request
type RegisterEmailRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Name        string `json:"name" binding:"required"`
	Phone       string `json:"phone" binding:"required"`
	DateOfBirth string `json:"dateOfBirth" binding:"required"`
	OTP         string `json:"otp" binding:"required,len=6"`
}

// RegisterPhoneRequest represents a phone registration request
type RegisterPhoneRequest struct {
	Phone string `json:"phone" binding:"required"`
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required,len=6"`
}

// LoginEmailRequest represents an email login request
type LoginEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required,len=6"`
}

// LoginPhoneRequest represents a phone login request
type LoginPhoneRequest struct {
	Phone string `json:"phone" binding:"required"`
	OTP   string `json:"otp" binding:"required,len=6"`
}

// VerifyEmailRequest represents an email verification request
type VerifyEmailRequest struct {
	OTP string `json:"otp" binding:"required,len=6"`
}

// UpdateProfileRequest represents a profile update request
type UpdateProfileRequest struct {
	Image       string `json:"image" binding:"required"`
	Gender      string `json:"gender" binding:"required,oneof=na Male Female Other"`
	Address     string `json:"address" binding:"required"`
	Pincode     string `json:"pincode" binding:"required"`
	Country     string `json:"country" binding:"required"`
	DateOfBirth string `json:"dateofbirth" binding:"required"`
}

// GenerateEmailOTP handles OTP generation for an email identity
func (h *AuthHandlers) GenerateEmailOTP(c *gin.Context) {
	var req GenerateEmailOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	identity, err := domain.NewEmailIdentity(req.Email)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.generateOTP(c, identity)
}

// GeneratePhoneOTP handles OTP generation for a phone identity
func (h *AuthHandlers) GeneratePhoneOTP(c *gin.Context) {
	var req GeneratePhoneOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	identity, err := domain.NewPhoneIdentity(req.Phone)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.generateOTP(c, identity)
}

func (h *AuthHandlers) generateOTP(c *gin.Context, identity domain.Identity) {
	if err := h.otpSvc.Generate(c.Request.Context(), identity); err != nil {
		switch {
		case errors.Is(err, domain.ErrOTPOutstanding):
			c.JSON(http.StatusConflict, gin.H{"error": "OTP already sent to this identity. Try again after some time."})
		case errors.Is(err, domain.ErrNotifierFailed):
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deliver OTP. Please retry."})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send OTP"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"message": "OTP sent successfully",
			"result":  identity.Value,
		},
	})
}

// RegisterWithEmail handles email registration
func (h *AuthHandlers) RegisterWithEmail(c *gin.Context) {
	var req RegisterEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dob, err := time.Parse("2006-01-02", req.DateOfBirth)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date of birth"})
		return
	}

	result, err := h.authSvc.RegisterWithEmail(c.Request.Context(), req.Email, req.Name, req.Phone, req.OTP, dob)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"data": gin.H{
			"token":    result.SessionToken,
			"user":     userResponse(result.User),
			"redirect": "/dashboard",
		},
	})
}

// RegisterWithPhone handles phone registration
func (h *AuthHandlers) RegisterWithPhone(c *gin.Context) {
	var req RegisterPhoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.authSvc.RegisterWithPhone(c.Request.Context(), req.Phone, req.Name, req.Email, req.OTP)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"data": gin.H{
			"token": result.SessionToken,
			"user":  userResponse(result.User),
		},
	})
}

// LoginWithEmail handles email OTP login
func (h *AuthHandlers) LoginWithEmail(c *gin.Context) {
	var req LoginEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.authSvc.LoginWithEmail(c.Request.Context(), req.Email, req.OTP)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"token":    result.SessionToken,
			"user":     userResponse(result.User),
			"redirect": "/dashboard",
		},
	})
}

// LoginWithPhone handles phone OTP login
func (h *AuthHandlers) LoginWithPhone(c *gin.Context) {
	var req LoginPhoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.authSvc.LoginWithPhone(c.Request.Context(), req.Phone, req.OTP)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"token": result.SessionToken,
			"user":  userResponse(result.User),
		},
	})
}

// VerifyEmail handles email verification for an authenticated user
func (h *AuthHandlers) VerifyEmail(c *gin.Context) {
	var req VerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	if err := h.authSvc.VerifyEmail(c.Request.Context(), userID, req.OTP); err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"success": true}})
}

// UpdateProfile handles profile completion
func (h *AuthHandlers) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dob, err := time.Parse("2006-01-02", req.DateOfBirth)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date of birth"})
		return
	}

	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	update := domain.ProfileUpdate{
		Image:       req.Image,
		Gender:      req.Gender,
		Address:     req.Address,
		Pincode:     req.Pincode,
		Country:     req.Country,
		DateOfBirth: dob,
	}
	if err := h.authSvc.UpdateProfile(c.Request.Context(), userID, update); err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"message": "Profile updated successfully"}})
}

// Me handles getting the authenticated user's record
func (h *AuthHandlers) Me(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	user, err := h.authSvc.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": userResponse(user)})
}

// Dashboard handles the authorization activity summary
func (h *AuthHandlers) Dashboard(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	stats, err := h.authSvc.Dashboard(c.Request.Context(), userID)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	connected := make([]gin.H, 0, len(stats.ConnectedApps))
	for _, ca := range stats.ConnectedApps {
		connected = append(connected, gin.H{
			"scope": ca.Grant.Scope,
			"app": gin.H{
				"name": ca.App.Name,
				"logo": ca.App.Logo,
			},
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"loginAttempts":            stats.LoginAttempts,
			"services":                 stats.Services,
			"permissions":              stats.Permissions,
			"min":                      stats.MinutesSaved,
			"loginRequestsConsentFalse": stats.PendingRequests,
			"connectedApps":            connected,
		},
	})
}

func userResponse(user *domain.User) gin.H {
	return gin.H{
		"id":               user.ID,
		"email":            user.Email,
		"phone":            user.Phone,
		"name":             user.Name,
		"emailVerified":    user.EmailVerified,
		"phoneVerified":    user.PhoneVerified,
		"completedProfile": user.CompletedProfile,
		"image":            user.Image,
		"dateOfBirth":      user.DateOfBirth,
	}
}

func respondAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrOTPNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Invalid OTP"})
	case errors.Is(err, domain.ErrOTPExpired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "OTP expired. Try again."})
	case errors.Is(err, domain.ErrOTPOutstanding):
		c.JSON(http.StatusConflict, gin.H{"error": "OTP already sent. Try again after some time."})
	case errors.Is(err, domain.ErrUserAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": "User already exists."})
	case errors.Is(err, domain.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	case errors.Is(err, domain.ErrInvalidIdentity):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Printf("AUTH_ERROR: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong."})
	}
}
