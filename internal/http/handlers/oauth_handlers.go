package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Holocron-Auth/holocron-core/domain"
	"github.com/Holocron-Auth/holocron-core/internal/http/middleware"
)

// OAuthHandlers handles the authorization flow HTTP requests
type OAuthHandlers struct {
	flowSvc     domain.OAuthFlowService
	exchangeSvc domain.TokenExchangeService
}

// NewOAuthHandlers creates new OAuth handlers
func NewOAuthHandlers(flowSvc domain.OAuthFlowService, exchangeSvc domain.TokenExchangeService) *OAuthHandlers {
	return &OAuthHandlers{
		flowSvc:     flowSvc,
		exchangeSvc: exchangeSvc,
	}
}

// StageRequest represents an authorization staging request
type StageRequest struct {
	ClientID     string `json:"clientId" binding:"required"`
	RedirectURI  string `json:"redirectUri" binding:"required,url"`
	Scope        string `json:"scope" binding:"required"`
	State        string `json:"state" binding:"required"`
	ResponseType string `json:"responseType" binding:"required,eq=code"`
}

// ConsentRequest represents a consent decision for a pending login request
type ConsentRequest struct {
	ClientID string `json:"clientId" binding:"required"`
	Part     string `json:"part" binding:"required"`
}

// ExchangeRequest represents an authorization-code exchange request
type ExchangeRequest struct {
	ClientID string `json:"clientId" binding:"required"`
	Code     string `json:"code" binding:"required"`
}

// ClientDetails handles resolving a client ID to its display name
func (h *OAuthHandlers) ClientDetails(c *gin.Context) {
	clientID := c.Param("client_id")
	if clientID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing client id"})
		return
	}

	name, err := h.flowSvc.GetClientDetails(c.Request.Context(), clientID)
	if err != nil {
		respondOAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"name": name}})
}

// Stage handles staging an authorization attempt for the authenticated user
func (h *OAuthHandlers) Stage(c *gin.Context) {
	var req StageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	result, err := h.flowSvc.StageLoginRequest(c.Request.Context(), userID, req.ClientID, req.RedirectURI, req.Scope, req.State, req.ResponseType)
	if err != nil {
		respondOAuthError(c, err)
		return
	}

	if result.ConsentGranted {
		c.JSON(http.StatusOK, gin.H{
			"data": gin.H{
				"consentGranted": true,
				"redirect":       result.RedirectURI + "?code=" + result.Code + "&state=" + result.State,
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"data": gin.H{
			"consentGranted": false,
			"part":           result.Part,
		},
	})
}

// PendingRequest handles fetching a pending login request for the consent screen
func (h *OAuthHandlers) PendingRequest(c *gin.Context) {
	clientID := c.Query("client_id")
	part := c.Query("part")
	if clientID == "" || part == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing client id or part"})
		return
	}

	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	view, err := h.flowSvc.FetchPendingRequest(c.Request.Context(), clientID, part, userID)
	if err != nil {
		respondOAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"clientName":  view.ClientName,
			"redirectUri": view.RedirectURI,
			"scope":       view.Scope,
			"state":       view.State,
		},
	})
}

// Consent handles the user's consent decision and mints the authorization code
func (h *OAuthHandlers) Consent(c *gin.Context) {
	var req ConsentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	grant, err := h.flowSvc.GrantConsent(c.Request.Context(), req.ClientID, req.Part, userID)
	if err != nil {
		respondOAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"redirect": grant.RedirectLink}})
}

// Exchange handles redeeming an authorization code for bearer tokens
func (h *OAuthHandlers) Exchange(c *gin.Context) {
	var req ExchangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pair, err := h.exchangeSvc.Exchange(c.Request.Context(), req.Code, req.ClientID)
	if err != nil {
		respondOAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"token_type":    "Bearer",
	})
}

// UserInfo handles resolving an access token to scope-gated user fields
func (h *OAuthHandlers) UserInfo(c *gin.Context) {
	header := c.GetHeader("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing access token"})
		return
	}

	info, err := h.exchangeSvc.UserInfo(c.Request.Context(), token)
	if err != nil {
		respondOAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, info)
}

func respondOAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrAppNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "No such app found"})
	case errors.Is(err, domain.ErrLoginRequestNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "No login request found"})
	case errors.Is(err, domain.ErrLoginRequestExpired):
		c.JSON(http.StatusNotFound, gin.H{"error": "Login request expired. Try again."})
	case errors.Is(err, domain.ErrTooManyLoginRequests):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Please wait for some time before trying again."})
	case errors.Is(err, domain.ErrCodeNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Invalid authorization code"})
	case errors.Is(err, domain.ErrClientMismatch):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Authorization code was not issued to this client"})
	case errors.Is(err, domain.ErrAccessTokenNotFound):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid access token"})
	case errors.Is(err, domain.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	default:
		log.Printf("OAUTH_ERROR: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong."})
	}
}
