package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Holocron-Auth/holocron-core/domain"
	"github.com/Holocron-Auth/holocron-core/internal/http/middleware"
)

// DevHandlers handles developer app management HTTP requests
type DevHandlers struct {
	devSvc domain.DevService
}

// NewDevHandlers creates new developer handlers
func NewDevHandlers(devSvc domain.DevService) *DevHandlers {
	return &DevHandlers{devSvc: devSvc}
}

// RegisterAppRequest represents an app registration request
type RegisterAppRequest struct {
	Name              string   `json:"name" binding:"required"`
	Logo              string   `json:"logo" binding:"required"`
	HomepageURL       string   `json:"homepageUrl" binding:"required,url"`
	PrivacyPolicyURL  string   `json:"privacyPolicyUrl" binding:"required,url"`
	TermsOfServiceURL string   `json:"termsOfServiceUrl" binding:"required,url"`
	AuthorizedDomains []string `json:"authorizedDomains" binding:"required,min=1,dive,required"`
}

// RegisterApp handles registering a new OAuth client
func (h *DevHandlers) RegisterApp(c *gin.Context) {
	var req RegisterAppRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	app, err := h.devSvc.RegisterApp(c.Request.Context(), userID, domain.AppRegistration{
		Name:              req.Name,
		Logo:              req.Logo,
		HomepageURL:       req.HomepageURL,
		PrivacyPolicyURL:  req.PrivacyPolicyURL,
		TermsOfServiceURL: req.TermsOfServiceURL,
		AuthorizedDomains: req.AuthorizedDomains,
	})
	if err != nil {
		respondDevError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": appResponse(app)})
}

// ListApps handles listing the developer's registered apps
func (h *DevHandlers) ListApps(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	apps, err := h.devSvc.ListApps(c.Request.Context(), userID)
	if err != nil {
		respondDevError(c, err)
		return
	}

	out := make([]gin.H, 0, len(apps))
	for i := range apps {
		out = append(out, appResponse(&apps[i]))
	}

	c.JSON(http.StatusOK, gin.H{"data": out})
}

// CreateUploadURL handles minting a short-lived asset upload target for
// the developer's logos and images.
func (h *DevHandlers) CreateUploadURL(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	url, fields, err := h.devSvc.CreateUploadURL(c.Request.Context(), userID)
	if err != nil {
		respondDevError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"url": url, "fields": fields}})
}

// DeleteApp handles deleting one of the developer's registered apps
func (h *DevHandlers) DeleteApp(c *gin.Context) {
	appID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid app id"})
		return
	}

	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	if err := h.devSvc.DeleteApp(c.Request.Context(), userID, uint(appID)); err != nil {
		respondDevError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"success": true}})
}

func appResponse(app *domain.RegisteredApp) gin.H {
	return gin.H{
		"id":                app.ID,
		"clientId":          app.ClientID,
		"name":              app.Name,
		"logo":              app.Logo,
		"homepageUrl":       app.HomepageURL,
		"privacyPolicyUrl":  app.PrivacyPolicyURL,
		"termsOfServiceUrl": app.TermsOfServiceURL,
		"authorizedDomains": app.AuthorizedDomains,
		"createdAt":         app.CreatedAt,
	}
}

func respondDevError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrAppNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "No such app found"})
	case errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not own this app"})
	default:
		log.Printf("DEV_ERROR: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong."})
	}
}
