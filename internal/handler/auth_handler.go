package handler

import (
	"net/http"

	"github.com/Nahimba/MotoCRM-sub001/internal/access"
	"github.com/Nahimba/MotoCRM-sub001/internal/service"

	"github.com/gin-gonic/gin"
)

// SessionIssuer hands out and revokes session cookies.
type SessionIssuer interface {
	SignIn(userID string) ([]*http.Cookie, error)
	SignOut(userID string) []*http.Cookie
}

// AuthHandler handles authentication requests
type AuthHandler struct {
	service  service.AuthService
	sessions SessionIssuer
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(s service.AuthService, sessions SessionIssuer) *AuthHandler {
	return &AuthHandler{service: s, sessions: sessions}
}

func (h *AuthHandler) Landing(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service":  "motocrm",
		"login":    "/auth/login",
		"register": "/register",
	})
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	profile, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to register user")
		return
	}

	if !h.startSession(c, profile.ID) {
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":  "User registered successfully",
		"user_id":  profile.ID,
		"role":     profile.Role,
		"redirect": access.HomeFor(profile.Role),
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	profile, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err, "Failed to login")
		return
	}

	if !h.startSession(c, profile.ID) {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":  "Login successful",
		"user_id":  profile.ID,
		"role":     profile.Role,
		"redirect": access.HomeFor(profile.Role),
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	userID, _ := getAuthUserID(c)
	for _, ck := range h.sessions.SignOut(userID) {
		http.SetCookie(c.Writer, ck)
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out", "redirect": access.HomePath})
}

func (h *AuthHandler) startSession(c *gin.Context, userID string) bool {
	cookies, err := h.sessions.SignIn(userID)
	if err != nil {
		respondError(c, err, "Failed to start session")
		return false
	}
	for _, ck := range cookies {
		http.SetCookie(c.Writer, ck)
	}
	return true
}

// RegisterAuthRoutes registers auth routes
func (h *AuthHandler) RegisterAuthRoutes(rg *gin.RouterGroup) {
	rg.GET("/", h.Landing)
	rg.POST("/register", h.Register)
	rg.POST("/auth/login", h.Login)
	rg.POST("/logout", h.Logout)
}
