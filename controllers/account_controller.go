package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/postly/postly/config"
	"github.com/postly/postly/middleware"
	"github.com/postly/postly/models"
	"github.com/postly/postly/services"
	"github.com/postly/postly/utils"
)

// AccountController handles signup, login, logout and profile lookup.
type AccountController struct {
	users *services.UserDirectory
}

// NewAccountController creates an AccountController.
func NewAccountController(users *services.UserDirectory) *AccountController {
	return &AccountController{users: users}
}

// Signup handles local account registration with bcrypt hashing.
func (a *AccountController) Signup(ctx *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}

	user, err := a.users.Register(strings.TrimSpace(req.Username), req.Password)
	if err != nil {
		renderServiceError(ctx, err)
		return
	}

	utils.Created(ctx, gin.H{"user": publicUser(user)})
}

// Login verifies user credentials and issues a JWT.
func (a *AccountController) Login(ctx *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40003, "invalid request payload")
		return
	}

	user, err := a.users.Authenticate(req.Username, req.Password)
	if err != nil {
		renderServiceError(ctx, err)
		return
	}

	ttl := time.Duration(config.Get().TokenTTLH) * time.Hour
	token, err := utils.GenerateToken(user.ID, user.Username, ttl)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50004, "failed to generate token")
		return
	}

	utils.Success(ctx, gin.H{
		"token": token,
		"user":  publicUser(user),
	})
}

// Logout invalidates the presented token by blacklisting it until expiration.
func (a *AccountController) Logout(ctx *gin.Context) {
	tokenVal, _ := ctx.Get(middleware.ContextTokenKey)
	token, _ := tokenVal.(string)
	if token == "" {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "authentication required")
		return
	}

	claims, err := utils.ParseToken(token)
	if err != nil {
		utils.Error(ctx, http.StatusUnauthorized, 40105, "invalid token")
		return
	}

	expiresAt := time.Now().Add(time.Hour)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	utils.BlacklistToken(token, expiresAt)

	utils.Success(ctx, gin.H{"message": "logged out"})
}

// Me returns the authenticated user's public profile.
func (a *AccountController) Me(ctx *gin.Context) {
	actor := currentActor(ctx)
	if actor == nil {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "authentication required")
		return
	}

	user, err := a.users.FindByID(actor.ID)
	if err != nil {
		renderServiceError(ctx, err)
		return
	}

	utils.Success(ctx, gin.H{"user": publicUser(user)})
}

// publicUser strips everything but the public profile fields.
func publicUser(user *models.User) gin.H {
	return gin.H{
		"id":         user.ID,
		"username":   user.Username,
		"created_at": user.CreatedAt,
	}
}
