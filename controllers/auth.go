package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"NeuraFlow/middleware"
	"NeuraFlow/models"
	"NeuraFlow/pkg/logger"
	tokenstore "NeuraFlow/pkg/token"
	utils "NeuraFlow/pkg/utills"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type AuthController struct {
	db           *gorm.DB
	issuer       *tokenstore.Issuer
	secureCookie bool
	logger       *zap.Logger
}

func NewAuthController(db *gorm.DB, issuer *tokenstore.Issuer, secureCookie bool, log *zap.Logger) *AuthController {
	return &AuthController{db: db, issuer: issuer, secureCookie: secureCookie, logger: logger.OrNop(log)}
}

// Register handler
func (ctrl *AuthController) Register(c *gin.Context) {
	var body struct {
		Email    string `json:"email"`
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid request"})
		return
	}

	email := utils.NormalizeEmail(body.Email)
	username := strings.TrimSpace(body.Username)
	if email == "" || username == "" || body.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Email, username and password are required"})
		return
	}
	if !utils.ValidPassword(body.Password) {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Password must be at least 8 characters and contain a letter and a number"})
		return
	}

	var exists models.User
	if err := ctrl.db.Where("email = ? OR username = ?", email, username).First(&exists).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"msg": "Email or username already exists"})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		ctrl.logger.Error("user lookup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "db error"})
		return
	}

	user := models.User{Email: email, Username: username}
	if err := user.SetPassword(body.Password); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "failed to set password"})
		return
	}
	if err := ctrl.db.Create(&user).Error; err != nil {
		ctrl.logger.Error("user create failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "failed to create user"})
		return
	}

	ctrl.issue(c, http.StatusCreated, &user)
}

// Login handler
func (ctrl *AuthController) Login(c *gin.Context) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid request"})
		return
	}
	email := utils.NormalizeEmail(body.Email)
	if email == "" || body.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Email and password are required"})
		return
	}

	var user models.User
	if err := ctrl.db.Where("email = ?", email).First(&user).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "Invalid credentials"})
		return
	} else if err != nil {
		ctrl.logger.Error("user lookup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "db error"})
		return
	}
	if !user.CheckPassword(body.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "Invalid credentials"})
		return
	}

	ctrl.issue(c, http.StatusOK, &user)
}

// Logout handler
func (ctrl *AuthController) Logout(c *gin.Context) {
	if claims, ok := middleware.CurrentClaims(c); ok {
		ctrl.issuer.Revoke(claims)
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, "", -1, "/", "", ctrl.secureCookie, true)
	c.JSON(http.StatusOK, gin.H{"msg": "logged out"})
}

func (ctrl *AuthController) issue(c *gin.Context, status int, user *models.User) {
	tokenStr, claims, err := ctrl.issuer.Issue(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "failed to create token"})
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, tokenStr, int(time.Until(claims.ExpiresAt).Seconds()), "/", "", ctrl.secureCookie, true)
	c.JSON(status, gin.H{
		"_id":          user.ID,
		"username":     user.Username,
		"email":        user.Email,
		"access_token": tokenStr,
	})
}
