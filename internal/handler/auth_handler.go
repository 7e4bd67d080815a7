// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"mind-mend-go/internal/service"
	"mind-mend-go/pkg/log"
	"mind-mend-go/pkg/token"
)

// AuthHandler 负责处理所有与认证相关的 API 请求。
type AuthHandler struct {
	authService service.AuthService
	jwtManager  *token.JWTManager
}

// NewAuthHandler 创建一个新的 AuthHandler 实例。
func NewAuthHandler(authService service.AuthService, jwtManager *token.JWTManager) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		jwtManager:  jwtManager,
	}
}

// SignupRequest 定义了注册 API 的请求体结构。
type SignupRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Signup 处理用户注册请求：账号创建委托给身份提供商。
func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("Signup: Invalid request payload, error: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}

	result, err := h.authService.Signup(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		log.Errorf("Signup: failed for '%s', error: %v", req.Email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Sign-up failed"})
		return
	}

	h.setAuthCookies(c, result)
	log.Infof("User '%s' signed up successfully", req.Email)
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Sign-up successful",
		"user":     result.User,
		"customID": result.User.UID,
		"token":    result.Token,
	})
}

// SigninRequest 定义了登录 API 的请求体结构。
type SigninRequest struct {
	Email string `json:"email" binding:"required"`
}

// Signin 处理用户登录请求：按邮箱在身份提供商处查找账号。
func (h *AuthHandler) Signin(c *gin.Context) {
	var req SigninRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("Signin: Invalid request payload, error: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email is required"})
		return
	}

	result, err := h.authService.Signin(c.Request.Context(), req.Email)
	if err != nil {
		log.Errorf("Signin: failed for '%s', error: %v", req.Email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Sign-in failed"})
		return
	}

	h.setAuthCookies(c, result)
	log.Infof("User '%s' signed in successfully", req.Email)
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Sign-in success",
		"user":     result.User,
		"customID": result.User.UID,
		"token":    result.Token,
	})
}

// Check 返回当前凭证中解码出来的 claims。
// claims 已经由 AuthMiddleware 注入到上下文中。
func (h *AuthHandler) Check(c *gin.Context) {
	claims, exists := c.Get("claims")
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, claims)
}

// setAuthCookies 把凭证同时下发到 Cookie，服务同站客户端；
// 跨域客户端使用响应体中的 token 并存入 local storage。
func (h *AuthHandler) setAuthCookies(c *gin.Context, result *service.AuthResult) {
	maxAge := int(h.jwtManager.TokenDuration() / time.Second)
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie("jwt", result.Token, maxAge, "/", "", true, false)
	c.SetCookie("email", result.User.Email, maxAge, "/", "", true, false)
	c.SetCookie("uid", result.User.UID, maxAge, "/", "", true, false)
}
