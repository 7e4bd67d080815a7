// Package service 包含了应用的业务逻辑层。
package service

import (
	"context"
	"fmt"

	"mind-mend-go/pkg/identity"
	"mind-mend-go/pkg/token"
)

// AuthService 接口定义了所有与认证相关的业务操作。
// 账号的创建与查找完全委托给身份提供商，本层只负责签发自己的凭证。
type AuthService interface {
	Signup(ctx context.Context, email, password string) (*AuthResult, error)
	Signin(ctx context.Context, email string) (*AuthResult, error)
}

// AuthResult 聚合了提供商返回的用户记录和本服务签发的 token。
type AuthResult struct {
	User  *identity.User
	Token string
}

type authService struct {
	provider   identity.Provider
	jwtManager *token.JWTManager
}

// NewAuthService 创建一个新的 AuthService 实例。
func NewAuthService(provider identity.Provider, jwtManager *token.JWTManager) AuthService {
	return &authService{
		provider:   provider,
		jwtManager: jwtManager,
	}
}

// Signup 在身份提供商处创建账号，然后签发 7 天有效期的凭证。
func (s *authService) Signup(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.provider.CreateUser(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return s.issueToken(user)
}

// Signin 按邮箱在身份提供商处查找账号，然后签发凭证。
func (s *authService) Signin(ctx context.Context, email string) (*AuthResult, error) {
	user, err := s.provider.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return s.issueToken(user)
}

func (s *authService) issueToken(user *identity.User) (*AuthResult, error) {
	tokenString, err := s.jwtManager.GenerateToken(user.UID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("签发 token 失败: %w", err)
	}
	return &AuthResult{User: user, Token: tokenString}, nil
}
