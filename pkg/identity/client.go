// Package identity 提供了与身份提供商（Firebase Auth）交互的客户端。
// 凭证的创建与保管完全委托给提供商，本服务不存储任何密码。
package identity

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"mind-mend-go/internal/config"
)

// User 是身份提供商返回的用户记录的本地映射。
type User struct {
	UID           string `json:"uid"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"emailVerified"`
	Disabled      bool   `json:"disabled"`
}

// Provider 定义了身份提供商需要暴露的操作。
type Provider interface {
	// CreateUser 在提供商处创建一个新账号并返回其稳定的用户标识。
	CreateUser(ctx context.Context, email, password string) (*User, error)
	// GetUserByEmail 按邮箱查找已注册的账号。
	GetUserByEmail(ctx context.Context, email string) (*User, error)
}

type firebaseProvider struct {
	authClient *auth.Client
}

// NewProvider 根据配置中的服务账号凭证文件创建一个 Firebase Auth 客户端。
func NewProvider(cfg config.FirebaseConfig) (Provider, error) {
	ctx := context.Background()
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(cfg.CredentialsFile))
	if err != nil {
		return nil, fmt.Errorf("初始化 Firebase App 失败: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("初始化 Firebase Auth 客户端失败: %w", err)
	}

	return &firebaseProvider{authClient: authClient}, nil
}

func (p *firebaseProvider) CreateUser(ctx context.Context, email, password string) (*User, error) {
	params := (&auth.UserToCreate{}).Email(email).Password(password)
	record, err := p.authClient.CreateUser(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to create user at identity provider: %w", err)
	}
	return fromRecord(record), nil
}

func (p *firebaseProvider) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	record, err := p.authClient.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user at identity provider: %w", err)
	}
	return fromRecord(record), nil
}

func fromRecord(record *auth.UserRecord) *User {
	return &User{
		UID:           record.UID,
		Email:         record.Email,
		EmailVerified: record.EmailVerified,
		Disabled:      record.Disabled,
	}
}
