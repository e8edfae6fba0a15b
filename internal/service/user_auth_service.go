package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/palmapernia/tp-django/internal/cache"
	"github.com/palmapernia/tp-django/internal/config"
	"github.com/palmapernia/tp-django/internal/constants"
	"github.com/palmapernia/tp-django/internal/models"
	"github.com/palmapernia/tp-django/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// UserAuthService 用户认证服务
type UserAuthService struct {
	cfg      *config.Config
	userRepo repository.UserRepository
}

// NewUserAuthService 创建用户认证服务
func NewUserAuthService(cfg *config.Config, userRepo repository.UserRepository) *UserAuthService {
	return &UserAuthService{
		cfg:      cfg,
		userRepo: userRepo,
	}
}

// UserJWTClaims 用户 JWT 声明
type UserJWTClaims struct {
	UserID       uint   `json:"user_id"`
	Username     string `json:"username"`
	TokenVersion uint64 `json:"token_version"`
	jwt.RegisteredClaims
}

// RegisterInput 注册输入
type RegisterInput struct {
	Username  string
	Password  string
	Email     string
	FirstName string
	LastName  string
}

// UpdateProfileInput 资料更新输入，nil 表示不修改
type UpdateProfileInput struct {
	Username  *string
	Email     *string
	FirstName *string
	LastName  *string
}

// HashPassword 使用 bcrypt 加密密码
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// GenerateUserJWT 生成用户 JWT Token
func (s *UserAuthService) GenerateUserJWT(user *models.User, expireHours int) (string, time.Time, error) {
	resolvedHours := expireHours
	if resolvedHours <= 0 {
		resolvedHours = resolveUserJWTExpireHours(s.cfg.UserJWT)
	}
	now := time.Now()
	expiresAt := now.Add(time.Duration(resolvedHours) * time.Hour)
	claims := UserJWTClaims{
		UserID:       user.ID,
		Username:     user.Username,
		TokenVersion: user.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.UserJWT.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseUserJWT 解析用户 JWT Token
func (s *UserAuthService) ParseUserJWT(tokenString string) (*UserJWTClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &UserJWTClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.UserJWT.SecretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*UserJWTClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidToken
}

// ResolveAuthState 读取用户鉴权状态，缓存未命中时回源数据库
func (s *UserAuthService) ResolveAuthState(ctx context.Context, userID uint) (*cache.UserAuthState, error) {
	state, hit, err := cache.GetUserAuthState(ctx, userID)
	if err == nil && hit && state != nil {
		return state, nil
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	state = cache.BuildUserAuthState(user)
	_ = cache.SetUserAuthState(ctx, state)
	return state, nil
}

// Register 用户注册，成功后直接签发 Token
func (s *UserAuthService) Register(input RegisterInput) (*models.User, string, time.Time, error) {
	username, err := normalizeUsername(input.Username)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	email, err := normalizeOptionalEmail(input.Email)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if err := validatePassword(s.cfg.Security.PasswordPolicy, username, input.Password); err != nil {
		return nil, "", time.Time{}, err
	}

	exist, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if exist != nil {
		return nil, "", time.Time{}, ErrUsernameExists
	}

	hashedPassword, err := HashPassword(input.Password)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	now := time.Now()
	user := &models.User{
		Username:     username,
		Email:        email,
		FirstName:    truncateRunes(strings.TrimSpace(input.FirstName), constants.NameMaxLength),
		LastName:     truncateRunes(strings.TrimSpace(input.LastName), constants.NameMaxLength),
		PasswordHash: hashedPassword,
		Status:       constants.UserStatusActive,
		LastLoginAt:  &now,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, "", time.Time{}, err
	}

	token, expiresAt, err := s.GenerateUserJWT(user, 0)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	_ = cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user))
	return user, token, expiresAt, nil
}

// Login 用户登录
func (s *UserAuthService) Login(username, password string, rememberMe bool) (*models.User, string, time.Time, error) {
	normalized := strings.TrimSpace(username)
	if normalized == "" {
		return nil, "", time.Time{}, ErrInvalidCredential
	}
	user, err := s.userRepo.GetByUsername(normalized)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if user == nil {
		return nil, "", time.Time{}, ErrInvalidCredential
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", time.Time{}, ErrInvalidCredential
	}
	if strings.ToLower(user.Status) != constants.UserStatusActive {
		return nil, "", time.Time{}, ErrUserDisabled
	}

	expireHours := 0
	if rememberMe {
		expireHours = resolveRememberMeExpireHours(s.cfg.UserJWT)
	}
	token, expiresAt, err := s.GenerateUserJWT(user, expireHours)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := s.userRepo.Update(user); err != nil {
		return nil, "", time.Time{}, err
	}
	_ = cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user))
	return user, token, expiresAt, nil
}

// Refresh 为当前用户重新签发 Token
func (s *UserAuthService) Refresh(userID uint) (string, time.Time, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return "", time.Time{}, err
	}
	if strings.ToLower(user.Status) != constants.UserStatusActive {
		return "", time.Time{}, ErrUserDisabled
	}
	return s.GenerateUserJWT(user, 0)
}

// Logout 提升 Token 版本，使已签发的 Token 全部失效
func (s *UserAuthService) Logout(userID uint) error {
	if err := s.userRepo.BumpTokenVersion(userID); err != nil {
		return err
	}
	return s.refreshAuthState(userID)
}

// GetUserByID 获取用户
func (s *UserAuthService) GetUserByID(userID uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

// UpdateProfile 更新个人资料
func (s *UserAuthService) UpdateProfile(userID uint, input UpdateProfileInput) (*models.User, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	if input.Username != nil {
		username, err := normalizeUsername(*input.Username)
		if err != nil {
			return nil, err
		}
		if username != user.Username {
			exist, err := s.userRepo.GetByUsername(username)
			if err != nil {
				return nil, err
			}
			if exist != nil && exist.ID != user.ID {
				return nil, ErrUsernameExists
			}
			user.Username = username
		}
	}
	if input.Email != nil {
		email, err := normalizeOptionalEmail(*input.Email)
		if err != nil {
			return nil, err
		}
		user.Email = email
	}
	if input.FirstName != nil {
		user.FirstName = truncateRunes(strings.TrimSpace(*input.FirstName), constants.NameMaxLength)
	}
	if input.LastName != nil {
		user.LastName = truncateRunes(strings.TrimSpace(*input.LastName), constants.NameMaxLength)
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	_ = cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user))
	return user, nil
}

// ChangePassword 修改密码，两次输入须一致；成功后旧 Token 失效
func (s *UserAuthService) ChangePassword(userID uint, newPassword, confirmPassword string) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}
	if err := validatePasswordPair(s.cfg.Security.PasswordPolicy, user.Username, newPassword, confirmPassword); err != nil {
		return err
	}
	hashedPassword, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hashedPassword
	user.TokenVersion++
	if err := s.userRepo.Update(user); err != nil {
		return err
	}
	_ = cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user))
	return nil
}

func (s *UserAuthService) refreshAuthState(userID uint) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return cache.DelUserAuthState(context.Background(), userID)
	}
	return cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user))
}

func normalizeUsername(username string) (string, error) {
	trimmed := strings.TrimSpace(username)
	if trimmed == "" {
		return "", ErrUsernameRequired
	}
	if len([]rune(trimmed)) > constants.UsernameMaxLength {
		return "", ErrUsernameTooLong
	}
	return trimmed, nil
}

// normalizeOptionalEmail 邮箱可为空，非空时须合法
func normalizeOptionalEmail(email string) (string, error) {
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return "", nil
	}
	addr, err := mail.ParseAddress(trimmed)
	if err != nil || addr.Address != trimmed {
		return "", ErrInvalidEmail
	}
	return strings.ToLower(trimmed), nil
}

func resolveUserJWTExpireHours(cfg config.JWTConfig) int {
	if cfg.ExpireHours > 0 {
		return cfg.ExpireHours
	}
	return 24
}

func resolveRememberMeExpireHours(cfg config.JWTConfig) int {
	if cfg.RememberMeExpireHours > 0 {
		return cfg.RememberMeExpireHours
	}
	return resolveUserJWTExpireHours(cfg)
}

// IsTokenError 判断是否为 Token 解析类错误
func IsTokenError(err error) bool {
	return errors.Is(err, ErrInvalidToken) ||
		errors.Is(err, jwt.ErrTokenExpired) ||
		errors.Is(err, jwt.ErrTokenMalformed) ||
		errors.Is(err, jwt.ErrTokenSignatureInvalid) ||
		errors.Is(err, jwt.ErrTokenNotValidYet)
}
