package public

import (
	"errors"
	"net/http"
	"time"

	"github.com/palmapernia/tp-django/internal/constants"
	"github.com/palmapernia/tp-django/internal/http/response"
	"github.com/palmapernia/tp-django/internal/models"
	"github.com/palmapernia/tp-django/internal/service"

	"github.com/gin-gonic/gin"
)

// UserRegisterRequest 注册请求
type UserRegisterRequest struct {
	Username  string `json:"username" binding:"required"`
	Password  string `json:"password" binding:"required"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// UserLoginRequest 登录请求
type UserLoginRequest struct {
	Username   string `json:"username" binding:"required"`
	Password   string `json:"password" binding:"required"`
	RememberMe bool   `json:"remember_me"`
}

// UpdateProfileRequest 更新资料请求
type UpdateProfileRequest struct {
	Username  *string `json:"username"`
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	NewPassword     string `json:"new_password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

// UserRegister 用户注册
func (h *Handler) UserRegister(c *gin.Context) {
	var req UserRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	user, token, expiresAt, err := h.UserAuthService.Register(service.RegisterInput{
		Username:  req.Username,
		Password:  req.Password,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		respondProfileError(c, err, "error.register_failed")
		return
	}

	h.setAccessTokenCookie(c, token, expiresAt)
	response.Success(c, gin.H{
		"user":       userProfile(user),
		"token":      token,
		"expires_at": expiresAt.Format(time.RFC3339),
	})
}

// UserLogin 用户登录
func (h *Handler) UserLogin(c *gin.Context) {
	var req UserLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	user, token, expiresAt, err := h.UserAuthService.Login(req.Username, req.Password, req.RememberMe)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredential):
			h.recordUserLogin(c, req.Username, 0, constants.LoginLogStatusFailed, constants.LoginLogFailReasonInvalidCredential)
			respondError(c, response.CodeUnauthorized, "error.login_invalid", nil)
		case errors.Is(err, service.ErrUserDisabled):
			h.recordUserLogin(c, req.Username, 0, constants.LoginLogStatusFailed, constants.LoginLogFailReasonUserDisabled)
			respondError(c, response.CodeUnauthorized, "error.user_disabled", nil)
		default:
			h.recordUserLogin(c, req.Username, 0, constants.LoginLogStatusFailed, constants.LoginLogFailReasonInternalError)
			respondError(c, response.CodeInternal, "error.login_failed", err)
		}
		return
	}

	h.recordUserLogin(c, user.Username, user.ID, constants.LoginLogStatusSuccess, "")
	h.setAccessTokenCookie(c, token, expiresAt)
	response.Success(c, gin.H{
		"user":       userProfile(user),
		"token":      token,
		"expires_at": expiresAt.Format(time.RFC3339),
	})
}

// UserRefreshToken 刷新 Token
func (h *Handler) UserRefreshToken(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	token, expiresAt, err := h.UserAuthService.Refresh(userID)
	if err != nil {
		if errors.Is(err, service.ErrUserDisabled) {
			respondError(c, response.CodeUnauthorized, "error.user_disabled", nil)
			return
		}
		respondProfileError(c, err, "error.token_refresh_failed")
		return
	}
	h.setAccessTokenCookie(c, token, expiresAt)
	response.Success(c, gin.H{
		"token":      token,
		"expires_at": expiresAt.Format(time.RFC3339),
	})
}

// UserLogout 退出登录，使已签发的 Token 失效
func (h *Handler) UserLogout(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	if err := h.UserAuthService.Logout(userID); err != nil {
		respondError(c, response.CodeInternal, "error.logout_failed", err)
		return
	}
	h.clearAccessTokenCookie(c)
	response.Success(c, gin.H{"logged_out": true})
}

// GetCurrentUser 获取当前用户信息
func (h *Handler) GetCurrentUser(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	user, err := h.UserAuthService.GetUserByID(userID)
	if err != nil {
		respondProfileError(c, err, "error.user_fetch_failed")
		return
	}
	response.Success(c, userProfile(user))
}

// UpdateUserProfile 更新个人资料
func (h *Handler) UpdateUserProfile(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	user, err := h.UserAuthService.UpdateProfile(userID, service.UpdateProfileInput{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		respondProfileError(c, err, "error.profile_update_failed")
		return
	}
	response.Success(c, userProfile(user))
}

// ChangeUserPassword 修改密码
func (h *Handler) ChangeUserPassword(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	if err := h.UserAuthService.ChangePassword(userID, req.NewPassword, req.ConfirmPassword); err != nil {
		respondProfileError(c, err, "error.password_change_failed")
		return
	}
	h.clearAccessTokenCookie(c)
	response.Success(c, gin.H{"changed": true})
}

func (h *Handler) recordUserLogin(c *gin.Context, username string, userID uint, status, failReason string) {
	outcome := status
	if failReason != "" {
		outcome = failReason
	}
	c.Set(constants.ContextKeyLoginOutcome, outcome)
	if h == nil || h.UserLoginLogService == nil {
		return
	}
	_ = h.UserLoginLogService.Record(service.RecordUserLoginInput{
		UserID:     userID,
		Username:   username,
		Status:     status,
		FailReason: failReason,
		ClientIP:   c.ClientIP(),
		UserAgent:  c.GetHeader("User-Agent"),
		RequestID:  currentRequestID(c),
	})
}

// setAccessTokenCookie 页面端通过 Cookie 携带 Token
func (h *Handler) setAccessTokenCookie(c *gin.Context, token string, expiresAt time.Time) {
	maxAge := int(time.Until(expiresAt).Seconds())
	if maxAge <= 0 {
		return
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     constants.AccessTokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.Config != nil && h.Config.Tracking.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearAccessTokenCookie(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     constants.AccessTokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func userProfile(user *models.User) gin.H {
	return gin.H{
		"id":            user.ID,
		"username":      user.Username,
		"email":         user.Email,
		"first_name":    user.FirstName,
		"last_name":     user.LastName,
		"full_name":     user.FullName(),
		"is_staff":      user.IsStaff,
		"is_superuser":  user.IsSuperuser,
		"last_login_at": user.LastLoginAt,
		"date_joined":   user.CreatedAt,
	}
}
