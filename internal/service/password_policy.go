package service

import (
	"strings"
	"unicode"

	"github.com/palmapernia/tp-django/internal/config"
)

// passwordPolicyError 携带文案 key 与参数，errors.Is 视为 ErrWeakPassword
type passwordPolicyError struct {
	key  string
	args []interface{}
}

func (e passwordPolicyError) Error() string       { return e.key }
func (e passwordPolicyError) Is(target error) bool { return target == ErrWeakPassword }
func (e passwordPolicyError) Key() string          { return e.key }
func (e passwordPolicyError) Args() []interface{}  { return e.args }

func weakPassword(key string, args ...interface{}) error {
	return passwordPolicyError{key: key, args: args}
}

// passwordCheck 单项密码校验，username 可能为空
type passwordCheck func(policy config.PasswordPolicyConfig, username, password string) error

// 按顺序校验，返回第一条失败
var passwordChecks = []passwordCheck{
	checkPasswordLength,
	checkPasswordSimilarity,
	checkPasswordNumeric,
	checkPasswordClasses,
}

func validatePassword(policy config.PasswordPolicyConfig, username, password string) error {
	for _, check := range passwordChecks {
		if err := check(policy, username, password); err != nil {
			return err
		}
	}
	return nil
}

// validatePasswordPair 两次输入一致后再走密码策略
func validatePasswordPair(policy config.PasswordPolicyConfig, username, password, confirm string) error {
	if password != confirm {
		return ErrPasswordMismatch
	}
	return validatePassword(policy, username, password)
}

func checkPasswordLength(policy config.PasswordPolicyConfig, _, password string) error {
	if policy.MinLength > 0 && len([]rune(password)) < policy.MinLength {
		return weakPassword("error.password_min_length", policy.MinLength)
	}
	return nil
}

// checkPasswordSimilarity 密码与用户名互相包含即拒绝，过短的用户名不参与比较
func checkPasswordSimilarity(policy config.PasswordPolicyConfig, username, password string) error {
	if !policy.RejectUsernameSimilar {
		return nil
	}
	name := strings.ToLower(strings.TrimSpace(username))
	if len([]rune(name)) < 3 {
		return nil
	}
	lowered := strings.ToLower(password)
	if strings.Contains(lowered, name) || strings.Contains(name, lowered) {
		return weakPassword("error.password_too_similar")
	}
	return nil
}

func checkPasswordNumeric(policy config.PasswordPolicyConfig, _, password string) error {
	if !policy.RejectNumeric || password == "" {
		return nil
	}
	for _, r := range password {
		if !unicode.IsDigit(r) {
			return nil
		}
	}
	return weakPassword("error.password_entirely_numeric")
}

func checkPasswordClasses(policy config.PasswordPolicyConfig, _, password string) error {
	var hasUpper, hasLower, hasNumber, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasNumber = true
		default:
			hasSpecial = true
		}
	}
	switch {
	case policy.RequireUpper && !hasUpper:
		return weakPassword("error.password_require_upper")
	case policy.RequireLower && !hasLower:
		return weakPassword("error.password_require_lower")
	case policy.RequireNumber && !hasNumber:
		return weakPassword("error.password_require_number")
	case policy.RequireSpecial && !hasSpecial:
		return weakPassword("error.password_require_special")
	}
	return nil
}
