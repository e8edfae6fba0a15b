package service

import (
	"errors"
	"testing"

	"github.com/palmapernia/tp-django/internal/config"
)

func TestValidatePasswordChecksInOrder(t *testing.T) {
	policy := config.PasswordPolicyConfig{
		MinLength:             8,
		RequireNumber:         true,
		RejectNumeric:         true,
		RejectUsernameSimilar: true,
	}
	cases := []struct {
		username string
		password string
		key      string
	}{
		{username: "dave", password: "abc1", key: "error.password_min_length"},
		{username: "margaret", password: "Margaret2024", key: "error.password_too_similar"},
		{username: "longusername", password: "username", key: "error.password_too_similar"},
		{username: "dave", password: "12345678", key: "error.password_entirely_numeric"},
		{username: "dave", password: "no-digits-here", key: "error.password_require_number"},
		{username: "dave", password: "tulip-garden-7", key: ""},
		{username: "al", password: "al-in-garden-7", key: ""},
	}
	for _, tc := range cases {
		err := validatePassword(policy, tc.username, tc.password)
		if tc.key == "" {
			if err != nil {
				t.Fatalf("%s/%s want ok got %v", tc.username, tc.password, err)
			}
			continue
		}
		if !errors.Is(err, ErrWeakPassword) {
			t.Fatalf("%s/%s want ErrWeakPassword got %v", tc.username, tc.password, err)
		}
		if got := err.(passwordPolicyError).Key(); got != tc.key {
			t.Fatalf("%s/%s key want %s got %s", tc.username, tc.password, tc.key, got)
		}
	}
}

func TestValidatePasswordDisabledChecks(t *testing.T) {
	if err := validatePassword(config.PasswordPolicyConfig{}, "dave", "dave"); err != nil {
		t.Fatalf("empty policy should accept anything, got %v", err)
	}
	if err := validatePassword(config.PasswordPolicyConfig{RejectNumeric: true}, "", "20240101"); err == nil {
		t.Fatalf("numeric password should be rejected")
	}
	if err := validatePasswordPair(config.PasswordPolicyConfig{}, "dave", "a", "b"); !errors.Is(err, ErrPasswordMismatch) {
		t.Fatalf("mismatch want ErrPasswordMismatch got %v", err)
	}
}
