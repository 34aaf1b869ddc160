// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"fmt"
	"strings"
	"unicode"

	"healthtrack/config"
	domainerrors "healthtrack/internal/domain/errors"
	"healthtrack/internal/domain/service"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt ignores everything after the 72nd byte, longer input is rejected up front.
const maxBcryptPasswordBytes = 72

// bcryptHasher is a concrete implementation of the PasswordHasher interface using bcrypt.
type bcryptHasher struct {
	cost  int
	rules *config.PasswordStrengthConfig
}

// NewBcryptHasher is the constructor for bcryptHasher.
// Cost comes from auth.bcryptCost and strength rules from passwordStrength; both are optional.
func NewBcryptHasher(cfg *config.Config) service.PasswordHasher {
	cost := bcrypt.DefaultCost
	var rules *config.PasswordStrengthConfig
	if cfg != nil {
		if cfg.Auth != nil && cfg.Auth.BcryptCost > 0 {
			cost = cfg.Auth.BcryptCost
		}
		rules = cfg.PasswordStrength
	}

	return NewBcryptHasherWithCost(cost, rules)
}

// NewBcryptHasherWithCost builds a hasher with an explicit cost, clamped to the range bcrypt accepts.
func NewBcryptHasherWithCost(cost int, rules *config.PasswordStrengthConfig) service.PasswordHasher {
	if cost < bcrypt.MinCost {
		cost = bcrypt.MinCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}

	return &bcryptHasher{cost: cost, rules: rules}
}

// Hash generates a salted hash from a plaintext password using bcrypt.
func (h *bcryptHasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", domainerrors.ErrPasswordHashFailed.WrapMessage(err.Error())
	}

	return string(bytes), nil
}

// Check compares a plaintext password with a bcrypt hash.
func (h *bcryptHasher) Check(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ValidatePasswordStrength applies the configured rules. Without rules only
// emptiness and the bcrypt length limit are checked.
func (h *bcryptHasher) ValidatePasswordStrength(password string) error {
	if password == "" {
		return domainerrors.ErrPasswordStrength.WithDetails("password must not be empty")
	}
	if len(password) > maxBcryptPasswordBytes {
		return domainerrors.ErrPasswordStrength.WithDetails(fmt.Sprintf("password must be at most %d bytes long", maxBcryptPasswordBytes))
	}
	if h.rules == nil {
		return nil
	}

	var problems []string
	length := len([]rune(password))
	if h.rules.MinLength > 0 && length < h.rules.MinLength {
		problems = append(problems, fmt.Sprintf("must be at least %d characters long", h.rules.MinLength))
	}
	if h.rules.MaxLength > 0 && length > h.rules.MaxLength {
		problems = append(problems, fmt.Sprintf("must be at most %d characters long", h.rules.MaxLength))
	}
	if h.rules.RequireUppercase && !h.hasUppercase(password) {
		problems = append(problems, "must contain at least one uppercase letter")
	}
	if h.rules.RequireLowercase && !h.hasLowercase(password) {
		problems = append(problems, "must contain at least one lowercase letter")
	}
	if h.rules.RequireNumbers && !h.hasNumbers(password) {
		problems = append(problems, "must contain at least one number")
	}
	if h.rules.RequireSpecial && !h.hasSpecialChars(password) {
		problems = append(problems, "must contain at least one special character")
	}

	if len(problems) > 0 {
		return domainerrors.ErrPasswordStrength.WithDetails("password " + strings.Join(problems, ", "))
	}

	return nil
}

func (h *bcryptHasher) hasUppercase(s string) bool {
	return strings.IndexFunc(s, unicode.IsUpper) >= 0
}

func (h *bcryptHasher) hasLowercase(s string) bool {
	return strings.IndexFunc(s, unicode.IsLower) >= 0
}

func (h *bcryptHasher) hasNumbers(s string) bool {
	return strings.IndexFunc(s, unicode.IsDigit) >= 0
}

func (h *bcryptHasher) hasSpecialChars(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSymbol(r)
	}) >= 0
}
