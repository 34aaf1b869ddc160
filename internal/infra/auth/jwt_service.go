package auth

import (
	"strconv"
	"time"

	"healthtrack/config"
	"healthtrack/internal/domain/entity"
	domainerrors "healthtrack/internal/domain/errors"
	"healthtrack/internal/domain/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
// Access and refresh tokens share one HMAC key and are told apart by the token_type claim.
type jwtService struct {
	method     *jwt.SigningMethodHMAC
	key        []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewJWTService is the constructor for jwtService.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.JWT.SigningKey == "" {
		return nil, errors.New("jwt signing key must be provided")
	}

	alg := cfg.JWT.Algorithm
	if alg == "" {
		alg = jwt.SigningMethodHS256.Alg()
	}
	method, ok := jwt.GetSigningMethod(alg).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, errors.Errorf("unsupported jwt algorithm: %s", alg)
	}

	accessTTL := cfg.JWT.AccessTTL
	if accessTTL <= 0 {
		accessTTL = time.Hour
	}
	refreshTTL := cfg.JWT.RefreshTTL
	if refreshTTL <= 0 {
		refreshTTL = 24 * time.Hour
	}

	return &jwtService{
		method:     method,
		key:        []byte(cfg.JWT.SigningKey),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}, nil
}

// IssueTokenPair creates a new access token and refresh token for a given user.
func (s *jwtService) IssueTokenPair(user *entity.User) (*service.TokenPair, error) {
	accessToken, err := s.sign(user.ID, user.Email, service.TokenTypeAccess, s.accessTTL)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.sign(user.ID, user.Email, service.TokenTypeRefresh, s.refreshTTL)
	if err != nil {
		return nil, err
	}

	return &service.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// IssueAccessToken creates a new access token carrying the identity of claims.
func (s *jwtService) IssueAccessToken(claims *service.Claims) (string, error) {
	return s.sign(claims.UserID, claims.Email, service.TokenTypeAccess, s.accessTTL)
}

// Verify parses tokenString and checks signature, algorithm, expiry and token type.
// The signature is checked before the expiry, so a token signed with another key
// is reported as invalid even when it has also expired.
func (s *jwtService) Verify(tokenString string, expectedType string) (*service.Claims, error) {
	claims := &service.Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(_ *jwt.Token) (any, error) {
			return s.key, nil
		},
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, mapJWTError(err)
	}

	if claims.TokenType != expectedType {
		return nil, domainerrors.ErrInvalidToken.WrapMessage("unexpected token type " + claims.TokenType)
	}

	return claims, nil
}

// AccessTTL returns the configured lifetime of access tokens.
func (s *jwtService) AccessTTL() time.Duration {
	return s.accessTTL
}

// RefreshTTL returns the configured lifetime of refresh tokens.
func (s *jwtService) RefreshTTL() time.Duration {
	return s.refreshTTL
}

func (s *jwtService) sign(userID uint64, email, tokenType string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := &service.Claims{
		UserID:    userID,
		Email:     email,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatUint(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(s.method, claims).SignedString(s.key)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign token")
	}

	return signed, nil
}

func mapJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return domainerrors.ErrMalformedToken.WrapMessage(err.Error())
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return domainerrors.ErrInvalidToken.WrapMessage(err.Error())
	case errors.Is(err, jwt.ErrTokenExpired):
		return domainerrors.ErrTokenExpired.WrapMessage(err.Error())
	default:
		return domainerrors.ErrInvalidToken.WrapMessage(err.Error())
	}
}
