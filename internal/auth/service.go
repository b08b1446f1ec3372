package auth

import (
	"context"
	"errors"
	"time"

	"github.com/cj-tomlin/skate-project/internal/apperr"
	"github.com/cj-tomlin/skate-project/internal/db"
	"github.com/cj-tomlin/skate-project/internal/shared/validate"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultAccessTokenTTL = 30 * time.Minute
	refreshTokenTTL       = 7 * 24 * time.Hour
)

const userFields = `id, email, username, password_hash, role, is_active, bio, avatar_url, last_login_at, deleted_at, created_at, updated_at`

type Service struct {
	secret    []byte
	accessTTL time.Duration
	db        db.Querier
}

func NewService(secret string, accessTTL time.Duration, q db.Querier) *Service {
	if accessTTL <= 0 {
		accessTTL = defaultAccessTokenTTL
	}
	return &Service{
		secret:    []byte(secret),
		accessTTL: accessTTL,
		db:        q,
	}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (User, TokenResponse, error) {
	if err := validate.Struct(req); err != nil {
		return User{}, TokenResponse{}, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, TokenResponse{}, err
	}

	user := User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: string(hash),
		Role:         RoleUser,
		IsActive:     true,
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO users (id, email, username, password_hash, role, is_active)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING created_at, updated_at
	`, user.ID, user.Email, user.Username, user.PasswordHash, string(user.Role), user.IsActive)
	if err := row.Scan(&user.CreatedAt, &user.UpdatedAt); err != nil {
		return User{}, TokenResponse{}, db.Translate(err, "user")
	}

	tokens, err := s.GenerateTokens(ctx, user)
	if err != nil {
		return User{}, TokenResponse{}, err
	}
	return user, tokens, nil
}

// Login accepts either the email or the username of a live account.
func (s *Service) Login(ctx context.Context, req LoginRequest) (User, TokenResponse, error) {
	user, err := s.userBy(ctx, `(email = $1 OR username = $1) AND deleted_at IS NULL`, req.identifier())
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return User{}, TokenResponse{}, apperr.Unauthenticated("invalid credentials")
		}
		return User{}, TokenResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return User{}, TokenResponse{}, apperr.Unauthenticated("invalid credentials")
	}
	if !user.IsActive {
		return User{}, TokenResponse{}, apperr.Unauthenticated("account disabled")
	}

	now := time.Now()
	if _, err := s.db.Exec(ctx, `UPDATE users SET last_login_at = $2 WHERE id = $1`, user.ID, now); err != nil {
		return User{}, TokenResponse{}, db.Translate(err, "user")
	}
	user.LastLoginAt = &now

	tokens, err := s.GenerateTokens(ctx, user)
	if err != nil {
		return User{}, TokenResponse{}, err
	}
	return user, tokens, nil
}

// Refresh exchanges a stored refresh token for a new token pair carrying the user's current role.
func (s *Service) Refresh(ctx context.Context, token string) (TokenResponse, error) {
	userID, err := s.ValidateRefreshToken(ctx, token)
	if err != nil {
		return TokenResponse{}, err
	}
	user, err := s.UserByID(ctx, userID)
	if errors.Is(err, apperr.ErrNotFound) {
		return TokenResponse{}, apperr.Unauthenticated("refresh token invalid")
	}
	if err != nil {
		return TokenResponse{}, err
	}
	if !user.IsActive {
		return TokenResponse{}, apperr.Unauthenticated("account disabled")
	}
	return s.GenerateTokens(ctx, user)
}

func (s *Service) GenerateTokens(ctx context.Context, user User) (TokenResponse, error) {
	access, err := s.signToken(user.ID, user.Role, TokenAccess, s.accessTTL)
	if err != nil {
		return TokenResponse{}, err
	}

	refresh, err := s.signToken(user.ID, user.Role, TokenRefresh, refreshTokenTTL)
	if err != nil {
		return TokenResponse{}, err
	}

	if err := s.saveRefreshToken(ctx, refresh, user.ID, refreshTokenTTL); err != nil {
		return TokenResponse{}, err
	}

	return TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.accessTTL.Seconds()),
	}, nil
}

func (s *Service) ValidateRefreshToken(ctx context.Context, token string) (string, error) {
	claims, err := s.parseToken(token, TokenRefresh)
	if err != nil {
		return "", apperr.Unauthenticated("refresh token invalid")
	}

	userID, expiresAt, err := s.lookupRefreshToken(ctx, token)
	if err != nil || userID != claims.UserID || time.Now().After(expiresAt) {
		return "", apperr.Unauthenticated("refresh token invalid")
	}
	return claims.UserID, nil
}

// ValidateAccessToken checks the signature, expiry and type of an access
// token and returns the actor it was issued to. It does not consult the database.
func (s *Service) ValidateAccessToken(token string) (Actor, error) {
	claims, err := s.parseToken(token, TokenAccess)
	if err != nil {
		return Actor{}, apperr.Unauthenticated("token invalid")
	}
	return Actor{UserID: claims.UserID, Role: claims.Role}, nil
}

// Authenticate validates an access token and resolves the account behind it.
// Deactivated and deleted accounts are rejected, and the role comes from the
// database rather than the token.
func (s *Service) Authenticate(ctx context.Context, token string) (Actor, error) {
	actor, err := s.ValidateAccessToken(token)
	if err != nil {
		return Actor{}, err
	}

	var role string
	var active, live bool
	err = s.db.QueryRow(ctx, `
		SELECT role, is_active, deleted_at IS NULL
		FROM users WHERE id = $1
	`, actor.UserID).Scan(&role, &active, &live)
	if errors.Is(err, pgx.ErrNoRows) {
		return Actor{}, apperr.Unauthenticated("token invalid")
	}
	if err != nil {
		return Actor{}, db.Translate(err, "user")
	}
	if !active || !live {
		return Actor{}, apperr.Unauthenticated("account disabled")
	}
	actor.Role = Role(role)
	return actor, nil
}

// UserByID returns a live (not soft-deleted) user.
func (s *Service) UserByID(ctx context.Context, id string) (User, error) {
	return s.userBy(ctx, `id = $1 AND deleted_at IS NULL`, id)
}

// SetRole changes a user's role. Authenticate reads the role per request, so
// the change applies to tokens already issued.
func (s *Service) SetRole(ctx context.Context, actor Actor, userID string, role Role) (User, error) {
	if err := RequireRole(actor, RoleAdmin); err != nil {
		return User{}, err
	}
	if !role.Valid() {
		return User{}, apperr.Validation("role must be one of: user moderator admin")
	}

	user, err := s.UserByID(ctx, userID)
	if err != nil {
		return User{}, err
	}
	user.Role = role
	row := s.db.QueryRow(ctx, `
		UPDATE users SET role=$2, updated_at=now()
		WHERE id=$1
		RETURNING updated_at
	`, user.ID, string(role))
	if err := row.Scan(&user.UpdatedAt); err != nil {
		return User{}, db.Translate(err, "user")
	}
	return user, nil
}

func (s *Service) userBy(ctx context.Context, where string, arg any) (User, error) {
	row := s.db.QueryRow(ctx, `SELECT `+userFields+` FROM users WHERE `+where, arg)
	user, err := scanUser(row)
	if err != nil {
		return User{}, db.Translate(err, "user")
	}
	return user, nil
}

func scanUser(row pgx.Row) (User, error) {
	var user User
	var role string
	err := row.Scan(&user.ID, &user.Email, &user.Username, &user.PasswordHash, &role, &user.IsActive,
		&user.Bio, &user.AvatarURL, &user.LastLoginAt, &user.DeletedAt, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return User{}, err
	}
	user.Role = Role(role)
	return user, nil
}

func (s *Service) signToken(userID string, role Role, typ TokenType, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Role:   role,
		Type:   typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *Service) parseToken(token string, typ TokenType) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(_ *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.UserID == "" {
		return nil, errors.New("token invalid")
	}
	if claims.Type != typ {
		return nil, errors.New("unexpected token type")
	}
	return claims, nil
}

func (s *Service) saveRefreshToken(ctx context.Context, token, userID string, ttl time.Duration) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO refresh_tokens (id, user_id, token, expires_at)
		VALUES ($1,$2,$3,$4)
	`, uuid.NewString(), userID, token, time.Now().Add(ttl))
	return db.Translate(err, "refresh token")
}

func (s *Service) lookupRefreshToken(ctx context.Context, token string) (string, time.Time, error) {
	row := s.db.QueryRow(ctx, `
		SELECT user_id, expires_at
		FROM refresh_tokens
		WHERE token = $1 AND revoked_at IS NULL
	`, token)
	var userID string
	var expiresAt time.Time
	if err := row.Scan(&userID, &expiresAt); err != nil {
		return "", time.Time{}, err
	}
	return userID, expiresAt, nil
}

func revokeRefreshTokens(ctx context.Context, q db.Querier, userID string) error {
	_, err := q.Exec(ctx, `
		UPDATE refresh_tokens SET revoked_at = now()
		WHERE user_id = $1 AND revoked_at IS NULL
	`, userID)
	return db.Translate(err, "refresh token")
}
