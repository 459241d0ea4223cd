package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/johnnycuong/mps-recruitment/errs"
	"github.com/johnnycuong/mps-recruitment/models"
	"github.com/johnnycuong/mps-recruitment/repository"
)

type contextKey string

const userContextKey contextKey = "user"

type AuthService struct {
	store        repository.Store
	jwtSecret    []byte
	accessExpiry time.Duration
	now          func() time.Time
}

type AccessClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type AuthResponse struct {
	User        *models.User `json:"user"`
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int          `json:"expires_in"`
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
	FullName string
	Phone    string
	Role     string
}

func NewAuthService(store repository.Store, jwtSecret string, accessExpiry time.Duration) *AuthService {
	if accessExpiry <= 0 {
		accessExpiry = 24 * time.Hour
	}
	return &AuthService{
		store:        store,
		jwtSecret:    []byte(jwtSecret),
		accessExpiry: accessExpiry,
		now:          time.Now,
	}
}

// Register creates a user account. Staff roles default to recruiter.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResponse, error) {
	role := models.RoleRecruiter
	if in.Role != "" {
		parsed, err := models.ParseUserRole(in.Role)
		if err != nil {
			return nil, err
		}
		role = parsed
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	if _, err := s.store.GetUserByEmail(ctx, email); err == nil {
		return nil, errs.Duplicate(fmt.Sprintf("a user with email %s already exists", email))
	} else if !errs.Is(err, errs.CodeNotFound) {
		return nil, err
	}
	if _, err := s.store.GetUserByUsername(ctx, in.Username); err == nil {
		return nil, errs.Duplicate(fmt.Sprintf("username %s is taken", in.Username))
	} else if !errs.Is(err, errs.CodeNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now().UTC()
	user := &models.User{
		ID:           uuid.New().String(),
		Username:     in.Username,
		Email:        email,
		PasswordHash: string(hashedPassword),
		FullName:     in.FullName,
		Phone:        in.Phone,
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	slog.Info("User registered", "user_id", user.ID, "email", user.Email, "role", user.Role)
	return s.respond(user)
}

// Login verifies credentials and issues an access token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	user, err := s.store.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errs.Is(err, errs.CodeNotFound) {
			return nil, errs.New(errs.CodeUnauthorized, "invalid credentials")
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, errs.New(errs.CodeUnauthorized, "account is disabled")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, errs.New(errs.CodeUnauthorized, "invalid credentials")
	}

	slog.Info("User logged in successfully", "user_id", user.ID, "email", user.Email)
	return s.respond(user)
}

func (s *AuthService) respond(user *models.User) (*AuthResponse, error) {
	token, err := s.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	return &AuthResponse{
		User:        user,
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(s.accessExpiry.Seconds()),
	}, nil
}

func (s *AuthService) GenerateAccessToken(user *models.User) (string, error) {
	now := s.now()
	claims := &AccessClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// VerifyAccessToken parses the token and loads the user it names.
func (s *AuthService) VerifyAccessToken(ctx context.Context, token string) (*models.User, error) {
	claims := &AccessClaims{}

	parsedToken, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !parsedToken.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	// The user must still exist and be active.
	user, err := s.store.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if !user.IsActive {
		return nil, fmt.Errorf("user is disabled")
	}
	return user, nil
}

// Middleware authenticates requests carrying an "Authorization: Bearer" header.
func (s *AuthService) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			writeError(w, errs.New(errs.CodeUnauthorized, "missing bearer token"))
			return
		}

		user, err := s.VerifyAccessToken(r.Context(), strings.TrimSpace(token))
		if err != nil {
			slog.Warn("Authentication failed", "error", err, "path", r.URL.Path)
			writeError(w, errs.New(errs.CodeUnauthorized, "invalid or expired token"))
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole rejects authenticated users whose role is not listed.
func RequireRole(roles ...models.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := UserFromContext(r.Context())
			if user == nil {
				writeError(w, errs.New(errs.CodeUnauthorized, "not authenticated"))
				return
			}
			for _, role := range roles {
				if user.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeError(w, errs.New(errs.CodePermissionDenied, fmt.Sprintf("role %s may not perform this action", user.Role)))
		})
	}
}

func UserFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(userContextKey).(*models.User)
	return user
}

// actorFromRequest returns the authenticated user as an Actor, or the system
// actor for unauthenticated calls.
func actorFromRequest(r *http.Request) Actor {
	user := UserFromContext(r.Context())
	if user == nil {
		return Actor{}
	}
	return ActorFromUser(user)
}
