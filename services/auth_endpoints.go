package services

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/johnnycuong/mps-recruitment/errs"
)

type AuthEndpoints struct {
	authService *AuthService
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name" validate:"required,max=100"`
	Phone    string `json:"phone" validate:"max=20"`
	Role     string `json:"role"`
}

func NewAuthEndpoints(authService *AuthService) *AuthEndpoints {
	return &AuthEndpoints{
		authService: authService,
	}
}

func (e *AuthEndpoints) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", e.LoginHandler)
		r.Post("/register", e.RegisterHandler)

		r.Group(func(r chi.Router) {
			r.Use(e.authService.Middleware)
			r.Get("/me", e.MeHandler)
		})
	})
}

func (e *AuthEndpoints) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, err)
		return
	}

	authResponse, err := e.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		slog.Warn("Login failed", "error", err, "email", req.Email)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse)
}

func (e *AuthEndpoints) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, err)
		return
	}

	authResponse, err := e.authService.Register(r.Context(), RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Phone:    req.Phone,
		Role:     req.Role,
	})
	if err != nil {
		slog.Error("Registration failed", "error", err, "email", req.Email)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, authResponse)
}

func (e *AuthEndpoints) MeHandler(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		writeError(w, errs.New(errs.CodeUnauthorized, "not authenticated"))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}
