package http

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/specsmith/specsmith/backend/internal/auth/service"
	"github.com/specsmith/specsmith/backend/internal/common/config"
	commonhttp "github.com/specsmith/specsmith/backend/internal/common/http"
	"github.com/specsmith/specsmith/backend/internal/common/logger"
	userdomain "github.com/specsmith/specsmith/backend/internal/user/domain"
)

type signupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	Success bool                 `json:"success"`
	User    userdomain.Sanitized `json:"user"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type Handler struct {
	auth     *service.AuthService
	cfg      config.AuthConfig
	log      *logger.Logger
	errs     *commonhttp.ErrorHandler
	validate *validator.Validate
}

func NewHandler(auth *service.AuthService, cfg config.AuthConfig, log *logger.Logger) http.Handler {
	h := &Handler{
		auth:     auth,
		cfg:      cfg,
		log:      log,
		errs:     commonhttp.NewErrorHandler(log),
		validate: validator.New(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", commonhttp.HealthHandler(log))
	mux.HandleFunc("/api/auth/signup", h.signup)
	mux.HandleFunc("/api/auth/login", h.login)
	mux.HandleFunc("/api/auth/logout", h.logout)
	mux.HandleFunc("/api/auth/me", h.whoami)
	return mux
}

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		commonhttp.WriteErrorEnvelope(w, http.StatusMethodNotAllowed, commonhttp.CodeMethodNotAllowed, "method not allowed", "")
		return
	}

	var req signupRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.Warnf("signup failed: invalid json: %v", err)
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeInvalidJSON, "invalid json", "")
		return
	}

	if err := h.validate.Struct(&req); err != nil {
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeMissingFields, "missing required fields", "")
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	result, err := h.auth.Signup(ctx, service.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.errs.HandleError(w, r, err)
		return
	}

	NewSessionCookies(w, r, h.secureCookies(r)).Set(result.Token)
	commonhttp.WriteJSON(w, http.StatusCreated, userResponse{Success: true, User: result.User.Sanitized()})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		commonhttp.WriteErrorEnvelope(w, http.StatusMethodNotAllowed, commonhttp.CodeMethodNotAllowed, "method not allowed", "")
		return
	}

	var req loginRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.Warnf("login failed: invalid json: %v", err)
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeInvalidJSON, "invalid json", "")
		return
	}

	if err := h.validate.Struct(&req); err != nil {
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeMissingFields, "missing required fields", "")
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	result, err := h.auth.Login(ctx, service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.errs.HandleError(w, r, err)
		return
	}

	NewSessionCookies(w, r, h.secureCookies(r)).Set(result.Token)
	commonhttp.WriteJSON(w, http.StatusOK, userResponse{Success: true, User: result.User.Sanitized()})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		commonhttp.WriteErrorEnvelope(w, http.StatusMethodNotAllowed, commonhttp.CodeMethodNotAllowed, "method not allowed", "")
		return
	}

	NewSessionCookies(w, r, h.secureCookies(r)).Clear()
	commonhttp.WriteJSON(w, http.StatusOK, messageResponse{Success: true, Message: "logged out successfully"})
}

func (h *Handler) whoami(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		commonhttp.WriteErrorEnvelope(w, http.StatusMethodNotAllowed, commonhttp.CodeMethodNotAllowed, "method not allowed", "")
		return
	}

	token, ok := NewSessionCookies(w, r, h.secureCookies(r)).Get()
	if !ok {
		commonhttp.WriteErrorEnvelope(w, http.StatusUnauthorized, commonhttp.CodeNotAuthenticated, "not authenticated", "")
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	user, err := h.auth.WhoAmI(ctx, token)
	if err != nil {
		h.errs.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, userResponse{Success: true, User: user.Sanitized()})
}

func (h *Handler) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), h.cfg.RequestTimeout)
}

func (h *Handler) secureCookies(r *http.Request) bool {
	return h.cfg.IsProduction() || r.TLS != nil
}
