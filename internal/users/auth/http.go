// Copyright (c) 2026 TaskHive. All rights reserved.

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taskhive/taskhive/internal/platform/middleware"
	requestutil "github.com/taskhive/taskhive/internal/platform/request"
	"github.com/taskhive/taskhive/internal/platform/respond"
	"github.com/taskhive/taskhive/internal/platform/validate"
)

// Handler exposes the identity workflows over HTTP.
type Handler struct {
	service *Service
	// signInGuard is the per-endpoint admission wrapper for the sign-in
	// route. It is stricter than the global limiter because failed sign-in
	// attempts are the online password-guessing surface.
	signInGuard func(http.Handler) http.Handler
}

// NewHandler creates the auth [Handler].
func NewHandler(service *Service, signInGuard func(http.Handler) http.Handler) *Handler {
	if signInGuard == nil {
		signInGuard = func(next http.Handler) http.Handler { return next }
	}
	return &Handler{service: service, signInGuard: signInGuard}
}

// Routes mounts the auth endpoints.
func (handler *Handler) Routes() http.Handler {
	router := chi.NewRouter()

	router.Post("/signup", handler.signUp)
	router.With(handler.signInGuard).Post("/signin", handler.signIn)
	router.Post("/validate-email", handler.validateEmail)
	router.Post("/forgot-password", handler.forgotPassword)
	router.Post("/reset-password", handler.resetPassword)

	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth)
		protected.Post("/send-verification-email", handler.sendVerificationEmail)
	})

	return router
}

// signUp handles POST /api/v1/auth/signup.
func (handler *Handler) signUp(writer http.ResponseWriter, request *http.Request) {
	var input SignUpInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	err := validator.
		Required("email", input.Email).
		Email("email", input.Email).
		MaxLen("email", input.Email, MaxEmailLength).
		Required("password", input.Password).
		MinLen("password", input.Password, MinPasswordLength).
		MaxLen("password", input.Password, MaxPasswordLength).
		Required("first_name", input.FirstName).
		MaxLen("first_name", input.FirstName, MaxNameLength).
		Required("last_name", input.LastName).
		MaxLen("last_name", input.LastName, MaxNameLength).
		Err()
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	account, err := handler.service.SignUp(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, account)
}

// signIn handles POST /api/v1/auth/signin.
func (handler *Handler) signIn(writer http.ResponseWriter, request *http.Request) {
	var input SignInInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	err := validator.
		Required("email", input.Email).
		Required("password", input.Password).
		Err()
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.service.SignIn(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}

// sendVerificationEmail handles POST /api/v1/auth/send-verification-email.
//
// The target account is the authenticated caller's own; there is no way to
// trigger verification mail for somebody else.
func (handler *Handler) sendVerificationEmail(writer http.ResponseWriter, request *http.Request) {
	accountID, err := requestutil.RequiredAccountID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.SendVerificationEmail(request.Context(), accountID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{"message": "Verification email sent"})
}

// validateEmail handles POST /api/v1/auth/validate-email?token=...
func (handler *Handler) validateEmail(writer http.ResponseWriter, request *http.Request) {
	token := request.URL.Query().Get("token")
	if token == "" {
		respond.Error(writer, request, validate.RequiredError("token", "This field is required"))
		return
	}

	if err := handler.service.VerifyEmail(request.Context(), token); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{"message": "Email verified successfully"})
}

// forgotPassword handles POST /api/v1/auth/forgot-password.
func (handler *Handler) forgotPassword(writer http.ResponseWriter, request *http.Request) {
	var input struct {
		Email string `json:"email"`
	}
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	if err := validator.Required("email", input.Email).Email("email", input.Email).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.RequestPasswordReset(request.Context(), input.Email); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Fixed response regardless of whether the address exists.
	respond.OK(writer, map[string]string{"message": "If the email exists, a reset link has been sent"})
}

// resetPassword handles POST /api/v1/auth/reset-password.
func (handler *Handler) resetPassword(writer http.ResponseWriter, request *http.Request) {
	var input struct {
		Token       string `json:"token"`
		NewPassword string `json:"new_password"`
	}
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	err := validator.
		Required("token", input.Token).
		Required("new_password", input.NewPassword).
		MinLen("new_password", input.NewPassword, MinPasswordLength).
		MaxLen("new_password", input.NewPassword, MaxPasswordLength).
		Err()
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.ResetPassword(request.Context(), input.Token, input.NewPassword); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{"message": "Password has been reset"})
}
