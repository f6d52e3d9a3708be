package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/parkwise/parking-system/internal/core/domain"
	"github.com/parkwise/parking-system/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type registerRequest struct {
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	PlateNumber string `json:"plate_number" validate:"required"`
}

type registerAdminRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type verifyEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Code        string `json:"code" validate:"required,len=6"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

type loginResponse struct {
	Token string `json:"token"`
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Register creates a new driver account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  envelope
// @Failure      400   {object}  map[string]any
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		PlateNumber: req.PlateNumber,
	})
	if err != nil {
		return err
	}

	return respond(c, http.StatusCreated, "registered; check your email for the verification code", user)
}

// RegisterAdmin creates a new operator account.
//
// @Summary      Register a new admin
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerAdminRequest  true  "Admin registration details"
// @Success      201   {object}  envelope
// @Failure      400   {object}  map[string]any
// @Router       /auth/admin/register [post]
func (h *AuthHandler) RegisterAdmin(c echo.Context) error {
	var req registerAdminRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	admin, err := h.authService.RegisterAdmin(c.Request().Context(), ports.RegisterAdminInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	return respond(c, http.StatusCreated, "registered; check your email for the verification code", admin)
}

// VerifyEmail consumes a verification code for a driver account.
//
// @Summary      Verify a user's email
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      verifyEmailRequest  true  "Email and code"
// @Success      200   {object}  envelope
// @Failure      400   {object}  map[string]any
// @Router       /auth/verify-email [post]
func (h *AuthHandler) VerifyEmail(c echo.Context) error {
	return h.verifyEmail(c, domain.RoleUser)
}

// VerifyAdminEmail consumes a verification code for an operator account.
//
// @Summary      Verify an admin's email
// @Tags         auth
// @Router       /auth/admin/verify-email [post]
func (h *AuthHandler) VerifyAdminEmail(c echo.Context) error {
	return h.verifyEmail(c, domain.RoleAdmin)
}

func (h *AuthHandler) verifyEmail(c echo.Context, role string) error {
	var req verifyEmailRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.VerifyEmail(c.Request().Context(), req.Email, req.Code, role); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "email verified", nil)
}

// Login authenticates a driver and returns a JWT.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  envelope
// @Failure      401   {object}  map[string]any
// @Failure      403   {object}  map[string]any
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	return h.login(c, domain.RoleUser)
}

// LoginAdmin authenticates an operator and returns a JWT.
//
// @Summary      Admin login
// @Tags         auth
// @Router       /auth/admin/login [post]
func (h *AuthHandler) LoginAdmin(c echo.Context) error {
	return h.login(c, domain.RoleAdmin)
}

func (h *AuthHandler) login(c echo.Context, role string) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.authService.Login(c.Request().Context(), req.Email, req.Password, role)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, "login successful", loginResponse{
		Token: result.Token,
		ID:    result.ID,
		Name:  result.Name,
		Email: result.Email,
		Role:  result.Role,
	})
}

// ForgotPassword issues a reset code for a driver account.
//
// @Summary      Request a password reset code
// @Tags         auth
// @Router       /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	return h.forgotPassword(c, domain.RoleUser)
}

// ForgotAdminPassword issues a reset code for an operator account.
//
// @Summary      Request an admin password reset code
// @Tags         auth
// @Router       /auth/admin/forgot-password [post]
func (h *AuthHandler) ForgotAdminPassword(c echo.Context) error {
	return h.forgotPassword(c, domain.RoleAdmin)
}

func (h *AuthHandler) forgotPassword(c echo.Context, role string) error {
	var req forgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.ForgotPassword(c.Request().Context(), req.Email, role); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "if the account exists, a reset code has been sent", nil)
}

// ResetPassword consumes a reset code and replaces a driver's password.
//
// @Summary      Reset password with a code
// @Tags         auth
// @Router       /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	return h.resetPassword(c, domain.RoleUser)
}

// ResetAdminPassword consumes a reset code and replaces an admin's password.
//
// @Summary      Reset admin password with a code
// @Tags         auth
// @Router       /auth/admin/reset-password [post]
func (h *AuthHandler) ResetAdminPassword(c echo.Context) error {
	return h.resetPassword(c, domain.RoleAdmin)
}

func (h *AuthHandler) resetPassword(c echo.Context, role string) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.ResetPassword(c.Request().Context(), req.Email, req.Code, req.NewPassword, role); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "password updated", nil)
}
