package handlers

import (
	"fmt"
	"log"

	"agromart/internal/middleware"
	"agromart/internal/models"
	"agromart/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for authentication and accounts.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the public authentication routes.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/login", h.HandleLogin)
	authRoutes.Post("/forgot-password", h.HandleForgotPassword)
}

// RegisterProtectedRoutes registers the account routes requiring a caller.
func (h *AuthHandler) RegisterProtectedRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Get("/me", h.HandleMe)
	authRoutes.Put("/profile", h.HandleUpdateProfile)
	authRoutes.Put("/password", h.HandleChangePassword)
}

// RegisterRequest is the request body for account registration.
type RegisterRequest struct {
	Email            string      `json:"email" validate:"required,email"`
	Password         string      `json:"password" validate:"required,min=6"`
	Role             models.Role `json:"role" validate:"omitempty,oneof=buyer seller"`
	Name             string      `json:"name" validate:"required,min=2,max=100"`
	Phone            string      `json:"phone" validate:"omitempty,min=7,max=20"`
	Address          string      `json:"address" validate:"omitempty,max=500"`
	SecurityQuestion string      `json:"security_question" validate:"omitempty,max=255"`
	SecurityAnswer   string      `json:"security_answer" validate:"omitempty,max=255"`
}

// HandleRegister handles new account registration. Admin accounts are not
// self-service; they come from the bootstrap path.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing register request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	account := &models.Account{
		Email:            req.Email,
		Role:             req.Role,
		Name:             req.Name,
		Phone:            req.Phone,
		Address:          req.Address,
		SecurityQuestion: req.SecurityQuestion,
	}

	if err := h.authService.Register(account, req.Password, req.SecurityAnswer); err != nil {
		log.Printf("Error registering account: %v", err)
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Account registered successfully",
		"account": account,
	})
}

// LoginRequest is the request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin handles login and issues a JWT token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing login request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	token, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		log.Printf("Error during login for %s: %v", req.Email, err)
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   token,
	})
}

// ForgotPasswordRequest is the request body for security-question recovery.
type ForgotPasswordRequest struct {
	Email          string `json:"email" validate:"required,email"`
	SecurityAnswer string `json:"security_answer" validate:"required"`
	NewPassword    string `json:"new_password" validate:"required,min=6"`
}

// HandleForgotPassword resets a password after verifying the
// security-question answer.
func (h *AuthHandler) HandleForgotPassword(c *fiber.Ctx) error {
	var req ForgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	if err := h.authService.RecoverPassword(req.Email, req.SecurityAnswer, req.NewPassword); err != nil {
		log.Printf("Password recovery failed for %s: %v", req.Email, err)
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Password reset successfully",
	})
}

// HandleMe returns the calling account.
func (h *AuthHandler) HandleMe(c *fiber.Ctx) error {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		return respondError(c, services.ErrUnauthenticated)
	}

	account, err := h.authService.GetAccount(caller.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(account)
}

// ProfileUpdateRequest is the request body for profile updates.
type ProfileUpdateRequest struct {
	Name    string `json:"name" validate:"omitempty,min=2,max=100"`
	Phone   string `json:"phone" validate:"omitempty,min=7,max=20"`
	Address string `json:"address" validate:"omitempty,max=500"`
}

// HandleUpdateProfile updates the calling account's profile fields.
func (h *AuthHandler) HandleUpdateProfile(c *fiber.Ctx) error {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		return respondError(c, services.ErrUnauthenticated)
	}

	var req ProfileUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	account, err := h.authService.UpdateProfile(caller.ID, req.Name, req.Phone, req.Address)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Profile updated successfully",
		"account": account,
	})
}

// ChangePasswordRequest is the request body for password changes.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
}

// HandleChangePassword replaces the calling account's password.
func (h *AuthHandler) HandleChangePassword(c *fiber.Ctx) error {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		return respondError(c, services.ErrUnauthenticated)
	}

	var req ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	if err := h.authService.ChangePassword(caller.ID, req.CurrentPassword, req.NewPassword); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Password changed successfully",
	})
}

// validationErrorResponse renders validator errors as a field map.
func validationErrorResponse(c *fiber.Ctx, err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
		})
	}
	errorMessages := make(map[string]string)
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}
