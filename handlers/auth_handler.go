package handlers

import (
	"log"
	"time"

	"github.com/anjiri1684/fee_collect/apperrors"
	"github.com/anjiri1684/fee_collect/models"
	"github.com/anjiri1684/fee_collect/session"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthHandler struct {
	DB    *gorm.DB
	Codec *session.Codec
}

func NewAuthHandler(db *gorm.DB, codec *session.Codec) *AuthHandler {
	return &AuthHandler{DB: db, Codec: codec}
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type SessionUserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, apperrors.Validation("Cannot parse JSON"))
	}
	if err := validate.Struct(req); err != nil {
		return fail(c, apperrors.Validation(err.Error()))
	}

	var user models.User
	result := h.DB.Where("email = ?", req.Email).First(&user)
	if result.Error != nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		// First login against an empty installation bootstraps the admin
		// account with the submitted credentials.
		var count int64
		if err := h.DB.Model(&models.User{}).Count(&count).Error; err == nil && count == 0 {
			return h.bootstrapAdmin(c, req)
		}
		return fail(c, apperrors.Auth("Invalid credentials"))
	}

	return h.issueSession(c, user)
}

func (h *AuthHandler) bootstrapAdmin(c *fiber.Ctx, req LoginRequest) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fail(c, apperrors.Internal("Failed to hash password"))
	}

	user := models.User{
		Email:    req.Email,
		Password: string(hashedPassword),
		Name:     "Admin",
		Role:     "admin",
	}
	if err := h.DB.Create(&user).Error; err != nil {
		return fail(c, apperrors.Internal("Failed to create admin user"))
	}
	log.Printf("✅ Bootstrapped first admin account: %s", user.Email)

	return h.issueSession(c, user)
}

func (h *AuthHandler) issueSession(c *fiber.Ctx, user models.User) error {
	expires := time.Now().Add(session.TTL)
	token, err := h.Codec.Encode(session.Claims{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Expiry: expires,
	})
	if err != nil {
		return fail(c, apperrors.Internal("Failed to create session"))
	}

	c.Cookie(&fiber.Cookie{
		Name:     session.CookieName,
		Value:    token,
		Expires:  expires,
		HTTPOnly: true,
		SameSite: "Lax",
		Path:     "/",
	})

	return success(c, SessionUserResponse{
		ID:    user.ID.String(),
		Email: user.Email,
		Name:  user.Name,
		Role:  user.Role,
	})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Path:     "/",
	})
	return success(c, fiber.Map{"message": "Logged out"})
}

// Me returns the claim set behind the current session cookie.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	token := c.Cookies(session.CookieName)
	if token == "" {
		return fail(c, apperrors.Auth("No session"))
	}
	claims, err := h.Codec.Decode(token)
	if err != nil {
		return fail(c, apperrors.Auth("No session"))
	}

	var user models.User
	if err := h.DB.First(&user, "id = ?", claims.UserID).Error; err != nil {
		return fail(c, apperrors.Auth("No session"))
	}

	return success(c, SessionUserResponse{
		ID:    user.ID.String(),
		Email: user.Email,
		Name:  user.Name,
		Role:  user.Role,
	})
}
