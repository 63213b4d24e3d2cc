package handlers

import (
	"log/slog"
	"net/http"

	"cmt-tasks/internal/auth"
	"cmt-tasks/internal/database"
	"cmt-tasks/internal/middleware"
	"cmt-tasks/internal/models"

	"github.com/gin-gonic/gin"
)

// AuthHandler issues bearer tokens; everything else is stateless.
type AuthHandler struct {
	Secret string
	Issuer string
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Success bool     `json:"success"`
	Token   string   `json:"token,omitempty"`
	User    *userDTO `json:"user,omitempty"`
	Message string   `json:"message,omitempty"`
}

type userDTO struct {
	UserID             uint    `json:"user_id"`
	Username           string  `json:"username"`
	Email              string  `json:"email"`
	FullName           string  `json:"full_name"`
	Role               string  `json:"role"`
	ProfilePicturePath string  `json:"profile_picture_path,omitempty"`
	ShopID             *uint   `json:"shop_id,omitempty"`
	ShopName           *string `json:"shop_name,omitempty"`
}

func toUserDTO(user models.User) userDTO {
	dto := userDTO{
		UserID:             user.ID,
		Username:           user.Username,
		Email:              user.Email,
		FullName:           user.FullName,
		Role:               string(user.Role),
		ProfilePicturePath: user.ProfilePicturePath,
		ShopID:             user.ShopID,
	}
	if user.Shop != nil {
		dto.ShopName = &user.Shop.Name
	}
	return dto
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, loginResponse{Success: false, Message: "Invalid request body."})
		return
	}

	var user models.User
	if err := database.DB.Preload("Shop").Where("username = ?", req.Username).First(&user).Error; err != nil {
		c.JSON(http.StatusBadRequest, loginResponse{Success: false, Message: "Invalid username or password."})
		return
	}

	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		c.JSON(http.StatusBadRequest, loginResponse{Success: false, Message: "Invalid username or password."})
		return
	}

	if user.Status != models.UserActive {
		c.JSON(http.StatusBadRequest, loginResponse{Success: false, Message: "Account is inactive or suspended."})
		return
	}

	token, err := auth.GenerateToken(user, h.Secret, h.Issuer)
	if err != nil {
		logger.Error("token generation failed", slog.Any("err", err), slog.String("username", user.Username))
		c.JSON(http.StatusInternalServerError, loginResponse{Success: false, Message: "An error occurred during login."})
		return
	}

	dto := toUserDTO(user)
	c.JSON(http.StatusOK, loginResponse{Success: true, Token: token, User: &dto})
}

// Logout is client-side in a stateless JWT setup; there is no server-side
// token revocation.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out successfully"})
}

func Me(c *gin.Context) {
	caller, _ := middleware.CallerFrom(c)

	var user models.User
	if err := database.DB.Preload("Shop").First(&user, caller.ID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	c.JSON(http.StatusOK, toUserDTO(user))
}
