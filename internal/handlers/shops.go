package handlers

import (
	"log/slog"
	"net/http"

	"cmt-tasks/internal/database"
	"cmt-tasks/internal/models"

	"github.com/gin-gonic/gin"
)

type shopDTO struct {
	ShopID      uint    `json:"shop_id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	TeamLeader  *string `json:"team_leader,omitempty"`
}

func ListShops(c *gin.Context) {
	var shops []models.Shop
	if err := database.DB.Preload("TeamLeader").Order("name ASC").Find(&shops).Error; err != nil {
		logger.Error("shop listing failed", slog.Any("err", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred while retrieving shops."})
		return
	}

	dtos := make([]shopDTO, 0, len(shops))
	for _, shop := range shops {
		dto := shopDTO{ShopID: shop.ID, Name: shop.Name, Description: shop.Description}
		if shop.TeamLeader != nil {
			dto.TeamLeader = &shop.TeamLeader.FullName
		}
		dtos = append(dtos, dto)
	}
	c.JSON(http.StatusOK, dtos)
}

type createShopRequest struct {
	Name         string `json:"name" binding:"required"`
	Description  string `json:"description"`
	TeamLeaderID *uint  `json:"team_leader_id"`
}

func CreateShop(c *gin.Context) {
	var req createShopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.TeamLeaderID != nil {
		var lead models.User
		if err := database.DB.First(&lead, *req.TeamLeaderID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "team leader not found"})
			return
		}
	}

	shop := models.Shop{
		Name:         req.Name,
		Description:  req.Description,
		TeamLeaderID: req.TeamLeaderID,
	}
	if err := database.DB.Create(&shop).Error; err != nil {
		logger.Error("shop create failed", slog.Any("err", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred while creating the shop."})
		return
	}

	c.JSON(http.StatusCreated, shopDTO{ShopID: shop.ID, Name: shop.Name, Description: shop.Description})
}
