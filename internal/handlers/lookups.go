package handlers

import (
	"log/slog"
	"net/http"

	"cmt-tasks/internal/database"
	"cmt-tasks/internal/models"

	"github.com/gin-gonic/gin"
)

type subTypeDTO struct {
	SubTypeID uint   `json:"sub_type_id"`
	Name      string `json:"name"`
}

type categoryDTO struct {
	CategoryID  uint         `json:"category_id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	TargetDays  *int         `json:"target_days,omitempty"`
	SubTypes    []subTypeDTO `json:"sub_types"`
}

func ListCategories(c *gin.Context) {
	var categories []models.TaskCategory
	if err := database.DB.
		Preload("SubTypes").
		Preload("TargetDays").
		Order("name ASC").
		Find(&categories).Error; err != nil {
		logger.Error("category listing failed", slog.Any("err", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred while retrieving categories."})
		return
	}

	dtos := make([]categoryDTO, 0, len(categories))
	for _, cat := range categories {
		dto := categoryDTO{
			CategoryID:  cat.ID,
			Name:        cat.Name,
			Description: cat.Description,
			SubTypes:    make([]subTypeDTO, 0, len(cat.SubTypes)),
		}
		if cat.TargetDays != nil {
			dto.TargetDays = &cat.TargetDays.TargetDays
		}
		for _, st := range cat.SubTypes {
			dto.SubTypes = append(dto.SubTypes, subTypeDTO{SubTypeID: st.ID, Name: st.Name})
		}
		dtos = append(dtos, dto)
	}
	c.JSON(http.StatusOK, dtos)
}

func ListRequestTypes(c *gin.Context) {
	var requestTypes []models.RequestType
	if err := database.DB.Order("name ASC").Find(&requestTypes).Error; err != nil {
		logger.Error("request type listing failed", slog.Any("err", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred while retrieving request types."})
		return
	}

	type requestTypeDTO struct {
		RequestTypeID uint   `json:"request_type_id"`
		Name          string `json:"name"`
	}
	dtos := make([]requestTypeDTO, 0, len(requestTypes))
	for _, rt := range requestTypes {
		dtos = append(dtos, requestTypeDTO{RequestTypeID: rt.ID, Name: rt.Name})
	}
	c.JSON(http.StatusOK, dtos)
}

func ListPriorities(c *gin.Context) {
	var priorities []models.TaskPriorityLevel
	if err := database.DB.Order("order_rank ASC").Find(&priorities).Error; err != nil {
		logger.Error("priority listing failed", slog.Any("err", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred while retrieving priorities."})
		return
	}

	type priorityDTO struct {
		PriorityID uint   `json:"priority_id"`
		LevelName  string `json:"level_name"`
		OrderRank  int    `json:"order_rank"`
	}
	dtos := make([]priorityDTO, 0, len(priorities))
	for _, p := range priorities {
		dtos = append(dtos, priorityDTO{PriorityID: p.ID, LevelName: p.LevelName, OrderRank: p.OrderRank})
	}
	c.JSON(http.StatusOK, dtos)
}
