package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"cmt-tasks/internal/database"
	"cmt-tasks/internal/middleware"
	"cmt-tasks/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type transferDTO struct {
	TransferID    uint       `json:"transfer_id"`
	TaskID        uint       `json:"task_id"`
	FromShopID    uint       `json:"from_shop_id"`
	FromShopName  string     `json:"from_shop_name"`
	ToShopID      uint       `json:"to_shop_id"`
	ToShopName    string     `json:"to_shop_name"`
	TransferredBy string     `json:"transferred_by"`
	Status        string     `json:"status"`
	Comments      string     `json:"comments,omitempty"`
	ActionBy      *string    `json:"action_by,omitempty"`
	ActionAt      *time.Time `json:"action_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

func toTransferDTO(tr models.TaskTransfer) transferDTO {
	dto := transferDTO{
		TransferID:    tr.ID,
		TaskID:        tr.TaskID,
		FromShopID:    tr.FromShopID,
		FromShopName:  tr.FromShop.Name,
		ToShopID:      tr.ToShopID,
		ToShopName:    tr.ToShop.Name,
		TransferredBy: tr.TransferredByUser.FullName,
		Status:        string(tr.Status),
		Comments:      tr.Comments,
		ActionAt:      tr.ActionAt,
		CreatedAt:     tr.CreatedAt,
	}
	if tr.ActionByUser != nil {
		dto.ActionBy = &tr.ActionByUser.FullName
	}
	return dto
}

func transferQuery() *gorm.DB {
	return database.DB.Model(&models.TaskTransfer{}).
		Preload("FromShop").
		Preload("ToShop").
		Preload("TransferredByUser").
		Preload("ActionByUser")
}

type createTransferRequest struct {
	ToShopID uint   `json:"to_shop_id" binding:"required"`
	Comments string `json:"comments"`
}

func CreateTransfer(c *gin.Context) {
	caller, _ := middleware.CallerFrom(c)

	var task models.Task
	if err := database.DB.First(&task, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}

	var req createTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if task.ShopID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "task does not belong to a shop"})
		return
	}
	if *task.ShopID == req.ToShopID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "task is already in that shop"})
		return
	}

	var toShop models.Shop
	if err := database.DB.First(&toShop, req.ToShopID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "destination shop not found"})
		return
	}

	var pending int64
	if err := database.DB.Model(&models.TaskTransfer{}).
		Where("task_id = ? AND status = ?", task.ID, models.TransferPending).
		Count(&pending).Error; err != nil {
		logger.Error("pending transfer check failed", slog.Any("err", err), slog.Uint64("task_id", uint64(task.ID)))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred while creating the transfer."})
		return
	}
	if pending > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "task already has a pending transfer"})
		return
	}

	transfer := models.TaskTransfer{
		TaskID:              task.ID,
		FromShopID:          *task.ShopID,
		ToShopID:            req.ToShopID,
		TransferredByUserID: caller.ID,
		Status:              models.TransferPending,
		Comments:            req.Comments,
	}
	if err := database.DB.Create(&transfer).Error; err != nil {
		logger.Error("transfer create failed", slog.Any("err", err), slog.Uint64("task_id", uint64(task.ID)))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred while creating the transfer."})
		return
	}

	var created models.TaskTransfer
	if err := transferQuery().First(&created, transfer.ID).Error; err != nil {
		logger.Error("transfer reload failed", slog.Any("err", err), slog.Uint64("transfer_id", uint64(transfer.ID)))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred while creating the transfer."})
		return
	}
	c.JSON(http.StatusCreated, toTransferDTO(created))
}

func ListTransfers(c *gin.Context) {
	caller, _ := middleware.CallerFrom(c)

	q := transferQuery().Order("created_at DESC")
	switch caller.Role {
	case models.RoleTeamLeader, models.RoleDirector:
		// leadership sees every transfer
	default:
		if caller.ShopID == nil {
			c.JSON(http.StatusOK, []transferDTO{})
			return
		}
		q = q.Where("from_shop_id = ? OR to_shop_id = ?", *caller.ShopID, *caller.ShopID)
	}

	var transfers []models.TaskTransfer
	if err := q.Find(&transfers).Error; err != nil {
		logger.Error("transfer listing failed", slog.Any("err", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred while retrieving transfers."})
		return
	}

	dtos := make([]transferDTO, 0, len(transfers))
	for _, tr := range transfers {
		dtos = append(dtos, toTransferDTO(tr))
	}
	c.JSON(http.StatusOK, dtos)
}

type transferActionRequest struct {
	Action   string `json:"action" binding:"required"`
	Comments string `json:"comments"`
}

// ActOnTransfer resolves a pending transfer. Accept and reject belong to
// the destination shop's lead (or leadership); cancel belongs to the
// initiator. Pending is the only actionable state.
func ActOnTransfer(c *gin.Context) {
	caller, _ := middleware.CallerFrom(c)

	var transfer models.TaskTransfer
	if err := database.DB.First(&transfer, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "transfer not found"})
		return
	}

	var req transferActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if transfer.Status != models.TransferPending {
		c.JSON(http.StatusBadRequest, gin.H{"error": "transfer is no longer pending"})
		return
	}

	var newStatus models.TransferStatus
	switch req.Action {
	case "accept":
		newStatus = models.TransferAccepted
	case "reject":
		newStatus = models.TransferRejected
	case "cancel":
		newStatus = models.TransferCancelled
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown action"})
		return
	}

	if newStatus == models.TransferCancelled {
		if transfer.TransferredByUserID != caller.ID {
			c.JSON(http.StatusForbidden, gin.H{"error": "only the initiator may cancel a transfer"})
			return
		}
	} else {
		allowed := caller.Role == models.RoleTeamLeader || caller.Role == models.RoleDirector ||
			(caller.Role == models.RoleShopTL && caller.ShopID != nil && *caller.ShopID == transfer.ToShopID)
		if !allowed {
			c.JSON(http.StatusForbidden, gin.H{"error": "you may not act on this transfer"})
			return
		}
	}

	now := time.Now().UTC()
	transfer.Status = newStatus
	transfer.ActionByUserID = &caller.ID
	transfer.ActionAt = &now
	if req.Comments != "" {
		transfer.Comments = req.Comments
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&transfer).Error; err != nil {
			return err
		}
		if newStatus == models.TransferAccepted {
			// the handoff takes effect: the task moves shop
			return tx.Model(&models.Task{}).
				Where("id = ?", transfer.TaskID).
				Update("shop_id", transfer.ToShopID).Error
		}
		return nil
	})
	if err != nil {
		logger.Error("transfer action failed", slog.Any("err", err), slog.Uint64("transfer_id", uint64(transfer.ID)))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred while updating the transfer."})
		return
	}

	var updated models.TaskTransfer
	if err := transferQuery().First(&updated, transfer.ID).Error; err != nil {
		logger.Error("transfer reload failed", slog.Any("err", err), slog.Uint64("transfer_id", uint64(transfer.ID)))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred while updating the transfer."})
		return
	}
	c.JSON(http.StatusOK, toTransferDTO(updated))
}
