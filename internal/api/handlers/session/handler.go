package session

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"recipe-engine/internal/api/handlers"
	"recipe-engine/internal/core/conversation"
)

// MessageRequest 使用者訊息
type MessageRequest struct {
	Message string `json:"message" binding:"required"`
}

// Handler 會話處理程序
type Handler struct {
	conversations *conversation.Service
}

// NewHandler 創建會話處理程序
func NewHandler(svc *conversation.Service) *Handler {
	return &Handler{conversations: svc}
}

// Create 建立會話，可帶入初始使用者資料
func (h *Handler) Create(c *gin.Context) {
	var update conversation.ProfileUpdate
	if err := c.ShouldBindJSON(&update); err != nil && !errors.Is(err, io.EOF) {
		handlers.BadRequest(c, err)
		return
	}

	sess, err := h.conversations.Create(c.Request.Context(), update)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sess)
}

// Get 取得會話
func (h *Handler) Get(c *gin.Context) {
	sess, err := h.conversations.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

// Delete 刪除會話
func (h *Handler) Delete(c *gin.Context) {
	if err := h.conversations.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Message 處理一則使用者訊息
func (h *Handler) Message(c *gin.Context) {
	var req MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlers.BadRequest(c, err)
		return
	}

	reply, err := h.conversations.Handle(c.Request.Context(), c.Param("id"), req.Message)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reply)
}

// UpdateProfile 更新使用者資料
func (h *Handler) UpdateProfile(c *gin.Context) {
	var update conversation.ProfileUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		handlers.BadRequest(c, err)
		return
	}

	sess, err := h.conversations.UpdateProfile(c.Request.Context(), c.Param("id"), update)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}
