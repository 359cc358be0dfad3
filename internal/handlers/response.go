package handlers

import (
	"net/http"

	"eventix_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

// Response is the success envelope. Failures use apperrors.ErrorResponse.
type Response struct {
	Success     bool            `json:"success"`
	Message     string          `json:"message,omitempty"`
	Data        interface{}     `json:"data,omitempty"`
	Pagination  *dto.Pagination `json:"pagination,omitempty"`
	UnreadCount *int64          `json:"unread_count,omitempty"`
}

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

func respondCreated(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, Response{Success: true, Message: message, Data: data})
}

func respondMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Message: message, Data: data})
}

func respondPage(c *gin.Context, data interface{}, p dto.Pagination) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data, Pagination: &p})
}
