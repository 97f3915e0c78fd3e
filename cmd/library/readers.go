package main

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"library-service/pkg/apperrors"
	"library-service/pkg/models"
)

type readerRequest struct {
	FullName string `json:"fullName" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
}

func readerResponse(r *models.Reader) gin.H {
	return gin.H{
		"id":       r.ID,
		"fullName": r.FullName,
		"email":    r.Email,
	}
}

func createReader(c *gin.Context) {
	var request readerRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	var count int64
	if err := db.Model(&models.Reader{}).Where("email = ?", request.Email).Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if count > 0 {
		err := fmt.Errorf("email already in use: %w", apperrors.ErrDataIntegrity)
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}

	reader := models.Reader{
		FullName: request.FullName,
		Email:    request.Email,
	}
	if err := db.Create(&reader).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create reader"})
		return
	}
	c.JSON(http.StatusCreated, readerResponse(&reader))
}

func getReaders(c *gin.Context) {
	page, size := parsePaging(c)

	var total int64
	if err := db.Model(&models.Reader{}).Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var readers []models.Reader
	offset := (page - 1) * size
	if err := db.Order("id asc").Offset(offset).Limit(size).Find(&readers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	items := make([]gin.H, len(readers))
	for i := range readers {
		items[i] = readerResponse(&readers[i])
	}
	c.JSON(http.StatusOK, gin.H{
		"page":          page,
		"pageSize":      size,
		"totalElements": total,
		"items":         items,
	})
}

func getReader(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var reader models.Reader
	if err := db.First(&reader, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Reader not found"})
		return
	}
	c.JSON(http.StatusOK, readerResponse(&reader))
}

func findReaderByEmail(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email is required"})
		return
	}

	var reader models.Reader
	if err := db.Where("email = ?", email).First(&reader).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Reader not found"})
		return
	}
	c.JSON(http.StatusOK, readerResponse(&reader))
}

func updateReader(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var request readerRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	var reader models.Reader
	if err := db.First(&reader, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Reader not found"})
		return
	}

	if reader.Email != request.Email {
		var count int64
		if err := db.Model(&models.Reader{}).Where("email = ?", request.Email).Count(&count).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if count > 0 {
			err := fmt.Errorf("new email already in use: %w", apperrors.ErrDataIntegrity)
			c.JSON(errorStatus(err), gin.H{"error": err.Error()})
			return
		}
	}

	reader.FullName = request.FullName
	reader.Email = request.Email
	if err := db.Save(&reader).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update reader"})
		return
	}
	c.JSON(http.StatusOK, readerResponse(&reader))
}

func deleteReader(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var reader models.Reader
	if err := db.First(&reader, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Reader not found"})
		return
	}

	if err := db.Delete(&reader).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete reader"})
		return
	}
	c.Status(http.StatusNoContent)
}
