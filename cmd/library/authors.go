package main

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"library-service/pkg/apperrors"
	"library-service/pkg/models"
)

type authorRequest struct {
	Name      string `json:"name" binding:"required"`
	Biography string `json:"biography"`
}

func authorResponse(a *models.Author) gin.H {
	return gin.H{
		"id":        a.ID,
		"name":      a.Name,
		"biography": a.Biography,
	}
}

// createAuthor registers an author. Posting a name that already exists
// returns the existing record instead of creating a duplicate.
func createAuthor(c *gin.Context) {
	var request authorRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	var existing models.Author
	if err := db.Where("name = ?", request.Name).First(&existing).Error; err == nil {
		c.JSON(http.StatusOK, authorResponse(&existing))
		return
	}

	author := models.Author{
		Name:      request.Name,
		Biography: request.Biography,
	}
	if err := db.Create(&author).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create author"})
		return
	}
	c.JSON(http.StatusCreated, authorResponse(&author))
}

func getAuthors(c *gin.Context) {
	page, size := parsePaging(c)

	var total int64
	if err := db.Model(&models.Author{}).Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var authors []models.Author
	offset := (page - 1) * size
	if err := db.Order("id asc").Offset(offset).Limit(size).Find(&authors).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	items := make([]gin.H, len(authors))
	for i := range authors {
		items[i] = authorResponse(&authors[i])
	}
	c.JSON(http.StatusOK, gin.H{
		"page":          page,
		"pageSize":      size,
		"totalElements": total,
		"items":         items,
	})
}

func getAuthor(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var author models.Author
	if err := db.First(&author, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Author not found"})
		return
	}
	c.JSON(http.StatusOK, authorResponse(&author))
}

func findAuthorByName(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	var author models.Author
	if err := db.Where("name = ?", name).First(&author).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Author not found"})
		return
	}
	c.JSON(http.StatusOK, authorResponse(&author))
}

func updateAuthor(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var request authorRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	var author models.Author
	if err := db.First(&author, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Author not found"})
		return
	}

	author.Name = request.Name
	author.Biography = request.Biography
	if err := db.Save(&author).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update author"})
		return
	}
	c.JSON(http.StatusOK, authorResponse(&author))
}

// deleteAuthor refuses to delete an author that still has books assigned.
func deleteAuthor(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var author models.Author
	if err := db.First(&author, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Author not found"})
		return
	}

	var bookCount int64
	if err := db.Model(&models.Book{}).Where("author_id = ?", id).Count(&bookCount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if bookCount > 0 {
		err := fmt.Errorf("cannot delete author with assigned books: %w", apperrors.ErrDataIntegrity)
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}

	if err := db.Delete(&author).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete author"})
		return
	}
	c.Status(http.StatusNoContent)
}
