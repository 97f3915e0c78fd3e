package main

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"library-service/pkg/models"
)

type bookRequest struct {
	Title    string `json:"title" binding:"required"`
	ISBN     string `json:"isbn" binding:"required"`
	AuthorID uint   `json:"authorId" binding:"required"`
}

func bookResponse(b *models.Book) gin.H {
	return gin.H{
		"id":         b.ID,
		"title":      b.Title,
		"isbn":       b.ISBN,
		"authorId":   b.AuthorID,
		"authorName": b.Author.Name,
		"available":  b.Available,
	}
}

func createBook(c *gin.Context) {
	var request bookRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	var author models.Author
	if err := db.First(&author, request.AuthorID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Author not found"})
		return
	}

	book := models.Book{
		Title:     request.Title,
		ISBN:      request.ISBN,
		AuthorID:  author.ID,
		Available: true,
	}
	if err := db.Create(&book).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create book"})
		return
	}
	book.Author = author
	c.JSON(http.StatusCreated, bookResponse(&book))
}

func getBooks(c *gin.Context) {
	page, size := parsePaging(c)

	var total int64
	if err := db.Model(&models.Book{}).Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var books []models.Book
	offset := (page - 1) * size
	if err := db.Preload("Author").Order("id asc").Offset(offset).Limit(size).Find(&books).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	items := make([]gin.H, len(books))
	for i := range books {
		items[i] = bookResponse(&books[i])
	}
	c.JSON(http.StatusOK, gin.H{
		"page":          page,
		"pageSize":      size,
		"totalElements": total,
		"items":         items,
	})
}

func getBook(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var book models.Book
	if err := db.Preload("Author").First(&book, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Book not found"})
		return
	}
	c.JSON(http.StatusOK, bookResponse(&book))
}

func findBookByTitle(c *gin.Context) {
	title := c.Query("title")
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}

	var book models.Book
	if err := db.Preload("Author").Where("title = ?", title).First(&book).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Book not found"})
		return
	}
	c.JSON(http.StatusOK, bookResponse(&book))
}

// searchBooks matches title and author name by case-insensitive substring.
// Both parameters are optional; an empty one does not restrict the result.
func searchBooks(c *gin.Context) {
	title := c.Query("title")
	authorName := c.Query("authorName")
	page, size := parsePaging(c)

	query := db.Model(&models.Book{}).
		Joins("JOIN authors ON authors.id = books.author_id")
	if title != "" {
		query = query.Where("LOWER(books.title) LIKE ?", "%"+strings.ToLower(title)+"%")
	}
	if authorName != "" {
		query = query.Where("LOWER(authors.name) LIKE ?", "%"+strings.ToLower(authorName)+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var books []models.Book
	offset := (page - 1) * size
	if err := query.Preload("Author").Order("books.id asc").Offset(offset).Limit(size).Find(&books).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	items := make([]gin.H, len(books))
	for i := range books {
		items[i] = bookResponse(&books[i])
	}
	c.JSON(http.StatusOK, gin.H{
		"page":          page,
		"pageSize":      size,
		"totalElements": total,
		"items":         items,
	})
}

// updateBook edits title, isbn and author. The availability flag belongs
// to the loan manager and is deliberately not part of the update.
func updateBook(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var request bookRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	var book models.Book
	if err := db.First(&book, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Book not found"})
		return
	}

	var author models.Author
	if err := db.First(&author, request.AuthorID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Author not found"})
		return
	}

	err := db.Model(&book).Updates(map[string]interface{}{
		"title":     request.Title,
		"isbn":      request.ISBN,
		"author_id": author.ID,
	}).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update book"})
		return
	}
	book.Title = request.Title
	book.ISBN = request.ISBN
	book.AuthorID = author.ID
	book.Author = author
	c.JSON(http.StatusOK, bookResponse(&book))
}

func deleteBook(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var book models.Book
	if err := db.First(&book, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Book not found"})
		return
	}

	if err := db.Delete(&book).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete book"})
		return
	}
	c.Status(http.StatusNoContent)
}
