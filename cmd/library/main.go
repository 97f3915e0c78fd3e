package main

import (
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"library-service/pkg/clock"
	"library-service/pkg/database"
	"library-service/pkg/loans"
)

var (
	db          *gorm.DB
	loanManager *loans.Manager
)

func main() {
	log.Println("Starting library service...")

	db = database.InitLibraryDB()
	loanManager = loans.NewManager(db, clock.System())

	if getEnv("SEED_DATA", "false") == "true" {
		seedData()
	}

	server := gin.Default()
	server.Use(requestID())

	server.POST("/api/v1/authors", createAuthor)
	server.GET("/api/v1/authors", getAuthors)
	server.GET("/api/v1/authors/find", findAuthorByName)
	server.GET("/api/v1/authors/:id", getAuthor)
	server.PUT("/api/v1/authors/:id", updateAuthor)
	server.DELETE("/api/v1/authors/:id", deleteAuthor)

	server.POST("/api/v1/books", createBook)
	server.GET("/api/v1/books", getBooks)
	server.GET("/api/v1/books/find", findBookByTitle)
	server.GET("/api/v1/books/search", searchBooks)
	server.GET("/api/v1/books/:id", getBook)
	server.PUT("/api/v1/books/:id", updateBook)
	server.DELETE("/api/v1/books/:id", deleteBook)

	server.POST("/api/v1/readers", createReader)
	server.GET("/api/v1/readers", getReaders)
	server.GET("/api/v1/readers/find", findReaderByEmail)
	server.GET("/api/v1/readers/:id", getReader)
	server.PUT("/api/v1/readers/:id", updateReader)
	server.DELETE("/api/v1/readers/:id", deleteReader)

	server.POST("/api/v1/loans/borrow", borrowBook)
	server.PATCH("/api/v1/loans/:id/return", returnBook)
	server.GET("/api/v1/loans", getLoans)
	server.GET("/api/v1/loans/overdue", getOverdueLoans)

	server.GET("/manage/health", healthCheck)

	port := getEnv("PORT", "8080")
	log.Printf("Library service starting on :%s", port)
	if err := server.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// parsePaging reads page/size query parameters with the usual clamping.
func parsePaging(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	size, err := strconv.Atoi(c.DefaultQuery("size", "10"))
	if err != nil || size < 1 || size > 100 {
		size = 10
	}
	return page, size
}

// parseID reads a numeric path parameter, returning false after writing a
// 400 response when it is not a positive integer.
func parseID(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(id), true
}

func healthCheck(ctx *gin.Context) {
	sqlDB, err := db.DB()
	if err != nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "DOWN",
			"details": "Database connection failed",
			"error":   err.Error(),
		})
		return
	}
	if err := sqlDB.Ping(); err != nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "DOWN",
			"details": "Database ping failed",
			"error":   err.Error(),
		})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"status": "UP",
	})
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
