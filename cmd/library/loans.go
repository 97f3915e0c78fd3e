package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"library-service/pkg/apperrors"
	"library-service/pkg/loans"
)

type borrowRequest struct {
	BookID   uint `json:"bookId" binding:"required"`
	ReaderID uint `json:"readerId" binding:"required"`
}

func borrowBook(c *gin.Context) {
	var request borrowRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	view, err := loanManager.Borrow(request.BookID, request.ReaderID)
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, view)
}

func returnBook(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	view, err := loanManager.Return(id)
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, view)
}

func getLoans(c *gin.Context) {
	var filter loans.Filter
	if raw := c.Query("readerId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid readerId"})
			return
		}
		filter.ReaderID = uint(id)
	}
	if raw := c.Query("bookId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid bookId"})
			return
		}
		filter.BookID = uint(id)
	}
	filter.ActiveOnly = c.DefaultQuery("activeOnly", "false") == "true"

	result, err := loanManager.List(filter, loanPage(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func getOverdueLoans(c *gin.Context) {
	result, err := loanManager.Overdue(loanPage(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func loanPage(c *gin.Context) loans.Page {
	page, size := parsePaging(c)
	return loans.Page{
		Page: page,
		Size: size,
		Sort: c.DefaultQuery("sort", "id,asc"),
	}
}

// errorStatus translates the shared error taxonomy into HTTP status codes
// at the boundary; everything unrecognized is a 500.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrBookNotAvailable),
		errors.Is(err, apperrors.ErrLoanAlreadyReturned),
		errors.Is(err, apperrors.ErrDataIntegrity):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
