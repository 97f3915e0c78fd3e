package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"library-service/pkg/clock"
	"library-service/pkg/loans"
	"library-service/pkg/models"
)

var testTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func setupTestDB(t *testing.T) *gorm.DB {
	gin.SetMode(gin.TestMode)
	testDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	err = testDB.AutoMigrate(&models.Author{}, &models.Book{}, &models.Reader{}, &models.Loan{})
	require.NoError(t, err)

	db = testDB
	loanManager = loans.NewManager(testDB, clock.Fixed{T: testTime})
	return testDB
}

func seedLibrary(t *testing.T, testDB *gorm.DB) (*models.Book, *models.Reader) {
	author := models.Author{Name: "Test Author", Biography: "Bio"}
	require.NoError(t, testDB.Create(&author).Error)

	book := models.Book{Title: "Test Book", ISBN: "978-0000000001", AuthorID: author.ID, Available: true}
	require.NoError(t, testDB.Create(&book).Error)

	reader := models.Reader{FullName: "Test Reader", Email: "reader@example.com"}
	require.NoError(t, testDB.Create(&reader).Error)

	return &book, &reader
}

func jsonRequest(method, url, body string) *http.Request {
	req := httptest.NewRequest(method, url, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestBorrowBookHandler(t *testing.T) {
	testDB := setupTestDB(t)
	book, reader := seedLibrary(t, testDB)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest("POST", "/api/v1/loans/borrow",
		`{"bookId": 1, "readerId": 1}`)

	borrowBook(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, float64(book.ID), response["bookId"])
	assert.Equal(t, float64(reader.ID), response["readerId"])
	assert.Equal(t, "Test Book", response["bookTitle"])
	assert.Equal(t, "Test Author", response["bookAuthorName"])
	assert.Equal(t, "978-0000000001", response["bookIsbn"])
	assert.Nil(t, response["returnDate"])

	var updatedBook models.Book
	testDB.First(&updatedBook, book.ID)
	assert.False(t, updatedBook.Available)
}

func TestBorrowBookHandlerConflict(t *testing.T) {
	testDB := setupTestDB(t)
	book, reader := seedLibrary(t, testDB)

	_, err := loanManager.Borrow(book.ID, reader.ID)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest("POST", "/api/v1/loans/borrow",
		`{"bookId": 1, "readerId": 1}`)

	borrowBook(c)

	assert.Equal(t, http.StatusConflict, w.Code)

	var loanCount int64
	testDB.Model(&models.Loan{}).Count(&loanCount)
	assert.Equal(t, int64(1), loanCount)
}

func TestBorrowBookHandlerNotFound(t *testing.T) {
	setupTestDB(t)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest("POST", "/api/v1/loans/borrow",
		`{"bookId": 42, "readerId": 1}`)

	borrowBook(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBorrowBookHandlerBadRequest(t *testing.T) {
	setupTestDB(t)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest("POST", "/api/v1/loans/borrow", `{"bookId": 1}`)

	borrowBook(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReturnBookHandler(t *testing.T) {
	testDB := setupTestDB(t)
	book, reader := seedLibrary(t, testDB)

	borrowed, err := loanManager.Borrow(book.ID, reader.ID)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("PATCH", "/api/v1/loans/1/return", nil)
	c.Params = gin.Params{gin.Param{Key: "id", Value: "1"}}

	returnBook(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, float64(borrowed.ID), response["id"])
	assert.NotNil(t, response["returnDate"])

	var updatedBook models.Book
	testDB.First(&updatedBook, book.ID)
	assert.True(t, updatedBook.Available)
}

func TestReturnBookHandlerAlreadyReturned(t *testing.T) {
	testDB := setupTestDB(t)
	book, reader := seedLibrary(t, testDB)

	borrowed, err := loanManager.Borrow(book.ID, reader.ID)
	require.NoError(t, err)
	_, err = loanManager.Return(borrowed.ID)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("PATCH", "/api/v1/loans/1/return", nil)
	c.Params = gin.Params{gin.Param{Key: "id", Value: "1"}}

	returnBook(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestGetLoansHandlerActiveFilter(t *testing.T) {
	testDB := setupTestDB(t)
	book, reader := seedLibrary(t, testDB)

	borrowed, err := loanManager.Borrow(book.ID, reader.ID)
	require.NoError(t, err)
	_, err = loanManager.Return(borrowed.ID)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET",
		"/api/v1/loans?readerId=1&activeOnly=true&page=1&size=10", nil)

	getLoans(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, float64(0), response["totalElements"])
	assert.Empty(t, response["items"])
}

func TestGetLoansHandlerHistory(t *testing.T) {
	testDB := setupTestDB(t)
	book, reader := seedLibrary(t, testDB)

	borrowed, err := loanManager.Borrow(book.ID, reader.ID)
	require.NoError(t, err)
	_, err = loanManager.Return(borrowed.ID)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/api/v1/loans?page=1&size=10", nil)

	getLoans(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, float64(1), response["totalElements"])
	assert.Equal(t, float64(1), response["page"])
	assert.Equal(t, float64(10), response["pageSize"])
	items := response["items"].([]interface{})
	require.Len(t, items, 1)
}

func TestGetOverdueLoansHandler(t *testing.T) {
	testDB := setupTestDB(t)
	book, reader := seedLibrary(t, testDB)

	loan := models.Loan{
		BookID:   book.ID,
		ReaderID: reader.ID,
		LoanDate: testTime.AddDate(0, 0, -20),
		DueDate:  testTime.AddDate(0, 0, -6),
	}
	require.NoError(t, testDB.Create(&loan).Error)
	require.NoError(t, testDB.Model(&models.Book{}).
		Where("id = ?", book.ID).Update("available", false).Error)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/api/v1/loans/overdue?page=1&size=10", nil)

	getOverdueLoans(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, float64(1), response["totalElements"])
	items := response["items"].([]interface{})
	require.Len(t, items, 1)
	item := items[0].(map[string]interface{})
	assert.Equal(t, "Test Book", item["bookTitle"])
}
