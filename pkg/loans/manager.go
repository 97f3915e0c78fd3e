package loans

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"library-service/pkg/apperrors"
	"library-service/pkg/clock"
	"library-service/pkg/models"
)

// LoanPeriodDays is the fixed borrowing window added to the loan date.
const LoanPeriodDays = 14

// Manager owns the borrow/return protocol and the availability invariant
// between books and loans. Every state change runs inside one database
// transaction so a failed precondition leaves nothing mutated.
type Manager struct {
	db    *gorm.DB
	clock clock.Clock
}

func NewManager(db *gorm.DB, clk clock.Clock) *Manager {
	return &Manager{db: db, clock: clk}
}

// Now exposes the manager's clock reading.
func (m *Manager) Now() time.Time {
	return m.clock.Now()
}

// View is the loan projection returned to clients, with the book and
// reader references resolved at read time.
type View struct {
	ID             uint       `json:"id"`
	BookID         uint       `json:"bookId"`
	BookTitle      string     `json:"bookTitle"`
	BookAuthorName string     `json:"bookAuthorName"`
	BookISBN       string     `json:"bookIsbn"`
	ReaderID       uint       `json:"readerId"`
	LoanDate       time.Time  `json:"loanDate"`
	DueDate        time.Time  `json:"dueDate"`
	ReturnDate     *time.Time `json:"returnDate"`
}

// Filter narrows loan listings. Zero values mean "no restriction".
type Filter struct {
	ReaderID   uint
	BookID     uint
	ActiveOnly bool
}

type Page struct {
	Page int
	Size int
	Sort string
}

type PagedViews struct {
	Page          int    `json:"page"`
	PageSize      int    `json:"pageSize"`
	TotalElements int64  `json:"totalElements"`
	Items         []View `json:"items"`
}

// Borrow checks the book exists, is available, and the reader exists, in
// that order, then flags the book unavailable and creates an open loan.
// The availability flip is a conditional update so two concurrent borrows
// of the same book cannot both succeed.
func (m *Manager) Borrow(bookID, readerID uint) (*View, error) {
	var loan models.Loan
	err := m.db.Transaction(func(tx *gorm.DB) error {
		var book models.Book
		if err := tx.Preload("Author").First(&book, bookID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("book not found for id %d: %w", bookID, apperrors.ErrNotFound)
			}
			return err
		}
		if !book.Available {
			return apperrors.ErrBookNotAvailable
		}

		var reader models.Reader
		if err := tx.First(&reader, readerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("reader not found for id %d: %w", readerID, apperrors.ErrNotFound)
			}
			return err
		}

		res := tx.Model(&models.Book{}).
			Where("id = ? AND available = ?", book.ID, true).
			Update("available", false)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrBookNotAvailable
		}

		now := m.clock.Now()
		loan = models.Loan{
			BookID:   book.ID,
			ReaderID: reader.ID,
			LoanDate: now,
			DueDate:  now.AddDate(0, 0, LoanPeriodDays),
		}
		if err := tx.Create(&loan).Error; err != nil {
			return err
		}
		loan.Book = book
		loan.Reader = reader
		return nil
	})
	if err != nil {
		return nil, err
	}
	view := toView(&loan)
	return &view, nil
}

// Return closes an open loan and makes the book available again. A loan
// that was already returned is never touched a second time.
func (m *Manager) Return(loanID uint) (*View, error) {
	var loan models.Loan
	err := m.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Book").Preload("Book.Author").Preload("Reader").
			First(&loan, loanID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("loan not found for id %d: %w", loanID, apperrors.ErrNotFound)
			}
			return err
		}
		if loan.ReturnDate != nil {
			return apperrors.ErrLoanAlreadyReturned
		}

		if err := tx.Model(&models.Book{}).
			Where("id = ?", loan.BookID).
			Update("available", true).Error; err != nil {
			return err
		}

		now := m.clock.Now()
		if err := tx.Model(&loan).Update("return_date", now).Error; err != nil {
			return err
		}
		loan.ReturnDate = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	view := toView(&loan)
	return &view, nil
}

// List returns the loan history matching the filter, one page at a time.
func (m *Manager) List(f Filter, p Page) (*PagedViews, error) {
	query := m.db.Model(&models.Loan{})
	if f.ReaderID != 0 {
		query = query.Where("reader_id = ?", f.ReaderID)
	}
	if f.BookID != 0 {
		query = query.Where("book_id = ?", f.BookID)
	}
	if f.ActiveOnly {
		query = query.Where("return_date IS NULL")
	}
	return m.page(query, p)
}

// Overdue returns open loans whose due date has passed. The cutoff is
// taken once per call so every row on the page shares it.
func (m *Manager) Overdue(p Page) (*PagedViews, error) {
	now := m.clock.Now()
	query := m.db.Model(&models.Loan{}).
		Where("return_date IS NULL AND due_date < ?", now)
	return m.page(query, p)
}

func (m *Manager) page(query *gorm.DB, p Page) (*PagedViews, error) {
	page := p.Page
	if page < 1 {
		page = 1
	}
	size := p.Size
	if size < 1 || size > 100 {
		size = 10
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var loanRows []models.Loan
	offset := (page - 1) * size
	err := query.Order(orderClause(p.Sort)).Offset(offset).Limit(size).
		Preload("Book").Preload("Book.Author").Preload("Reader").
		Find(&loanRows).Error
	if err != nil {
		return nil, err
	}

	items := make([]View, len(loanRows))
	for i := range loanRows {
		items[i] = toView(&loanRows[i])
	}
	return &PagedViews{
		Page:          page,
		PageSize:      size,
		TotalElements: total,
		Items:         items,
	}, nil
}

var sortColumns = map[string]string{
	"id":       "id",
	"loanDate": "loan_date",
	"dueDate":  "due_date",
}

// orderClause maps a "field,direction" sort parameter onto a whitelisted
// column so user input never reaches the ORDER BY raw.
func orderClause(sort string) string {
	field := sort
	direction := "asc"
	if i := strings.IndexByte(sort, ','); i >= 0 {
		field = sort[:i]
		direction = sort[i+1:]
	}
	column, ok := sortColumns[field]
	if !ok {
		column = "id"
	}
	if direction != "desc" {
		direction = "asc"
	}
	return column + " " + direction
}

func toView(loan *models.Loan) View {
	return View{
		ID:             loan.ID,
		BookID:         loan.BookID,
		BookTitle:      loan.Book.Title,
		BookAuthorName: loan.Book.Author.Name,
		BookISBN:       loan.Book.ISBN,
		ReaderID:       loan.ReaderID,
		LoanDate:       loan.LoanDate,
		DueDate:        loan.DueDate,
		ReturnDate:     loan.ReturnDate,
	}
}
