package models

import (
	"time"
)

type Author struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:120;not null;index"`
	Biography string `gorm:"type:text"`
	Books     []Book `gorm:"foreignKey:AuthorID"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Book struct {
	ID       uint   `gorm:"primaryKey"`
	Title    string `gorm:"not null;index"`
	ISBN     string `gorm:"size:20;not null"`
	AuthorID uint   `gorm:"not null;index"`
	Author   Author `gorm:"foreignKey:AuthorID"`
	// Available is flipped only by the loan manager, never by book editing.
	Available bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Reader struct {
	ID        uint   `gorm:"primaryKey"`
	FullName  string `gorm:"size:120;not null"`
	Email     string `gorm:"size:254;not null;uniqueIndex"`
	Loans     []Loan `gorm:"foreignKey:ReaderID"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Loan is open while ReturnDate is nil. A returned loan is never reopened.
type Loan struct {
	ID         uint       `gorm:"primaryKey"`
	BookID     uint       `gorm:"not null;index"`
	ReaderID   uint       `gorm:"not null;index"`
	LoanDate   time.Time  `gorm:"not null"`
	DueDate    time.Time  `gorm:"not null;index"`
	ReturnDate *time.Time `gorm:"index"`
	Book       Book       `gorm:"foreignKey:BookID"`
	Reader     Reader     `gorm:"foreignKey:ReaderID"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
