package main

import (
	"log"

	"library-service/pkg/models"
)

// seedData loads a small development dataset: two authors, three books,
// two readers, one closed loan, one active loan and one overdue loan.
// It is a no-op once any author exists.
func seedData() {
	var count int64
	if err := db.Model(&models.Author{}).Count(&count).Error; err != nil {
		log.Printf("Seed check failed: %v", err)
		return
	}
	if count > 0 {
		log.Println("Seed data already present, skipping")
		return
	}

	sanderson := models.Author{
		Name:      "Brandon Sanderson",
		Biography: "Epic fantasy author known for the Cosmere universe.",
	}
	wight := models.Author{
		Name:      "Will Wight",
		Biography: "Author of the Cradle series.",
	}
	for _, author := range []*models.Author{&sanderson, &wight} {
		if err := db.Create(author).Error; err != nil {
			log.Printf("Failed to seed author %s: %v", author.Name, err)
			return
		}
	}

	wayOfKings := models.Book{Title: "The Way of Kings", ISBN: "978-0765365279", AuthorID: sanderson.ID, Available: true}
	wordsOfRadiance := models.Book{Title: "Words of Radiance", ISBN: "978-0765326362", AuthorID: sanderson.ID, Available: true}
	unsouled := models.Book{Title: "Unsouled", ISBN: "978-0989671767", AuthorID: wight.ID, Available: true}
	for _, book := range []*models.Book{&wayOfKings, &wordsOfRadiance, &unsouled} {
		if err := db.Create(book).Error; err != nil {
			log.Printf("Failed to seed book %s: %v", book.Title, err)
			return
		}
	}

	reader1 := models.Reader{FullName: "Jan Kowalski", Email: "jan.kowalski@email.com"}
	reader2 := models.Reader{FullName: "Anna Nowak", Email: "anna.nowak@email.com"}
	for _, reader := range []*models.Reader{&reader1, &reader2} {
		if err := db.Create(reader).Error; err != nil {
			log.Printf("Failed to seed reader %s: %v", reader.Email, err)
			return
		}
	}

	// One loan that was already returned.
	if view, err := loanManager.Borrow(wayOfKings.ID, reader1.ID); err != nil {
		log.Printf("Failed to seed returned loan: %v", err)
	} else if _, err := loanManager.Return(view.ID); err != nil {
		log.Printf("Failed to seed loan return: %v", err)
	}

	// One loan still running.
	if _, err := loanManager.Borrow(wordsOfRadiance.ID, reader1.ID); err != nil {
		log.Printf("Failed to seed active loan: %v", err)
	}

	// One overdue loan, written directly since the manager only creates
	// loans dated now.
	seedOverdueLoan(unsouled.ID, reader2.ID)

	log.Println("Library seed data loaded")
}

func seedOverdueLoan(bookID, readerID uint) {
	now := loanManager.Now()
	loan := models.Loan{
		BookID:   bookID,
		ReaderID: readerID,
		LoanDate: now.AddDate(0, 0, -30),
		DueDate:  now.AddDate(0, 0, -16),
	}
	if err := db.Create(&loan).Error; err != nil {
		log.Printf("Failed to seed overdue loan: %v", err)
		return
	}
	err := db.Model(&models.Book{}).Where("id = ?", bookID).Update("available", false).Error
	if err != nil {
		log.Printf("Failed to flag seeded book unavailable: %v", err)
	}
}
