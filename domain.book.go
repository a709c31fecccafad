package main

import (
	"context"
	"fmt"
)

// Book represents a single record of the shop inventory.
type Book struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Edition int    `json:"edition"`
	Price   string `json:"price"`
}

// String renders a book the way it shows up in logs and listings.
func (b Book) String() string {
	return fmt.Sprintf("%s (Edition %d)", b.Name, b.Edition)
}

// BookFields holds the validated mutable fields of a book record.
// The identifier is assigned by the storage at creation and never changes.
type BookFields struct {
	Name    string
	Edition int
	Price   string
}

// BookSubmission carries the raw form values as submitted by the user.
// It is kept as-is so an invalid submission can be re-displayed untouched.
type BookSubmission struct {
	Name    string
	Edition string
	Price   string
}

// BookStorage defines possible operations on book records. GetAll returns
// records ordered by ascending id. A non-empty filter restricts the result
// to books whose name contains the filter, case-insensitively.
type BookStorage interface {
	Create(ctx context.Context, fields BookFields) (Book, error)
	GetOne(ctx context.Context, id int64) (Book, error)
	Update(ctx context.Context, id int64, fields BookFields) (Book, error)
	Delete(ctx context.Context, id int64) error
	GetAll(ctx context.Context, filter string) ([]Book, error)
}

// BookMirror is the write-only surface used by queue consumers to keep a
// secondary copy of the records in sync with the primary storage.
type BookMirror interface {
	Save(ctx context.Context, book Book) error
	Remove(ctx context.Context, id int64) error
}
