package main

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Validation messages displayed next to the offending form field.
const (
	MsgNameEmpty          = "Book name cannot be empty"
	MsgNameTooLong        = "Book name must be at most 200 characters"
	MsgEditionNotPositive = "Edition must be a positive number"
	MsgPriceNotPositive   = "Price must be greater than zero"
)

// MaxBookNameLength bounds the name field in characters after trimming.
const MaxBookNameLength = 200

// FieldError ties a validation message to the form field it concerns.
type FieldError struct {
	Field   string
	Message string
}

// FieldErrors collects every violation found in a submission. Rules are
// independent of each other so a single pass can report them all.
type FieldErrors []FieldError

func (fe FieldErrors) Error() string {
	msgs := make([]string, 0, len(fe))
	for _, e := range fe {
		msgs = append(msgs, e.Field+": "+e.Message)
	}
	return strings.Join(msgs, "; ")
}

// ByField indexes the violations by field name for template rendering.
func (fe FieldErrors) ByField() map[string]string {
	m := make(map[string]string, len(fe))
	for _, e := range fe {
		if _, ok := m[e.Field]; !ok {
			m[e.Field] = e.Message
		}
	}
	return m
}

// ValidateBookSubmission checks a raw form submission against the book
// rules and returns the normalized fields. On any violation the returned
// FieldErrors is non-empty and the fields must not reach the storage.
// The name is trimmed, the price is normalized to two fractional digits.
func ValidateBookSubmission(sub BookSubmission) (BookFields, FieldErrors) {
	var fields BookFields
	var errs FieldErrors

	name := strings.TrimSpace(sub.Name)
	switch {
	case len(name) == 0:
		errs = append(errs, FieldError{Field: "name", Message: MsgNameEmpty})
	case utf8.RuneCountInString(name) > MaxBookNameLength:
		errs = append(errs, FieldError{Field: "name", Message: MsgNameTooLong})
	default:
		fields.Name = name
	}

	edition, err := strconv.Atoi(strings.TrimSpace(sub.Edition))
	if err != nil || edition < 1 {
		errs = append(errs, FieldError{Field: "edition", Message: MsgEditionNotPositive})
	} else {
		fields.Edition = edition
	}

	// ParseFloat also accepts NaN and the infinities, which must not
	// reach the storage as a price.
	price, err := strconv.ParseFloat(strings.TrimSpace(sub.Price), 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		errs = append(errs, FieldError{Field: "price", Message: MsgPriceNotPositive})
	} else if norm := strconv.FormatFloat(price, 'f', 2, 64); norm == "0.00" {
		// rounds below the 0.01 minimum
		errs = append(errs, FieldError{Field: "price", Message: MsgPriceNotPositive})
	} else {
		fields.Price = norm
	}

	return fields, errs
}

// SubmissionFromBook pre-fills a form submission from an existing record.
func SubmissionFromBook(book Book) BookSubmission {
	return BookSubmission{
		Name:    book.Name,
		Edition: strconv.Itoa(book.Edition),
		Price:   book.Price,
	}
}
