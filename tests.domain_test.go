package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestBookString ensures a book renders with its name and edition.
func TestBookString(t *testing.T) {
	book := Book{Name: "Python Crash Course", Edition: 2}
	assert.Equal(t, "Python Crash Course (Edition 2)", book.String())
}

// TestValidateBookSubmission covers the per-field validation rules.
func TestValidateBookSubmission(t *testing.T) {
	t.Run("should pass: valid submission", func(t *testing.T) {
		fields, verrs := ValidateBookSubmission(BookSubmission{Name: "  Django Basics ", Edition: "1", Price: "29.99"})
		assert.Empty(t, verrs)
		assert.Equal(t, BookFields{Name: "Django Basics", Edition: 1, Price: "29.99"}, fields)
	})

	t.Run("should pass: price normalized to two digits", func(t *testing.T) {
		fields, verrs := ValidateBookSubmission(BookSubmission{Name: "Go in Action", Edition: "2", Price: "10"})
		assert.Empty(t, verrs)
		assert.Equal(t, "10.00", fields.Price)
	})

	t.Run("should pass: multibyte name counted in characters", func(t *testing.T) {
		name := strings.Repeat("é", 150)
		fields, verrs := ValidateBookSubmission(BookSubmission{Name: name, Edition: "1", Price: "9.99"})
		assert.Empty(t, verrs)
		assert.Equal(t, name, fields.Name)
	})

	t.Run("should fail: per field violations", func(t *testing.T) {
		testCases := []struct {
			name     string
			sub      BookSubmission
			field    string
			expected string
		}{
			{
				name:     "empty name",
				sub:      BookSubmission{Name: "   ", Edition: "1", Price: "9.99"},
				field:    "name",
				expected: MsgNameEmpty,
			},
			{
				name:     "zero edition",
				sub:      BookSubmission{Name: "Go", Edition: "0", Price: "9.99"},
				field:    "edition",
				expected: MsgEditionNotPositive,
			},
			{
				name:     "negative edition",
				sub:      BookSubmission{Name: "Go", Edition: "-3", Price: "9.99"},
				field:    "edition",
				expected: MsgEditionNotPositive,
			},
			{
				name:     "non numeric edition",
				sub:      BookSubmission{Name: "Go", Edition: "first", Price: "9.99"},
				field:    "edition",
				expected: MsgEditionNotPositive,
			},
			{
				name:     "zero price",
				sub:      BookSubmission{Name: "Go", Edition: "1", Price: "0"},
				field:    "price",
				expected: MsgPriceNotPositive,
			},
			{
				name:     "negative price",
				sub:      BookSubmission{Name: "Go", Edition: "1", Price: "-5"},
				field:    "price",
				expected: MsgPriceNotPositive,
			},
			{
				name:     "price below one cent",
				sub:      BookSubmission{Name: "Go", Edition: "1", Price: "0.001"},
				field:    "price",
				expected: MsgPriceNotPositive,
			},
			{
				name:     "non numeric price",
				sub:      BookSubmission{Name: "Go", Edition: "1", Price: "cheap"},
				field:    "price",
				expected: MsgPriceNotPositive,
			},
			{
				name:     "not a number price",
				sub:      BookSubmission{Name: "Go", Edition: "1", Price: "NaN"},
				field:    "price",
				expected: MsgPriceNotPositive,
			},
			{
				name:     "infinite price",
				sub:      BookSubmission{Name: "Go", Edition: "1", Price: "+Inf"},
				field:    "price",
				expected: MsgPriceNotPositive,
			},
			{
				name:     "spelled out infinite price",
				sub:      BookSubmission{Name: "Go", Edition: "1", Price: "Infinity"},
				field:    "price",
				expected: MsgPriceNotPositive,
			},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				_, verrs := ValidateBookSubmission(tc.sub)
				assert.Len(t, verrs, 1)
				assert.Equal(t, tc.field, verrs[0].Field)
				assert.Equal(t, tc.expected, verrs[0].Message)
			})
		}
	})

	t.Run("should fail: all violations collected", func(t *testing.T) {
		_, verrs := ValidateBookSubmission(BookSubmission{Name: "", Edition: "0", Price: "0"})
		assert.Len(t, verrs, 3)
		byField := verrs.ByField()
		assert.Equal(t, MsgNameEmpty, byField["name"])
		assert.Equal(t, MsgEditionNotPositive, byField["edition"])
		assert.Equal(t, MsgPriceNotPositive, byField["price"])
	})

	t.Run("should fail: name above the limit", func(t *testing.T) {
		_, verrs := ValidateBookSubmission(BookSubmission{Name: strings.Repeat("a", MaxBookNameLength+1), Edition: "1", Price: "9.99"})
		assert.Len(t, verrs, 1)
		assert.Equal(t, MsgNameTooLong, verrs[0].Message)

		_, verrs = ValidateBookSubmission(BookSubmission{Name: strings.Repeat("é", MaxBookNameLength+1), Edition: "1", Price: "9.99"})
		assert.Len(t, verrs, 1)
		assert.Equal(t, MsgNameTooLong, verrs[0].Message)
	})
}

// TestParseBookID ensures only positive integers are accepted as record ids.
func TestParseBookID(t *testing.T) {
	id, err := ParseBookID(" 42 ")
	assert.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, raw := range []string{"", "abc", "0", "-7", "1.5"} {
		_, err := ParseBookID(raw)
		assert.Error(t, err, "raw id %q should be rejected", raw)
	}
}
