package objects

import (
	"slices"
	"time"

	"github.com/libro-dev/library-api/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Genre string

const (
	GenreFiction    Genre = "FICTION"
	GenreNonFiction Genre = "NON_FICTION"
	GenreScience    Genre = "SCIENCE"
	GenreHistory    Genre = "HISTORY"
	GenreBiography  Genre = "BIOGRAPHY"
	GenreFantasy    Genre = "FANTASY"
)

var Genres = []Genre{
	GenreFiction,
	GenreNonFiction,
	GenreScience,
	GenreHistory,
	GenreBiography,
	GenreFantasy,
}

func (g Genre) IsValid() bool {
	return slices.Contains(Genres, g)
}

type Book struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Title       string             `json:"title" bson:"title"`
	Author      string             `json:"author" bson:"author"`
	Genre       Genre              `json:"genre" bson:"genre"`
	ISBN        string             `json:"isbn" bson:"isbn"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	Copies      int                `json:"copies" bson:"copies"`
	Available   bool               `json:"available" bson:"available"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// DeriveAvailability computes the available flag from a copies count.
// Available is never set directly; every write path derives it from here.
func DeriveAvailability(copies int) bool {
	return copies > 0
}

// ApplyDeduction subtracts quantity copies from the book and re-derives
// availability. The book is returned unchanged on InsufficientCopiesError.
func ApplyDeduction(book Book, quantity int) (Book, error) {

	if quantity > book.Copies {
		return book, errors.InsufficientCopiesError.New()
	}

	book.Copies -= quantity
	book.Available = DeriveAvailability(book.Copies)

	return book, nil
}
