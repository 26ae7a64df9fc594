package objects

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BorrowRecord is a ledger entry referencing a Book by id.
// Records are immutable after creation.
type BorrowRecord struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Book      primitive.ObjectID `json:"book" bson:"book"`
	Quantity  int                `json:"quantity" bson:"quantity"`
	DueDate   time.Time          `json:"dueDate" bson:"dueDate"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type SummaryBook struct {
	Title string `json:"title" bson:"title"`
	ISBN  string `json:"isbn" bson:"isbn"`
}

// BorrowSummaryEntry is one row of the borrowed-books report:
// total quantity borrowed across all records of a single book.
type BorrowSummaryEntry struct {
	Book          SummaryBook `json:"book" bson:"book"`
	TotalQuantity int         `json:"totalQuantity" bson:"totalQuantity"`
}
