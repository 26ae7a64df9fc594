package borrows

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/libro-dev/library-api/apis"
	"github.com/libro-dev/library-api/errors"
	booksModel "github.com/libro-dev/library-api/models/books"
	borrowsModel "github.com/libro-dev/library-api/models/borrows"
	"github.com/libro-dev/library-api/mongodb"
	"github.com/libro-dev/library-api/objects"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BorrowRequest struct {
	Book     string `json:"book" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
	DueDate  string `json:"dueDate" binding:"required"`
}

type BorrowsAPI struct {
	borrows *borrowsModel.BorrowsModel
	books   *booksModel.BooksModel
}

func NewBorrowsAPI(conn *mongodb.MongoDBConn, books *booksModel.BooksModel) (*BorrowsAPI, error) {

	model, err := borrowsModel.NewBorrowsModel(conn, books.GetCollectionName())
	if err != nil {
		return nil, err
	}

	return &BorrowsAPI{borrows: model, books: books}, nil
}

func (api *BorrowsAPI) RegisterRoutes(group *gin.RouterGroup) {

	group.POST("borrow", api.Borrow)
	group.GET("borrow-summary", api.Summary)
}

// Borrow checks the book's inventory and records the checkout. The deduction
// is a single conditional update in the store, so two concurrent borrows can
// never both drain the same copies.
func (api *BorrowsAPI) Borrow(ctx *gin.Context) {

	var req BorrowRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		apis.WriteErrorJSON(ctx, err)
		return
	}

	bookID, err := primitive.ObjectIDFromHex(req.Book)
	if err != nil {

		violation := errors.FieldViolation{Path: "book", Message: "Invalid Id"}
		apis.WriteErrorJSON(ctx, errors.CastError.New().WithViolations(violation))
		return
	}

	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		apis.WriteErrorJSON(ctx, err)
		return
	}

	book, err := api.books.GetByID(bookID)
	if err != nil {
		apis.WriteErrorJSON(ctx, err)
		return
	}

	if _, err := objects.ApplyDeduction(book, req.Quantity); err != nil {
		apis.WriteErrorJSON(ctx, err)
		return
	}

	if _, err := api.books.DeductCopies(bookID, req.Quantity); err != nil {
		apis.WriteErrorJSON(ctx, err)
		return
	}

	record, err := api.borrows.Insert(objects.BorrowRecord{
		Book:     bookID,
		Quantity: req.Quantity,
		DueDate:  dueDate,
	})
	if err != nil {

		// Give the copies back so a failed ledger insert cannot lose inventory.
		if restoreErr := api.books.RestoreCopies(bookID, req.Quantity); restoreErr != nil {
			slog.Error("Restoring copies after failed borrow insert failed",
				"bookId", bookID.Hex(), "quantity", req.Quantity, "error", restoreErr)
		}

		apis.WriteErrorJSON(ctx, err)
		return
	}

	apis.WriteSuccessJSON(ctx, http.StatusCreated, "Book borrowed successfully", record)
}

func (api *BorrowsAPI) Summary(ctx *gin.Context) {

	entries, err := api.borrows.Summary()
	if err != nil {
		apis.WriteErrorJSON(ctx, err)
		return
	}

	apis.WriteSuccessJSON(ctx, http.StatusOK, "Borrowed books summary retrieved successfully", entries)
}

var dueDateLayouts = []string{time.RFC3339, "2006-01-02"}

func parseDueDate(raw string) (time.Time, error) {

	var dueDate time.Time
	var err error

	for _, layout := range dueDateLayouts {

		dueDate, err = time.Parse(layout, raw)
		if err == nil {
			break
		}
	}

	if err != nil {
		return time.Time{}, errors.InvalidInputError.New("Invalid due date")
	}

	if !dueDate.After(time.Now()) {
		return time.Time{}, errors.InvalidInputError.New("Due date must be in the future")
	}

	return dueDate, nil
}
