package books

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/libro-dev/library-api/apis"
	"github.com/libro-dev/library-api/errors"
	"github.com/libro-dev/library-api/models"
	booksModel "github.com/libro-dev/library-api/models/books"
	"github.com/libro-dev/library-api/mongodb"
	"github.com/libro-dev/library-api/objects"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CreateBookRequest struct {
	Title       string `json:"title" binding:"required"`
	Author      string `json:"author" binding:"required"`
	Genre       string `json:"genre" binding:"required,oneof=FICTION NON_FICTION SCIENCE HISTORY BIOGRAPHY FANTASY"`
	ISBN        string `json:"isbn" binding:"required"`
	Description string `json:"description"`
	Copies      *int   `json:"copies" binding:"required,gte=0"`
}

// UpdateBookRequest carries a partial update; absent fields keep their stored
// values. The merged result is re-validated before persisting.
type UpdateBookRequest struct {
	Title       *string `json:"title"`
	Author      *string `json:"author"`
	Genre       *string `json:"genre" binding:"omitempty,oneof=FICTION NON_FICTION SCIENCE HISTORY BIOGRAPHY FANTASY"`
	ISBN        *string `json:"isbn"`
	Description *string `json:"description"`
	Copies      *int    `json:"copies" binding:"omitempty,gte=0"`
}

type BooksAPI struct {
	model *booksModel.BooksModel
}

func NewBooksAPI(conn *mongodb.MongoDBConn) (*BooksAPI, error) {

	model, err := booksModel.NewBooksModel(conn)
	if err != nil {
		return nil, err
	}

	return &BooksAPI{model: model}, nil
}

func (api *BooksAPI) Model() *booksModel.BooksModel {
	return api.model
}

func (api *BooksAPI) RegisterRoutes(group *gin.RouterGroup) {

	group.POST("", api.Create)
	group.GET("", api.List)
	group.GET(":bookId", api.GetByID)
	group.PUT(":bookId", api.Update)
	group.DELETE(":bookId", api.Delete)
}

func (api *BooksAPI) Create(ctx *gin.Context) {

	var req CreateBookRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		apis.WriteErrorJSON(ctx, err)
		return
	}

	book := objects.Book{
		Title:       strings.TrimSpace(req.Title),
		Author:      strings.TrimSpace(req.Author),
		Genre:       objects.Genre(req.Genre),
		ISBN:        strings.TrimSpace(req.ISBN),
		Description: req.Description,
		Copies:      *req.Copies,
	}

	if err := validateBook(book); err != nil {
		apis.WriteErrorJSON(ctx, err)
		return
	}

	created, err := api.model.Insert(book)
	if err != nil {
		apis.WriteErrorJSON(ctx, err)
		return
	}

	apis.WriteSuccessJSON(ctx, http.StatusCreated, "Book created successfully", created)
}

func (api *BooksAPI) List(ctx *gin.Context) {

	opt := booksModel.SearchOption{
		Genre:  objects.Genre(ctx.Query("filter")),
		SortBy: ctx.Query("sortBy"),
	}

	order, err := models.ParseSortOrder(ctx.Query("order"))
	if err != nil {
		apis.WriteErrorJSON(ctx, err)
		return
	}
	opt.Order = order

	if raw := ctx.Query("limit"); raw != "" {

		limit, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || limit < 1 {
			apis.WriteErrorJSON(ctx, errors.InvalidInputError.New("Limit must be a positive integer"))
			return
		}

		opt.Limit = limit
	}

	books, err := api.model.Search(opt)
	if err != nil {
		apis.WriteErrorJSON(ctx, err)
		return
	}

	apis.WriteSuccessJSON(ctx, http.StatusOK, "Books retrieved successfully", books)
}

func (api *BooksAPI) GetByID(ctx *gin.Context) {

	bookID, err := parseBookID(ctx.Param("bookId"))
	if err != nil {
		apis.WriteErrorJSON(ctx, err)
		return
	}

	book, err := api.model.GetByID(bookID)
	if err != nil {
		apis.WriteErrorJSON(ctx, err)
		return
	}

	apis.WriteSuccessJSON(ctx, http.StatusOK, "Book retrieved successfully", book)
}

func (api *BooksAPI) Update(ctx *gin.Context) {

	bookID, err := parseBookID(ctx.Param("bookId"))
	if err != nil {
		apis.WriteErrorJSON(ctx, err)
		return
	}

	book, err := api.model.GetByID(bookID)
	if err != nil {
		apis.WriteErrorJSON(ctx, err)
		return
	}

	var req UpdateBookRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		apis.WriteErrorJSON(ctx, err)
		return
	}

	if req.Title != nil {
		book.Title = strings.TrimSpace(*req.Title)
	}
	if req.Author != nil {
		book.Author = strings.TrimSpace(*req.Author)
	}
	if req.Genre != nil {
		book.Genre = objects.Genre(*req.Genre)
	}
	if req.ISBN != nil {
		book.ISBN = strings.TrimSpace(*req.ISBN)
	}
	if req.Description != nil {
		book.Description = *req.Description
	}
	if req.Copies != nil {
		book.Copies = *req.Copies
	}

	if err := validateBook(book); err != nil {
		apis.WriteErrorJSON(ctx, err)
		return
	}

	updated, err := api.model.Update(book)
	if err != nil {
		apis.WriteErrorJSON(ctx, err)
		return
	}

	apis.WriteSuccessJSON(ctx, http.StatusOK, "Book updated successfully", updated)
}

func (api *BooksAPI) Delete(ctx *gin.Context) {

	bookID, err := parseBookID(ctx.Param("bookId"))
	if err != nil {
		apis.WriteErrorJSON(ctx, err)
		return
	}

	if err := api.model.Delete(bookID); err != nil {
		apis.WriteErrorJSON(ctx, err)
		return
	}

	apis.WriteSuccessJSON(ctx, http.StatusOK, "Book deleted successfully", nil)
}

func parseBookID(raw string) (primitive.ObjectID, error) {

	bookID, err := primitive.ObjectIDFromHex(raw)
	if err != nil {

		violation := errors.FieldViolation{Path: "bookId", Message: "Invalid Id"}
		return primitive.NilObjectID, errors.CastError.New().WithViolations(violation)
	}

	return bookID, nil
}

// validateBook checks the constraints binding tags cannot see, e.g. fields
// that became empty after trimming or after a partial-update merge.
func validateBook(book objects.Book) error {

	var violations []errors.FieldViolation

	if book.Title == "" {
		violations = append(violations, errors.FieldViolation{Path: "title", Message: "Title must not be empty"})
	}

	if book.Author == "" {
		violations = append(violations, errors.FieldViolation{Path: "author", Message: "Author must not be empty"})
	}

	if !book.Genre.IsValid() {
		violations = append(violations, errors.FieldViolation{Path: "genre", Message: string(book.Genre) + " is not a valid genre"})
	}

	if book.ISBN == "" {
		violations = append(violations, errors.FieldViolation{Path: "isbn", Message: "ISBN must not be empty"})
	}

	if book.Copies < 0 {
		violations = append(violations, errors.FieldViolation{Path: "copies", Message: "Copies must be a positive number"})
	}

	if violations != nil {
		return errors.ValidationFailedError.New().WithViolations(violations...)
	}

	return nil
}
