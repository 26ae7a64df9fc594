package errors

const (
	ValidationFailedErrorCode   = 200_001
	CastErrorCode               = 200_002
	BookNotFoundErrorCode       = 200_003
	DuplicatedISBNErrorCode     = 200_004
	InsufficientCopiesErrorCode = 200_005
	InvalidInputErrorCode       = 200_006
	SortOrderInvalidErrorCode   = 200_007
)

// ValidationFailedError indicates one or more request fields violated a constraint,
// detailed per field through WithViolations
var ValidationFailedError = new(ValidationFailedErrorCode, "ValidationError", "Validation failed")

// CastError indicates user gives a malformed object ID
var CastError = new(CastErrorCode, "CastError", "Cast Error")

// BookNotFoundError indicates user refers to a book that does not exist
var BookNotFoundError = new(BookNotFoundErrorCode, "BookNotFound", "Book not found")

// DuplicatedISBNError indicates user creates or updates a book using an ISBN already in use
var DuplicatedISBNError = new(DuplicatedISBNErrorCode, "DuplicatedISBN", "ISBN %s is already in use")

// InsufficientCopiesError indicates a borrow asked for more copies than the book has left
var InsufficientCopiesError = new(InsufficientCopiesErrorCode, "InsufficientCopies", "Not enough copies available")

// InvalidInputError indicates a request value that is syntactically valid JSON
// but unusable, e.g. a due date in the past
var InvalidInputError = new(InvalidInputErrorCode, "InvalidInput", "%s")

// SortOrderInvalidError indicates user gives a sort order other than asc or desc
var SortOrderInvalidError = new(SortOrderInvalidErrorCode, "SortOrderInvalid", "Sort order %s is invalid or unsupported")
