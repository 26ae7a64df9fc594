package books

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/libro-dev/library-api/errors"
	"github.com/libro-dev/library-api/models"
	"github.com/libro-dev/library-api/mongodb"
	"github.com/libro-dev/library-api/objects"
	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BooksModelTestSuite struct {
	suite.Suite
	conn         *mongodb.MongoDBConn
	model        *BooksModel
	insertedBook objects.Book
}

func (s *BooksModelTestSuite) SetupSuite() {

	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	conn := mongodb.New(uri, "library_test_books_model")
	if err := conn.Connect(); err != nil {
		s.T().Skipf("MongoDB is not reachable: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := conn.Client.Ping(ctx, nil); err != nil {
		conn.Disconnect()
		s.T().Skipf("MongoDB is not reachable: %v", err)
	}

	booksModel, err := NewBooksModel(&conn)
	if err != nil {
		defer conn.Disconnect()
		s.FailNow("Setup books model failed", err)
	}

	s.model = booksModel
	s.conn = &conn
}

func (s *BooksModelTestSuite) BeforeTest(suiteName, testName string) {

	if testName == "TestInsert" || testName == "TestSearch" {
		return
	}

	inserted, err := s.model.Insert(fakeBook())
	s.Require().NoError(err, "Setup test failed from inserting book")

	s.insertedBook = inserted
}

func (s *BooksModelTestSuite) AfterTest(suiteName, testName string) {

	_, err := s.model.coll.DeleteMany(context.Background(), bson.D{})
	s.Require().NoError(err)
}

func (s *BooksModelTestSuite) TearDownSuite() {

	if s.conn == nil {
		return
	}

	s.conn.GetDatabase().Drop(context.Background())
	s.conn.Disconnect()
}

func (s *BooksModelTestSuite) TestInsert() {

	s.Run("Should insert valid book and derive availability", func() {

		book := fakeBook()
		book.Copies = 3

		inserted, err := s.model.Insert(book)
		s.Require().NoError(err, "Inserting book failed")
		s.Require().False(inserted.ID.IsZero())
		s.Require().True(inserted.Available)
		s.Require().False(inserted.CreatedAt.IsZero())

		actual, err := s.model.GetByID(inserted.ID)
		s.Require().NoError(err)
		s.Require().Equal(inserted.Title, actual.Title)
		s.Require().Equal(inserted.ISBN, actual.ISBN)
		s.Require().Equal(3, actual.Copies)
		s.Require().True(actual.Available)
	})

	s.Run("Should insert book with zero copies as unavailable", func() {

		book := fakeBook()
		book.Copies = 0

		inserted, err := s.model.Insert(book)
		s.Require().NoError(err)
		s.Require().False(inserted.Available)
	})

	s.Run("Should throw error when inserting book with duplicated ISBN", func() {

		book := fakeBook()

		_, err := s.model.Insert(book)
		s.Require().NoError(err)

		newBook := fakeBook()
		newBook.ISBN = book.ISBN

		_, err = s.model.Insert(newBook)
		s.Require().Error(err)
		s.Require().True(errors.IsError(err, errors.DuplicatedISBNError.New(book.ISBN)))
	})
}

func (s *BooksModelTestSuite) TestGetByID() {

	s.Run("Should get inserted book properly", func() {

		actual, err := s.model.GetByID(s.insertedBook.ID)
		s.Require().NoError(err)
		s.Require().Equal(s.insertedBook.ID, actual.ID)
		s.Require().Equal(s.insertedBook.Title, actual.Title)
	})

	s.Run("Should throw not found error for absent book", func() {

		_, err := s.model.GetByID(primitive.NewObjectID())
		s.Require().Error(err)
		s.Require().True(errors.IsError(err, errors.BookNotFoundError.New()))
	})
}

func (s *BooksModelTestSuite) TestSearch() {

	fiction := fakeBook()
	fiction.Genre = objects.GenreFiction
	fiction.Title = "A tale"

	fantasy := fakeBook()
	fantasy.Genre = objects.GenreFantasy
	fantasy.Title = "B tale"

	science := fakeBook()
	science.Genre = objects.GenreFiction
	science.Title = "C tale"

	for _, book := range []objects.Book{fiction, fantasy, science} {
		_, err := s.model.Insert(book)
		s.Require().NoError(err, "Setup test failed from inserting book")
	}

	s.Run("Should list all books without filter", func() {

		books, err := s.model.Search(SearchOption{})
		s.Require().NoError(err)
		s.Require().Len(books, 3)
	})

	s.Run("Should filter by genre with exact match", func() {

		books, err := s.model.Search(SearchOption{Genre: objects.GenreFiction})
		s.Require().NoError(err)
		s.Require().Len(books, 2)

		for _, book := range books {
			s.Require().Equal(objects.GenreFiction, book.Genre)
		}
	})

	s.Run("Should sort by the named field in the requested direction", func() {

		books, err := s.model.Search(SearchOption{SortBy: "title", Order: models.DescendingSortOrder})
		s.Require().NoError(err)
		s.Require().Len(books, 3)
		s.Require().Equal("C tale", books[0].Title)
		s.Require().Equal("A tale", books[2].Title)
	})

	s.Run("Should cap results at the given limit", func() {

		books, err := s.model.Search(SearchOption{Limit: 2})
		s.Require().NoError(err)
		s.Require().Len(books, 2)
	})

	s.Run("Should not fail on unknown sort field", func() {

		books, err := s.model.Search(SearchOption{SortBy: "no_such_field"})
		s.Require().NoError(err)
		s.Require().Len(books, 3)
	})
}

func (s *BooksModelTestSuite) TestUpdate() {

	s.Run("Should update book and re-derive availability", func() {

		book := s.insertedBook
		book.Copies = 0
		book.Description = "updated"

		updated, err := s.model.Update(book)
		s.Require().NoError(err)
		s.Require().False(updated.Available)

		actual, err := s.model.GetByID(book.ID)
		s.Require().NoError(err)
		s.Require().Equal(0, actual.Copies)
		s.Require().False(actual.Available)
		s.Require().Equal("updated", actual.Description)
	})

	s.Run("Should throw not found error when updating absent book", func() {

		book := fakeBook()
		book.ID = primitive.NewObjectID()

		_, err := s.model.Update(book)
		s.Require().Error(err)
		s.Require().True(errors.IsError(err, errors.BookNotFoundError.New()))
	})
}

func (s *BooksModelTestSuite) TestDelete() {

	s.Run("Should delete inserted book properly", func() {

		s.Require().NoError(s.model.Delete(s.insertedBook.ID))

		_, err := s.model.GetByID(s.insertedBook.ID)
		s.Require().True(errors.IsError(err, errors.BookNotFoundError.New()))
	})

	s.Run("Should throw not found error when deleting twice", func() {

		err := s.model.Delete(s.insertedBook.ID)
		s.Require().True(errors.IsError(err, errors.BookNotFoundError.New()))
	})
}

func (s *BooksModelTestSuite) TestDeductCopies() {

	s.Run("Should deduct copies by the exact quantity", func() {

		copies := s.insertedBook.Copies

		book, err := s.model.DeductCopies(s.insertedBook.ID, 1)
		s.Require().NoError(err)
		s.Require().Equal(copies-1, book.Copies)
	})

	s.Run("Should flip availability when copies reach zero", func() {

		current, err := s.model.GetByID(s.insertedBook.ID)
		s.Require().NoError(err)

		book, err := s.model.DeductCopies(s.insertedBook.ID, current.Copies)
		s.Require().NoError(err)
		s.Require().Equal(0, book.Copies)
		s.Require().False(book.Available)
	})

	s.Run("Should throw insufficient copies error and leave book unchanged", func() {

		current, err := s.model.GetByID(s.insertedBook.ID)
		s.Require().NoError(err)

		_, err = s.model.DeductCopies(s.insertedBook.ID, current.Copies+1)
		s.Require().Error(err)
		s.Require().True(errors.IsError(err, errors.InsufficientCopiesError.New()))

		actual, err := s.model.GetByID(s.insertedBook.ID)
		s.Require().NoError(err)
		s.Require().Equal(current.Copies, actual.Copies)
	})

	s.Run("Should throw not found error for absent book", func() {

		_, err := s.model.DeductCopies(primitive.NewObjectID(), 1)
		s.Require().True(errors.IsError(err, errors.BookNotFoundError.New()))
	})
}

func (s *BooksModelTestSuite) TestDeductCopiesConcurrently() {

	book := fakeBook()
	book.Copies = 5

	inserted, err := s.model.Insert(book)
	s.Require().NoError(err, "Setup test failed from inserting book")

	const borrowers = 8

	errs := make(chan error, borrowers)

	var wg sync.WaitGroup
	for i := 0; i < borrowers; i++ {

		wg.Add(1)
		go func() {
			defer wg.Done()

			_, err := s.model.DeductCopies(inserted.ID, 1)
			errs <- err
		}()
	}

	wg.Wait()
	close(errs)

	var succeeded, insufficient int
	for err := range errs {

		if err == nil {
			succeeded++
			continue
		}

		s.Require().True(errors.IsError(err, errors.InsufficientCopiesError.New()))
		insufficient++
	}

	s.Require().Equal(5, succeeded, "Exactly one borrow per copy should succeed")
	s.Require().Equal(borrowers-5, insufficient)

	actual, err := s.model.GetByID(inserted.ID)
	s.Require().NoError(err)
	s.Require().Equal(0, actual.Copies, "Copies must never go negative")
	s.Require().False(actual.Available)
}

func (s *BooksModelTestSuite) TestRestoreCopies() {

	book, err := s.model.DeductCopies(s.insertedBook.ID, s.insertedBook.Copies)
	s.Require().NoError(err)
	s.Require().False(book.Available)

	s.Require().NoError(s.model.RestoreCopies(s.insertedBook.ID, 2))

	actual, err := s.model.GetByID(s.insertedBook.ID)
	s.Require().NoError(err)
	s.Require().Equal(2, actual.Copies)
	s.Require().True(actual.Available)
}

func TestBooksModel(t *testing.T) {
	suite.Run(t, new(BooksModelTestSuite))
}

func fakeBook() objects.Book {

	fakeInfo := gofakeit.Book()

	return objects.Book{
		Title:       fakeInfo.Title,
		Author:      fakeInfo.Author,
		Genre:       objects.Genres[gofakeit.Number(0, len(objects.Genres)-1)],
		ISBN:        gofakeit.Numerify("978-#-####-####-#") + gofakeit.UUID()[:8],
		Description: gofakeit.SentenceSimple(),
		Copies:      gofakeit.Number(2, 20),
	}
}
