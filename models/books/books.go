package books

import (
	"context"
	goerrors "errors"
	"fmt"
	"slices"
	"time"

	"github.com/libro-dev/library-api/errors"
	"github.com/libro-dev/library-api/models"
	"github.com/libro-dev/library-api/mongodb"
	"github.com/libro-dev/library-api/objects"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultSearchLimit = 10

type SearchOption struct {
	Genre  objects.Genre    `json:"genre,omitempty"`
	SortBy string           `json:"sort_by,omitempty"`
	Order  models.SortOrder `json:"order,omitempty"`
	Limit  int64            `json:"limit,omitempty"`
}

type BooksModel struct {
	coll *mongo.Collection
}

func NewBooksModel(conn *mongodb.MongoDBConn) (*BooksModel, error) {

	booksModel := BooksModel{}

	err := booksModel.init(conn)
	if err != nil {
		return nil, err
	}

	return &booksModel, nil
}

func (m BooksModel) GetCollectionName() string {
	return "books"
}

func (m *BooksModel) init(conn *mongodb.MongoDBConn) error {

	err := m.initCollection(conn)
	if err != nil {
		return err
	}

	err = m.initIndexes(conn)
	if err != nil {
		return err
	}

	m.coll = conn.GetCollection(m.GetCollectionName())

	return nil
}

func (m BooksModel) initCollection(conn *mongodb.MongoDBConn) error {

	libraryDB := conn.GetDatabase()
	collectionName := m.GetCollectionName()

	filter := bson.D{}
	option := options.ListCollections()
	collectionNameList, err := libraryDB.ListCollectionNames(context.TODO(), filter, option)
	if err != nil {
		return err
	}

	validator := bson.D{
		{
			Key: "$jsonSchema", Value: bson.M{
				"bsonType": "object",
				"required": []string{"title", "author", "genre", "isbn", "copies", "available"},
				"properties": bson.M{
					"title": bson.M{
						"bsonType":    "string",
						"description": "Title must not be empty",
					},
					"author": bson.M{
						"bsonType":    "string",
						"description": "Author must not be empty",
					},
					"genre": bson.M{
						"enum":        []string{"FICTION", "NON_FICTION", "SCIENCE", "HISTORY", "BIOGRAPHY", "FANTASY"},
						"description": "Genre must be one of the supported values",
					},
					"isbn": bson.M{
						"bsonType":    "string",
						"description": "ISBN must not be empty",
					},
					"copies": bson.M{
						"bsonType":    []string{"int", "long"},
						"minimum":     0,
						"description": "Copies must be a positive number",
					},
					"available": bson.M{
						"bsonType":    "bool",
						"description": "Available is derived from copies",
					},
				},
			},
		},
	}

	if slices.Contains(collectionNameList, collectionName) {

		cmd := bson.D{
			{Key: "collMod", Value: collectionName},
			{Key: "validator", Value: validator},
			{Key: "validationLevel", Value: "strict"},
		}

		option := options.RunCmd()
		result := libraryDB.RunCommand(context.TODO(), cmd, option)
		if err := result.Err(); err != nil {
			return err
		}

		return nil
	}

	collectionOption := options.CreateCollection()
	collectionOption.SetValidator(validator)
	collectionOption.SetValidationLevel("strict")

	err = libraryDB.CreateCollection(context.TODO(), collectionName, collectionOption)
	if err != nil {
		return err
	}

	return nil
}

func (m BooksModel) initIndexes(conn *mongodb.MongoDBConn) error {

	coll := conn.GetCollection(m.GetCollectionName())
	cur, err := coll.Indexes().List(context.TODO())
	if err != nil {
		return err
	}

	var indexes []bson.M
	err = cur.All(context.TODO(), &indexes)
	if err != nil {
		return err
	}

	var isbnIndexName = "isbn_1"

	contains := slices.ContainsFunc(indexes, func(m primitive.M) bool {
		return m["name"] == isbnIndexName
	})

	if !contains {

		indexModelOption := options.Index()
		indexModelOption.SetName(isbnIndexName)
		indexModelOption.SetUnique(true)

		indexModel := mongo.IndexModel{
			Keys: bson.D{
				{Key: "isbn", Value: 1},
			},
			Options: indexModelOption,
		}

		option := options.CreateIndexes()
		_, err = coll.Indexes().CreateOne(context.TODO(), indexModel, option)
		if err != nil {
			return err
		}
	}

	return nil
}

// Insert persists a new book, stamping timestamps and deriving availability.
func (m BooksModel) Insert(book objects.Book) (objects.Book, error) {

	now := time.Now().UTC()
	book.ID = primitive.NewObjectID()
	book.CreatedAt = now
	book.UpdatedAt = now
	book.Available = objects.DeriveAvailability(book.Copies)

	_, err := m.coll.InsertOne(context.TODO(), book)
	if err != nil {

		if mongo.IsDuplicateKeyError(err) {
			return objects.Book{}, errors.DuplicatedISBNError.New(book.ISBN)
		}

		return objects.Book{}, err
	}

	return book, nil
}

func (m BooksModel) GetByID(bookID primitive.ObjectID) (objects.Book, error) {

	result := m.coll.FindOne(context.TODO(), bson.D{{Key: "_id", Value: bookID}})

	var book objects.Book
	err := result.Decode(&book)
	if goerrors.Is(err, mongo.ErrNoDocuments) {
		return objects.Book{}, errors.BookNotFoundError.New()
	}

	return book, err
}

func (m BooksModel) Search(opt SearchOption) ([]objects.Book, error) {

	filter := bson.D{}
	if opt.Genre != "" {
		filter = append(filter, bson.E{Key: "genre", Value: opt.Genre})
	}

	limit := opt.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	findOption := options.Find()
	findOption.SetLimit(limit)

	if opt.SortBy != "" {
		findOption.SetSort(models.CreateSortBson(opt.SortBy, opt.Order))
	}

	cur, err := m.coll.Find(context.TODO(), filter, findOption)
	if err != nil {
		return nil, err
	}

	books := []objects.Book{}
	err = cur.All(context.TODO(), &books)
	if err != nil {
		return nil, err
	}

	return books, nil
}

// Update replaces the stored book. The caller merges and validates fields
// beforehand; availability and the update timestamp are refreshed here.
func (m BooksModel) Update(book objects.Book) (objects.Book, error) {

	book.UpdatedAt = time.Now().UTC()
	book.Available = objects.DeriveAvailability(book.Copies)

	filter := bson.D{{Key: "_id", Value: book.ID}}

	result := m.coll.FindOneAndReplace(context.TODO(), filter, book)
	if err := result.Err(); err != nil {

		if goerrors.Is(err, mongo.ErrNoDocuments) {
			return objects.Book{}, errors.BookNotFoundError.New()
		}

		if mongo.IsDuplicateKeyError(err) {
			return objects.Book{}, errors.DuplicatedISBNError.New(book.ISBN)
		}

		return objects.Book{}, err
	}

	return book, nil
}

func (m BooksModel) Delete(bookID primitive.ObjectID) error {

	filter := bson.D{{Key: "_id", Value: bookID}}

	option := options.FindOneAndDelete()
	result := m.coll.FindOneAndDelete(context.TODO(), filter, option)
	if err := result.Err(); err != nil {

		if goerrors.Is(err, mongo.ErrNoDocuments) {
			return errors.BookNotFoundError.New()
		}

		return err
	}

	return nil
}

// DeductCopies subtracts quantity from the book's copies and re-derives
// availability as one conditional update. The copies >= quantity check sits in
// the filter, so concurrent borrows cannot both pass it and over-allocate.
func (m BooksModel) DeductCopies(bookID primitive.ObjectID, quantity int) (objects.Book, error) {

	filter := bson.D{
		{Key: "_id", Value: bookID},
		{Key: "copies", Value: bson.D{{Key: "$gte", Value: quantity}}},
	}

	update := mongo.Pipeline{
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "copies", Value: bson.D{{Key: "$subtract", Value: bson.A{"$copies", quantity}}}},
			{Key: "updatedAt", Value: time.Now().UTC()},
		}}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "available", Value: bson.D{{Key: "$gt", Value: bson.A{"$copies", 0}}}},
		}}},
	}

	option := options.FindOneAndUpdate()
	option.SetReturnDocument(options.After)

	result := m.coll.FindOneAndUpdate(context.TODO(), filter, update, option)

	var book objects.Book
	err := result.Decode(&book)
	if goerrors.Is(err, mongo.ErrNoDocuments) {

		// No match means either the book is gone or it has too few copies left.
		if _, getErr := m.GetByID(bookID); getErr != nil {
			return objects.Book{}, getErr
		}

		return objects.Book{}, errors.InsufficientCopiesError.New()
	}

	return book, err
}

// RestoreCopies gives quantity copies back, compensating a borrow whose ledger
// insert failed after the deduction had already applied.
func (m BooksModel) RestoreCopies(bookID primitive.ObjectID, quantity int) error {

	filter := bson.D{{Key: "_id", Value: bookID}}

	update := mongo.Pipeline{
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "copies", Value: bson.D{{Key: "$add", Value: bson.A{"$copies", quantity}}}},
			{Key: "updatedAt", Value: time.Now().UTC()},
		}}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "available", Value: bson.D{{Key: "$gt", Value: bson.A{"$copies", 0}}}},
		}}},
	}

	result := m.coll.FindOneAndUpdate(context.TODO(), filter, update)
	if err := result.Err(); err != nil {

		if goerrors.Is(err, mongo.ErrNoDocuments) {
			return errors.BookNotFoundError.New()
		}

		return fmt.Errorf("restoring %d copies failed: %w", quantity, err)
	}

	return nil
}
