package borrows

import (
	"context"
	"slices"
	"time"

	"github.com/libro-dev/library-api/mongodb"
	"github.com/libro-dev/library-api/objects"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type BorrowsModel struct {
	coll *mongo.Collection

	booksCollectionName string
}

func NewBorrowsModel(conn *mongodb.MongoDBConn, booksCollectionName string) (*BorrowsModel, error) {

	borrowsModel := BorrowsModel{booksCollectionName: booksCollectionName}

	err := borrowsModel.init(conn)
	if err != nil {
		return nil, err
	}

	return &borrowsModel, nil
}

func (m BorrowsModel) GetCollectionName() string {
	return "borrows"
}

func (m *BorrowsModel) init(conn *mongodb.MongoDBConn) error {

	err := m.initCollection(conn)
	if err != nil {
		return err
	}

	m.coll = conn.GetCollection(m.GetCollectionName())

	return nil
}

func (m BorrowsModel) initCollection(conn *mongodb.MongoDBConn) error {

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
				"required": []string{"book", "quantity", "dueDate"},
				"properties": bson.M{
					"book": bson.M{
						"bsonType":    "objectId",
						"description": "Book reference must be an object id",
					},
					"quantity": bson.M{
						"bsonType":    []string{"int", "long"},
						"minimum":     1,
						"description": "Quantity must be a positive integer",
					},
					"dueDate": bson.M{
						"bsonType":    "date",
						"description": "Due date must be a date",
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

// Insert persists a new borrow record. Records are immutable afterwards.
func (m BorrowsModel) Insert(record objects.BorrowRecord) (objects.BorrowRecord, error) {

	now := time.Now().UTC()
	record.ID = primitive.NewObjectID()
	record.CreatedAt = now
	record.UpdatedAt = now

	_, err := m.coll.InsertOne(context.TODO(), record)
	if err != nil {
		return objects.BorrowRecord{}, err
	}

	return record, nil
}

// Summary aggregates the whole ledger: total quantity borrowed per book,
// joined to the book's title and isbn. Entries whose book was deleted drop
// out at the unwind stage.
func (m BorrowsModel) Summary() ([]objects.BorrowSummaryEntry, error) {

	groupStage := bson.D{
		{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$book"},
			{Key: "totalQuantity", Value: bson.D{{Key: "$sum", Value: "$quantity"}}},
		}},
	}

	lookupStage := bson.D{
		{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: m.booksCollectionName},
			{Key: "localField", Value: "_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "book"},
		}},
	}

	unwindStage := bson.D{
		{Key: "$unwind", Value: "$book"},
	}

	projectStage := bson.D{
		{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "book", Value: bson.D{
				{Key: "title", Value: "$book.title"},
				{Key: "isbn", Value: "$book.isbn"},
			}},
			{Key: "totalQuantity", Value: 1},
		}},
	}

	option := options.Aggregate()
	pipeline := mongo.Pipeline{groupStage, lookupStage, unwindStage, projectStage}

	cur, err := m.coll.Aggregate(context.TODO(), pipeline, option)
	if err != nil {
		return nil, err
	}

	entries := []objects.BorrowSummaryEntry{}
	err = cur.All(context.TODO(), &entries)
	if err != nil {
		return nil, err
	}

	return entries, nil
}
