package models

import (
	"github.com/libro-dev/library-api/errors"
	"go.mongodb.org/mongo-driver/bson"
)

type SortOrder string

const (
	AscendingSortOrder  SortOrder = "asc"
	DescendingSortOrder SortOrder = "desc"
)

// ParseSortOrder maps the wire value to a SortOrder, defaulting to ascending
// when the value is empty.
func ParseSortOrder(value string) (SortOrder, error) {

	switch SortOrder(value) {

	case "":
		return AscendingSortOrder, nil

	case AscendingSortOrder:
		return AscendingSortOrder, nil

	case DescendingSortOrder:
		return DescendingSortOrder, nil

	default:
		return "", errors.SortOrderInvalidError.New(value)
	}
}

func (o SortOrder) MongoValue() int {

	if o == DescendingSortOrder {
		return -1
	}

	return 1
}

// CreateSortBson creates BSON for sorting by a single field. An unknown field
// name is passed through unchanged, the store leaves natural order in place.
func CreateSortBson(field string, order SortOrder) bson.D {
	return bson.D{{Key: field, Value: order.MongoValue()}}
}
