package repository

import (
	"regexp"

	"github.com/alimikegami/e-commerce/storefront-service/pkg/errs"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// parseObjectID maps malformed identifiers to ErrNotFound, the same as an
// absent document.
func parseObjectID(id string) (primitive.ObjectID, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return objectID, errs.ErrNotFound
	}

	return objectID, nil
}

func containsPattern(q string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(q), Options: "i"}
}
