package services

import (
	"eventix_backend/pkg/apperrors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// parseObjectID treats a malformed id like a missing document.
func parseObjectID(id, domain, notFoundMsg string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, apperrors.ErrNotFound(err, domain, notFoundMsg)
	}
	return oid, nil
}

func fieldError(field, message string) error {
	return apperrors.ValidationError(map[string]string{field: message})
}
