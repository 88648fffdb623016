// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios without
// inspecting driver errors.
package repository

import (
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned when a lookup, update or delete matched no
// document. Handlers translate it into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrInvalidID is returned when a path identifier is not a valid
// ObjectID. Handlers translate it into an HTTP 400 response.
var ErrInvalidID = errors.New("invalid id")

// ErrConflict is returned when a write violates a unique index, such as
// a second product with the same slug. Handlers translate it into an
// HTTP 409 response.
var ErrConflict = errors.New("conflict")

func parseID(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return id, nil
}

// wrapWrite maps duplicate key errors to ErrConflict and annotates the rest.
func wrapWrite(err error, msg string) error {
	if err == nil {
		return nil
	}
	if mongo.IsDuplicateKeyError(err) {
		return ErrConflict
	}
	return errors.Wrap(err, msg)
}
