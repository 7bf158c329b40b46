// Package storage persists uploaded inspection files and returns opaque
// references to them.
package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/marinesurvey/inspector/internal/filex"
	"github.com/oklog/ulid/v2"
)

// Store saves and removes uploaded objects.
type Store interface {
	// Put stores r under key and returns the reference recorded on the entity.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	// Delete removes the object behind ref. Missing objects are not an error.
	Delete(ctx context.Context, ref string) error
}

// NewKey returns a time-sortable object key such as
// "inspections/2025/03/01/01JQ6X7Z3M4V0K5C2T8N9B1R6D.jpg".
func NewKey(prefix, filename string) string {
	d := time.Now().UTC()
	return fmt.Sprintf("%s/%d/%02d/%02d/%s%s", prefix, d.Year(), d.Month(), d.Day(), ulid.Make(), filex.SafeExt(filename))
}
