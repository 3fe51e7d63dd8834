package migrations

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
)

// dropIndexIfExists drops the named index from the collection, ignoring the
// case where the index was never created.
func dropIndexIfExists(ctx context.Context, collection *mongo.Collection, name string) error {
	if _, err := collection.Indexes().DropOne(ctx, name); err != nil {
		if strings.Contains(err.Error(), "IndexNotFound") {
			return nil
		}
		return fmt.Errorf("failed to drop index %s for collection %s: %w",
			name, collection.Name(), err)
	}
	return nil
}
