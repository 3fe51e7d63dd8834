// Package apicommon provides common types, constants, and helper functions for the API.
package apicommon

// MetadataKey is a type to define the key for the metadata stored in the
// context.
type MetadataKey string

// UserMetadataKey is the key used to store the user in the context.
const UserMetadataKey MetadataKey = "user"

// CollectorProfileMetadataKey is the key used to store the collector profile
// in the context.
const CollectorProfileMetadataKey MetadataKey = "collectorProfile"
