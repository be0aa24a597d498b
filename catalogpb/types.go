// Package catalogpb holds the wire representations of the catalog
// types, shaped the way a schema compiler emits them: optional scalars
// as pointers, repeated fields as slices, enums as named int32 types
// with prefixed constants.
package catalogpb

// Status is the wire form of a catalog entry's lifecycle state.
type Status int32

const (
	Status_STATUS_UNSPECIFIED Status = 0
	Status_STATUS_ACTIVE      Status = 1
	Status_STATUS_RETIRED     Status = 2
)

// Track is the wire form of a catalog track.
type Track struct {
	TrackId    *uint64
	Title      string
	Plays      uint64
	DurationMs int64
}

// User is the wire form of a catalog user.
type User struct {
	Email    *string
	Nickname *string
	Status   Status
}

// Config is the wire form of the catalog client configuration.
type Config struct {
	Timeout uint32
	Retries *uint32
	Verbose bool
}

// Playlist is the wire form of a user-curated track list.
type Playlist struct {
	Name   *string
	Owner  User
	Tracks []Track
	Tags   []string
	Counts map[string]uint64
}
