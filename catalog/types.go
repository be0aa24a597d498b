// Package catalog holds the hand-authored catalog types. The
// *_bridge.go files beside them are generated by protobridge-generator
// from bridge.yaml and convert to and from the catalogpb wire forms.
package catalog

import (
	"time"
)

// TrackId identifies a track in the catalog.
type TrackId uint64

// Status is a catalog entry's lifecycle state.
type Status int

//go:generate go tool stringer -type=Status -output=status_string.go
const (
	StatusUnspecified Status = iota
	StatusActive
	StatusRetired
)

// Track is a single playable entry in the catalog.
type Track struct {
	Id       TrackId `bridge:"transparent,name=track_id"`
	Title    string
	Plays    uint64
	Duration time.Duration `bridge:"name=duration_ms,from=DurationFromMillis,to=MillisFromDuration"`
}

// User is a catalog account. Email is required: a wire User without
// one fails conversion instead of defaulting.
type User struct {
	Email    string `bridge:"expect"`
	Nickname *string
	Status   Status
}

// Config is the catalog client configuration.
type Config struct {
	Timeout uint32 `bridge:"default=DefaultTimeout"`
	Retries *uint32
	Verbose bool
}

// Playlist is a user-curated track list. A nil Tags corresponds to an
// empty tag list on the wire.
type Playlist struct {
	Name   string `bridge:"expect"`
	Owner  User
	Tracks []Track
	Tags   *[]string
	Counts map[string]uint64
}
