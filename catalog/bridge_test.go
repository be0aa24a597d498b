package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"protobridge-generator/catalogpb"
)

func ptrTo[T any](v T) *T {
	return &v
}

func TestTrackRoundTrip(t *testing.T) {
	wire := catalogpb.Track{
		TrackId:    ptrTo(uint64(7)),
		Title:      "Silk Road",
		Plays:      1204,
		DurationMs: 183000,
	}

	track := TrackFromWire(wire)
	assert.Equal(t, TrackId(7), track.Id)
	assert.Equal(t, 183*time.Second, track.Duration)

	back := TrackToWire(track)
	require.NotNil(t, back.TrackId)
	assert.Equal(t, uint64(7), *back.TrackId)
	assert.Equal(t, wire.Title, back.Title)
	assert.Equal(t, wire.Plays, back.Plays)
	assert.Equal(t, wire.DurationMs, back.DurationMs)
}

func TestTrackPanicsWithoutId(t *testing.T) {
	assert.PanicsWithValue(t, "wire field track_id is required", func() {
		TrackFromWire(catalogpb.Track{Title: "No Id"})
	})
}

func TestUserMissingEmail(t *testing.T) {
	_, err := UserFromWire(catalogpb.User{Status: catalogpb.Status_STATUS_ACTIVE})
	require.Error(t, err)

	var convErr *UserConversionError
	require.ErrorAs(t, err, &convErr)
	assert.Equal(t, "email", convErr.MissingField)
	assert.Equal(t, "missing required field: email", err.Error())
}

func TestUserRoundTrip(t *testing.T) {
	wire := catalogpb.User{
		Email:    ptrTo("ada@example.com"),
		Nickname: ptrTo("ada"),
		Status:   catalogpb.Status_STATUS_ACTIVE,
	}

	user, err := UserFromWire(wire)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)
	require.NotNil(t, user.Nickname)
	assert.Equal(t, "ada", *user.Nickname)
	assert.Equal(t, StatusActive, user.Status)

	back := UserToWire(user)
	require.NotNil(t, back.Email)
	assert.Equal(t, "ada@example.com", *back.Email)
	assert.Equal(t, catalogpb.Status_STATUS_ACTIVE, back.Status)
}

func TestPlaylistChecksNameFirst(t *testing.T) {
	// Both the playlist name and the owner's email are missing; field
	// order decides which failure surfaces.
	_, err := PlaylistFromWire(catalogpb.Playlist{})
	require.Error(t, err)

	var convErr *PlaylistConversionError
	require.ErrorAs(t, err, &convErr)
	assert.Equal(t, "name", convErr.MissingField)
}

func TestPlaylistPropagatesOwnerError(t *testing.T) {
	_, err := PlaylistFromWire(catalogpb.Playlist{Name: ptrTo("morning")})
	require.Error(t, err)

	var convErr *UserConversionError
	require.ErrorAs(t, err, &convErr)
	assert.Equal(t, "email", convErr.MissingField)
}

func TestPlaylistTagsAbsence(t *testing.T) {
	wire := catalogpb.Playlist{
		Name:  ptrTo("morning"),
		Owner: catalogpb.User{Email: ptrTo("ada@example.com")},
	}

	pl, err := PlaylistFromWire(wire)
	require.NoError(t, err)
	assert.Nil(t, pl.Tags, "empty wire tag list maps to absent")

	back := PlaylistToWire(pl)
	assert.Empty(t, back.Tags)

	wire.Tags = []string{"calm", "focus"}
	pl, err = PlaylistFromWire(wire)
	require.NoError(t, err)
	require.NotNil(t, pl.Tags)
	assert.Equal(t, []string{"calm", "focus"}, *pl.Tags)

	back = PlaylistToWire(pl)
	assert.Equal(t, []string{"calm", "focus"}, back.Tags)
}

func TestPlaylistRoundTrip(t *testing.T) {
	wire := catalogpb.Playlist{
		Name: ptrTo("morning"),
		Owner: catalogpb.User{
			Email:  ptrTo("ada@example.com"),
			Status: catalogpb.Status_STATUS_ACTIVE,
		},
		Tracks: []catalogpb.Track{
			{TrackId: ptrTo(uint64(1)), Title: "One", DurationMs: 1000},
			{TrackId: ptrTo(uint64(2)), Title: "Two", DurationMs: 2000},
		},
		Counts: map[string]uint64{"plays": 3},
	}

	pl, err := PlaylistFromWire(wire)
	require.NoError(t, err)
	require.Len(t, pl.Tracks, 2)
	assert.Equal(t, TrackId(2), pl.Tracks[1].Id)
	assert.Equal(t, uint64(3), pl.Counts["plays"])

	back := PlaylistToWire(pl)
	require.Len(t, back.Tracks, 2)
	assert.Equal(t, "Two", back.Tracks[1].Title)
	assert.Equal(t, wire.Counts, back.Counts)
}

func TestConfigTimeoutDefault(t *testing.T) {
	cfg := ConfigFromWire(catalogpb.Config{})
	assert.Equal(t, uint32(30), cfg.Timeout)

	cfg = ConfigFromWire(catalogpb.Config{Timeout: 17})
	assert.Equal(t, uint32(17), cfg.Timeout)

	// The reverse direction re-emits unconditionally; a defaulted
	// value is indistinguishable from a configured 30.
	back := ConfigToWire(Config{Timeout: 30})
	assert.Equal(t, uint32(30), back.Timeout)
}

func TestStatusBridge(t *testing.T) {
	assert.Equal(t, StatusRetired, StatusFromWire(catalogpb.Status_STATUS_RETIRED))
	assert.Equal(t, catalogpb.Status_STATUS_ACTIVE, StatusToWire(StatusActive))

	// Unknown wire values collapse to the zero value going native and
	// cast numerically going back.
	assert.Equal(t, StatusUnspecified, StatusFromWire(catalogpb.Status(99)))
	assert.Equal(t, catalogpb.Status(99), StatusToWire(Status(99)))

	assert.Equal(t, "StatusRetired", StatusRetired.String())
}
