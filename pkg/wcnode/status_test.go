package wcnode

import (
	"testing"

	"github.com/cuemby/wcmeta/internal/wcerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposeStatusNoRowsIsPathNotFound(t *testing.T) {
	_, ok, err := composeStatus(nil, nil)
	require.Error(t, err)
	assert.False(t, ok)
	assert.True(t, wcerr.Is(err, wcerr.PathNotFound))
}

func TestComposeStatusLiftsBasePresenceWhenNoWorking(t *testing.T) {
	cases := map[Presence]Status{
		PresenceNormal:     StatusNormal,
		PresenceAbsent:     StatusAbsent,
		PresenceExcluded:   StatusExcluded,
		PresenceNotPresent: StatusNotPresent,
		PresenceIncomplete: StatusIncomplete,
	}
	for presence, want := range cases {
		base := &BaseRow{Presence: presence}
		got, ok, err := composeStatus(base, nil)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, want, got)
	}
}

func TestComposeStatusAddedNoBase(t *testing.T) {
	working := &WorkingRow{Presence: WorkingNormal}
	got, ok, err := composeStatus(nil, working)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, StatusAdded, got)
}

func TestComposeStatusCopiedAndMovedHereNoBase(t *testing.T) {
	copied := &WorkingRow{Presence: WorkingNormal, CopyFrom: CopyFrom{ReposID: 1, ReposRelpath: "trunk/a"}}
	got, _, err := composeStatus(nil, copied)
	require.NoError(t, err)
	assert.Equal(t, StatusCopied, got)

	moved := &WorkingRow{Presence: WorkingNormal, CopyFrom: CopyFrom{ReposID: 1, ReposRelpath: "trunk/a"}, MovedHere: true}
	got, _, err = composeStatus(nil, moved)
	require.NoError(t, err)
	assert.Equal(t, StatusMovedHere, got)
}

func TestComposeStatusNonNormalWorkingNoBaseIsUnexpected(t *testing.T) {
	working := &WorkingRow{Presence: WorkingNotPresent}
	_, ok, err := composeStatus(nil, working)
	require.Error(t, err)
	assert.False(t, ok)
	assert.True(t, wcerr.Is(err, wcerr.UnexpectedStatus))
}

func TestComposeStatusSubdirObstruction(t *testing.T) {
	base := &BaseRow{Presence: PresenceNormal, Kind: KindSubdir}

	got, _, err := composeStatus(base, &WorkingRow{Presence: WorkingNormal})
	require.NoError(t, err)
	assert.Equal(t, StatusObstructedAdd, got)

	got, _, err = composeStatus(base, &WorkingRow{Presence: WorkingNotPresent})
	require.NoError(t, err)
	assert.Equal(t, StatusObstructedDel, got)

	got, _, err = composeStatus(base, &WorkingRow{Presence: WorkingIncomplete})
	require.NoError(t, err)
	assert.Equal(t, StatusObstructed, got)
}

func TestComposeStatusNormalBaseWithWorkingOverlay(t *testing.T) {
	base := &BaseRow{Presence: PresenceNormal, Kind: KindFile}

	got, _, err := composeStatus(base, &WorkingRow{Presence: WorkingNormal})
	require.NoError(t, err)
	assert.Equal(t, StatusAdded, got)

	got, _, err = composeStatus(base, &WorkingRow{
		Presence: WorkingNormal,
		CopyFrom: CopyFrom{ReposID: 1, ReposRelpath: "trunk/a"},
	})
	require.NoError(t, err)
	assert.Equal(t, StatusCopied, got)

	got, _, err = composeStatus(base, &WorkingRow{Presence: WorkingNotPresent})
	require.NoError(t, err)
	assert.Equal(t, StatusDeleted, got)

	got, _, err = composeStatus(base, &WorkingRow{Presence: WorkingBaseDeleted})
	require.NoError(t, err)
	assert.Equal(t, StatusDeleted, got)

	got, _, err = composeStatus(base, &WorkingRow{Presence: WorkingIncomplete})
	require.NoError(t, err)
	assert.Equal(t, StatusIncomplete, got)
}
