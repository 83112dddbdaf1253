package wcnode

import (
	"testing"

	"github.com/cuemby/wcmeta/pkg/wcdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadChildrenUnionsBaseAndWorking(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.BaseAddDirectory("", 1, "trunk", 1, ChangeInfo{}, DepthInfinity, nil, []string{"a"}))

	require.NoError(t, s.DB.Update(func(tx *wcdb.Tx) error {
		return putWorkingRow(tx, "b", &WorkingRow{Presence: WorkingNormal, Kind: KindFile})
	}))

	children, err := s.ReadChildren("")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, children)

	baseOnly, err := s.BaseGetChildren("")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, baseOnly)
}

func TestReadChildrenOnlyTakesImmediateComponent(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.DB.Update(func(tx *wcdb.Tx) error {
		return putBaseRow(tx, "dir/nested/leaf.txt", &BaseRow{Presence: PresenceNormal, Kind: KindFile, ParentRelpath: "dir/nested", HasParentRelpath: true})
	}))

	children, err := s.ReadChildren("dir")
	require.NoError(t, err)
	assert.Equal(t, []string{"nested"}, children)
}

func TestReadChecksumReturnsFalseWhenUnset(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.DB.Update(func(tx *wcdb.Tx) error {
		return putBaseRow(tx, "a", &BaseRow{Presence: PresenceNormal, Kind: KindDir})
	}))

	_, found, err := s.ReadChecksum("a")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestReadChecksumReturnsBaseDigest(t *testing.T) {
	s := newTestStore(t)
	digest := wcdb.Checksum{Kind: "sha256", Hex: "abcd"}
	require.NoError(t, s.BaseAddFile("a.txt", 1, "trunk/a.txt", 1, ChangeInfo{}, digest, 1, nil))

	got, found, err := s.ReadChecksum("a.txt")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, digest, got)
}

func TestReadDepthPrefersWorkingOverBase(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.BaseAddDirectory("dir", 1, "trunk/dir", 1, ChangeInfo{}, DepthInfinity, nil, nil))
	require.NoError(t, s.DB.Update(func(tx *wcdb.Tx) error {
		return putWorkingRow(tx, "dir", &WorkingRow{Presence: WorkingNormal, Kind: KindDir, Depth: DepthEmpty})
	}))

	depth, err := s.ReadDepth("dir")
	require.NoError(t, err)
	assert.Equal(t, DepthEmpty, depth)
}

func TestReadKindCollapsesSubdir(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.DB.Update(func(tx *wcdb.Tx) error {
		return putBaseRow(tx, "legacy", &BaseRow{Presence: PresenceNormal, Kind: KindSubdir})
	}))

	kind, err := s.ReadKind("legacy")
	require.NoError(t, err)
	assert.Equal(t, KindDir, kind)
}

func TestReadInfoReportsCopyfromFromWorkingOverlay(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.DB.Update(func(tx *wcdb.Tx) error {
		return putWorkingRow(tx, "new.txt", &WorkingRow{
			Presence:  WorkingNormal,
			Kind:      KindFile,
			CopyFrom:  CopyFrom{ReposID: 1, ReposRelpath: "trunk/old.txt", Revision: 5},
			MovedHere: true,
		})
	}))

	info, err := s.ReadInfo("new.txt")
	require.NoError(t, err)
	assert.Equal(t, StatusMovedHere, info.Status)
	assert.True(t, info.MovedHere)
	assert.Equal(t, "trunk/old.txt", info.CopyFrom.ReposRelpath)
}

func TestReadInfoBaseShadowedFlag(t *testing.T) {
	s := newTestStore(t)
	digest := wcdb.Checksum{Kind: "sha1", Hex: "da39a3ee5e6b4b0d3255bfef95601890afd80709"}
	require.NoError(t, s.BaseAddFile("a.txt", 1, "trunk/a.txt", 1, ChangeInfo{}, digest, 1, nil))
	require.NoError(t, s.DB.Update(func(tx *wcdb.Tx) error {
		return putWorkingRow(tx, "a.txt", &WorkingRow{Presence: WorkingNotPresent})
	}))

	info, err := s.ReadInfo("a.txt")
	require.NoError(t, err)
	assert.True(t, info.BaseShadowed)
	assert.Equal(t, StatusDeleted, info.Status)
}
