package wcops

import (
	"testing"

	"github.com/cuemby/wcmeta/pkg/wcdb"
	"github.com/cuemby/wcmeta/pkg/wcnode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelocateRewritesBaseAndWorkingCoords(t *testing.T) {
	s := openTestStore(t)
	oldReposID, err := wcnode.InternRepos(s.DB, "https://old.example.com/svn/repo", "uuid-1")
	require.NoError(t, err)

	require.NoError(t, s.BaseAddDirectory("", oldReposID, "", 1, wcnode.ChangeInfo{}, wcnode.DepthInfinity, nil, nil))
	digest := wcdb.Checksum{Kind: "sha1", Hex: "da39a3ee5e6b4b0d3255bfef95601890afd80709"}
	require.NoError(t, s.BaseAddFile("a.txt", oldReposID, "a.txt", 1, wcnode.ChangeInfo{}, digest, 1, nil))

	require.NoError(t, s.DB.Update(func(tx *wcdb.Tx) error {
		return wcnode.PutWorkingRow(tx, "copied.txt", &wcnode.WorkingRow{
			Presence: wcnode.WorkingNormal,
			Kind:     wcnode.KindFile,
			CopyFrom: wcnode.CopyFrom{ReposID: oldReposID, ReposRelpath: "src.txt", Revision: 3},
		})
	}))

	require.NoError(t, Relocate(s, "", "https://new.example.com/svn/repo"))

	info, err := s.ReadInfo("a.txt")
	require.NoError(t, err)
	assert.NotEqual(t, oldReposID, info.ReposID)

	coords, err := wcnode.GetRepos(s.DB, info.ReposID)
	require.NoError(t, err)
	assert.Equal(t, "https://new.example.com/svn/repo", coords.RootURL)
	assert.Equal(t, "uuid-1", coords.UUID)

	copiedInfo, err := s.ReadInfo("copied.txt")
	require.NoError(t, err)
	assert.Equal(t, info.ReposID, copiedInfo.CopyFrom.ReposID)
}

func TestRelocatePreservesUUID(t *testing.T) {
	s := openTestStore(t)
	oldReposID, err := wcnode.InternRepos(s.DB, "https://old.example.com/svn/repo", "fixed-uuid")
	require.NoError(t, err)
	require.NoError(t, s.BaseAddDirectory("", oldReposID, "", 1, wcnode.ChangeInfo{}, wcnode.DepthInfinity, nil, nil))

	require.NoError(t, Relocate(s, "", "https://new.example.com/svn/repo"))

	info, err := s.ReadInfo("")
	require.NoError(t, err)
	coords, err := wcnode.GetRepos(s.DB, info.ReposID)
	require.NoError(t, err)
	assert.Equal(t, "fixed-uuid", coords.UUID)
}

func TestRelocateScopesReposRewriteAndDavCacheToSubtree(t *testing.T) {
	s := openTestStore(t)
	reposID, err := wcnode.InternRepos(s.DB, "https://old.example.com/svn/repo", "uuid-1")
	require.NoError(t, err)

	require.NoError(t, s.BaseAddDirectory("", reposID, "", 1, wcnode.ChangeInfo{}, wcnode.DepthInfinity, nil, nil))
	require.NoError(t, s.BaseAddDirectory("a", reposID, "a", 1, wcnode.ChangeInfo{}, wcnode.DepthInfinity, nil, nil))
	require.NoError(t, s.BaseAddDirectory("a/b", reposID, "a/b", 1, wcnode.ChangeInfo{}, wcnode.DepthInfinity, nil, nil))
	require.NoError(t, s.BaseAddDirectory("a/bc", reposID, "a/bc", 1, wcnode.ChangeInfo{}, wcnode.DepthInfinity, nil, nil))

	require.NoError(t, s.DB.Update(func(tx *wcdb.Tx) error {
		for _, rp := range []string{"a", "a/b", "a/bc"} {
			row, ok, err := wcnode.GetBaseRow(tx, rp)
			if err != nil || !ok {
				return err
			}
			row.DavCache = []byte("cached")
			if err := wcnode.PutBaseRow(tx, rp, row); err != nil {
				return err
			}
		}
		return nil
	}))

	require.NoError(t, Relocate(s, "a/b", "https://new.example.com/svn/repo"))

	require.NoError(t, s.DB.View(func(tx *wcdb.Tx) error {
		b, _, err := wcnode.GetBaseRow(tx, "a/b")
		require.NoError(t, err)
		assert.Nil(t, b.DavCache)
		assert.NotEqual(t, reposID, b.ReposID)

		sibling, _, err := wcnode.GetBaseRow(tx, "a/bc")
		require.NoError(t, err)
		assert.Equal(t, []byte("cached"), sibling.DavCache)
		assert.Equal(t, reposID, sibling.ReposID)

		parent, _, err := wcnode.GetBaseRow(tx, "a")
		require.NoError(t, err)
		assert.Equal(t, []byte("cached"), parent.DavCache)
		assert.Equal(t, reposID, parent.ReposID)
		return nil
	}))
}

func TestUnderSubtreeBoundary(t *testing.T) {
	assert.True(t, underSubtree("a/b", "a/b"))
	assert.True(t, underSubtree("a/b/c", "a/b"))
	assert.False(t, underSubtree("a/bc", "a/b"))
	assert.True(t, underSubtree("anything", ""))
}
