package wcops

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/cuemby/wcmeta/internal/wcerr"
	"github.com/cuemby/wcmeta/pkg/wcdb"
	"github.com/cuemby/wcmeta/pkg/wcnode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *wcnode.Store {
	t.Helper()
	db, err := wcdb.Open(filepath.Join(t.TempDir(), "wc.db"), wcdb.ReadWrite, wcdb.OpenOptions{Create: true})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &wcnode.Store{DB: db}
}

func TestCommitRejectsBothDigestAndChildren(t *testing.T) {
	s := openTestStore(t)
	err := Commit(s, CommitInput{Relpath: "a.txt", Digest: wcdb.Checksum{Kind: "sha1", Hex: "x"}, Children: []string{"a"}})
	require.Error(t, err)
	assert.True(t, wcerr.Is(err, wcerr.UnexpectedStatus))
}

func TestCommitRejectsNeitherDigestNorChildren(t *testing.T) {
	s := openTestStore(t)
	err := Commit(s, CommitInput{Relpath: "a.txt"})
	require.Error(t, err)
	assert.True(t, wcerr.Is(err, wcerr.UnexpectedStatus))
}

func TestCommitFileCollapsesWorkingOntoBase(t *testing.T) {
	s := openTestStore(t)
	digest := wcdb.Checksum{Kind: "sha1", Hex: "da39a3ee5e6b4b0d3255bfef95601890afd80709"}

	require.NoError(t, s.DB.Update(func(tx *wcdb.Tx) error {
		return wcnode.PutWorkingRow(tx, "a.txt", &wcnode.WorkingRow{
			Presence:   wcnode.WorkingNormal,
			Kind:       wcnode.KindFile,
			Checksum:   digest,
			Properties: wcdb.Properties{"k": []byte("v")},
		})
	}))

	now := time.Now()
	err := Commit(s, CommitInput{
		Relpath:      "a.txt",
		Revision:     7,
		Date:         now,
		Author:       "alice",
		Digest:       digest,
		ReposID:      1,
		ReposRelpath: "trunk/a.txt",
	})
	require.NoError(t, err)

	info, err := s.ReadInfo("a.txt")
	require.NoError(t, err)
	assert.Equal(t, wcnode.StatusNormal, info.Status)
	assert.Equal(t, int64(7), info.Revision)
	assert.False(t, info.HasWorking)
	assert.True(t, info.HasBase)
}

func TestCommitKeepsChangelistWhenRequested(t *testing.T) {
	s := openTestStore(t)
	digest := wcdb.Checksum{Kind: "sha1", Hex: "da39a3ee5e6b4b0d3255bfef95601890afd80709"}
	require.NoError(t, s.DB.Update(func(tx *wcdb.Tx) error {
		if err := wcnode.PutWorkingRow(tx, "a.txt", &wcnode.WorkingRow{Presence: wcnode.WorkingNormal, Kind: wcnode.KindFile, Checksum: digest}); err != nil {
			return err
		}
		return wcnode.PutActualRow(tx, "a.txt", &wcnode.ActualRow{Changelist: "feature-x"})
	}))

	require.NoError(t, Commit(s, CommitInput{
		Relpath: "a.txt", Revision: 1, Digest: digest, ReposID: 1, ReposRelpath: "trunk/a.txt", KeepChangelist: true,
	}))

	info, err := s.ReadInfo("a.txt")
	require.NoError(t, err)
	assert.Equal(t, "feature-x", info.Changelist)
}

func TestCommitWithoutKeepChangelistClearsActual(t *testing.T) {
	s := openTestStore(t)
	digest := wcdb.Checksum{Kind: "sha1", Hex: "da39a3ee5e6b4b0d3255bfef95601890afd80709"}
	require.NoError(t, s.DB.Update(func(tx *wcdb.Tx) error {
		if err := wcnode.PutWorkingRow(tx, "a.txt", &wcnode.WorkingRow{Presence: wcnode.WorkingNormal, Kind: wcnode.KindFile, Checksum: digest}); err != nil {
			return err
		}
		return wcnode.PutActualRow(tx, "a.txt", &wcnode.ActualRow{Changelist: "feature-x"})
	}))

	require.NoError(t, Commit(s, CommitInput{
		Relpath: "a.txt", Revision: 1, Digest: digest, ReposID: 1, ReposRelpath: "trunk/a.txt",
	}))

	info, err := s.ReadInfo("a.txt")
	require.NoError(t, err)
	assert.Empty(t, info.Changelist)
}

func TestCommitInheritsReposCoordsFromAncestor(t *testing.T) {
	s := openTestStore(t)
	reposID, err := wcnode.InternRepos(s.DB, "https://example.com/svn/repo", "uuid-1")
	require.NoError(t, err)
	require.NoError(t, s.BaseAddDirectory("", reposID, "trunk", 1, wcnode.ChangeInfo{}, wcnode.DepthInfinity, nil, nil))

	digest := wcdb.Checksum{Kind: "sha1", Hex: "da39a3ee5e6b4b0d3255bfef95601890afd80709"}
	require.NoError(t, s.DB.Update(func(tx *wcdb.Tx) error {
		return wcnode.PutWorkingRow(tx, "dir/new.txt", &wcnode.WorkingRow{Presence: wcnode.WorkingNormal, Kind: wcnode.KindFile, Checksum: digest})
	}))

	require.NoError(t, Commit(s, CommitInput{Relpath: "dir/new.txt", Revision: 2, Digest: digest}))

	info, err := s.ReadInfo("dir/new.txt")
	require.NoError(t, err)
	assert.Equal(t, "trunk/dir/new.txt", info.ReposRelpath)
	assert.Equal(t, reposID, info.ReposID)
}

func TestCommitDirectoryKindMismatchFails(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.DB.Update(func(tx *wcdb.Tx) error {
		return wcnode.PutWorkingRow(tx, "a.txt", &wcnode.WorkingRow{Presence: wcnode.WorkingNormal, Kind: wcnode.KindFile})
	}))

	err := Commit(s, CommitInput{Relpath: "a.txt", Revision: 1, Children: []string{"x"}, ReposID: 1, ReposRelpath: "trunk/a.txt"})
	require.Error(t, err)
	assert.True(t, wcerr.Is(err, wcerr.UnexpectedStatus))
}
