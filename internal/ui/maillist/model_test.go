package maillist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hnguyen/recruitmail/internal/keys"
	"github.com/hnguyen/recruitmail/internal/listing"
	"github.com/hnguyen/recruitmail/internal/model"
)

func testFolders() []model.Folder {
	return []model.Folder{
		{ID: "f1", Name: "Inbox"},
		{ID: "f2", Name: "Archive"},
		{ID: "f3", Name: "Sent"},
	}
}

func TestDefaultFolderSelectedOnFirstLoad(t *testing.T) {
	ctrl := listing.NewController(nil, nil, 25, nil)
	m := New(ctrl, keys.DefaultKeyMap(), "archive", 80, 24)

	m, cmd := m.Update(FoldersLoadedMsg{Folders: testFolders()})
	require.NotNil(t, cmd, "matching the default folder must trigger a fetch")
	assert.Equal(t, 1, m.folderIndex)
	assert.Equal(t, "f2", ctrl.Query().Folder)

	// Later folder refreshes must not yank the user back.
	m.folderIndex = 2
	m, cmd = m.Update(FoldersLoadedMsg{Folders: testFolders()})
	assert.Nil(t, cmd)
	assert.Equal(t, 2, m.folderIndex)
}

func TestUnknownDefaultFolderKeepsBackendListing(t *testing.T) {
	ctrl := listing.NewController(nil, nil, 25, nil)
	m := New(ctrl, keys.DefaultKeyMap(), "Drafts", 80, 24)

	m, cmd := m.Update(FoldersLoadedMsg{Folders: testFolders()})
	assert.Nil(t, cmd)
	assert.Equal(t, 0, m.folderIndex)
	assert.Equal(t, "", ctrl.Query().Folder)
}
