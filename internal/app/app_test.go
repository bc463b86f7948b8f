package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToastNoticeLifecycle(t *testing.T) {
	var m Model

	m.pushNotice("export saved")
	m.pushNotice("backup complete")
	require.Len(t, m.toasts, 2)
	assert.NotEqual(t, m.toasts[0].ID, m.toasts[1].ID)

	expired := m.toasts[0].ID
	next, _ := m.Update(toastExpiredMsg{id: expired})
	m = next.(Model)

	require.Len(t, m.toasts, 1)
	assert.Equal(t, "backup complete", m.toasts[0].Notification.Title)
}

func TestDismissUnknownToastKeepsStack(t *testing.T) {
	var m Model
	m.pushNotice("match run started")

	m.dismissToast("not-a-live-toast-id")
	assert.Len(t, m.toasts, 1)
}
