package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hnguyen/recruitmail/internal/model"
	"github.com/hnguyen/recruitmail/internal/ui/maildetail"
	"github.com/hnguyen/recruitmail/internal/ui/maillist"
	"github.com/hnguyen/recruitmail/internal/ui/scrapeform"
)

const fetchTimeout = 30 * time.Second

// statsMsg carries the mailbox statistics for the header.
type statsMsg struct {
	stats *model.MailboxStats
	err   error
}

// downloadDoneMsg carries a finished attachment download.
type downloadDoneMsg struct {
	path string
	err  error
}

// loadFolders fetches the folder sidebar data.
func (m Model) loadFolders() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		folders, err := client.ListFolders(ctx)
		return maillist.FoldersLoadedMsg{Folders: folders, Err: err}
	}
}

// loadStats fetches mailbox-wide counters for the header.
func (m Model) loadStats() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		stats, err := client.GetStats(ctx)
		return statsMsg{stats: stats, err: err}
	}
}

// loadEmailDetail fetches one message body and marks the mirrored row
// read, matching what the backend does on a detail fetch.
func (m Model) loadEmailDetail(id string) tea.Cmd {
	client := m.client
	mirror := m.mirror
	log := m.log
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		detail, err := client.GetEmail(ctx, id)
		if err != nil {
			return maildetail.DetailLoadedMsg{Err: err}
		}

		if merr := mirror.MarkEmailRead(ctx, id, true); merr != nil {
			log.WithError(merr).Debug("marking mirrored row read failed")
		}
		return maildetail.DetailLoadedMsg{Detail: detail}
	}
}

// downloadAttachment streams one attachment and saves it under the
// downloads directory with the server-supplied filename.
func (m Model) downloadAttachment(msg maildetail.DownloadAttachmentMsg) tea.Cmd {
	client := m.client
	dir := m.cfg.Storage.DownloadsDir
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		dl, err := client.DownloadAttachment(ctx, msg.EmailID, msg.AttachmentID)
		if err != nil {
			return downloadDoneMsg{err: err}
		}

		path, err := scrapeform.SaveDownload(dir, dl)
		return downloadDoneMsg{path: path, err: err}
	}
}
