package app

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/hnguyen/recruitmail/internal/api"
	"github.com/hnguyen/recruitmail/internal/candidates"
	"github.com/hnguyen/recruitmail/internal/keys"
	"github.com/hnguyen/recruitmail/internal/listing"
	"github.com/hnguyen/recruitmail/internal/model"
	"github.com/hnguyen/recruitmail/internal/notify"
	"github.com/hnguyen/recruitmail/internal/scheduler"
	"github.com/hnguyen/recruitmail/internal/session"
	"github.com/hnguyen/recruitmail/internal/store"
	"github.com/hnguyen/recruitmail/internal/theme"
	"github.com/hnguyen/recruitmail/internal/ui"
	"github.com/hnguyen/recruitmail/internal/ui/candview"
	"github.com/hnguyen/recruitmail/internal/ui/command"
	helpview "github.com/hnguyen/recruitmail/internal/ui/help"
	"github.com/hnguyen/recruitmail/internal/ui/jobsview"
	"github.com/hnguyen/recruitmail/internal/ui/login"
	"github.com/hnguyen/recruitmail/internal/ui/maildetail"
	"github.com/hnguyen/recruitmail/internal/ui/maillist"
	"github.com/hnguyen/recruitmail/internal/ui/notifdrop"
	"github.com/hnguyen/recruitmail/internal/ui/schedview"
	"github.com/hnguyen/recruitmail/internal/ui/scrapeform"
	"github.com/hnguyen/recruitmail/internal/ui/storageview"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewMailbox ViewState = iota
	ViewMailDetail
	ViewCandidates
	ViewJobs
	ViewScheduler
	ViewStorage
	ViewScrape
	ViewNotifications
	ViewHelp
	ViewCommand
)

// toastExpiredMsg removes one toast after its lifetime elapses.
type toastExpiredMsg struct {
	id string
}

// Model is the root Bubble Tea model: it owns the session gate, the
// shared controllers, view routing, and the toast stack.
type Model struct {
	cfg    *model.AppConfig
	log    *logrus.Entry
	client *api.Client
	mirror store.Store

	gate        *session.Gate
	poller      *notify.Poller
	center      *notify.Center
	listingCtrl *listing.Controller
	schedCtrl   *scheduler.Controller
	collection  *candidates.Collection

	layout ui.Layout
	keys   *keys.KeyMap

	currentView  ViewState
	previousView ViewState

	loginView   login.Model
	mailList    maillist.Model
	mailDetail  maildetail.Model
	candView    candview.Model
	jobsView    jobsview.Model
	schedView   schedview.Model
	storageView storageview.Model
	scrapeView  scrapeform.Model
	notifView   notifdrop.Model
	commandView command.Model
	helpView    helpview.Model

	toasts  []notify.Toast
	stats   *model.MailboxStats
	folders []model.Folder
	ready   bool
	started bool
}

// New wires the root model from the injected dependencies.
func New(cfg *model.AppConfig, client *api.Client, mirror store.Store, log *logrus.Entry) Model {
	k := keys.DefaultKeyMap()

	gate := session.NewGate(client, log)
	center := notify.NewCenter(client, log)
	poller := notify.New(client, cfg.Mailbox.NotifyPollSec, log)
	listingCtrl := listing.NewController(client, mirror, cfg.Mailbox.PageSize, log)
	schedCtrl := scheduler.NewController(client, cfg.Mailbox.SchedulerPollSec, log)
	collection := candidates.NewCollection(client, mirror, log)

	return Model{
		cfg:    cfg,
		log:    log,
		client: client,
		mirror: mirror,

		gate:        gate,
		poller:      poller,
		center:      center,
		listingCtrl: listingCtrl,
		schedCtrl:   schedCtrl,
		collection:  collection,

		keys: k,

		currentView: ViewMailbox,
		loginView:   login.New(gate, log, 80, 24),
		mailList:    maillist.New(listingCtrl, k, cfg.Mailbox.DefaultFolder, 80, 24),
		mailDetail:  maildetail.New(k, 80, 24),
		candView:    candview.New(collection, k, 80, 24),
		jobsView:    jobsview.New(client, log, k, 80, 24),
		schedView:   schedview.New(schedCtrl, k, 80, 24),
		storageView: storageview.New(client, log, k, 80, 24),
		scrapeView:  scrapeform.New(client, log, cfg.Storage.DownloadsDir, 80, 24),
		notifView:   notifdrop.New(center, k, 80, 24),
		commandView: command.New(80, 24),
		helpView:    helpview.New(k, 80, 24),
	}
}

// Init probes for an existing session. Nothing else loads until the
// gate says the session is ready.
func (m Model) Init() tea.Cmd {
	return m.gate.Check()
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		cw, ch := m.layout.ContentWidth(), m.layout.ContentHeight()
		m.loginView.SetSize(msg.Width, msg.Height)
		m.mailList.SetSize(cw, ch)
		m.mailDetail.SetSize(cw, ch)
		m.candView.SetSize(cw, ch)
		m.jobsView.SetSize(cw, ch)
		m.schedView.SetSize(cw, ch)
		m.storageView.SetSize(cw, ch)
		m.scrapeView.SetSize(cw, ch)
		m.notifView.SetSize(cw, ch)
		m.commandView.SetSize(cw, ch)
		m.helpView.SetSize(cw, ch)
		return m.updateActiveView(msg)

	case session.CheckedMsg:
		if m.gate.HandleChecked(msg) == session.StateReady {
			return m, m.enterReady()
		}
		return m, m.loginView.Init()

	case session.LoginResultMsg:
		var cmd tea.Cmd
		m.loginView, cmd = m.loginView.Update(msg)
		if m.gate.HandleLoginResult(msg) == session.StateReady {
			return m, m.enterReady()
		}
		return m, cmd

	case session.LoggedOutMsg:
		m.gate.HandleLoggedOut(msg)
		return m, m.leaveReady()

	case notify.TickMsg:
		return m.handleNotifyTick(msg)

	case toastExpiredMsg:
		m.dismissToast(msg.id)
		return m, nil

	case statsMsg:
		if msg.err == nil {
			m.stats = msg.stats
		}
		return m, nil

	case maillist.FoldersLoadedMsg:
		if msg.Err == nil {
			m.folders = msg.Folders
			ids := make([]string, len(msg.Folders))
			names := make([]string, len(msg.Folders))
			for i, f := range msg.Folders {
				ids[i] = f.ID
				names[i] = f.Name
			}
			m.scrapeView.SetFolders(ids, names)
		}
		var cmd tea.Cmd
		m.mailList, cmd = m.mailList.Update(msg)
		return m, cmd

	case listing.ResultMsg:
		if cmd, handled := m.interceptAuthError(msg.Err); handled {
			return m, cmd
		}
		var cmd tea.Cmd
		m.mailList, cmd = m.mailList.Update(msg)
		return m, cmd

	case maillist.SelectedEmailMsg:
		m.previousView = m.currentView
		m.currentView = ViewMailDetail
		m.mailDetail.SetLoading(true)
		return m, m.loadEmailDetail(msg.ID)

	case maildetail.DetailLoadedMsg:
		if cmd, handled := m.interceptAuthError(msg.Err); handled {
			return m, cmd
		}
		var cmd tea.Cmd
		m.mailDetail, cmd = m.mailDetail.Update(msg)
		return m, cmd

	case maildetail.BackMsg:
		m.currentView = ViewMailbox
		return m, nil

	case maildetail.DownloadAttachmentMsg:
		return m, m.downloadAttachment(msg)

	case downloadDoneMsg:
		if msg.err != nil {
			m.log.WithError(msg.err).Warn("attachment download failed")
			m.pushNotice("Download failed.")
			return m, nil
		}
		m.pushNotice("Saved " + msg.path)
		return m, nil

	case candidates.LoadedMsg:
		if cmd, handled := m.interceptAuthError(msg.Err); handled {
			return m, cmd
		}
		var cmd tea.Cmd
		m.candView, cmd = m.candView.Update(msg)
		return m, cmd

	case candidates.NotesSavedMsg, candidates.TagsSavedMsg:
		var cmd tea.Cmd
		m.candView, cmd = m.candView.Update(msg)
		return m, cmd

	case candview.SearchCommittedMsg:
		var cmd tea.Cmd
		m.candView, cmd = m.candView.Update(msg)
		return m, cmd

	case jobsview.JobsLoadedMsg:
		if cmd, handled := m.interceptAuthError(msg.Err); handled {
			return m, cmd
		}
		var cmd tea.Cmd
		m.jobsView, cmd = m.jobsView.Update(msg)
		return m, cmd

	case jobsview.JobCreatedMsg, jobsview.MatchRanMsg, jobsview.ResultsLoadedMsg, jobsview.FormCancelMsg:
		var cmd tea.Cmd
		m.jobsView, cmd = m.jobsView.Update(msg)
		return m, cmd

	case scheduler.StatusMsg:
		if cmd, handled := m.interceptAuthError(msg.Err); handled {
			return m, cmd
		}
		var cmd tea.Cmd
		m.schedView, cmd = m.schedView.Update(msg)
		return m, cmd

	case scheduler.SavedMsg, scheduler.RunTriggeredMsg, scheduler.RunWindowElapsedMsg,
		schedview.CountdownTickMsg, schedview.ReconcileTickMsg:
		var cmd tea.Cmd
		m.schedView, cmd = m.schedView.Update(msg)
		return m, cmd

	case storageview.HealthMsg:
		if cmd, handled := m.interceptAuthError(msg.Err); handled {
			return m, cmd
		}
		var cmd tea.Cmd
		m.storageView, cmd = m.storageView.Update(msg)
		return m, cmd

	case storageview.BackupMsg, storageview.ClearedMsg:
		var cmd tea.Cmd
		m.storageView, cmd = m.storageView.Update(msg)
		return m, cmd

	case scrapeform.ScrapeDoneMsg:
		if cmd, handled := m.interceptAuthError(msg.Err); handled {
			return m, cmd
		}
		var cmd tea.Cmd
		m.scrapeView, cmd = m.scrapeView.Update(msg)
		// A scrape changes what the listing would return.
		return m, tea.Batch(cmd, m.listingCtrl.Refresh(), m.loadStats())

	case scrapeform.ExportDoneMsg:
		var cmd tea.Cmd
		m.scrapeView, cmd = m.scrapeView.Update(msg)
		return m, cmd

	case scrapeform.CancelMsg:
		m.currentView = m.previousView
		return m, nil

	case notify.ListMsg, notify.ReadResultMsg:
		var cmd tea.Cmd
		m.notifView, cmd = m.notifView.Update(msg)
		return m, cmd

	case notifdrop.CloseMsg:
		m.currentView = m.previousView
		return m, nil

	case command.CommandMsg:
		m.currentView = m.previousView
		return m, m.executeCommand(string(msg))

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateActiveView(msg)
}

// enterReady starts everything that needs an authenticated session.
func (m *Model) enterReady() tea.Cmd {
	m.started = true
	m.currentView = ViewMailbox
	return tea.Batch(
		m.mailList.Init(),
		m.candView.Init(),
		m.loadFolders(),
		m.loadStats(),
		m.poller.Start(),
		m.poller.WaitForNextResult(),
	)
}

// leaveReady tears down session-scoped state after a logout or a 401.
func (m *Model) leaveReady() tea.Cmd {
	if m.started {
		m.poller.Stop()
		m.started = false
	}
	m.listingCtrl.Reset()
	m.collection.Reset()
	m.toasts = nil
	m.stats = nil
	m.folders = nil
	m.currentView = ViewMailbox
	m.loginView = login.New(m.gate, m.log, m.layout.Width, m.layout.Height)
	return m.loginView.Init()
}

// interceptAuthError funnels a 401 from any later request back through
// the gate: the server session is gone, so the login view takes over.
func (m *Model) interceptAuthError(err error) (tea.Cmd, bool) {
	if err == nil || !api.IsAuthError(err) {
		return nil, false
	}
	m.gate.HandleAuthError()
	return m.leaveReady(), true
}

func (m Model) handleNotifyTick(msg notify.TickMsg) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{m.poller.WaitForNextResult()}

	if cmd, handled := m.interceptAuthError(msg.Err); handled {
		return m, cmd
	}
	if msg.Err == nil {
		m.center.SetCount(msg.Count)
	}

	for _, t := range msg.Toasts {
		m.toasts = append(m.toasts, t)
		id := t.ID
		cmds = append(cmds, tea.Tick(notify.ToastLifetime, func(time.Time) tea.Msg {
			return toastExpiredMsg{id: id}
		}))
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) dismissToast(id string) {
	kept := m.toasts[:0]
	for _, t := range m.toasts {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	m.toasts = kept
}

// pushNotice shows a short-lived toast for a local event.
func (m *Model) pushNotice(text string) {
	m.toasts = append(m.toasts, notify.Toast{
		ID:           uuid.New().String(),
		Notification: model.Notification{Title: text, Type: model.NotificationGeneric},
	})
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// While logged out the login form owns the keyboard, except quit.
	if m.gate.State() != session.StateReady {
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.loginView, cmd = m.loginView.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "ctrl+c":
		m.shutdown()
		return m, tea.Quit

	case "q":
		if m.isTopLevel() && !m.inputFocused() {
			m.shutdown()
			return m, tea.Quit
		}

	case "?":
		if m.inputFocused() {
			break
		}
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return m, nil
		}
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return m, nil

	case ":":
		if m.inputFocused() {
			break
		}
		if m.currentView == ViewCommand {
			m.currentView = m.previousView
			return m, nil
		}
		m.previousView = m.currentView
		m.currentView = ViewCommand
		return m, m.commandView.Focus()

	case "x":
		if len(m.toasts) > 0 && !m.inputFocused() {
			m.toasts = m.toasts[1:]
			return m, nil
		}
	}

	if !m.inputFocused() {
		if cmd, ok := m.viewSwitch(msg); ok {
			return m, cmd
		}
	}

	return m.updateActiveView(msg)
}

// viewSwitch handles the top-level navigation keys.
func (m *Model) viewSwitch(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "1":
		m.switchTo(ViewMailbox)
		return nil, true
	case "2":
		m.switchTo(ViewCandidates)
		return m.collection.Load(""), true
	case "3":
		m.switchTo(ViewJobs)
		return m.jobsView.Init(), true
	case "4":
		m.switchTo(ViewScheduler)
		return m.schedView.Activate(), true
	case "5":
		m.switchTo(ViewStorage)
		return m.storageView.Init(), true
	case "n":
		if m.currentView == ViewNotifications {
			m.currentView = m.previousView
			return nil, true
		}
		m.switchTo(ViewNotifications)
		return m.notifView.Init(), true
	case "s":
		if m.currentView == ViewMailbox {
			m.switchTo(ViewScrape)
			return m.scrapeView.Start(), true
		}
	case "ctrl+l":
		return m.gate.Logout(), true
	}
	return nil, false
}

func (m *Model) switchTo(v ViewState) {
	if m.currentView == ViewScheduler && v != ViewScheduler {
		m.schedView.Deactivate()
	}
	if m.currentView != v {
		m.previousView = m.currentView
		m.currentView = v
	}
}

// inputFocused reports whether the active view is capturing free text,
// so global single-letter shortcuts must stay out of the way.
func (m Model) inputFocused() bool {
	switch m.currentView {
	case ViewCommand, ViewScrape:
		return true
	case ViewMailbox:
		return m.mailList.Searching()
	case ViewCandidates:
		return m.candView.Editing()
	case ViewJobs:
		return m.jobsView.FormOpen()
	case ViewScheduler:
		return m.schedView.Editing()
	case ViewStorage:
		return m.storageView.Confirming()
	default:
		return false
	}
}

func (m Model) isTopLevel() bool {
	switch m.currentView {
	case ViewMailbox, ViewCandidates, ViewJobs, ViewScheduler, ViewStorage:
		return true
	}
	return false
}

// shutdown stops background work before quitting.
func (m *Model) shutdown() {
	if m.started {
		m.poller.Stop()
	}
	m.mailList.Stop()
	m.candView.Stop()
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.gate.State() != session.StateReady {
		var cmd tea.Cmd
		m.loginView, cmd = m.loginView.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	switch m.currentView {
	case ViewMailbox:
		m.mailList, cmd = m.mailList.Update(msg)
	case ViewMailDetail:
		m.mailDetail, cmd = m.mailDetail.Update(msg)
	case ViewCandidates:
		m.candView, cmd = m.candView.Update(msg)
	case ViewJobs:
		m.jobsView, cmd = m.jobsView.Update(msg)
	case ViewScheduler:
		m.schedView, cmd = m.schedView.Update(msg)
	case ViewStorage:
		m.storageView, cmd = m.storageView.Update(msg)
	case ViewScrape:
		m.scrapeView, cmd = m.scrapeView.Update(msg)
	case ViewNotifications:
		m.notifView, cmd = m.notifView.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	}
	return m, cmd
}

// View renders the full terminal UI.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	switch m.gate.State() {
	case session.StateChecking:
		return m.layout.RenderWithFrame(
			m.layout.RenderHeader("recruitmail", "connecting"),
			"\n  Checking session...",
			m.layout.RenderStatusBar("ctrl+c quit"),
		)
	case session.StateLoggedOut:
		return m.loginView.View()
	}

	header := m.layout.RenderHeader("recruitmail", m.headerStatus())
	content := m.renderToasts() + m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

func (m Model) renderContent() string {
	switch m.currentView {
	case ViewMailbox:
		return m.mailList.View()
	case ViewMailDetail:
		return m.mailDetail.View()
	case ViewCandidates:
		return m.candView.View()
	case ViewJobs:
		return m.jobsView.View()
	case ViewScheduler:
		return m.schedView.View()
	case ViewStorage:
		return m.storageView.View()
	case ViewScrape:
		return m.scrapeView.View()
	case ViewNotifications:
		return m.notifView.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	default:
		return ""
	}
}

// headerStatus summarizes session, unread badge, and mailbox stats for
// the header's right edge.
func (m Model) headerStatus() string {
	status := ""
	if s := m.gate.Session(); s.User != nil {
		status = s.User.Email
	}
	if c := m.center.Count(); c > 0 {
		status += fmt.Sprintf("  [%d new]", c)
	}
	if m.stats != nil {
		status += fmt.Sprintf("  %d unread / %d total", m.stats.TotalUnread, m.stats.TotalEmails)
	}
	if m.listingCtrl.Mode() == listing.ModeCached {
		status += "  CACHED"
	}
	return status
}

func (m Model) renderToasts() string {
	if len(m.toasts) == 0 {
		return ""
	}
	out := ""
	for _, t := range m.toasts {
		text := t.Notification.Title
		if t.Notification.Message != "" {
			text += ": " + t.Notification.Message
		}
		out += theme.ToastStyle.Render(text) + "\n"
	}
	return out
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewMailDetail:
		return "esc back | tab next attachment | enter download | j/k scroll"
	case ViewCandidates:
		return "enter profile | / search | o notes | t tag | esc back"
	case ViewJobs:
		return "enter results | c create | R run match | esc back"
	case ViewScheduler:
		return "space toggle | e edit | R run now | r refresh"
	case ViewStorage:
		return "b backup | D clear data | r refresh"
	case ViewScrape:
		return "enter submit | esc cancel"
	case ViewNotifications:
		return "enter mark read | a mark all | C clear read | esc close"
	case ViewHelp:
		return "? close help"
	case ViewCommand:
		return "enter execute | esc back"
	default:
		return "q quit | ? help | / search | s scrape | n notifications | 1-5 views"
	}
}

// executeCommand handles a command string from the command palette.
func (m *Model) executeCommand(cmd string) tea.Cmd {
	switch cmd {
	case "refresh", "sync":
		return tea.Batch(m.listingCtrl.Refresh(), m.loadFolders(), m.loadStats())
	case "quit", "q":
		m.shutdown()
		return tea.Quit
	case "mailbox", "mail":
		m.switchTo(ViewMailbox)
		return nil
	case "candidates":
		m.switchTo(ViewCandidates)
		return m.collection.Load("")
	case "jobs":
		m.switchTo(ViewJobs)
		return m.jobsView.Init()
	case "scheduler":
		m.switchTo(ViewScheduler)
		return m.schedView.Activate()
	case "storage":
		m.switchTo(ViewStorage)
		return m.storageView.Init()
	case "scrape", "export":
		m.switchTo(ViewScrape)
		return m.scrapeView.Start()
	case "notifications":
		m.switchTo(ViewNotifications)
		return m.notifView.Init()
	case "logout":
		return m.gate.Logout()
	default:
		return nil
	}
}
