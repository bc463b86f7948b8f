package scrapeform

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/hnguyen/recruitmail/internal/api"
	"github.com/hnguyen/recruitmail/internal/theme"
)

const requestTimeout = 120 * time.Second

// Action selects what the submitted filters are used for.
type Action string

const (
	ActionScrape     Action = "scrape"
	ActionExportJSON Action = "export_json"
	ActionExportCSV  Action = "export_csv"
)

// ScrapeDoneMsg carries a completed scrape run.
type ScrapeDoneMsg struct {
	Result *api.ScrapeResult
	Err    error
}

// ExportDoneMsg carries a completed export, already saved to disk.
type ExportDoneMsg struct {
	Path string
	Err  error
}

// CancelMsg is emitted when the form is aborted.
type CancelMsg struct{}

// formBindings holds form field values on the heap so huh's Value()
// pointers stay valid across Bubble Tea model copies.
type formBindings struct {
	action      Action
	folderID    string
	fromDate    string
	toDate      string
	sender      string
	subject     string
	search      string
	maxResults  string
	attachments bool
}

// Model is the scrape/export form plus the run summary.
type Model struct {
	client       *api.Client
	log          *logrus.Entry
	downloadsDir string

	form    *huh.Form
	fb      *formBindings
	folders []folderOption
	busy    bool
	summary string
	notice  string

	width  int
	height int
}

type folderOption struct {
	id   string
	name string
}

// New creates the scrape form. Exports are written under downloadsDir
// with the server-supplied filename.
func New(client *api.Client, log *logrus.Entry, downloadsDir string, width, height int) Model {
	return Model{
		client:       client,
		log:          log,
		downloadsDir: downloadsDir,
		fb:           &formBindings{action: ActionScrape, maxResults: "50"},
		width:        width,
		height:       height,
	}
}

// SetFolders fills the folder selector options.
func (m *Model) SetFolders(ids, names []string) {
	m.folders = m.folders[:0]
	for i := range ids {
		m.folders = append(m.folders, folderOption{id: ids[i], name: names[i]})
	}
}

// Start resets and opens the form.
func (m *Model) Start() tea.Cmd {
	m.busy = false
	m.summary = ""
	m.notice = ""
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the scrape form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ScrapeDoneMsg:
		m.busy = false
		if msg.Err != nil {
			m.notice = "Scrape failed."
			return m, nil
		}
		m.summary = fmt.Sprintf("Scraped %d messages.", msg.Result.TotalScraped)
		return m, nil

	case ExportDoneMsg:
		m.busy = false
		if msg.Err != nil {
			m.notice = "Export failed."
			return m, nil
		}
		m.summary = fmt.Sprintf("Export saved to %s", msg.Path)
		return m, nil
	}

	if m.busy || m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m.submit()
	}
	if m.form.State == huh.StateAborted {
		m.form = nil
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

func (m Model) submit() (Model, tea.Cmd) {
	req := api.ScrapeRequest{
		FolderID:           m.fb.folderID,
		FromDate:           strings.TrimSpace(m.fb.fromDate),
		ToDate:             strings.TrimSpace(m.fb.toDate),
		SenderFilter:       strings.TrimSpace(m.fb.sender),
		SubjectFilter:      strings.TrimSpace(m.fb.subject),
		Search:             strings.TrimSpace(m.fb.search),
		IncludeAttachments: m.fb.attachments,
	}
	fmt.Sscanf(strings.TrimSpace(m.fb.maxResults), "%d", &req.MaxResults)

	m.busy = true
	m.notice = ""

	switch m.fb.action {
	case ActionExportJSON:
		return m, m.export(req, false)
	case ActionExportCSV:
		return m, m.export(req, true)
	default:
		return m, m.scrape(req)
	}
}

func (m Model) scrape(req api.ScrapeRequest) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		result, err := client.Scrape(ctx, req)
		return ScrapeDoneMsg{Result: result, Err: err}
	}
}

// export runs the export and saves the stream under the downloads dir
// using the filename from the content-disposition header.
func (m Model) export(req api.ScrapeRequest, csv bool) tea.Cmd {
	client := m.client
	dir := m.downloadsDir
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		var dl *api.Download
		var err error
		if csv {
			dl, err = client.ExportCSV(ctx, req)
		} else {
			dl, err = client.ExportJSON(ctx, req)
		}
		if err != nil {
			return ExportDoneMsg{Err: err}
		}

		path, err := SaveDownload(dir, dl)
		return ExportDoneMsg{Path: path, Err: err}
	}
}

// SaveDownload writes a downloaded file into dir with its
// server-supplied filename, creating the directory if needed.
func SaveDownload(dir string, dl *api.Download) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating downloads dir: %w", err)
	}

	name := filepath.Base(dl.Filename)
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = fmt.Sprintf("download-%d", time.Now().Unix())
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, dl.Content, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

func (m *Model) buildForm() *huh.Form {
	folderOpts := []huh.Option[string]{huh.NewOption("All folders", "")}
	for _, f := range m.folders {
		folderOpts = append(folderOpts, huh.NewOption(f.name, f.id))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[Action]().
				Title("Action").
				Options(
					huh.NewOption("Scrape into the app", ActionScrape),
					huh.NewOption("Export as JSON", ActionExportJSON),
					huh.NewOption("Export as CSV", ActionExportCSV),
				).
				Value(&m.fb.action),
			huh.NewSelect[string]().
				Title("Folder").
				Options(folderOpts...).
				Value(&m.fb.folderID),
			huh.NewInput().
				Title("From Date").
				Placeholder("YYYY-MM-DD (optional)").
				Value(&m.fb.fromDate).
				Validate(validateOptionalDate),
			huh.NewInput().
				Title("To Date").
				Placeholder("YYYY-MM-DD (optional)").
				Value(&m.fb.toDate).
				Validate(validateOptionalDate),
			huh.NewInput().
				Title("Sender Filter").
				Placeholder("Optional").
				Value(&m.fb.sender),
			huh.NewInput().
				Title("Subject Filter").
				Placeholder("Optional").
				Value(&m.fb.subject),
			huh.NewInput().
				Title("Search").
				Placeholder("Free text (optional)").
				Value(&m.fb.search),
			huh.NewInput().
				Title("Max Results").
				Placeholder("50").
				Value(&m.fb.maxResults).
				Validate(validateMaxResults),
			huh.NewConfirm().
				Title("Include Attachments").
				Value(&m.fb.attachments),
		),
	).WithWidth(m.formWidth()).WithHeight(m.height - 4)
}

// View renders the form, or the run summary once one finished.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	var body string
	switch {
	case m.busy:
		body = theme.HelpStyle.Render("Working... large mailboxes can take a while.")
	case m.summary != "":
		body = lipgloss.NewStyle().Foreground(theme.ColorGreen).Render(m.summary) +
			"\n" + theme.HelpStyle.Render("esc back")
	case m.form != nil:
		body = m.form.View()
	}

	if m.notice != "" {
		body += "\n" + theme.ErrorStyle.Render(m.notice)
	}

	return lipgloss.NewStyle().Padding(1, 2).
		Render(titleStyle.Render("Scrape / Export") + "\n" + body)
}

// Done reports whether a run finished and the form is showing only the
// summary.
func (m Model) Done() bool {
	return !m.busy && m.summary != ""
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func validateOptionalDate(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return fmt.Errorf("invalid date format, use YYYY-MM-DD")
	}
	return nil
}

func validateMaxResults(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	var v int
	if _, err := fmt.Sscanf(s, "%d", &v); err != nil {
		return fmt.Errorf("enter a number")
	}
	if v < 1 || v > 500 {
		return fmt.Errorf("must be between 1 and 500")
	}
	return nil
}
