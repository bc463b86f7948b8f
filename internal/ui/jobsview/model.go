package jobsview

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/hnguyen/recruitmail/internal/api"
	"github.com/hnguyen/recruitmail/internal/keys"
	"github.com/hnguyen/recruitmail/internal/model"
	"github.com/hnguyen/recruitmail/internal/theme"
)

const fetchTimeout = 30 * time.Second

// JobsLoadedMsg carries the job requisition list.
type JobsLoadedMsg struct {
	Jobs []model.JobRequisition
	Err  error
}

// JobCreatedMsg is the outcome of submitting the create form.
type JobCreatedMsg struct {
	Job *model.JobRequisition
	Err error
}

// MatchRanMsg carries fresh ranked results from a run-match action.
type MatchRanMsg struct {
	JobID   int64
	Results []model.MatchResult
	Err     error
}

// ResultsLoadedMsg carries the stored results from the last match run.
type ResultsLoadedMsg struct {
	JobID   int64
	Results []model.MatchResult
	Err     error
}

// FormCancelMsg is emitted when the create form is aborted.
type FormCancelMsg struct{}

type mode int

const (
	modeList mode = iota
	modeForm
	modeResults
)

// formBindings holds form field values on the heap so huh's Value()
// pointers stay valid across Bubble Tea model copies.
type formBindings struct {
	title    string
	skills   string
	minExp   string
	location string
	remoteOK bool
	jdRaw    string
}

// Model is the jobs screen: requisition list, create form, and the
// ranked match results for a selected job.
type Model struct {
	client *api.Client
	log    *logrus.Entry
	keys   *keys.KeyMap

	list list.Model
	mode mode

	form *huh.Form
	fb   *formBindings

	resultsJob model.JobRequisition
	results    []model.MatchResult
	resultsVP  viewport.Model
	matching   bool

	notice string
	width  int
	height int
}

// New creates the jobs view.
func New(client *api.Client, log *logrus.Entry, k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, JobDelegate{}, width, height-3)
	l.Title = "Jobs"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	vp := viewport.New(width-4, height-6)

	return Model{
		client:    client,
		log:       log,
		keys:      k,
		list:      l,
		fb:        &formBindings{},
		resultsVP: vp,
		width:     width,
		height:    height,
	}
}

// Init loads the requisition list.
func (m Model) Init() tea.Cmd {
	return m.load()
}

func (m Model) load() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		jobs, err := client.ListJobs(ctx)
		return JobsLoadedMsg{Jobs: jobs, Err: err}
	}
}

func (m Model) runMatch(jobID int64) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		results, err := client.RunMatch(ctx, jobID)
		return MatchRanMsg{JobID: jobID, Results: results, Err: err}
	}
}

func (m Model) loadResults(jobID int64) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		results, err := client.GetMatchResults(ctx, jobID)
		return ResultsLoadedMsg{JobID: jobID, Results: results, Err: err}
	}
}

// Update handles messages for the jobs view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case JobsLoadedMsg:
		if msg.Err != nil {
			m.notice = "Could not load jobs."
			return m, nil
		}
		m.notice = ""
		items := make([]list.Item, len(msg.Jobs))
		for i, j := range msg.Jobs {
			items[i] = JobItem{Job: j}
		}
		return m, m.list.SetItems(items)

	case JobCreatedMsg:
		if msg.Err != nil {
			m.notice = "Creating the job failed."
			return m, nil
		}
		m.notice = fmt.Sprintf("Job %q created.", msg.Job.Title)
		return m, m.load()

	case MatchRanMsg:
		m.matching = false
		if msg.Err != nil {
			m.notice = "Run match failed."
			return m, nil
		}
		if m.mode == modeResults && m.resultsJob.ID == msg.JobID {
			m.results = msg.Results
			m.resultsVP.SetContent(m.renderResults())
			m.resultsVP.GotoTop()
		}
		return m, nil

	case ResultsLoadedMsg:
		if msg.Err != nil {
			m.notice = "Could not load match results."
			return m, nil
		}
		if m.mode == modeResults && m.resultsJob.ID == msg.JobID {
			m.results = msg.Results
			m.resultsVP.SetContent(m.renderResults())
			m.resultsVP.GotoTop()
		}
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeForm:
			return m.updateForm(msg)
		case modeResults:
			return m.handleResultsKeys(msg)
		default:
			return m.handleListKeys(msg)
		}
	}

	if m.mode == modeForm {
		return m.updateForm(msg)
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) handleListKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select):
		item, ok := m.list.SelectedItem().(JobItem)
		if !ok {
			return m, nil
		}
		m.mode = modeResults
		m.resultsJob = item.Job
		m.results = nil
		m.resultsVP.SetContent(theme.HelpStyle.Render("Loading results..."))
		return m, m.loadResults(item.Job.ID)

	case key.Matches(msg, m.keys.Refresh):
		return m, m.load()

	case msg.String() == "c":
		m.mode = modeForm
		m.fb.title = ""
		m.fb.skills = ""
		m.fb.minExp = "0"
		m.fb.location = ""
		m.fb.remoteOK = false
		m.fb.jdRaw = ""
		m.form = m.buildForm()
		return m, m.form.Init()
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) handleResultsKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.mode = modeList
		return m, nil

	case key.Matches(msg, m.keys.RunNow):
		if m.matching {
			return m, nil
		}
		m.matching = true
		m.notice = ""
		return m, m.runMatch(m.resultsJob.ID)
	}

	var cmd tea.Cmd
	m.resultsVP, cmd = m.resultsVP.Update(msg)
	return m, cmd
}

func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		m.mode = modeList
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.mode = modeList
		return m, m.submitForm()
	}
	if m.form.State == huh.StateAborted {
		m.mode = modeList
		m.form = nil
		return m, func() tea.Msg { return FormCancelMsg{} }
	}

	return m, cmd
}

func (m Model) submitForm() tea.Cmd {
	req := api.JobCreateRequest{
		Title:    strings.TrimSpace(m.fb.title),
		Location: strings.TrimSpace(m.fb.location),
		RemoteOK: m.fb.remoteOK,
		JDRaw:    m.fb.jdRaw,
	}
	for _, s := range strings.Split(m.fb.skills, ",") {
		if s = strings.TrimSpace(s); s != "" {
			req.RequiredSkills = append(req.RequiredSkills, s)
		}
	}
	fmt.Sscanf(strings.TrimSpace(m.fb.minExp), "%f", &req.MinExp)

	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		job, err := client.CreateJob(ctx, req)
		return JobCreatedMsg{Job: job, Err: err}
	}
}

func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Placeholder("Senior Go Engineer").
				Value(&m.fb.title).
				Validate(validateRequired("Title")),
			huh.NewInput().
				Title("Required Skills").
				Placeholder("go, sql, kubernetes (comma separated)").
				Value(&m.fb.skills),
			huh.NewInput().
				Title("Minimum Experience (years)").
				Placeholder("3").
				Value(&m.fb.minExp).
				Validate(validateExperience),
			huh.NewInput().
				Title("Location").
				Placeholder("Optional").
				Value(&m.fb.location),
			huh.NewConfirm().
				Title("Remote OK").
				Value(&m.fb.remoteOK),
			huh.NewText().
				Title("Job Description").
				Placeholder("Paste the raw JD text (optional)...").
				Value(&m.fb.jdRaw),
		),
	).WithWidth(m.formWidth()).WithHeight(m.height - 4)
}

// View renders the jobs view.
func (m Model) View() string {
	var rows []string
	if m.notice != "" {
		rows = append(rows, theme.ErrorStyle.Render(m.notice))
	}

	switch m.mode {
	case modeForm:
		if m.form != nil {
			title := lipgloss.NewStyle().
				Bold(true).
				Foreground(theme.ColorWhite).
				MarginBottom(1).
				Render("New Job")
			rows = append(rows, lipgloss.NewStyle().Padding(1, 2).Render(title+"\n"+m.form.View()))
		}
	case modeResults:
		header := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).
			Render("Match Results · " + m.resultsJob.Title)
		if m.matching {
			header += theme.HelpStyle.Render("  matching...")
		}
		rows = append(rows, header, m.resultsVP.View(),
			theme.HelpStyle.Render("R run match · esc back"))
	default:
		rows = append(rows, m.list.View(),
			theme.HelpStyle.Render("enter results · c create · r refresh"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// renderResults draws the ranked list with fit levels and reasons.
func (m Model) renderResults() string {
	if len(m.results) == 0 {
		return theme.HelpStyle.Render("No results yet. Press R to run the match.")
	}

	nameStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	reasonStyle := lipgloss.NewStyle().Foreground(theme.ColorGray).PaddingLeft(4)

	var b strings.Builder
	for i, r := range m.results {
		fit := theme.FitStyle(string(r.FitLevel)).Render(strings.ToUpper(string(r.FitLevel)))
		fmt.Fprintf(&b, "%2d. %s %s %s\n",
			i+1,
			nameStyle.Render(fmt.Sprintf("%-28s", truncate(r.Candidate.Name, 28))),
			lipgloss.NewStyle().Foreground(theme.ColorBlue).Render(fmt.Sprintf("%5.1f", r.Score)),
			fit,
		)
		for _, reason := range r.MatchReasons {
			b.WriteString(reasonStyle.Render("· "+reason) + "\n")
		}
	}
	return b.String()
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-3)
	m.resultsVP.Width = width - 4
	m.resultsVP.Height = height - 6
}

// FormOpen reports whether the create form has keyboard focus.
func (m Model) FormOpen() bool {
	return m.mode == modeForm
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

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func validateExperience(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	var v float64
	if _, err := fmt.Sscanf(s, "%f", &v); err != nil {
		return fmt.Errorf("enter a number of years")
	}
	if v < 0 || v > 60 {
		return fmt.Errorf("must be between 0 and 60")
	}
	return nil
}
