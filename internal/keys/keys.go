package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the global keybindings for the application.
type KeyMap struct {
	// Navigation
	Down key.Binding
	Up   key.Binding

	// Selection
	Select key.Binding

	// Back / Quit
	Back key.Binding
	Quit key.Binding

	// Search
	Search key.Binding

	// Command palette
	Command key.Binding

	// Help toggle
	Help key.Binding

	// Manual refresh
	Refresh key.Binding

	// Pagination
	NextPage key.Binding
	PrevPage key.Binding

	// Screens
	Mailbox    key.Binding
	Candidates key.Binding
	Jobs       key.Binding
	Scheduler  key.Binding
	Storage    key.Binding

	// Folder cycling in the mailbox
	Folder key.Binding

	// Notifications dropdown
	Notifications key.Binding

	// Actions
	Scrape  key.Binding
	Export  key.Binding
	AddTag  key.Binding
	Notes   key.Binding
	RunNow  key.Binding
	Logout  key.Binding
	Dismiss key.Binding
}

// DefaultKeyMap returns the default set of keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Command: key.NewBinding(
			key.WithKeys(":"),
			key.WithHelp(":", "command palette"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "prev page"),
		),
		Mailbox: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "mailbox"),
		),
		Candidates: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "candidates"),
		),
		Jobs: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "jobs"),
		),
		Scheduler: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "scheduler"),
		),
		Storage: key.NewBinding(
			key.WithKeys("5"),
			key.WithHelp("5", "storage"),
		),
		Folder: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "cycle folder"),
		),
		Notifications: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "notifications"),
		),
		Scrape: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "scrape"),
		),
		Export: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "export"),
		),
		AddTag: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "tag"),
		),
		Notes: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "notes"),
		),
		RunNow: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "run now"),
		),
		Logout: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "logout"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "dismiss toast"),
		),
	}
}

// ShortHelp returns the most essential keybindings for the compact help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Up, k.Down, k.Select, k.Back,
		k.Quit, k.Help, k.Search,
	}
}

// FullHelp returns all keybindings grouped by category for the expanded
// help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select, k.Back, k.Quit},
		{k.Search, k.Command, k.Help, k.Refresh, k.NextPage, k.PrevPage},
		{k.Mailbox, k.Candidates, k.Jobs, k.Scheduler, k.Storage, k.Notifications, k.Folder},
		{k.Scrape, k.Export, k.AddTag, k.Notes, k.RunNow, k.Logout},
	}
}
