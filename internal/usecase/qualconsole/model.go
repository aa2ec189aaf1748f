// Package qualconsole is a terminal browser over the qualification register:
// a qualification queue on top, version history and discussion log for the
// selected row underneath.
package qualconsole

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"qualrecon/internal/domain/register"
	"qualrecon/internal/ports"
)

const maxShownVersions = 6
const maxShownDiscussions = 8

type Options struct {
	Limit           int
	RefreshInterval time.Duration
}

type consoleModel struct {
	ctx             context.Context
	repo            ports.RegisterRepository
	limit           int
	refreshInterval time.Duration

	quals         []ports.QualificationSummary
	selectedIndex int
	versions      []register.QualificationVersion
	discussions   []ports.DiscussionView
	hasDetail     bool
	status        string
}

type qualsLoadedMsg struct {
	items []ports.QualificationSummary
	err   error
}

type detailLoadedMsg struct {
	qualificationID uint64
	versions        []register.QualificationVersion
	discussions     []ports.DiscussionView
	err             error
}

type tickMsg struct{}

func NewModel(ctx context.Context, repo ports.RegisterRepository, options Options) tea.Model {
	limit := options.Limit
	if limit <= 0 {
		limit = 50
	}
	interval := options.RefreshInterval
	if interval <= 0 {
		interval = 10 * time.Second
	}

	return &consoleModel{
		ctx:             ctx,
		repo:            repo,
		limit:           limit,
		refreshInterval: interval,
		status:          "loading",
	}
}

func (m *consoleModel) Init() tea.Cmd {
	return tea.Batch(m.loadQualificationsCmd(), m.tickCmd())
}

func (m *consoleModel) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := message.(type) {
	case tickMsg:
		return m, tea.Batch(m.loadQualificationsCmd(), m.tickCmd())
	case qualsLoadedMsg:
		if msg.err != nil {
			m.status = "refresh failed: " + msg.err.Error()
			return m, nil
		}
		m.quals = msg.items
		if len(m.quals) == 0 {
			m.selectedIndex = 0
			m.hasDetail = false
			m.status = "register is empty"
			return m, nil
		}
		if m.selectedIndex < 0 {
			m.selectedIndex = 0
		}
		if m.selectedIndex >= len(m.quals) {
			m.selectedIndex = len(m.quals) - 1
		}
		m.status = fmt.Sprintf("refreshed, %d qualifications", len(m.quals))
		return m, m.loadSelectedDetailCmd()
	case detailLoadedMsg:
		selected, ok := m.selectedQualification()
		if !ok || selected.Qualification.ID != msg.qualificationID {
			return m, nil
		}
		if msg.err != nil {
			m.hasDetail = false
			m.status = "detail load failed: " + msg.err.Error()
			return m, nil
		}
		m.versions = msg.versions
		m.discussions = msg.discussions
		m.hasDetail = true
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "g":
			m.status = "refreshing"
			return m, m.loadQualificationsCmd()
		case "up", "k":
			if m.selectedIndex > 0 {
				m.selectedIndex--
				return m, m.loadSelectedDetailCmd()
			}
			return m, nil
		case "down", "j":
			if m.selectedIndex < len(m.quals)-1 {
				m.selectedIndex++
				return m, m.loadSelectedDetailCmd()
			}
			return m, nil
		}
	}
	return m, nil
}

func (m *consoleModel) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true)
	sectionStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	selectedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("62"))

	var builder strings.Builder
	builder.WriteString(titleStyle.Render("Qualification Register Console"))
	builder.WriteString("\n")
	builder.WriteString(dimStyle.Render(fmt.Sprintf("limit=%d refresh=%s", m.limit, m.refreshInterval)))
	builder.WriteString("\n\n")

	builder.WriteString(sectionStyle.Render("Qualifications"))
	builder.WriteString("\n")
	if len(m.quals) == 0 {
		builder.WriteString(dimStyle.Render("- no qualifications"))
		builder.WriteString("\n\n")
	} else {
		for index, item := range m.quals {
			line := fmt.Sprintf(
				"%s v%d [%s] org=%s title=%s",
				item.Qualification.Qan,
				item.LatestVersion,
				firstNonEmpty(item.ProcessStatusName, "-"),
				firstNonEmpty(item.OrganisationName, "-"),
				item.Qualification.QualificationName,
			)
			if index == m.selectedIndex {
				builder.WriteString(selectedStyle.Render("> " + line))
			} else {
				builder.WriteString("  " + line)
			}
			builder.WriteString("\n")
		}
		builder.WriteString("\n")
	}

	builder.WriteString(sectionStyle.Render("Versions"))
	builder.WriteString("\n")
	if !m.hasDetail || len(m.versions) == 0 {
		builder.WriteString(dimStyle.Render("- no versions"))
		builder.WriteString("\n\n")
	} else {
		versions := m.versions
		start := len(versions) - maxShownVersions
		if start < 0 {
			start = 0
		}
		for _, version := range versions[start:] {
			builder.WriteString(fmt.Sprintf(
				"- v%d level=%s glh=%s tqt=%s start=%s england=%t\n",
				version.Version,
				firstNonEmpty(version.Level, "-"),
				formatIntPtr(version.Glh),
				formatIntPtr(version.Tqt),
				formatDatePtr(version.OperationalStartDate),
				version.OfferedInEngland,
			))
		}
		builder.WriteString("\n")
	}

	builder.WriteString(sectionStyle.Render("Discussion"))
	builder.WriteString("\n")
	if !m.hasDetail || len(m.discussions) == 0 {
		builder.WriteString(dimStyle.Render("- no discussion entries"))
		builder.WriteString("\n\n")
	} else {
		entries := m.discussions
		start := len(entries) - maxShownDiscussions
		if start < 0 {
			start = 0
		}
		for _, view := range entries[start:] {
			builder.WriteString(fmt.Sprintf(
				"- %s [%s] %s: %s\n",
				view.Entry.Timestamp.UTC().Format("2006-01-02 15:04"),
				view.ActionTypeName,
				firstNonEmpty(view.Entry.UserDisplayName, "-"),
				firstNonEmptyLine(view.Entry.Notes),
			))
		}
		builder.WriteString("\n")
	}

	builder.WriteString(sectionStyle.Render("Status"))
	builder.WriteString("\n")
	builder.WriteString("- " + firstNonEmpty(m.status, "ready"))
	builder.WriteString("\n\n")

	builder.WriteString(dimStyle.Render("Keys: ↑/k ↓/j move  g refresh  q quit"))
	return builder.String()
}

func (m *consoleModel) tickCmd() tea.Cmd {
	return tea.Tick(m.refreshInterval, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

func (m *consoleModel) loadQualificationsCmd() tea.Cmd {
	return func() tea.Msg {
		items, err := m.repo.ListQualifications(m.ctx, m.limit)
		if err != nil {
			return qualsLoadedMsg{err: err}
		}
		return qualsLoadedMsg{items: items}
	}
}

func (m *consoleModel) loadSelectedDetailCmd() tea.Cmd {
	selected, ok := m.selectedQualification()
	if !ok {
		return nil
	}

	return func() tea.Msg {
		versions, err := m.repo.ListVersions(m.ctx, selected.Qualification.ID)
		if err != nil {
			return detailLoadedMsg{qualificationID: selected.Qualification.ID, err: err}
		}
		discussions, err := m.repo.ListDiscussionHistory(m.ctx, selected.Qualification.ID)
		if err != nil {
			return detailLoadedMsg{qualificationID: selected.Qualification.ID, err: err}
		}
		return detailLoadedMsg{
			qualificationID: selected.Qualification.ID,
			versions:        versions,
			discussions:     discussions,
		}
	}
}

func (m *consoleModel) selectedQualification() (ports.QualificationSummary, bool) {
	if len(m.quals) == 0 {
		return ports.QualificationSummary{}, false
	}
	if m.selectedIndex < 0 || m.selectedIndex >= len(m.quals) {
		return ports.QualificationSummary{}, false
	}
	return m.quals[m.selectedIndex], true
}

func formatIntPtr(value *int) string {
	if value == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *value)
}

func formatDatePtr(value *time.Time) string {
	if value == nil {
		return "-"
	}
	return value.UTC().Format("2006-01-02")
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		normalized := strings.TrimSpace(value)
		if normalized != "" {
			return normalized
		}
	}
	return ""
}

func firstNonEmptyLine(body string) string {
	for _, raw := range strings.Split(body, "\n") {
		line := strings.TrimSpace(raw)
		if line != "" {
			return line
		}
	}
	return "empty"
}
