package output

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"

	"github.com/vburojevic/dynaspy/internal/domain"
)

var summaryTitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("12"))

type summaryField struct {
	name  string
	value string
}

// WriteSummaryTable renders the session summary as a two-column table.
// styled enables terminal styling for the heading.
func WriteSummaryTable(w io.Writer, s *domain.SessionSummary, styled bool) error {
	title := fmt.Sprintf("Session %s", s.SessionID)
	if styled {
		title = summaryTitleStyle.Render(title)
	}
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}

	fields := []summaryField{
		{"program", s.Program},
		{"pid", strconv.FormatUint(uint64(s.PID), 10)},
		{"reason", s.Reason},
		{"modules", strconv.Itoa(s.Modules)},
		{"unresolved", strconv.Itoa(s.Unresolved)},
		{"threads", strconv.Itoa(s.Threads)},
		{"child exits", strconv.Itoa(s.ChildExits)},
		{"exceptions", strconv.Itoa(s.Exceptions)},
		{"other events", strconv.Itoa(s.OtherEvents)},
		{"duration", fmt.Sprintf("%.2fs", s.DurationSeconds)},
	}
	rows := lo.Map(fields, func(f summaryField, _ int) []string {
		return []string{f.name, f.value}
	})

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Field", "Value"})
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}
