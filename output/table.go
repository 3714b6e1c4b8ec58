package output

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"sheetmap/internal/timeutil"
	"sheetmap/worklog"
)

const timeLayout = "2006-01-02 15:04"

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)

var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

// WriteEntries renders stored worklogs as a table in loc.
func WriteEntries(w io.Writer, entries []worklog.Entry, loc *time.Location) error {
	t := newTable("ID", "Start", "End", "Billable", "Description", "Project", "Activity", "Skill", "Profile", "File")
	for _, entry := range entries {
		t.Row(
			strconv.FormatInt(entry.ID, 10),
			entry.StartDateTime.In(loc).Format(timeLayout),
			entry.EndDateTime.In(loc).Format(timeLayout),
			timeutil.FormatMinutes(entry.Billable),
			entry.Description,
			entry.Project,
			entry.Activity,
			entry.Skill,
			entry.SourceProfile,
			entry.SourceFile,
		)
	}
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

// WriteDailySummaries renders one row per day with a total row.
func WriteDailySummaries(w io.Writer, summaries []DailySummary, loc *time.Location) error {
	t := newTable("Date", "Start", "End", "Worked", "Billable", "Break", "Worklogs")
	var worked, billable, breaks, count int
	for _, summary := range summaries {
		t.Row(
			summary.Date,
			summary.StartDateTime.In(loc).Format("15:04"),
			summary.EndDateTime.In(loc).Format("15:04"),
			timeutil.FormatMinutes(summary.WorkedMinutes),
			timeutil.FormatMinutes(summary.BillableMinutes),
			timeutil.FormatMinutes(summary.BreakMinutes),
			strconv.Itoa(summary.WorklogCount),
		)
		worked += summary.WorkedMinutes
		billable += summary.BillableMinutes
		breaks += summary.BreakMinutes
		count += summary.WorklogCount
	}
	t.Row("Total", "", "",
		timeutil.FormatMinutes(worked),
		timeutil.FormatMinutes(billable),
		timeutil.FormatMinutes(breaks),
		strconv.Itoa(count),
	)
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

// WriteHeaders renders the header cells of each sheet with their column
// indexes.
func WriteHeaders(w io.Writer, headers []SheetHeader) error {
	t := newTable("Sheet", "Index", "Header")
	for _, sheet := range headers {
		if len(sheet.Cells) == 0 {
			t.Row(sheet.Sheet, "", "(empty)")
			continue
		}
		for i, cell := range sheet.Cells {
			t.Row(sheet.Sheet, strconv.Itoa(i), cell)
		}
	}
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

// SheetHeader is the first row of one sheet.
type SheetHeader struct {
	Sheet string
	Cells []string
}
