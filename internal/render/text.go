package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/tachoplan/internal/models"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Width(14)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Bold(true)

	segmentStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	restStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	reducedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	waitStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Italic(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	detailStyle = lipgloss.NewStyle().PaddingLeft(2)
)

// Options controls text rendering
type Options struct {
	// Styled enables lipgloss colours; leave off for pipes and files
	Styled bool
}

// Summary renders the arrival, total duration and driving totals
func Summary(schedule models.Schedule, req models.TripRequest, opts Options) string {
	rows := [][2]string{
		{"Departure", FormatDateTime(req.StartTime)},
		{"Arrival", FormatDateTime(schedule.FinalTime)},
		{"Total trip", FormatHours(schedule.FinalTime.Sub(req.StartTime).Hours())},
		{"Driving", fmt.Sprintf("%s (%.0f km)", FormatHours(schedule.TotalDriveHours()), schedule.TotalDriveHours()*req.Speed)},
		{"Rests", fmt.Sprintf("%d", len(schedule.Rests))},
	}

	var b strings.Builder
	for _, row := range rows {
		if opts.Styled {
			b.WriteString(labelStyle.Render(row[0]) + valueStyle.Render(row[1]) + "\n")
		} else {
			fmt.Fprintf(&b, "%-14s%s\n", row[0], row[1])
		}
	}
	return b.String()
}

// Lines renders breakdown lines, one block per line
func Lines(lines []Line, opts Options) string {
	var b strings.Builder
	for _, line := range lines {
		b.WriteString(renderLine(line, opts))
		b.WriteString("\n")
	}
	return b.String()
}

// Text renders a full plan: summary then breakdown
func Text(schedule models.Schedule, req models.TripRequest, opts Options) string {
	heading := "Trip plan"
	if opts.Styled {
		heading = titleStyle.Render(heading)
	}
	return heading + "\n\n" + Summary(schedule, req, opts) + "\n" + Lines(Breakdown(schedule, req), opts)
}

func renderLine(line Line, opts Options) string {
	if !opts.Styled {
		switch line.Kind {
		case LineWarning:
			return "Warning: " + line.Title
		case LineSegment:
			return line.Title + ":\n" + strings.Join(line.Details, "\n")
		default:
			return line.Title
		}
	}

	switch line.Kind {
	case LineSegment:
		details := make([]string, 0, len(line.Details))
		for _, d := range line.Details {
			details = append(details, detailStyle.Render(d))
		}
		return segmentStyle.Render(line.Title) + "\n" + strings.Join(details, "\n")
	case LineRest:
		if line.Reducible {
			return restStyle.Render(line.Title)
		}
		return reducedStyle.Render(line.Title)
	case LineWait:
		return waitStyle.Render(line.Title)
	case LineWarning:
		return warningStyle.Render("Warning: " + line.Title)
	}
	return line.Title
}
