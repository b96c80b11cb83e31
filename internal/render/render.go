// Package render draws tracker weeks for the terminal.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"comida/internal/core"
)

const (
	labelWidth = 10
	cellWidth  = 14

	// outOfPlaceMark prefixes meals eaten outside the plan so they stand
	// out even without colour.
	outOfPlaceMark = "! "
	gymMark        = "✓"
	noGymMark      = "·"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#4A90E2"))

	labelStyle = lipgloss.NewStyle().
			Bold(true).
			Width(labelWidth)

	cellStyle = lipgloss.NewStyle().
			Width(cellWidth)

	outOfPlaceStyle = cellStyle.
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	gymStyle = cellStyle.
			Foreground(lipgloss.Color("#04B575"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#874BFD")).
			Padding(0, 1)
)

// Week renders one week as a meal grid with the gym and weight rows below.
func Week(desc core.WeekDescriptor, rec core.WeekRecord, selected bool) string {
	title := desc.Label()
	if desc.IsCurrent {
		title += " · actual"
	}
	if selected {
		title += " · seleccionada"
	}

	rows := []string{titleStyle.Render(title), "", dayHeader()}
	for m, label := range core.MealLabels {
		cells := []string{labelStyle.Render(label)}
		for _, day := range rec.Days {
			cells = append(cells, mealCell(day.Meals[m]))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	gym := []string{labelStyle.Render("Gimnasio")}
	for _, day := range rec.Days {
		if day.Gym {
			gym = append(gym, gymStyle.Render(gymMark))
		} else {
			gym = append(gym, cellStyle.Inherit(mutedStyle).Render(noGymMark))
		}
	}
	rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, gym...), "")

	weight := rec.Weight
	if weight == "" {
		weight = mutedStyle.Render("sin registrar")
	}
	rows = append(rows,
		labelStyle.Render("Peso")+weight,
		mutedStyle.Render(summary(rec)))

	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// WeekList renders every week label, marking the current and selected ones.
func WeekList(table core.WeekTable, selected int) string {
	var b strings.Builder
	for i, w := range table.Weeks {
		marker := "  "
		if i == selected {
			marker = "▶ "
		}
		line := fmt.Sprintf("%s%2d  %s", marker, i, w.Label())
		switch {
		case w.IsCurrent:
			line = headerStyle.Render(line + "  (actual)")
		case i == selected:
			line = lipgloss.NewStyle().Bold(true).Render(line)
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

func dayHeader() string {
	cells := []string{labelStyle.Render("")}
	for _, d := range core.DayLabels {
		cells = append(cells, cellStyle.Inherit(headerStyle).Render(d))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

func mealCell(meal core.MealEntry) string {
	if meal.OutOfPlace {
		return outOfPlaceStyle.Render(truncate(outOfPlaceMark+meal.Text, cellWidth-1))
	}
	if meal.Text == "" {
		return cellStyle.Inherit(mutedStyle).Render("-")
	}
	return cellStyle.Render(truncate(meal.Text, cellWidth-1))
}

// summary counts gym days and out-of-place meals for the week footer.
func summary(rec core.WeekRecord) string {
	gymDays, outOfPlace := 0, 0
	for _, day := range rec.Days {
		if day.Gym {
			gymDays++
		}
		for _, meal := range day.Meals {
			if meal.OutOfPlace {
				outOfPlace++
			}
		}
	}
	return fmt.Sprintf("Gimnasio %d/%d · Fuera de plan %d", gymDays, core.DaysPerWeek, outOfPlace)
}

// truncate cuts s to at most n runes, marking the cut with an ellipsis.
// Newlines are flattened so every cell stays one line high.
func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
