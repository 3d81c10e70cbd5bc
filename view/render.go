package view

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/cloudx-io/auctioneer/core"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	numberStyle  = cellStyle.Align(lipgloss.Right)
	currentStyle = cellStyle.Foreground(lipgloss.Color("11")).Bold(true)
	mutedStyle   = cellStyle.Foreground(lipgloss.Color("8"))
	borderStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	cardStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("12")).Padding(0, 1)
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(headers...)
}

// BudgetTable renders the budget overview.
func BudgetTable(rows []BudgetRow) string {
	t := newTable("Team", "Budget", "Spent", "Players").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col > 0 {
				return numberStyle
			}
			return cellStyle
		})
	for _, r := range rows {
		t.Row(r.Team, core.FormatMoney(r.Budget), core.FormatMoney(r.Spent), strconv.Itoa(r.Players))
	}
	return t.String()
}

// RosterTable renders one team's roster under a title line.
func RosterTable(team string, rows []RosterRow) string {
	t := newTable("ID", "Player", "Price", "RTM").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 2 {
				return numberStyle
			}
			return cellStyle
		})
	for _, r := range rows {
		rtm := ""
		if r.RTM {
			rtm = "yes"
		}
		t.Row(r.PlayerID, r.Name, core.FormatMoney(r.Price), rtm)
	}
	return titleStyle.Render(team) + "\n" + t.String()
}

// PlayerTable renders the pool listing with the given attribute columns.
// The player on the floor is highlighted and sold players are dimmed.
func PlayerTable(rows []PlayerRow, columns []string) string {
	headers := append([]string{"ID", "Player", "Reserve", "Status"}, columns...)
	t := newTable(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if row < 0 || row >= len(rows) {
				return cellStyle
			}
			switch {
			case rows[row].Current:
				return currentStyle
			case rows[row].Status == core.StatusSold:
				return mutedStyle
			case col == 2:
				return numberStyle
			default:
				return cellStyle
			}
		})
	for _, r := range rows {
		cells := []string{strconv.Itoa(int(r.ID)), r.Name, core.FormatMoney(r.Reserve), r.StatusLabel()}
		for _, c := range columns {
			cells = append(cells, r.Attributes[c])
		}
		t.Row(cells...)
	}
	return t.String()
}

// RenderCard renders the player on the floor.
func RenderCard(c Card) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  #%d\n", titleStyle.Render(c.Player.FullName()), c.Player.ID)
	fmt.Fprintf(&b, "Reserve: %s   Status: %s\n", core.FormatMoney(c.Player.ReservePrice), c.Status)
	for _, a := range c.Attributes {
		fmt.Fprintf(&b, "%s: %s\n", a.Name, a.Value)
	}
	fmt.Fprintf(&b, "Remaining: %d   Unsold: %d", c.Remaining, c.Unsold)
	return cardStyle.Render(b.String())
}

// RenderShortlists renders each list as a title followed by numbered names.
func RenderShortlists(lists core.Shortlists) string {
	names := lists.Lists()
	if len(names) == 0 {
		return mutedStyle.Render("no shortlists")
	}
	var b strings.Builder
	for i, list := range names {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(titleStyle.Render(list))
		b.WriteString("\n")
		for j, name := range lists.Names(list) {
			fmt.Fprintf(&b, "%2d. %s\n", j+1, name)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
