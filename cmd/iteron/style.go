package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeanhaley32/iteron/internal/provision"
	"github.com/jeanhaley32/iteron/internal/terminal"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true)
	skippedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	changedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	badStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
)

// styled is false when stdout is piped or redirected; output is then plain.
var styled = terminal.IsTerminal(os.Stdout)

func render(style lipgloss.Style, text string) string {
	if !styled {
		return text
	}
	return style.Render(text)
}

// statusTag renders a step status as "(created)", "(skipped)", ...
func statusTag(s provision.Status) string {
	tag := fmt.Sprintf("(%s)", s)
	if s == provision.StatusSkipped {
		return render(skippedStyle, tag)
	}
	return render(changedStyle, tag)
}

// styleTree bolds the workspace header lines of an inventory tree.
func styleTree(tree string) string {
	lines := strings.Split(tree, "\n")
	for i, line := range lines {
		if line != "" && !strings.HasPrefix(line, " ") {
			lines[i] = render(headerStyle, line)
		}
	}
	return strings.Join(lines, "\n")
}

func yesNo(ok bool) string {
	if ok {
		return render(okStyle, "yes")
	}
	return render(badStyle, "no")
}
