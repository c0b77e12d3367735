package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dd0wney/cluso-communities/pkg/algorithms"
	"github.com/dd0wney/cluso-communities/pkg/parallel"
)

const maxListedCommunities = 10

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF00FF"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FFFF")).
			Width(14)

	statsBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FF00")).
			Padding(0, 1)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

func statLine(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), value)
}

func renderSummary(g *algorithms.Graph[string], r *algorithms.CommunityDetectionResult[string], runs []parallel.RestartRun) string {
	lines := []string{
		titleStyle.Render("Community detection"),
		"",
		statLine("Run", r.RunID),
		statLine("Nodes", fmt.Sprintf("%d", g.NodeCount())),
		statLine("Edges", fmt.Sprintf("%d", g.EdgeCount())),
		statLine("Components", fmt.Sprintf("%d", r.Components)),
		statLine("Communities", fmt.Sprintf("%d", len(r.Communities))),
		statLine("Levels", fmt.Sprintf("%d", r.Levels)),
		statLine("Quality", fmt.Sprintf("%.6f", r.Quality)),
		statLine("Modularity", fmt.Sprintf("%.6f", r.Modularity)),
		statLine("Seed", fmt.Sprintf("%d (best of %d)", r.Seed, len(runs))),
	}
	if r.Degenerate {
		lines = append(lines, dimStyle.Render("graph has no edge weight; every node is its own community"))
	}

	largest := make([]*algorithms.Community[string], len(r.Communities))
	copy(largest, r.Communities)
	sort.SliceStable(largest, func(i, j int) bool { return largest[i].Size > largest[j].Size })
	if len(largest) > 0 {
		lines = append(lines, "", titleStyle.Render("Largest communities"))
	}
	for i, c := range largest {
		if i == maxListedCommunities {
			lines = append(lines, dimStyle.Render(fmt.Sprintf("… %d more", len(largest)-i)))
			break
		}
		lines = append(lines, statLine(
			fmt.Sprintf("#%d", c.ID),
			fmt.Sprintf("%d nodes, density %.3f, clustering %.3f  %s", c.Size, c.Density, c.Clustering, dimStyle.Render(preview(c.Nodes))),
		))
	}

	return statsBoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func preview(nodes []string) string {
	const limit = 5
	if len(nodes) <= limit {
		return strings.Join(nodes, ", ")
	}
	return strings.Join(nodes[:limit], ", ") + ", …"
}
