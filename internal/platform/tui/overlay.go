package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-flappy/internal/ads"
)

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 3).
			Align(lipgloss.Center)

	adPanelStyle = panelStyle.
			BorderForeground(lipgloss.Color("208"))

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	buttonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).
			Padding(0, 1)

	disabledButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("241")).
				Background(lipgloss.Color("236")).
				Padding(0, 1)

	bannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("214"))

	timerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("10"))
)

func button(label string, enabled bool) string {
	if enabled {
		return buttonStyle.Render(label)
	}
	return disabledButtonStyle.Render(label)
}

// renderBanner draws the one-row banner strip, or a blank row when no
// banner is on screen.
func renderBanner(unitID string, pos ads.BannerPosition, visible bool, width int) string {
	if !visible || width <= 0 {
		return strings.Repeat(" ", max(width, 0))
	}

	text := bannerStyle.Render(fmt.Sprintf(" AD | %s | Fly higher with Flappy Pro! ", unitID))
	align := lipgloss.Center
	switch pos {
	case ads.BannerTopLeft, ads.BannerBottomLeft:
		align = lipgloss.Left
	case ads.BannerTopRight, ads.BannerBottomRight:
		align = lipgloss.Right
	}
	return lipgloss.PlaceHorizontal(width, align, text)
}

// renderAdPanel draws the full-screen ad with its elapsed time.
func renderAdPanel(s ads.Showing, bar progress.Model) string {
	elapsed := 0.0
	if s.Duration > 0 {
		elapsed = (s.Duration - s.Remaining) / s.Duration
	}

	body := lipgloss.JoinVertical(lipgloss.Center,
		titleStyle.Render("ADVERTISEMENT"),
		"",
		s.UnitID,
		"",
		bar.ViewAs(elapsed),
		dimStyle.Render(fmt.Sprintf("%.0fs remaining", s.Remaining)),
	)
	return adPanelStyle.Render(body)
}

// renderOffer draws the watch-to-earn panel.
func renderOffer(a ads.Affordances, durationMinutes int, bar progress.Model) string {
	lines := []string{titleStyle.Render("Go Ad-Free!")}

	if a.Timer != "" {
		lines = append(lines, "", timerStyle.Render(a.Timer))
	}

	if a.OfferVisible {
		lines = append(lines,
			"",
			fmt.Sprintf("Watch %d ads to play %d minutes without ads.", a.ProgressMax, durationMinutes),
			"",
		)
		ratio := 0.0
		if a.ProgressMax > 0 {
			ratio = float64(a.Progress) / float64(a.ProgressMax)
		}
		lines = append(lines,
			bar.ViewAs(ratio),
			dimStyle.Render(fmt.Sprintf("%d/%d watched", a.Progress, a.ProgressMax)),
			"",
			lipgloss.JoinHorizontal(lipgloss.Top,
				button("Watch Ad", a.WatchEnabled), "  ",
				button("No Thanks", a.NoThanksEnabled),
			),
		)
	}

	if a.Confirmation != "" {
		lines = append(lines, "", a.Confirmation)
	}
	if a.ContinueVisible || !a.OfferVisible {
		lines = append(lines, "", button("Continue", true))
	}

	return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Center, lines...))
}

// renderGameOver draws the game-over panel.
func renderGameOver(score int, rewardedReady, revived, adFree bool) string {
	lines := []string{
		titleStyle.Render("GAME OVER"),
		"",
		fmt.Sprintf("Score: %d", score),
		"",
		button("Restart", true),
	}

	switch {
	case revived:
		lines = append(lines, "", dimStyle.Render("Already continued this run"))
	case rewardedReady:
		lines = append(lines, "", button("Watch Ad to Continue", true))
	case !adFree:
		lines = append(lines, "", dimStyle.Render("Loading ad..."))
	}

	if !adFree {
		lines = append(lines, "", button("Go Ad-Free", true))
	}
	return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Center, lines...))
}

// renderStatus draws the bottom row: score and ad-free timer on the left,
// help on the right.
func renderStatus(score int, timer, help string, width int) string {
	left := fmt.Sprintf(" Score: %d ", score)
	if timer != "" {
		left += "| " + timerStyle.Render(timer) + " "
	}
	gap := width - lipgloss.Width(left) - lipgloss.Width(help)
	if gap < 1 {
		return lipgloss.NewStyle().MaxWidth(max(width, 0)).Render(left)
	}
	return left + strings.Repeat(" ", gap) + help
}
