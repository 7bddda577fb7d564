package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/coinquest/internal/ui/theme"
)

const bannerArt = `
  ██████╗ ██████╗ ██╗███╗   ██╗ ██████╗ ██╗   ██╗███████╗███████╗████████╗
 ██╔════╝██╔═══██╗██║████╗  ██║██╔═══██╗██║   ██║██╔════╝██╔════╝╚══██╔══╝
 ██║     ██║   ██║██║██╔██╗ ██║██║   ██║██║   ██║█████╗  ███████╗   ██║
 ██║     ██║   ██║██║██║╚██╗██║██║▄▄ ██║██║   ██║██╔══╝  ╚════██║   ██║
 ╚██████╗╚██████╔╝██║██║ ╚████║╚██████╔╝╚██████╔╝███████╗███████║   ██║
  ╚═════╝ ╚═════╝ ╚═╝╚═╝  ╚═══╝ ╚══▀▀═╝  ╚═════╝ ╚══════╝╚══════╝   ╚═╝`

const bannerCompact = "🪙  C O I N Q U E S T  🪙"

// RenderBanner falls back to a one-line title below 76 columns.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().Foreground(theme.Gold).Bold(true)
	if width < 76 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
