package display

import (
	_ "embed"
	"os"
	"strings"

	"github.com/charmbracelet/x/term"
)

//go:embed banner.txt
var bannerRaw string

// bannerLines is the banner's height in rows.
var bannerLines = len(strings.Split(strings.TrimRight(bannerRaw, "\n"), "\n"))

// RenderBanner returns the banner art horizontally centred for width
// columns. A non-positive width uses the current terminal width.
func RenderBanner(width int) string {
	if width <= 0 {
		width = termWidth()
	}

	lines := strings.Split(strings.TrimRight(bannerRaw, "\n"), "\n")
	maxW := 0
	for _, l := range lines {
		if len(l) > maxW {
			maxW = len(l)
		}
	}

	pad := 0
	if width > maxW {
		pad = (width - maxW) / 2
	}

	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = strings.Repeat(" ", pad) + BannerStyle.Render(l)
	}
	return strings.Join(out, "\n")
}

// termWidth returns the current terminal column count, or 80 as fallback.
func termWidth() int {
	if w, _, err := term.GetSize(os.Stdout.Fd()); err == nil && w > 0 {
		return w
	}
	return 80
}

// termHeight returns the current terminal row count, or 24 as fallback.
func termHeight() int {
	if _, h, err := term.GetSize(os.Stdout.Fd()); err == nil && h > 0 {
		return h
	}
	return 24
}
