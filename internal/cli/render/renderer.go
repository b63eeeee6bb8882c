package render

import (
	"github.com/fatih/color"
)

type Renderer[T any] interface {
	Render(result T) error
}

// Color styles shared by the renderers
var (
	headerStyle      = color.New(color.FgCyan, color.Bold)
	labelStyle       = color.New(color.Faint)
	contractStyle    = color.New(color.FgYellow, color.Bold)
	addressStyle     = color.New(color.FgWhite)
	timestampStyle   = color.New(color.Faint)
	pendingStyle     = color.New(color.FgYellow)
	skippedStyle     = color.New(color.FgHiBlack)
	verifiedStyle    = color.New(color.FgGreen)
	notVerifiedStyle = color.New(color.FgRed)
	networkStyle     = color.New(color.FgCyan)
	devStyle         = color.New(color.FgMagenta)
)
