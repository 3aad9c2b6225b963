// Package diffview renders the difference between the current and the
// planned contents of a site file, either as a unified diff or as two
// bordered side-by-side panels.
package diffview

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/rivo/tview"
)

const (
	FgReset     = "39"
	FgLight     = "37"
	BgReset     = "49"
	FgLightGrey = "38;5;252"
	BgLightGrey = "48;5;250"
	BgDarkRed   = "48;5;52"
	BgDarkGreen = "48;5;22"
)

// Colors holds ANSI fragments used when serializing styles.
type Colors struct {
	BackgroundReset string
	ForegroundReset string
	RemovedBg       string
	AddedBg         string
	NeutralBg       string
	NeutralFg       string
	AccentFg        string
}

// Theme holds all visual configuration for rendering.
type Theme struct {
	Colors           Colors
	Border           bool
	BorderColor      tcell.Color
	BorderPadding    int
	MinTotalWidth    int
	BorderHeight     int
	MinPanelHeight   int
	RemovedTagFormat string
	AddedTagFormat   string
	LeftTitle        string
	RightTitle       string
	ContextLines     int
}

var defaultTheme = Theme{
	Colors: Colors{
		BackgroundReset: BgReset,
		ForegroundReset: FgReset,
		RemovedBg:       BgDarkRed,
		AddedBg:         BgDarkGreen,
		NeutralBg:       BgLightGrey,
		NeutralFg:       FgLightGrey,
		AccentFg:        FgLight,
	},
	Border:           true,
	BorderColor:      tcell.ColorWhite,
	BorderPadding:    2, // left + right border
	MinTotalWidth:    20,
	BorderHeight:     2, // top + bottom
	MinPanelHeight:   3,
	RemovedTagFormat: "[white:red]%s[-:-]",
	AddedTagFormat:   "[white:green]%s[-:-]",
	LeftTitle:        "current",
	RightTitle:       "planned",
	ContextLines:     3,
}

// Change is the before/after text of one file.
type Change struct {
	Label  string
	Before string
	After  string
}

// Changed reports whether the two sides differ.
func (c Change) Changed() bool {
	return normalize(c.Before) != normalize(c.After)
}

// Renderer renders changes to plain text with ANSI styling.
type Renderer struct {
	Theme Theme
}

// NewRenderer returns a Renderer with default colors.
func NewRenderer() *Renderer {
	return &Renderer{Theme: defaultTheme}
}

func normalize(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}

// Unified returns a unified diff of the change, or "" when nothing differs.
func (r *Renderer) Unified(c Change) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(normalize(c.Before)),
		B:        difflib.SplitLines(normalize(c.After)),
		FromFile: c.Label + " (" + r.Theme.LeftTitle + ")",
		ToFile:   c.Label + " (" + r.Theme.RightTitle + ")",
		Context:  r.Theme.ContextLines,
	}
	return difflib.GetUnifiedDiffString(diff)
}

type row struct {
	left, right string
	changed     bool
}

// align pairs the lines of both sides using difflib opcodes so that equal
// lines sit on the same row. Rows missing on one side are empty there.
func align(before, after []string) []row {
	var rows []row
	for _, op := range difflib.NewMatcher(before, after).GetOpCodes() {
		if op.Tag == 'e' {
			for k := 0; k < op.I2-op.I1; k++ {
				rows = append(rows, row{left: before[op.I1+k], right: after[op.J1+k]})
			}
			continue
		}
		n := op.I2 - op.I1
		if m := op.J2 - op.J1; m > n {
			n = m
		}
		for k := 0; k < n; k++ {
			rw := row{changed: true}
			if op.I1+k < op.I2 {
				rw.left = before[op.I1+k]
			}
			if op.J1+k < op.J2 {
				rw.right = after[op.J1+k]
			}
			rows = append(rows, rw)
		}
	}
	return rows
}

func (r *Renderer) ansiForStyle(s tcell.Style) string {
	fg, bg, _ := s.Decompose()
	if fg == tcell.ColorDefault && bg == tcell.ColorDefault {
		return ""
	}

	toCode := func(c tcell.Color, isBg bool) string {
		switch c {
		case tcell.ColorRed:
			if isBg {
				return r.Theme.Colors.RemovedBg
			}
			return r.Theme.Colors.AccentFg
		case tcell.ColorGreen:
			if isBg {
				return r.Theme.Colors.AddedBg
			}
			return r.Theme.Colors.AccentFg
		case tcell.ColorWhite:
			if isBg {
				return r.Theme.Colors.NeutralBg
			}
			return r.Theme.Colors.NeutralFg
		}
		if isBg {
			return r.Theme.Colors.BackgroundReset
		}
		return r.Theme.Colors.ForegroundReset
	}
	return fmt.Sprintf("\x1b[%s;%sm", toCode(fg, false), toCode(bg, true))
}

func (r *Renderer) newPane(title, body string) *tview.TextView {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false).
		SetText(body)
	tv.SetBorder(r.Theme.Border).
		SetBorderColor(r.Theme.BorderColor).
		SetTitle(title)
	return tv
}

// SideBySide draws the change as two bordered panels on a simulated screen
// and returns the captured rows as ANSI text.
func (r *Renderer) SideBySide(c Change) (string, error) {
	rows := align(
		strings.Split(normalize(c.Before), "\n"),
		strings.Split(normalize(c.After), "\n"),
	)

	leftTitle := fmt.Sprintf(" %s | %s ", r.Theme.LeftTitle, c.Label)
	rightTitle := fmt.Sprintf(" %s | %s ", r.Theme.RightTitle, c.Label)
	leftWidth, rightWidth := len(leftTitle), len(rightTitle)

	left := make([]string, len(rows))
	right := make([]string, len(rows))
	for i, rw := range rows {
		if w := len(rw.left); w > leftWidth {
			leftWidth = w
		}
		if w := len(rw.right); w > rightWidth {
			rightWidth = w
		}
		l, rt := tview.Escape(rw.left), tview.Escape(rw.right)
		if rw.changed {
			l = fmt.Sprintf(r.Theme.RemovedTagFormat, l)
			rt = fmt.Sprintf(r.Theme.AddedTagFormat, rt)
		}
		left[i], right[i] = l, rt
	}

	// Equal flex proportions, so both panes get the wider of the two widths.
	paneWidth := leftWidth
	if rightWidth > paneWidth {
		paneWidth = rightWidth
	}
	width := 2 * (paneWidth + r.Theme.BorderPadding)
	if width < r.Theme.MinTotalWidth {
		width = r.Theme.MinTotalWidth
	}
	height := len(rows) + r.Theme.BorderHeight
	if height < r.Theme.MinPanelHeight {
		height = r.Theme.MinPanelHeight
	}

	screen := tcell.NewSimulationScreen("")
	if err := screen.Init(); err != nil {
		return "", err
	}
	defer screen.Fini()
	screen.SetSize(width, height)
	screen.Clear()

	layout := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(r.newPane(leftTitle, strings.Join(left, "\n")), 0, 1, false).
		AddItem(r.newPane(rightTitle, strings.Join(right, "\n")), 0, 1, false)
	layout.SetRect(0, 0, width, height)
	layout.Draw(screen)
	screen.Show()

	lines := make([]string, 0, height)
	for y := 0; y < height; y++ {
		var line strings.Builder
		var cur tcell.Style
		styled := false
		for x := 0; x < width; x++ {
			rn, _, style, _ := screen.GetContent(x, y)
			if rn == 0 {
				rn = ' '
			}
			if !styled || style != cur {
				line.WriteString(r.ansiForStyle(style))
				cur = style
				styled = true
			}
			line.WriteRune(rn)
		}
		line.WriteString("\x1b[0m")
		lines = append(lines, strings.TrimRight(line.String(), " "))
	}
	return strings.Join(lines, "\n"), nil
}
