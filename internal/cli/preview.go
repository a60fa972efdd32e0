package cli

import (
	"context"
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/overlay/pkg/errors"
	"github.com/matzehuels/overlay/pkg/geom"
	"github.com/matzehuels/overlay/pkg/scene"
	"github.com/matzehuels/overlay/pkg/tooltip"
)

// Terminal cells are mapped to scene pixels at this ratio.
const (
	defaultCellWidth  = 8
	defaultCellHeight = 16
)

// Preview styles
var (
	previewAnchorStyle   = lipgloss.NewStyle().Foreground(colorGray)
	previewSelectedStyle = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
	previewOverlayStyle  = lipgloss.NewStyle().Foreground(colorWhite).Background(colorDim)
	previewWrapStyle     = lipgloss.NewStyle().Foreground(colorWhite).Background(lipgloss.Color("94"))
	previewClippedStyle  = lipgloss.NewStyle().Foreground(colorWhite).Background(colorRed)
	previewFrameStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim)
)

type previewOpts struct {
	cellWidth  float64
	cellHeight float64
	engine     engineOverride
}

// previewCommand opens an interactive terminal preview of a scene. Resizing
// the terminal resizes the viewport and repositions every shown tooltip.
func (c *CLI) previewCommand() *cobra.Command {
	opts := previewOpts{cellWidth: defaultCellWidth, cellHeight: defaultCellHeight}

	cmd := &cobra.Command{
		Use:   "preview [scene]",
		Short: "Explore a scene interactively in the terminal",
		Long: `Preview draws a scene in the terminal with every tooltip shown. Resize the
terminal to resize the viewport; tooltips are repositioned as a browser
would on a resize event.

Keys: tab/shift+tab select, enter toggle, esc hide, a show all, q quit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := scene.Load(args[0])
			if err != nil {
				return err
			}
			page, err := scene.Build(s, scene.BuildOptions{
				Engine: c.engine(opts.engine),
				Logger: loggerFromContext(cmd.Context()),
			})
			if err != nil {
				return err
			}
			m := newPreviewModel(cmd.Context(), page, opts.cellWidth, opts.cellHeight)
			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	cmd.Flags().Float64Var(&opts.cellWidth, "cell-width", opts.cellWidth, "scene pixels per terminal column")
	cmd.Flags().Float64Var(&opts.cellHeight, "cell-height", opts.cellHeight, "scene pixels per terminal row")
	opts.engine.register(cmd)

	return cmd
}

// =============================================================================
// previewModel - bubbletea model
// =============================================================================

// previewModel draws a page on a character grid.
type previewModel struct {
	ctx    context.Context
	page   *scene.Page
	ids    []string
	cursor int

	cellW, cellH float64
	cols, rows   int
}

func newPreviewModel(ctx context.Context, page *scene.Page, cellW, cellH float64) previewModel {
	ids := make([]string, len(page.Scene.Tooltips))
	for i, t := range page.Scene.Tooltips {
		ids[i] = t.ID
	}
	page.ShowAll(ctx)
	return previewModel{
		ctx:   ctx,
		page:  page,
		ids:   ids,
		cellW: max(1, cellW),
		cellH: max(1, cellH),
		cols:  int(math.Ceil(page.Scene.Viewport.Width / max(1, cellW))),
		rows:  int(math.Ceil(page.Scene.Viewport.Height / max(1, cellH))),
	}
}

func (m previewModel) Init() tea.Cmd {
	return nil
}

func (m previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "tab", "right", "l":
			if len(m.ids) > 0 {
				m.cursor = (m.cursor + 1) % len(m.ids)
			}
		case "shift+tab", "left", "h":
			if len(m.ids) > 0 {
				m.cursor = (m.cursor + len(m.ids) - 1) % len(m.ids)
			}
		case "enter", " ":
			m.toggle()
		case "esc":
			if tip, err := m.selected(); err == nil {
				tip.HandleKey(m.ctx, "Escape")
			}
		case "a":
			m.page.ShowAll(m.ctx)
		}
	case tea.WindowSizeMsg:
		// Two columns and rows go to the border, two more rows to the status line.
		m.cols = max(1, msg.Width-2)
		m.rows = max(1, msg.Height-4)
		m.page.Tooltips.Resize(m.ctx, float64(m.cols)*m.cellW, float64(m.rows)*m.cellH)
		m.page.Flush()
	}
	return m, nil
}

func (m previewModel) selected() (*tooltip.Tooltip, error) {
	if len(m.ids) == 0 {
		return nil, errors.New(errors.ErrCodeNotFound, "scene has no tooltips")
	}
	return m.page.Tooltips.Get(m.ids[m.cursor])
}

func (m previewModel) toggle() {
	tip, err := m.selected()
	if err != nil {
		return
	}
	if tip.Shown() {
		tip.Hide(m.ctx)
		return
	}
	tip.Show(m.ctx)
	m.page.Flush()
}

// cell kinds, in paint order
const (
	cellEmpty = iota
	cellAnchor
	cellSelected
	cellOverlay
	cellWrap
	cellClipped
)

func (m previewModel) View() string {
	grid := make([][]rune, m.rows)
	kinds := make([][]int, m.rows)
	for y := range grid {
		grid[y] = []rune(strings.Repeat(" ", m.cols))
		kinds[y] = make([]int, m.cols)
	}

	var status string
	for i, id := range m.ids {
		p, ok := m.page.Placement(id)
		if !ok {
			continue
		}
		kind := cellAnchor
		if i == m.cursor {
			kind = cellSelected
			status = m.describe(p)
		}
		m.paint(grid, kinds, p.Anchor, kind, '▒', "")

		tip, err := m.page.Tooltips.Get(id)
		if err != nil || !tip.Shown() || p.Result.Attempts == 0 {
			continue
		}
		kind = cellOverlay
		switch {
		case !p.Result.Visible:
			kind = cellClipped
		case p.Result.WidthCompressed:
			kind = cellWrap
		}
		m.paint(grid, kinds, p.Result.Rect, kind, ' ', p.Text)
	}

	var b strings.Builder
	for y := range grid {
		if y > 0 {
			b.WriteByte('\n')
		}
		writeRuns(&b, grid[y], kinds[y])
	}

	vp := m.page.Doc.Viewport()
	header := StyleTitle.Render(m.page.Scene.Name) + StyleDim.Render(fmt.Sprintf("  %sx%s", num(vp.Width), num(vp.Height)))
	footer := status + "\n" + StyleDim.Render("tab select  enter toggle  esc hide  a show all  q quit")
	return header + "\n" + previewFrameStyle.Render(b.String()) + "\n" + footer
}

// paint fills the cells covered by r, writing text into the first row.
func (m previewModel) paint(grid [][]rune, kinds [][]int, r geom.Rect, kind int, fill rune, text string) {
	c0 := int(math.Floor(r.Left / m.cellW))
	c1 := int(math.Ceil(r.Right/m.cellW)) - 1
	r0 := int(math.Floor(r.Top / m.cellH))
	r1 := int(math.Ceil(r.Bottom/m.cellH)) - 1
	label := []rune(text)
	for y := max(0, r0); y <= min(r1, m.rows-1); y++ {
		for x := max(0, c0); x <= min(c1, m.cols-1); x++ {
			ch := fill
			if i := x - c0; y == r0 && i >= 0 && i < len(label) {
				ch = label[i]
			}
			grid[y][x] = ch
			kinds[y][x] = kind
		}
	}
}

func (m previewModel) describe(p scene.Placement) string {
	res := p.Result
	tip, err := m.page.Tooltips.Get(p.ID)
	if err != nil || !tip.Shown() || res.Attempts == 0 {
		return previewSelectedStyle.Render(p.ID) + StyleDim.Render("  hidden")
	}
	state := StyleSuccess.Render(res.Side.String())
	if !res.Visible {
		state = StyleError.Render(res.Side.String() + " (clipped)")
	}
	if res.WidthCompressed {
		state += StyleWarning.Render(" wrapped")
	}
	return fmt.Sprintf("%s  %s  %s  %s",
		previewSelectedStyle.Render(p.ID), state,
		StyleDim.Render(formatRect(res.Rect.Left, res.Rect.Top, res.Rect.Right, res.Rect.Bottom)),
		StyleDim.Render(fmt.Sprintf("%d attempts", res.Attempts)))
}

// writeRuns renders consecutive cells of the same kind with one style.
func writeRuns(b *strings.Builder, row []rune, kinds []int) {
	start := 0
	for x := 1; x <= len(row); x++ {
		if x < len(row) && kinds[x] == kinds[start] {
			continue
		}
		seg := string(row[start:x])
		switch kinds[start] {
		case cellAnchor:
			seg = previewAnchorStyle.Render(seg)
		case cellSelected:
			seg = previewSelectedStyle.Render(seg)
		case cellOverlay:
			seg = previewOverlayStyle.Render(seg)
		case cellWrap:
			seg = previewWrapStyle.Render(seg)
		case cellClipped:
			seg = previewClippedStyle.Render(seg)
		}
		b.WriteString(seg)
		start = x
	}
}
