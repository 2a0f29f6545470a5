package cli

import (
	"context"
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/fsnav/pkg/camera"
	"github.com/matzehuels/fsnav/pkg/fsys"
	"github.com/matzehuels/fsnav/pkg/geom"
	"github.com/matzehuels/fsnav/pkg/render"
	"github.com/matzehuels/fsnav/pkg/scene"
)

// Terminal cells are mapped to pixels at a fixed size so the scene keeps the
// proportions it has in the rendered images.
const (
	cellW = 8.0
	cellH = 16.0

	// chromeRows are the lines below the canvas: HUD and hint or help.
	chromeRows = 2

	// keyRotate is the drag distance, in pixels, of one rotation key press.
	keyRotate = 24.0
)

// =============================================================================
// Command
// =============================================================================

// browseCommand creates the interactive navigator.
func (c *CLI) browseCommand() *cobra.Command {
	var noWatch, labels bool

	cmd := &cobra.Command{
		Use:   "browse [dir]",
		Short: "Fly through directories in the terminal",
		Long: `Fly through directories in the terminal.

Drag with the mouse to orbit, scroll to zoom, click a circle to open it.
Directories are entered; files are handed to the system opener. Press ? for
the key bindings.

Unless --no-watch is given, the current directory is re-listed when entries
are created, removed or renamed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			dir, err := c.resolveDir(args)
			if err != nil {
				return err
			}

			v := scene.NewView(ctx, c.newLister(), dir, scene.ViewOptions{
				Limit:  cfg.View.Limit,
				Layout: cfg.Layout,
				Camera: cfg.Camera,
			})
			m := newBrowseModel(ctx, v)
			m.labels = labels
			m.opener = openExternal

			// The demo tree lives in memory; there is nothing to watch.
			if !noWatch && !c.demo {
				w, err := fsys.NewWatcher(nil)
				if err != nil {
					c.Logger.Warn("watch disabled", "error", err)
				} else {
					defer w.Close()
					go w.Run(ctx)
					m.watcher = w
					m.watch()
				}
			}

			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(ctx))
			final, err := p.Run()
			if err != nil {
				return err
			}
			if fm, ok := final.(browseModel); ok && fm.view.Dir != "" {
				printKeyValue("last dir", fm.view.Dir)
			}
			return nil
		},
	}

	addViewFlags(cmd)
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "do not re-list on filesystem changes")
	cmd.Flags().BoolVar(&labels, "labels", true, "draw entry names inside circles")

	return cmd
}

// =============================================================================
// Key Bindings
// =============================================================================

type browseKeyMap struct {
	Left    key.Binding
	Right   key.Binding
	Up      key.Binding
	Down    key.Binding
	ZoomIn  key.Binding
	ZoomOut key.Binding
	Next    key.Binding
	Open    key.Binding
	Parent  key.Binding
	Refresh key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func defaultBrowseKeyMap() browseKeyMap {
	return browseKeyMap{
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "orbit left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "orbit right"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "tilt up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "tilt down"),
		),
		ZoomIn: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "zoom in"),
		),
		ZoomOut: key.NewBinding(
			key.WithKeys("-", "_"),
			key.WithHelp("-", "zoom out"),
		),
		Next: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next entry"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Parent: key.NewBinding(
			key.WithKeys("backspace"),
			key.WithHelp("backspace", "up"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r", "f5"),
			key.WithHelp("r", "refresh"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q/esc", "quit"),
		),
	}
}

// ShortHelp returns keybindings to be shown in the mini help view.
func (k browseKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.Parent, k.Next, k.Help, k.Quit}
}

// FullHelp returns keybindings for the expanded help view.
func (k browseKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Up, k.Down},
		{k.ZoomIn, k.ZoomOut, k.Next},
		{k.Open, k.Parent, k.Refresh},
		{k.Help, k.Quit},
	}
}

// =============================================================================
// Model
// =============================================================================

// dirChangedMsg reports a change in the watched directory.
type dirChangedMsg struct{ dir string }

// openedMsg reports the outcome of handing a file to the system opener.
type openedMsg struct {
	path string
	err  error
}

// browseModel is the bubbletea model around a scene.View.
type browseModel struct {
	ctx     context.Context
	view    scene.View
	palette render.Palette
	keys    browseKeyMap
	help    help.Model
	labels  bool

	cols, rows int

	// Drag state. A press and release without motion in between is a click.
	dragging     bool
	moved        bool
	lastX, lastY int

	status  string
	watcher *fsys.Watcher
	opener  func(path string) error
}

func newBrowseModel(ctx context.Context, v scene.View) browseModel {
	return browseModel{
		ctx:     ctx,
		view:    v,
		palette: render.DefaultPalette(),
		keys:    defaultBrowseKeyMap(),
		help:    help.New(),
		labels:  true,
	}
}

func (m browseModel) Init() tea.Cmd {
	return m.waitForChange()
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.cols, m.rows = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m.handle(scene.Resized{Size: m.canvasSize()})
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case dirChangedMsg:
		if msg.dir == m.view.Dir {
			next, cmd := m.handle(scene.Refreshed{})
			return next, tea.Batch(cmd, m.waitForChange())
		}
		return m, m.waitForChange()
	case openedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("open %s: %v", msg.path, msg.err)
		} else {
			m.status = "opened " + msg.path
		}
	}
	return m, nil
}

func (m browseModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Left):
		return m.handle(scene.CameraMoved{Event: camera.Drag{DX: -keyRotate}})
	case key.Matches(msg, m.keys.Right):
		return m.handle(scene.CameraMoved{Event: camera.Drag{DX: keyRotate}})
	case key.Matches(msg, m.keys.Up):
		return m.handle(scene.CameraMoved{Event: camera.Drag{DY: -keyRotate}})
	case key.Matches(msg, m.keys.Down):
		return m.handle(scene.CameraMoved{Event: camera.Drag{DY: keyRotate}})
	case key.Matches(msg, m.keys.ZoomIn):
		return m.handle(scene.CameraMoved{Event: camera.ZoomIn})
	case key.Matches(msg, m.keys.ZoomOut):
		return m.handle(scene.CameraMoved{Event: camera.ZoomOut})
	case key.Matches(msg, m.keys.Next):
		m.view = nextHover(m.view)
		return m, nil
	case key.Matches(msg, m.keys.Open):
		return m.handle(scene.OpenHovered{})
	case key.Matches(msg, m.keys.Parent):
		return m.handle(scene.GoUp{})
	case key.Matches(msg, m.keys.Refresh):
		return m.handle(scene.Refreshed{})
	}
	return m, nil
}

func (m browseModel) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	x, y := cellCenter(msg.X, msg.Y)
	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		return m.handle(scene.CameraMoved{Event: camera.Scroll{Y: 1}})
	case msg.Button == tea.MouseButtonWheelDown:
		return m.handle(scene.CameraMoved{Event: camera.Scroll{Y: -1}})
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		m.dragging, m.moved = true, false
		m.lastX, m.lastY = msg.X, msg.Y
		return m, nil
	case msg.Action == tea.MouseActionMotion && m.dragging:
		dx := float64(msg.X-m.lastX) * cellW
		dy := float64(msg.Y-m.lastY) * cellH
		m.lastX, m.lastY = msg.X, msg.Y
		if dx == 0 && dy == 0 {
			return m, nil
		}
		m.moved = true
		return m.handle(scene.CameraMoved{Event: camera.Drag{DX: dx, DY: dy}})
	case msg.Action == tea.MouseActionMotion:
		return m.handle(scene.PointerMoved{X: x, Y: y})
	case msg.Action == tea.MouseActionRelease:
		wasClick := m.dragging && !m.moved
		m.dragging = false
		if wasClick {
			return m.handle(scene.Clicked{X: x, Y: y})
		}
	}
	return m, nil
}

// handle feeds ev to the view and turns an open request into a command.
func (m browseModel) handle(ev scene.Event) (tea.Model, tea.Cmd) {
	prev := m.view.Dir
	v, req := m.view.Handle(m.ctx, ev)
	m.view = v
	if v.Dir != prev {
		m.status = ""
		m.watch()
	}
	if v.ListErr != nil {
		m.status = v.ListErr.Error()
	}
	if req == nil || m.opener == nil {
		return m, nil
	}
	path, opener := req.Path, m.opener
	return m, func() tea.Msg {
		return openedMsg{path: path, err: opener(path)}
	}
}

// watch points the watcher at the current directory.
func (m browseModel) watch() {
	if m.watcher == nil {
		return
	}
	if err := m.watcher.Watch(m.view.Dir); err != nil {
		_ = m.watcher.Watch("")
	}
}

// waitForChange blocks until the watched directory changes.
func (m browseModel) waitForChange() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	ctx, changes := m.ctx, m.watcher.Changes()
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case dir := <-changes:
			return dirChangedMsg{dir: dir}
		}
	}
}

// canvasSize is the scene viewport in pixels.
func (m browseModel) canvasSize() geom.Size {
	rows := max(m.rows-chromeRows, 0)
	return geom.Size{W: float64(m.cols) * cellW, H: float64(rows) * cellH}
}

// nextHover moves the hover to the next visible point, nearest first.
func nextHover(v scene.View) scene.View {
	pts := scene.FrontToBack(v.Points)
	if len(pts) == 0 {
		return v
	}
	next := 0
	if v.HasHover {
		for i, p := range pts {
			if p.Node.Path == v.Hovered.Node.Path {
				next = (i + 1) % len(pts)
				break
			}
		}
	}
	v.Hovered, v.HasHover = pts[next], true
	return v
}

// cellCenter converts a terminal cell to the pixel at its centre.
func cellCenter(col, row int) (float64, float64) {
	return (float64(col) + 0.5) * cellW, (float64(row) + 0.5) * cellH
}

// =============================================================================
// Drawing
// =============================================================================

// cell is one character of the canvas.
type cell struct {
	r  rune
	fg color.RGBA
	bg color.RGBA
}

// paintCells rasterises f onto a cols x rows grid. Points are painted in
// order, so later (nearer) points cover earlier ones.
func paintCells(f render.Frame, pal render.Palette, cols, rows int, labels bool) [][]cell {
	grid := make([][]cell, rows)
	step := float64(render.DefaultGridStep)
	for r := range grid {
		grid[r] = make([]cell, cols)
		for c := range grid[r] {
			grid[r][c] = cell{r: ' ', fg: pal.Grid, bg: pal.Background}
			x0, y0 := float64(c)*cellW, float64(r)*cellH
			onX := math.Mod(x0, step) < cellW
			onY := math.Mod(y0, step) < cellH
			switch {
			case onX && onY:
				grid[r][c].r = '┼'
			case onX:
				grid[r][c].r = '│'
			case onY:
				grid[r][c].r = '─'
			}
		}
	}

	for _, p := range f.Points {
		hovered := f.Hovered == p.Node.Path
		fill := pal.Fill(p.Node)
		outline, _ := pal.Outline(hovered)
		c0, c1 := clampCell((p.X-p.R)/cellW, cols), clampCell((p.X+p.R)/cellW, cols)
		r0, r1 := clampCell((p.Y-p.R)/cellH, rows), clampCell((p.Y+p.R)/cellH, rows)
		for r := r0; r <= r1 && r < rows; r++ {
			for c := c0; c <= c1 && c < cols; c++ {
				x, y := cellCenter(c, r)
				if !p.Contains(x, y) {
					continue
				}
				grid[r][c] = cell{r: ' ', fg: pal.Text, bg: fill}
				edge := math.Hypot(x-p.X, y-p.Y) > p.R-cellW
				if hovered && edge {
					grid[r][c] = cell{r: '█', fg: outline, bg: fill}
				}
			}
		}
		if labels {
			drawLabel(grid, p, fill, pal.Text)
		}
	}
	return grid
}

// drawLabel writes the node name across the circle's centre row.
func drawLabel(grid [][]cell, p scene.ScreenPoint, bg, fg color.RGBA) {
	if len(grid) == 0 {
		return
	}
	row := int(p.Y / cellH)
	width := int(2 * p.R / cellW)
	if row < 0 || row >= len(grid) || width < 3 {
		return
	}
	name := []rune(p.Node.Name)
	if len(name) > width-1 {
		name = append(name[:width-2], '…')
	}
	start := int(p.X/cellW) - len(name)/2
	for i, r := range name {
		c := start + i
		if c < 0 || c >= len(grid[row]) {
			continue
		}
		grid[row][c] = cell{r: r, fg: fg, bg: bg}
	}
}

func clampCell(v float64, n int) int {
	return int(geom.Clamp(math.Floor(v), 0, float64(max(n-1, 0))))
}

// renderCells turns the grid into styled lines, one lipgloss style per run
// of equally coloured cells.
func renderCells(grid [][]cell) string {
	var b strings.Builder
	for i, row := range grid {
		if i > 0 {
			b.WriteByte('\n')
		}
		for j := 0; j < len(row); {
			k := j
			var run strings.Builder
			for k < len(row) && row[k].fg == row[j].fg && row[k].bg == row[j].bg {
				run.WriteRune(row[k].r)
				k++
			}
			style := lipgloss.NewStyle().
				Foreground(lipgloss.Color(render.Hex(row[j].fg))).
				Background(lipgloss.Color(render.Hex(row[j].bg)))
			b.WriteString(style.Render(run.String()))
			j = k
		}
	}
	return b.String()
}

func (m browseModel) View() string {
	if m.cols <= 0 || m.rows <= 0 {
		return "loading..."
	}
	f := render.FromView(m.view)
	canvas := renderCells(paintCells(f, m.palette, m.cols, max(m.rows-chromeRows, 0), m.labels))

	hud := lipgloss.NewStyle().Foreground(lipgloss.Color(render.Hex(m.palette.Text))).Render(f.HUD)
	var second string
	switch {
	case m.help.ShowAll:
		second = m.help.View(m.keys)
	case m.status != "":
		second = StyleWarning.Render(m.status)
	case f.Hint != "":
		second = lipgloss.NewStyle().Foreground(lipgloss.Color(render.Hex(m.palette.Warn))).Render(f.Hint)
	default:
		second = m.help.View(m.keys)
	}
	return canvas + "\n" + hud + "\n" + second
}
