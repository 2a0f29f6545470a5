package cli

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/fsnav/pkg/camera"
	"github.com/matzehuels/fsnav/pkg/fsys"
	"github.com/matzehuels/fsnav/pkg/geom"
	"github.com/matzehuels/fsnav/pkg/render"
	"github.com/matzehuels/fsnav/pkg/scene"
)

// newTestBrowser returns a sized model over the demo tree at dir.
func newTestBrowser(t *testing.T, dir string) browseModel {
	t.Helper()
	ctx := context.Background()
	v := scene.NewView(ctx, fsys.NewDemoLister(), dir, scene.ViewOptions{})
	m := newBrowseModel(ctx, v)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 140, Height: 47})
	return next.(browseModel)
}

func update(t *testing.T, m browseModel, msg tea.Msg) (browseModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	bm, ok := next.(browseModel)
	require.True(t, ok)
	return bm, cmd
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// cellOf returns the terminal cell under a screen point.
func cellOf(p scene.ScreenPoint) (int, int) {
	return int(p.X / cellW), int(p.Y / cellH)
}

func TestBrowseResize(t *testing.T) {
	m := newTestBrowser(t, "/home/user")
	assert.Equal(t, geom.Size{W: 140 * cellW, H: 45 * cellH}, m.view.Size)
	assert.NotEmpty(t, m.view.Points)
	assert.Len(t, m.view.Nodes, 9)
}

func TestBrowseViewBeforeResize(t *testing.T) {
	ctx := context.Background()
	m := newBrowseModel(ctx, scene.NewView(ctx, fsys.NewDemoLister(), "/", scene.ViewOptions{}))
	assert.Equal(t, "loading...", m.View())
	assert.Empty(t, m.view.Points)
}

func TestBrowseQuit(t *testing.T) {
	m := newTestBrowser(t, "/")
	for _, k := range []string{"q", "esc"} {
		_, cmd := update(t, m, keyMsg(k))
		require.NotNil(t, cmd, k)
		assert.Equal(t, tea.QuitMsg{}, cmd(), k)
	}
}

func TestBrowseKeysMoveCamera(t *testing.T) {
	m := newTestBrowser(t, "/")
	start := m.view.Camera

	m, _ = update(t, m, keyMsg("left"))
	assert.InDelta(t, start.Yaw-keyRotate*camera.YawPerPixel, m.view.Camera.Yaw, 1e-9)

	m, _ = update(t, m, keyMsg("+"))
	assert.InDelta(t, start.Dist-camera.KeyZoomStep, m.view.Camera.Dist, 1e-9)

	m, _ = update(t, m, keyMsg("-"))
	m, _ = update(t, m, keyMsg("-"))
	assert.InDelta(t, start.Dist+camera.KeyZoomStep, m.view.Camera.Dist, 1e-9)
}

func TestBrowseTabCyclesNearestFirst(t *testing.T) {
	m := newTestBrowser(t, "/")
	order := scene.FrontToBack(m.view.Points)
	require.GreaterOrEqual(t, len(order), 2)

	m, _ = update(t, m, keyMsg("tab"))
	require.True(t, m.view.HasHover)
	assert.Equal(t, order[0].Node.Path, m.view.Hovered.Node.Path)

	m, _ = update(t, m, keyMsg("tab"))
	assert.Equal(t, order[1].Node.Path, m.view.Hovered.Node.Path)
	assert.NotEmpty(t, m.view.Hint())
}

func TestBrowseEnterOpensHoveredDirectory(t *testing.T) {
	m := newTestBrowser(t, "/home/user")
	var target scene.ScreenPoint
	for range m.view.Points {
		m, _ = update(t, m, keyMsg("tab"))
		if m.view.Hovered.Node.IsDir() {
			target = m.view.Hovered
			break
		}
	}
	require.NotEmpty(t, target.Node.Path)

	m, cmd := update(t, m, keyMsg("enter"))
	assert.Nil(t, cmd)
	assert.Equal(t, target.Node.Path, m.view.Dir)
	assert.False(t, m.view.HasHover)

	m, _ = update(t, m, keyMsg("backspace"))
	assert.Equal(t, "/home/user", m.view.Dir)
}

func TestBrowseClickOpensFile(t *testing.T) {
	m := newTestBrowser(t, "/home/user")
	var opened string
	m.opener = func(path string) error {
		opened = path
		return nil
	}

	// Click at the centre of the nearest file and expect whatever a hit test
	// at that pixel reports.
	var file scene.ScreenPoint
	for _, p := range scene.FrontToBack(m.view.Points) {
		if !p.Node.IsDir() {
			file = p
			break
		}
	}
	require.NotEmpty(t, file.Node.Path)
	col, row := cellOf(file)
	x, y := cellCenter(col, row)
	want, ok := scene.HitTest(m.view.Points, x, y)
	require.True(t, ok)

	m, _ = update(t, m, tea.MouseMsg{X: col, Y: row, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m, cmd := update(t, m, tea.MouseMsg{X: col, Y: row, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})

	if want.Node.IsDir() {
		assert.Equal(t, want.Node.Path, m.view.Dir)
		return
	}
	require.NotNil(t, cmd)
	msg := cmd()
	assert.Equal(t, want.Node.Path, opened)
	m, _ = update(t, m, msg)
	assert.Equal(t, "opened "+want.Node.Path, m.status)
	assert.Equal(t, "/home/user", m.view.Dir)
}

func TestBrowseDragRotatesWithoutClicking(t *testing.T) {
	m := newTestBrowser(t, "/")
	start := m.view.Camera

	m, _ = update(t, m, tea.MouseMsg{X: 10, Y: 10, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m, _ = update(t, m, tea.MouseMsg{X: 13, Y: 10, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	m, cmd := update(t, m, tea.MouseMsg{X: 13, Y: 10, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})

	assert.Nil(t, cmd)
	assert.Equal(t, "/", m.view.Dir)
	assert.InDelta(t, start.Yaw+3*cellW*camera.YawPerPixel, m.view.Camera.Yaw, 1e-9)
	assert.False(t, m.dragging)
}

func TestBrowseWheelZooms(t *testing.T) {
	m := newTestBrowser(t, "/")
	start := m.view.Camera.Dist

	m, _ = update(t, m, tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp})
	assert.InDelta(t, start-camera.ScrollStep, m.view.Camera.Dist, 1e-9)

	m, _ = update(t, m, tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown})
	assert.InDelta(t, start, m.view.Camera.Dist, 1e-9)
}

func TestBrowsePointerHovers(t *testing.T) {
	m := newTestBrowser(t, "/")
	top := m.view.Points[len(m.view.Points)-1]
	col, row := cellOf(top)

	m, _ = update(t, m, tea.MouseMsg{X: col, Y: row, Action: tea.MouseActionMotion, Button: tea.MouseButtonNone})
	assert.True(t, m.view.HasHover)

	m, _ = update(t, m, tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionMotion, Button: tea.MouseButtonNone})
	assert.False(t, m.view.HasHover)
}

func TestBrowseDirChangedRefreshesCurrentOnly(t *testing.T) {
	m := newTestBrowser(t, "/")
	m, _ = update(t, m, dirChangedMsg{dir: "/"})
	assert.Equal(t, "/", m.view.Dir)

	m, _ = update(t, m, dirChangedMsg{dir: "/elsewhere"})
	assert.Equal(t, "/", m.view.Dir)
}

func TestBrowseHelpToggle(t *testing.T) {
	m := newTestBrowser(t, "/")
	assert.False(t, m.help.ShowAll)
	m, _ = update(t, m, keyMsg("?"))
	assert.True(t, m.help.ShowAll)
	assert.Contains(t, m.View(), "orbit left")
}

func TestPaintCells(t *testing.T) {
	pal := render.DefaultPalette()
	dir := scene.Node{Path: "/a", Name: "alpha", Kind: scene.Directory}
	f := render.Frame{
		Size:    geom.Size{W: 400, H: 320},
		Points:  []scene.ScreenPoint{{X: 200, Y: 160, Z: 2, R: 40, Node: dir}},
		Hovered: "/a",
	}
	grid := paintCells(f, pal, 50, 20, true)
	require.Len(t, grid, 20)
	require.Len(t, grid[0], 50)

	assert.Equal(t, '┼', grid[0][0].r)
	assert.Equal(t, pal.Background, grid[0][0].bg)

	centre := grid[10][25]
	assert.Equal(t, pal.Directory, centre.bg)

	// The label is centred on the circle's row.
	row := string(func() []rune {
		var rs []rune
		for _, c := range grid[10] {
			rs = append(rs, c.r)
		}
		return rs
	}())
	assert.Contains(t, row, "alpha")

	// Hovered circles get an outline at the rim.
	left := grid[10][20]
	assert.Equal(t, '█', left.r)
	assert.Equal(t, pal.Text, left.fg)
}

func TestPaintCellsClipsOffscreen(t *testing.T) {
	pal := render.DefaultPalette()
	f := render.Frame{Points: []scene.ScreenPoint{{X: -100, Y: -100, Z: 2, R: 30, Node: scene.Node{Path: "/x", Name: "x"}}}}
	grid := paintCells(f, pal, 10, 5, true)
	for _, row := range grid {
		for _, c := range row {
			assert.Equal(t, pal.Background, c.bg)
		}
	}
}
