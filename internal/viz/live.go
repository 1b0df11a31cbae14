// Package viz renders a rope simulation live in the terminal: a braille
// canvas with a cycling preset camera, a lipgloss stats panel, and an
// asciigraph history of the sag height.
//
// Physics runs on a fixed timestep accumulator; curve resampling, change
// notification, and tube regeneration run once per render frame. The two
// cadences never share a dt.
package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/ungerik/go3d/float64/vec3"

	"github.com/san-kum/ropesim/internal/config"
	"github.com/san-kum/ropesim/internal/rope"
	"github.com/san-kum/ropesim/internal/tube"
	"github.com/san-kum/ropesim/internal/wind"
)

const (
	canvasWidth     = 80
	canvasHeight    = 22
	historyCapacity = 240
)

type TickMsg time.Time

// lineBuffer receives the simulation's published polyline; the canvas
// draws whatever was pushed last.
type lineBuffer struct{ pts []vec3.T }

func (b *lineBuffer) SetPositions(pts []vec3.T) {
	b.pts = append(b.pts[:0], pts...)
}

// changeCounter counts points-changed notifications for the stats panel.
type changeCounter struct{ n int }

func (c *changeCounter) PointsChanged() { c.n++ }

// Model is the bubbletea application state for the live view.
type Model struct {
	sim        *rope.Simulation
	gen        *wind.Generator
	tubeGen    *tube.Generator
	tubeParams tube.Params

	start, end *rope.Anchor
	endHome    vec3.T

	line    *lineBuffer
	changes *changeCounter

	canvas *Canvas
	cam    *Camera
	rig    *Rig

	dt      float64
	fps     int
	acc     float64
	simTime float64

	heights []float64

	paused   bool
	showTube bool
	showHelp bool
	swing    bool
}

// NewModel wires a simulation, wind generator, and tube generator from
// the given configuration.
func NewModel(cfg *config.Config) Model {
	sim := rope.New(cfg.RopeParameters(), rope.ModeRuntime)
	start := cfg.StartAnchor()
	end := cfg.EndAnchor()
	sim.SetStartAnchor(start)
	sim.SetMidAnchor(cfg.MidAnchor())
	sim.SetEndAnchor(end)

	line := &lineBuffer{}
	changes := &changeCounter{}
	sim.SetLineSink(line)
	sim.AddListener(changes)
	sim.Refresh()

	var gen *wind.Generator
	if cfg.Wind.Magnitude != 0 {
		gen = cfg.WindGenerator(cfg.Sim.Seed)
	}

	cam := NewCamera()
	return Model{
		sim:        sim,
		gen:        gen,
		tubeGen:    tube.NewGenerator(),
		tubeParams: cfg.TubeParams(),
		start:      start,
		end:        end,
		endHome:    end.Position,
		line:       line,
		changes:    changes,
		canvas:     NewCanvas(canvasWidth, canvasHeight),
		cam:        cam,
		rig:        NewRig(cam, DefaultPoses()),
		dt:         cfg.Sim.Dt,
		fps:        cfg.Sim.FPS,
		heights:    make([]float64, 0, historyCapacity),
	}
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case TickMsg:
		if !m.paused {
			m.advance(1.0 / float64(m.fps))
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := m.sim.Params()
	switch msg.String() {
	case "q", "ctrl+c":
		m.sim.Teardown()
		return m, tea.Quit
	case " ":
		m.paused = !m.paused
	case "c":
		m.rig.Cycle()
	case "t":
		m.showTube = !m.showTube
	case "w":
		m.swing = !m.swing
	case "h":
		m.showHelp = !m.showHelp
	case "+", "=":
		if m.gen == nil {
			m.gen = wind.New(time.Now().UnixNano())
			m.gen.Magnitude = 0
		}
		m.gen.Magnitude += 0.2
	case "-", "_":
		if m.gen != nil && m.gen.Magnitude >= 0.2 {
			m.gen.Magnitude -= 0.2
		}
	case "S":
		p.Stiffness += 2
	case "s":
		p.Stiffness -= 2
	case "D":
		p.Damping += 0.5
	case "d":
		p.Damping -= 0.5
	case "L":
		p.RestLength += 1
	case "l":
		p.RestLength -= 1
	}
	return *m, nil
}

// advance runs the frame: fixed-step physics drained from an
// accumulator, then the render-cadence refresh.
func (m *Model) advance(frame float64) {
	if m.swing {
		m.end.Position = m.endHome
		m.end.Position[0] += 2 * math.Sin(m.simTime*0.8)
		m.end.Position[1] += 0.5 * math.Sin(m.simTime*1.3)
	}

	m.acc += frame
	for m.acc >= m.dt {
		if m.gen != nil {
			m.gen.Step(m.sim, m.dt)
		}
		m.sim.StepPhysics(m.dt)
		m.acc -= m.dt
		m.simTime += m.dt
	}

	m.sim.Refresh()
	m.rig.Update(frame)

	if m.showTube {
		m.tubeGen.Generate(m.sim.Samples(), m.tubeParams)
	}

	sag := m.sim.SagPoint()
	m.heights = append(m.heights, sag.Current[1])
	if len(m.heights) > historyCapacity {
		m.heights = m.heights[1:]
	}
}

func (m Model) View() string {
	m.canvas.Clear()

	DrawMarker(m.canvas, m.cam, m.start.Position)
	DrawMarker(m.canvas, m.cam, m.end.Position)
	DrawPolyline(m.canvas, m.cam, m.line.pts)
	if m.showTube {
		m.drawTubeRings()
	}

	left := canvasStyle.Render(m.canvas.String())
	right := statsStyle.Render(m.statsPanel())
	view := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	if len(m.heights) > 2 {
		graph := asciigraph.Plot(m.heights,
			asciigraph.Height(6),
			asciigraph.Width(canvasWidth),
			asciigraph.Caption("sag height"),
		)
		view = lipgloss.JoinVertical(lipgloss.Left, view, graphStyle.Render(graph))
	}

	help := "space pause · c camera · t tube · w swing · +/- wind · s/S stiffness · d/D damping · l/L length · q quit"
	if m.showHelp {
		help += "\nphysics runs at a fixed dt; rendering at the frame rate"
	}
	return lipgloss.JoinVertical(lipgloss.Left, view, helpStyle.Render(help))
}

// drawTubeRings draws each cross-section ring of the generated tube.
func (m Model) drawTubeRings() {
	mesh := m.tubeGen.Mesh()
	if mesh.Empty() {
		return
	}
	ring := m.tubeParams.Segments + 1
	rings := (mesh.VertexCount() - 2) / ring
	for r := 0; r < rings; r++ {
		DrawPolyline(m.canvas, m.cam, mesh.Vertices[r*ring:(r+1)*ring])
	}
}

func (m Model) statsPanel() string {
	p := m.sim.Params()
	sag := m.sim.SagPoint()

	state := "invalid"
	if m.sim.Valid() {
		if sag.Settled() {
			state = "stable"
		} else {
			state = "settling"
		}
	}

	windMag := 0.0
	if m.gen != nil {
		windMag = m.gen.Magnitude
	}

	rows := []struct {
		label, value string
	}{
		{"time", fmt.Sprintf("%.2fs", m.simTime)},
		{"state", state},
		{"pose", m.rig.Current()},
		{"sag", fmt.Sprintf("(%.2f, %.2f, %.2f)", sag.Current[0], sag.Current[1], sag.Current[2])},
		{"speed", fmt.Sprintf("%.3f", sag.Velocity.Length())},
		{"stiffness", fmt.Sprintf("%.1f", p.Stiffness)},
		{"damping", fmt.Sprintf("%.1f", p.Damping)},
		{"length", fmt.Sprintf("%.1f", p.RestLength)},
		{"weight", fmt.Sprintf("%.1f", p.MidpointWeight)},
		{"wind", fmt.Sprintf("%.1f", windMag)},
		{"updates", fmt.Sprintf("%d", m.changes.n)},
	}

	var sb strings.Builder
	sb.WriteString(headerStyle.Render("ropesim"))
	sb.WriteByte('\n')
	for _, row := range rows {
		sb.WriteString(labelStyle.Render(row.label))
		sb.WriteString(valueStyle.Render(row.value))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Run starts the live view and blocks until the user quits.
func Run(cfg *config.Config) error {
	p := tea.NewProgram(NewModel(cfg))
	_, err := p.Run()
	return err
}
