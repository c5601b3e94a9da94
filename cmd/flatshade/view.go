package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/spf13/cobra"
	"github.com/taigrr/flatshade/pkg/config"
	"github.com/taigrr/flatshade/pkg/render"
)

const (
	torqueStrength = 3.0
	dragStrength   = 0.03
	zoomStep       = 0.5
)

func newViewCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "view <model>",
		Short: "Spin a model in the terminal",
		Long: "Open an interactive terminal viewer. The model spins around Y; " +
			"arrows or WASD and mouse drags rotate it, scroll or +/- zoom, " +
			"r resets, esc or ctrl+c quits.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.resolve(cmd)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runView(cmd.Context(), args[0], cfg, root)
		},
	}
}

// viewInput is the state shared between the event reader and the frame loop.
type viewInput struct {
	mu     sync.Mutex
	orbit  *orbit
	torque struct{ pitch, yaw float64 }
	reset  bool
	size   *[2]int // Pending terminal resize

	mouseDown              bool
	lastMouseX, lastMouseY int
}

// handle applies one terminal event. It returns false when the viewer
// should quit.
func (in *viewInput) handle(ev uv.Event) bool {
	in.mu.Lock()
	defer in.mu.Unlock()

	switch ev := ev.(type) {
	case uv.WindowSizeEvent:
		in.size = &[2]int{ev.Width, ev.Height}

	case uv.KeyPressEvent:
		switch {
		case ev.MatchString("escape", "ctrl+c"):
			return false
		case ev.MatchString("r"):
			in.orbit.Reset()
			in.reset = true
		case ev.MatchString("w", "up"):
			in.torque.pitch = -torqueStrength
		case ev.MatchString("s", "down"):
			in.torque.pitch = torqueStrength
		case ev.MatchString("a", "left"):
			in.torque.yaw = -torqueStrength
		case ev.MatchString("d", "right"):
			in.torque.yaw = torqueStrength
		case ev.Text == "+", ev.MatchString("="):
			// "+" is the key-combination separator, so it cannot be matched by name
			in.orbit.Zoom(-zoomStep)
		case ev.MatchString("-", "_"):
			in.orbit.Zoom(zoomStep)
		}

	case uv.KeyReleaseEvent:
		switch {
		case ev.MatchString("w", "up", "s", "down"):
			in.torque.pitch = 0
		case ev.MatchString("a", "left", "d", "right"):
			in.torque.yaw = 0
		}

	case uv.MouseClickEvent:
		in.mouseDown = true
		in.lastMouseX, in.lastMouseY = ev.X, ev.Y

	case uv.MouseReleaseEvent:
		in.mouseDown = false

	case uv.MouseMotionEvent:
		if in.mouseDown {
			dx, dy := ev.X-in.lastMouseX, ev.Y-in.lastMouseY
			in.orbit.Impulse(float64(dy)*dragStrength, float64(dx)*dragStrength)
			in.lastMouseX, in.lastMouseY = ev.X, ev.Y
		}

	case uv.MouseWheelEvent:
		switch ev.Button {
		case uv.MouseWheelUp:
			in.orbit.Zoom(-zoomStep)
		case uv.MouseWheelDown:
			in.orbit.Zoom(zoomStep)
		}
	}
	return true
}

// viewFrame is the view state for one rendered frame.
type viewFrame struct {
	Pitch, Yaw float64
	Distance   float64
	Reset      bool    // The spin restarts from zero
	Size       *[2]int // New terminal size, if any
}

// frame advances the orbit by one frame of dt seconds and drains pending
// reset and resize requests.
func (in *viewInput) frame(dt float64) viewFrame {
	in.mu.Lock()
	defer in.mu.Unlock()

	// Key release events are not reported by every terminal, so held
	// torque fades on its own.
	in.orbit.Impulse(in.torque.pitch*dt, in.torque.yaw*dt)
	in.torque.pitch *= 0.9
	in.torque.yaw *= 0.9
	in.orbit.Update()

	f := viewFrame{
		Pitch:    in.orbit.Pitch.Angle,
		Yaw:      in.orbit.Yaw.Angle,
		Distance: in.orbit.Distance(),
		Reset:    in.reset,
		Size:     in.size,
	}
	in.reset, in.size = false, nil
	return f
}

func runView(ctx context.Context, modelPath string, cfg config.Config, opts *rootOptions) error {
	// The terminal shows the frame, so logs only go to --log-file.
	logger, done, err := opts.logger(io.Discard)
	if err != nil {
		return err
	}
	defer done()

	verts, err := loadVertices(modelPath, logger)
	if err != nil {
		return err
	}

	term := uv.DefaultTerminal()
	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	// Enable mouse mode
	fmt.Fprint(os.Stdout, "\x1b[?1002h") // Button-event mouse tracking
	fmt.Fprint(os.Stdout, "\x1b[?1006h") // SGR extended mouse mode

	cleanup := func() {
		fmt.Fprint(os.Stdout, "\x1b[?1002l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		if err := term.Shutdown(context.Background()); err != nil {
			logger.Warn("terminal shutdown", "error", err)
		}
	}
	defer cleanup()

	termRenderer := render.NewTerminalRenderer(term, width, height)
	fbWidth, fbHeight := termRenderer.FramebufferSize()
	sc := newScene(cfg, verts, fbWidth, fbHeight, logger)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	input := &viewInput{orbit: newOrbit(cfg.FPS, cfg.CameraDistance)}
	go func() {
		for ev := range term.Events() {
			if !input.handle(ev) {
				cancel()
				return
			}
		}
	}()

	targetDuration := time.Second / time.Duration(cfg.FPS)
	lastFrame := time.Now()
	spin := 0.0
	var frames int

	for {
		select {
		case <-ctx.Done():
			logger.Info("viewer closed", "frames", frames)
			return nil
		default:
		}

		now := time.Now()
		dt := min(now.Sub(lastFrame).Seconds(), 0.1)
		lastFrame = now

		f := input.frame(dt)
		if f.Reset {
			spin = 0
		}
		sc.camera.SetDistance(f.Distance)
		if f.Size != nil {
			width, height = f.Size[0], f.Size[1]
			term.Erase()
			term.Resize(width, height)
			termRenderer = render.NewTerminalRenderer(term, width, height)
			fbWidth, fbHeight = termRenderer.FramebufferSize()
			if err := sc.resize(fbWidth, fbHeight); err != nil {
				return err
			}
			logger.Debug("resized", "cols", width, "rows", height)
		}

		spin += cfg.SpinSpeed
		stats, err := sc.render(modelMatrix(spin, f.Pitch, f.Yaw))
		if err != nil {
			return fmt.Errorf("render: %w", err)
		}

		termRenderer.Render(sc.fb)
		if err := termRenderer.Flush(); err != nil {
			return fmt.Errorf("flush: %w", err)
		}

		frames++
		if frames%cfg.FPS == 0 {
			logger.Debug("frame",
				"frame", frames,
				"written", stats.Written,
				"degenerate", stats.Degenerate,
				"zero_w", stats.ZeroW)
		}

		// Frame timing
		if elapsed := time.Since(now); elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
}
