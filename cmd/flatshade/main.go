// flatshade - software flat-shading renderer
// Spin an OBJ or GLB model in the terminal, or render it to PNG, WebP or TGA.
//
// Usage:
//
//	flatshade view <model>                 Interactive terminal viewer
//	flatshade snapshot <model> -o out.png  Headless render to a file
//
// Viewer controls:
//
//	Arrows/WASD - Rotate model (pitch/yaw)
//	Mouse drag  - Rotate model
//	Scroll, +/- - Zoom in/out
//	R           - Reset rotation and zoom
//	Esc, Ctrl+C - Quit
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"github.com/taigrr/flatshade/pkg/config"
	"github.com/taigrr/flatshade/pkg/math3d"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := fang.Execute(ctx, newRootCmd(), fang.WithVersion(version), fang.WithoutManpage()); err != nil {
		os.Exit(1)
	}
}

// rootOptions holds the flags shared by every command.
type rootOptions struct {
	configPath string
	bg         string
	color      string
	light      string
	fov        float64
	distance   float64
	spin       float64
	fps        int
	logLevel   string
	logFile    string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	def := config.Default()

	root := &cobra.Command{
		Use:           "flatshade",
		Short:         "Software flat-shading renderer for OBJ and GLB models",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	f := root.PersistentFlags()
	f.StringVar(&opts.configPath, "config", "", "JSON config file")
	f.StringVar(&opts.bg, "bg", config.FormatColor(def.Background), "Background color (R,G,B[,A])")
	f.StringVar(&opts.color, "color", config.FormatColor(def.MainColor), "Model color (R,G,B[,A])")
	f.StringVar(&opts.light, "light", config.FormatVec3(def.Light), "Light direction (x,y,z)")
	f.Float64Var(&opts.fov, "fov", def.FOV, "Vertical field of view in degrees")
	f.Float64Var(&opts.distance, "distance", def.CameraDistance, "Camera distance from the model")
	f.Float64Var(&opts.spin, "spin", def.SpinSpeed, "Spin around Y in radians per frame")
	f.IntVar(&opts.fps, "fps", def.FPS, "Target frames per second")
	f.StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	f.StringVar(&opts.logFile, "log-file", "", "Write logs to this file")

	root.AddCommand(newViewCmd(opts), newSnapshotCmd(opts))
	return root
}

// resolve loads the config file, if any, and applies every flag the user set.
func (o *rootOptions) resolve(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if o.configPath != "" {
		var err error
		if cfg, err = config.Load(o.configPath); err != nil {
			return cfg, err
		}
	}

	flags := cmd.Flags()
	var err error
	if flags.Changed("bg") {
		if cfg.Background, err = config.ParseColor(o.bg); err != nil {
			return cfg, fmt.Errorf("--bg: %w", err)
		}
	}
	if flags.Changed("color") {
		if cfg.MainColor, err = config.ParseColor(o.color); err != nil {
			return cfg, fmt.Errorf("--color: %w", err)
		}
	}
	if flags.Changed("light") {
		if cfg.Light, err = config.ParseVec3(o.light); err != nil {
			return cfg, fmt.Errorf("--light: %w", err)
		}
	}
	if flags.Changed("fov") {
		cfg.FOV = o.fov
	}
	if flags.Changed("distance") {
		cfg.CameraDistance = o.distance
	}
	if flags.Changed("spin") {
		cfg.SpinSpeed = o.spin
	}
	if flags.Changed("fps") {
		cfg.FPS = o.fps
	}
	return cfg, nil
}

// logger builds the slog logger. Logs go to --log-file when set, otherwise
// to fallback. Call done when finished logging.
func (o *rootOptions) logger(fallback io.Writer) (*slog.Logger, func(), error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(o.logLevel))); err != nil {
		return nil, nil, fmt.Errorf("--log-level: %w", err)
	}

	w, done := fallback, func() {}
	if o.logFile != "" {
		f, err := os.OpenFile(o.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w, done = f, func() { f.Close() }
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), done, nil
}

// modelMatrix spins the model around Y and then applies the user's pitch.
func modelMatrix(spin, pitch, yaw float64) math3d.Mat4 {
	return math3d.RotateX(pitch).Mul(math3d.RotateY(spin + yaw))
}
