package main

import (
	"errors"
	"fmt"
	"image"
	"math"
	"time"

	"github.com/spf13/cobra"
	"github.com/taigrr/flatshade/pkg/config"
	"github.com/taigrr/flatshade/pkg/render"
)

type snapshotOptions struct {
	*rootOptions
	output string
	width  int
	height int
	frames int
	scale  int
}

func newSnapshotCmd(root *rootOptions) *cobra.Command {
	opts := &snapshotOptions{rootOptions: root}
	def := config.Default()

	cmd := &cobra.Command{
		Use:   "snapshot <model>",
		Short: "Render a model to a PNG, WebP or TGA file",
		Long: "Render a model headlessly. With --frames greater than 1 the model " +
			"makes one full turn across the frames, written as an animated WebP.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.resolve(cmd)
			if err != nil {
				return err
			}
			return runSnapshot(cmd, args[0], cfg, opts.rootOptions)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "", "Output file (.png, .webp or .tga)")
	f.IntVar(&opts.width, "width", def.Width, "Image width in pixels")
	f.IntVar(&opts.height, "height", def.Height, "Image height in pixels")
	f.IntVar(&opts.frames, "frames", def.Frames, "Number of turntable frames")
	f.IntVar(&opts.scale, "scale", def.Scale, "Integer upscale factor")
	return cmd
}

func (o *snapshotOptions) resolve(cmd *cobra.Command) (config.Config, error) {
	cfg, err := o.rootOptions.resolve(cmd)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("output") {
		cfg.Output = o.output
	}
	if flags.Changed("width") {
		cfg.Width = o.width
	}
	if flags.Changed("height") {
		cfg.Height = o.height
	}
	if flags.Changed("frames") {
		cfg.Frames = o.frames
	}
	if flags.Changed("scale") {
		cfg.Scale = o.scale
	}

	if cfg.Output == "" {
		return cfg, errors.New("no output file: use --output or set output in the config file")
	}
	return cfg, cfg.Validate()
}

func runSnapshot(cmd *cobra.Command, modelPath string, cfg config.Config, opts *rootOptions) error {
	logger, done, err := opts.logger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer done()

	format, err := render.FormatFromPath(cfg.Output)
	if err != nil {
		return err
	}
	if cfg.Frames > 1 && format != render.FormatWebP {
		return fmt.Errorf("%d frames need a .webp output: %w", cfg.Frames, render.ErrUnsupportedFormat)
	}

	verts, err := loadVertices(modelPath, logger)
	if err != nil {
		return err
	}
	sc := newScene(cfg, verts, cfg.Width, cfg.Height, logger)

	images := make([]image.Image, 0, cfg.Frames)
	for i := range cfg.Frames {
		angle := 2 * math.Pi * float64(i) / float64(cfg.Frames)
		stats, err := sc.render(modelMatrix(angle, 0, 0))
		if err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
		logger.Debug("rendered frame",
			"frame", i,
			"primitives", stats.Primitives,
			"fragments", stats.Fragments,
			"written", stats.Written,
			"degenerate", stats.Degenerate,
			"zero_w", stats.ZeroW)

		images = append(images, render.Upscale(sc.fb.ToImage(), cfg.Scale))
	}

	if cfg.Frames == 1 {
		err = render.SaveImage(cfg.Output, images[0])
	} else {
		err = render.SaveAnimation(cfg.Output, images, time.Second/time.Duration(cfg.FPS))
	}
	if err != nil {
		return fmt.Errorf("save %s: %w", cfg.Output, err)
	}

	b := images[0].Bounds()
	logger.Info("saved", "path", cfg.Output, "format", format, "frames", cfg.Frames, "width", b.Dx(), "height", b.Dy())
	return nil
}
