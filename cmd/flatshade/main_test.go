package main

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/taigrr/flatshade/pkg/config"
	"github.com/taigrr/flatshade/pkg/render"
)

// quadOBJ is a square facing +Z.
const quadOBJ = `v -1 -1 0
v 1 -1 0
v 1 1 0
v -1 1 0
vn 0 0 1
f 1//1 2//1 3//1 4//1
`

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stderr bytes.Buffer
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(&stderr)
	root.SetErr(&stderr)
	err := root.ExecuteContext(context.Background())
	return stderr.String(), err
}

func TestSnapshotPNG(t *testing.T) {
	dir := t.TempDir()
	model := writeFile(t, dir, "quad.obj", quadOBJ)
	out := filepath.Join(dir, "quad.png")

	logs, err := execute(t, "snapshot", model, "-o", out, "--width", "40", "--height", "30", "--bg", "10,20,30")
	if err != nil {
		t.Fatalf("snapshot: %v\n%s", err, logs)
	}
	if !strings.Contains(logs, "saved") {
		t.Errorf("logs = %q, want a saved message", logs)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}

	if b := img.Bounds(); b.Dx() != 40 || b.Dy() != 30 {
		t.Fatalf("size = %dx%d, want 40x30", b.Dx(), b.Dy())
	}
	r, g, b, a := img.At(20, 15).RGBA()
	if r>>8 != 255 || g>>8 != 255 || b>>8 != 255 || a>>8 != 255 {
		t.Errorf("center = %v, want lit white", img.At(20, 15))
	}
	r, g, b, _ = img.At(0, 0).RGBA()
	if r>>8 != 10 || g>>8 != 20 || b>>8 != 30 {
		t.Errorf("corner = %v, want background", img.At(0, 0))
	}
}

func TestSnapshotScale(t *testing.T) {
	dir := t.TempDir()
	model := writeFile(t, dir, "quad.obj", quadOBJ)
	out := filepath.Join(dir, "quad.png")

	if logs, err := execute(t, "snapshot", model, "-o", out, "--width", "10", "--height", "8", "--scale", "3"); err != nil {
		t.Fatalf("snapshot: %v\n%s", err, logs)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 30 || cfg.Height != 24 {
		t.Errorf("size = %dx%d, want 30x24", cfg.Width, cfg.Height)
	}
}

func TestSnapshotAnimation(t *testing.T) {
	dir := t.TempDir()
	model := writeFile(t, dir, "quad.obj", quadOBJ)

	out := filepath.Join(dir, "spin.webp")
	if logs, err := execute(t, "snapshot", model, "-o", out, "--width", "16", "--height", "16", "--frames", "4"); err != nil {
		t.Fatalf("snapshot: %v\n%s", err, logs)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("RIFF")) || !bytes.Contains(data, []byte("ANIM")) {
		t.Error("output is not an animated WebP")
	}

	_, err = execute(t, "snapshot", model, "-o", filepath.Join(dir, "spin.png"), "--frames", "4")
	if !errors.Is(err, render.ErrUnsupportedFormat) {
		t.Errorf("png animation err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestSnapshotConfigFile(t *testing.T) {
	dir := t.TempDir()
	model := writeFile(t, dir, "quad.obj", quadOBJ)
	out := filepath.Join(dir, "quad.png")
	cfgPath := writeFile(t, dir, "flatshade.json", `{
		"width": 12,
		"height": 10,
		"background": "50,60,70",
		"output": "`+filepath.ToSlash(out)+`"
	}`)

	// The flag wins over the file for the background.
	if logs, err := execute(t, "snapshot", model, "--config", cfgPath, "--bg", "1,2,3"); err != nil {
		t.Fatalf("snapshot: %v\n%s", err, logs)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 12 || b.Dy() != 10 {
		t.Errorf("size = %dx%d, want 12x10 from the config file", b.Dx(), b.Dy())
	}
	r, g, b, _ := img.At(0, 0).RGBA()
	if r>>8 != 1 || g>>8 != 2 || b>>8 != 3 {
		t.Errorf("corner = %v, want the --bg color", img.At(0, 0))
	}
}

func TestSnapshotErrors(t *testing.T) {
	dir := t.TempDir()
	model := writeFile(t, dir, "quad.obj", quadOBJ)
	out := filepath.Join(dir, "out.png")

	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{"bad color", []string{"snapshot", model, "-o", out, "--bg", "red"}, config.ErrInvalid},
		{"bad light", []string{"snapshot", model, "-o", out, "--light", "0,0"}, config.ErrInvalid},
		{"zero light", []string{"snapshot", model, "-o", out, "--light", "0,0,0"}, config.ErrInvalid},
		{"bad fps", []string{"snapshot", model, "-o", out, "--fps", "0"}, config.ErrInvalid},
		{"bad extension", []string{"snapshot", model, "-o", filepath.Join(dir, "out.gif")}, render.ErrUnsupportedFormat},
		{"missing model", []string{"snapshot", filepath.Join(dir, "none.obj"), "-o", out}, os.ErrNotExist},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := execute(t, tc.args...)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("err = %v, want %v", err, tc.wantErr)
			}
		})
	}

	if _, err := execute(t, "snapshot", model); err == nil {
		t.Error("snapshot without output succeeded")
	}
}

func TestLoggerLevel(t *testing.T) {
	opts := &rootOptions{logLevel: "warn"}
	var buf bytes.Buffer
	logger, done, err := opts.logger(&buf)
	if err != nil {
		t.Fatal(err)
	}
	defer done()

	logger.Info("hidden")
	logger.Warn("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Errorf("log = %q", buf.String())
	}

	opts.logLevel = "loud"
	if _, _, err := opts.logger(&buf); err == nil {
		t.Error("unknown level accepted")
	}
}

func TestLoggerFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flatshade.log")
	opts := &rootOptions{logLevel: "debug", logFile: path}

	var fallback bytes.Buffer
	logger, done, err := opts.logger(&fallback)
	if err != nil {
		t.Fatal(err)
	}
	logger.Debug("to file")
	done()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "to file") || fallback.Len() != 0 {
		t.Errorf("file = %q, fallback = %q", data, fallback.String())
	}
}
