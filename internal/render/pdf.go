package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"

	"k8s.io/klog/v2"
)

// RSVGConvert is the converter used by PDF. It must accept
// "-f pdf <svg files...> -o <output>", as librsvg's rsvg-convert does.
var RSVGConvert = "rsvg-convert"

// ErrNoConverter is returned by PDF when RSVGConvert is not installed.
var ErrNoConverter = errors.New("rsvg-convert not found")

// PDF concatenates svgFiles, one page each, into the PDF file output.
func PDF(ctx context.Context, output string, svgFiles []string) error {
	if len(svgFiles) == 0 {
		return errors.New("no pages to convert")
	}
	bin, err := exec.LookPath(RSVGConvert)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNoConverter, err)
	}

	args := append([]string{"-f", "pdf"}, svgFiles...)
	args = append(args, "-o", output)
	cmd := exec.CommandContext(ctx, bin, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	klog.V(1).Infof("Running %s %v", bin, args)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s failed: %w: %s", RSVGConvert, err, stderr.String())
	}
	return nil
}
