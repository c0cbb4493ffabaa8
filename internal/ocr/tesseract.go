package ocr

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Tesseract shells out to the tesseract binary and parses its TSV
// output. The binary must be on PATH.
type Tesseract struct {
	binary   string
	language string
	logger   *zap.Logger
}

// NewTesseract builds a Tesseract recognizer. binary is the executable
// name or path, language the traineddata code (for example "eng").
func NewTesseract(binary, language string, logger *zap.Logger) *Tesseract {
	if binary == "" {
		binary = "tesseract"
	}
	return &Tesseract{binary: binary, language: language, logger: logger}
}

// Recognize runs tesseract over the image and returns one fragment per
// recognized word. Rows the engine marks with a negative confidence are
// structural (page, block, line markers) and are skipped.
func (t *Tesseract) Recognize(ctx context.Context, imagePath string) ([]Fragment, error) {
	if _, err := os.Stat(imagePath); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrImageNotFound, imagePath)
		}
		return nil, fmt.Errorf("stat image: %w", err)
	}

	cmd := exec.CommandContext(ctx, t.binary, imagePath, "stdout", "-l", t.language, "tsv")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("run tesseract: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	fragments := parseTSV(stdout.String())
	t.logger.Debug("image recognized",
		zap.String("image", imagePath),
		zap.Int("fragments", len(fragments)),
	)
	return fragments, nil
}

// parseTSV reads tesseract's 12-column TSV. Column 10 is the word
// confidence as a 0-100 percentage, column 11 the recognized text.
func parseTSV(output string) []Fragment {
	var fragments []Fragment
	lines := strings.Split(output, "\n")
	for i, line := range lines {
		if i == 0 { // header row
			continue
		}
		cols := strings.Split(line, "\t")
		if len(cols) < 12 {
			continue
		}
		conf, err := strconv.ParseFloat(cols[10], 64)
		if err != nil || conf < 0 {
			continue
		}
		text := strings.TrimSpace(cols[11])
		if text == "" {
			continue
		}
		fragments = append(fragments, Fragment{
			Text:       text,
			Confidence: math.Round(conf/100*10000) / 10000,
		})
	}
	return fragments
}
