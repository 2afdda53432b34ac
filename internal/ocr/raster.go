package ocr

import (
	"fmt"
	"image"
	_ "image/png"
	"os"
	"os/exec"
	"path/filepath"

	"pdf-translator/internal/logger"
)

// PopplerRasterizer renders PDF pages to images through the poppler
// pdftoppm tool. It serves document backends that cannot rasterize pages
// themselves.
type PopplerRasterizer struct {
	dpi     int
	tempDir string
}

// NewPopplerRasterizer creates a rasterizer rendering at the given DPI.
func NewPopplerRasterizer(dpi int) *PopplerRasterizer {
	if dpi <= 0 {
		dpi = 150
	}
	return &PopplerRasterizer{dpi: dpi}
}

// Available reports whether pdftoppm can be executed.
func (r *PopplerRasterizer) Available() bool {
	return exec.Command("pdftoppm", "-v").Run() == nil
}

// RenderPage rasterizes the 1-based page of the PDF at pdfPath.
func (r *PopplerRasterizer) RenderPage(pdfPath string, pageNum int) (image.Image, error) {
	logger.Debug("rasterizing page",
		logger.String("pdf", filepath.Base(pdfPath)),
		logger.Int("page", pageNum),
		logger.Int("dpi", r.dpi))

	if r.tempDir == "" {
		tempDir, err := os.MkdirTemp("", "pdfraster_*")
		if err != nil {
			return nil, fmt.Errorf("failed to create temp dir: %w", err)
		}
		r.tempDir = tempDir
	}

	outputPrefix := filepath.Join(r.tempDir, fmt.Sprintf("page_%d", pageNum))
	args := []string{
		"-f", fmt.Sprintf("%d", pageNum),
		"-l", fmt.Sprintf("%d", pageNum),
		"-png",
		"-r", fmt.Sprintf("%d", r.dpi),
		"-singlefile",
		pdfPath,
		outputPrefix,
	}

	output, err := exec.Command("pdftoppm", args...).CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("pdftoppm failed: %w, output: %s", err, string(output))
	}

	imgPath := outputPrefix + ".png"
	img, err := loadImage(imgPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load rendered page: %w", err)
	}
	os.Remove(imgPath)

	return img, nil
}

// Cleanup removes temporary files created during rendering.
func (r *PopplerRasterizer) Cleanup() {
	if r.tempDir != "" {
		os.RemoveAll(r.tempDir)
		r.tempDir = ""
	}
}

func loadImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, err
	}
	return img, nil
}
