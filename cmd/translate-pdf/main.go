package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"pdf-translator/internal/config"
	"pdf-translator/internal/docmodel/pdfcpudoc"
	"pdf-translator/internal/logger"
	"pdf-translator/internal/ocr"
	"pdf-translator/internal/pagetrans"
	"pdf-translator/internal/preflight"
	"pdf-translator/internal/translate"
)

func main() {
	var (
		inPath   = flag.String("in", "", "input PDF path")
		outPath  = flag.String("out", "", "output PDF path (default: <in>_translated.pdf)")
		lang     = flag.String("lang", "zh", "target language code")
		provider = flag.String("provider", "", "translation provider: libre or llm")
		fontDir  = flag.String("fonts", "", "directory with font files for wide-coverage scripts")
		ocrLangs = flag.String("ocr-langs", "", "comma-separated tesseract language codes")
		dpi      = flag.Int("dpi", 0, "rasterization DPI for scanned pages")
		verbose  = flag.Bool("verbose", false, "enable debug logging")
	)
	flag.Parse()

	if *inPath == "" {
		fmt.Fprintln(os.Stderr, "Usage: translate-pdf -in input.pdf [-out output.pdf] [-lang zh] [-provider libre|llm]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	level := logger.LevelInfo
	if *verbose {
		level = logger.LevelDebug
	}
	logger.Init(os.Stderr, level)

	cfg := config.Load()
	if *provider != "" {
		cfg.Provider = *provider
	}
	if *fontDir != "" {
		cfg.FontDir = *fontDir
	}
	if *ocrLangs != "" {
		cfg.OCRLanguages = *ocrLangs
	}
	if *dpi > 0 {
		cfg.RasterDPI = *dpi
	}

	if err := run(cfg, *inPath, *outPath, *lang); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, inPath, outPath, targetLang string) error {
	info, err := preflight.Inspect(inPath)
	if err != nil {
		return err
	}
	logger.Info("input inspected",
		logger.String("file", info.FileName),
		logger.Int("pages", info.PageCount),
		logger.String("kind", string(info.Kind)),
		logger.Bool("hasText", info.HasText))

	if info.Kind == preflight.KindDigital {
		// The raster backend cannot remove digital text objects; digital
		// documents go through the cover-and-stamp path like scanned ones.
		logger.Warn("digital text detected; the raster backend covers regions instead of redacting them")
	}

	data, err := os.ReadFile(inPath)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	rasterizer := ocr.NewPopplerRasterizer(cfg.RasterDPI)
	defer rasterizer.Cleanup()
	if !rasterizer.Available() {
		logger.Warn("pdftoppm not found; scanned extraction is unavailable")
	}

	doc, err := pdfcpudoc.OpenWithOptions(data, pdfcpudoc.Options{
		Rasterize: func(path string, pageNum int, scale float64) (image.Image, error) {
			return rasterizer.RenderPage(path, pageNum)
		},
	})
	if err != nil {
		return err
	}
	defer doc.Close()

	prov, err := translate.New(cfg.Provider, translate.Options{
		LibreURL:      cfg.LibreTranslateURL,
		OpenAIAPIKey:  cfg.OpenAIAPIKey,
		OpenAIBaseURL: cfg.OpenAIBaseURL,
		OpenAIModel:   cfg.OpenAIModel,
	})
	if err != nil {
		return err
	}

	fonts := pagetrans.NewFontResolver(cfg.FontDir)
	orch := &pagetrans.Orchestrator{
		Extractor: &pagetrans.Extractor{
			OCR: ocr.NewTesseractEngine(strings.Split(cfg.OCRLanguages, ",")...),
		},
		Batch:     &pagetrans.BatchAdapter{Provider: prov},
		Reclaimer: &pagetrans.Reclaimer{},
		Renderer:  &pagetrans.Renderer{Fonts: fonts, TargetLang: targetLang},
	}

	out, report, err := orch.TranslateDocument(context.Background(), doc, targetLang, true)
	if err != nil {
		return err
	}

	if outPath == "" {
		base := strings.TrimSuffix(filepath.Base(inPath), filepath.Ext(inPath))
		outPath = filepath.Join(filepath.Dir(inPath), base+"_translated.pdf")
	}
	if err := os.WriteFile(outPath, out, 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	fmt.Printf("Run:        %s\n", report.RunID)
	fmt.Printf("Output:     %s\n", outPath)
	fmt.Printf("Provider:   %s\n", prov.Name())
	fmt.Printf("Source:     %s\n", report.SourceLanguage)
	fmt.Printf("Target:     %s\n", report.TargetLanguage)
	fmt.Printf("Pages:      %d\n", report.Pages)
	fmt.Printf("Fragments:  %d (translated %d, degraded %d, skipped %d)\n",
		report.Fragments, report.Translated, report.Degraded, report.Skipped)
	for _, pe := range report.PageErrors {
		fmt.Printf("Page %d failed: %v\n", pe.Page+1, pe.Err)
	}
	return nil
}
