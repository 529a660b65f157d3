package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kalamhq/kalam/layout"
	"github.com/kalamhq/kalam/render"
	"github.com/kalamhq/kalam/script"
	"github.com/kalamhq/kalam/stroke"
)

func main() {
	input := flag.String("in", "examples/demo.ink", "ink script path")
	output := flag.String("out", "output/demo.svg", "output document path (.svg or .pdf)")
	debug := flag.String("debug", "", "layout plan JSON output path")
	dataJSON := flag.String("data", "", "JSON data bound into ${...} placeholders")
	timeout := flag.Duration("timeout", 30*time.Second, "render deadline")
	flag.Parse()

	var inputData any
	if *dataJSON != "" {
		if err := json.Unmarshal([]byte(*dataJSON), &inputData); err != nil {
			log.Fatalf("parse data JSON: %v", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := run(ctx, *input, *output, *debug, inputData, stroke.NewSynth()); err != nil {
		log.Fatalf("render failed: %v", err)
	}
	fmt.Printf("wrote %s\n", *output)
}

// run chains parsing, request building, rendering and the file writes.
func run(ctx context.Context, inputPath, outputPath, debugPath string, data any, sampler stroke.Sampler) error {
	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("open script %s: %w", inputPath, err)
	}
	defer file.Close()

	doc, err := script.Parse(file)
	if err != nil {
		return fmt.Errorf("parse script: %w", err)
	}

	req, err := script.Build(doc, data)
	if err != nil {
		return err
	}

	engine := render.New(sampler, render.Options{
		Format: formatFor(outputPath),
		Page:   req.Page,
		Margin: req.Margin,
	})

	docBytes, plan, err := engine.RenderPlan(ctx, req.Lines, req.Config)
	if err != nil {
		return err
	}

	if debugPath != "" {
		if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
			return fmt.Errorf("create debug directory: %w", err)
		}
		if err := layout.WriteDebugJSON(plan, debugPath); err != nil {
			return fmt.Errorf("write layout plan: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := os.WriteFile(outputPath, docBytes, 0o644); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	return nil
}

func formatFor(path string) render.Format {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return render.FormatPDF
	}
	return render.FormatSVG
}
