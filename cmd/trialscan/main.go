package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/trialscan/trialscan/internal/classify"
	"github.com/trialscan/trialscan/internal/document"
	"github.com/trialscan/trialscan/internal/logger"
	"github.com/trialscan/trialscan/internal/pdfread"
	"github.com/trialscan/trialscan/internal/registry"
)

var Logger = logger.GetLogger("trialscan")

func main() {
	defaults := classify.DefaultConfig()
	margin := flag.Float64("margin", defaults.Margin, "header/footer margin in page units")
	digitThreshold := flag.Float64("digit-threshold", defaults.DigitThreshold, "digit fraction above which a block is treated as a table")
	lineThreshold := flag.Int("line-threshold", defaults.LineThreshold, "minimum lines before the table heuristic applies")
	widthThreshold := flag.Float64("width-threshold", defaults.WidthThreshold, "page-width fraction a full-width block must span")
	workers := flag.Int("workers", 0, "page reconstruction workers (0 = one per CPU)")
	showText := flag.Bool("text", false, "print the reconstructed document text")
	asJSON := flag.Bool("json", false, "print matched identifiers as a JSON array")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: trialscan [flags] <pdf-path-or-text>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	opts := document.Options{
		Classify: classify.Config{
			Margin:         *margin,
			DigitThreshold: *digitThreshold,
			LineThreshold:  *lineThreshold,
			WidthThreshold: *widthThreshold,
		},
		Workers: *workers,
	}

	text, err := document.Resolve(flag.Arg(0), opts)
	if err != nil {
		if errors.Is(err, pdfread.ErrUnreadable) {
			Logger.Error("cannot open document", "err", err)
		} else {
			Logger.Error("extraction failed", "err", err)
		}
		os.Exit(1)
	}

	if *showText {
		fmt.Println(text)
	}

	ids := registry.Find(text)
	Logger.Debug("scan complete", "identifiers", len(ids))

	if *asJSON {
		if ids == nil {
			ids = []string{}
		}
		enc := json.NewEncoder(os.Stdout)
		if err := enc.Encode(ids); err != nil {
			Logger.Error("encode failed", "err", err)
			os.Exit(1)
		}
		return
	}
	for _, id := range ids {
		fmt.Println(id)
	}
}
