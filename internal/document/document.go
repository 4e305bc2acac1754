package document

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/trialscan/trialscan/internal/classify"
	"github.com/trialscan/trialscan/internal/layout"
	"github.com/trialscan/trialscan/internal/logger"
	"github.com/trialscan/trialscan/internal/models"
	"github.com/trialscan/trialscan/internal/pdfread"
)

var Logger = logger.GetLogger("document")

const pageMarker = "\n--- Page %d ---\n"

// Options configures document assembly.
type Options struct {
	Classify classify.Config
	// Workers bounds per-page reconstruction concurrency. Zero means one
	// worker per CPU. Output is identical regardless of worker count;
	// pages are independent and assembly is index-ordered.
	Workers int
}

func DefaultOptions() Options {
	return Options{Classify: classify.DefaultConfig()}
}

// Text reconstructs every page and joins them in document order, each
// prefixed by its page-boundary marker.
func Text(pages []models.Page, opts Options) string {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	rendered := make([]string, len(pages))
	if workers == 1 || len(pages) <= 1 {
		for i, p := range pages {
			rendered[i] = layout.Reconstruct(p, opts.Classify)
		}
	} else {
		var g errgroup.Group
		g.SetLimit(workers)
		for i := range pages {
			i := i
			g.Go(func() error {
				rendered[i] = layout.Reconstruct(pages[i], opts.Classify)
				return nil
			})
		}
		g.Wait()
	}

	var buf strings.Builder
	for i, p := range pages {
		fmt.Fprintf(&buf, pageMarker, p.Number)
		buf.WriteString(rendered[i])
	}
	return buf.String()
}

// Resolve turns caller input into document text. A string naming an existing
// .pdf file runs the full extraction pipeline; anything else is treated as
// already-extracted text, verbatim. Ambiguous input therefore fails open to
// raw text; the only error surfaced is an unreadable document.
func Resolve(input string, opts Options) (string, error) {
	if !IsPDFPath(input) {
		Logger.Debug("treating input as raw text", "bytes", len(input))
		return input, nil
	}
	pages, err := pdfread.Load(input)
	if err != nil {
		return "", err
	}
	Logger.Debug("document loaded", "path", input, "pages", len(pages))
	return Text(pages, opts), nil
}

// IsPDFPath reports whether input names an existing regular file with a
// .pdf extension.
func IsPDFPath(input string) bool {
	if !strings.EqualFold(filepath.Ext(input), ".pdf") {
		return false
	}
	info, err := os.Stat(input)
	return err == nil && info.Mode().IsRegular()
}
