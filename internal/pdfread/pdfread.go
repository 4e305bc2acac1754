package pdfread

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"golang.org/x/text/unicode/norm"

	"github.com/trialscan/trialscan/internal/geometry"
	"github.com/trialscan/trialscan/internal/logger"
	"github.com/trialscan/trialscan/internal/models"
)

var Logger = logger.GetLogger("pdfread")

// ErrUnreadable marks a document the parser could not open at all. It is the
// only fatal condition of the extraction stage.
var ErrUnreadable = errors.New("unreadable document")

const (
	// rowTolerance groups text runs whose baselines differ by less than
	// this many points into one visual row.
	rowTolerance = 2.5
	// gutterGap is the horizontal gap that splits a row into separate
	// line segments, so the two halves of a column pair never fuse into
	// one line.
	gutterGap = 24.0
	// wordGapFactor times the font size is the widest intra-word gap;
	// anything wider starts a new span.
	wordGapFactor = 0.3
	// lineGapFactor times the line height is the widest vertical gap
	// between lines of the same block.
	lineGapFactor = 1.6
	// minLineOverlap is the horizontal overlap, as a fraction of the
	// narrower of the two, required to stack a line under a block.
	minLineOverlap = 0.4

	fallbackFontSize = 10.0
)

// Load opens a PDF and returns one immutable snapshot per page: blocks of
// lines of spans in top-down page coordinates. Pages whose content stream
// cannot be interpreted yield an empty page rather than failing the
// document.
func Load(path string) ([]models.Page, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadable, path, err)
	}
	defer f.Close()

	pages := make([]models.Page, 0, r.NumPage())
	for num := 1; num <= r.NumPage(); num++ {
		page := r.Page(num)
		if page.V.IsNull() {
			Logger.Warn("missing page object", "page", num)
			pages = append(pages, models.Page{Number: num})
			continue
		}
		width, height := pageSize(page)
		blocks := buildBlocks(pageText(page, num), height)
		Logger.Debug("page parsed", "page", num, "blocks", len(blocks))
		pages = append(pages, models.Page{Number: num, Width: width, Height: height, Blocks: blocks})
	}
	return pages, nil
}

// pageText pulls the positioned text runs of one page. The content-stream
// interpreter panics on malformed streams; that is contained here so a bad
// page does not lose the document.
func pageText(page pdf.Page, num int) (texts []pdf.Text) {
	defer func() {
		if r := recover(); r != nil {
			Logger.Warn("content stream not interpretable", "page", num, "cause", fmt.Sprint(r))
			texts = nil
		}
	}()
	return page.Content().Text
}

func pageSize(page pdf.Page) (width, height float64) {
	box := inherited(page.V, "MediaBox")
	if box.Kind() != pdf.Array || box.Len() != 4 {
		// US Letter, the same fallback the page model uses elsewhere.
		return 612, 792
	}
	width = box.Index(2).Float64() - box.Index(0).Float64()
	height = box.Index(3).Float64() - box.Index(1).Float64()
	return width, height
}

func inherited(v pdf.Value, key string) pdf.Value {
	for ; !v.IsNull(); v = v.Key("Parent") {
		if r := v.Key(key); !r.IsNull() {
			return r
		}
	}
	return pdf.Value{}
}

// run is one text fragment in top-down coordinates.
type run struct {
	x, y, w, size float64
	text          string
}

// buildBlocks clusters raw text runs into the Block/Line/Span shape:
// runs into rows by baseline, rows into line segments at gutter-wide gaps,
// segment runs into word spans, and segments into blocks by vertical
// adjacency and horizontal overlap.
func buildBlocks(texts []pdf.Text, pageHeight float64) []models.Block {
	runs := make([]run, 0, len(texts))
	for _, t := range texts {
		if strings.TrimSpace(t.S) == "" {
			continue
		}
		size := t.FontSize
		if size <= 0 {
			size = fallbackFontSize
		}
		// Flip from PDF bottom-up coordinates to top-down page space.
		runs = append(runs, run{
			x:    t.X,
			y:    pageHeight - t.Y - size,
			w:    t.W,
			size: size,
			text: norm.NFKC.String(t.S),
		})
	}
	if len(runs) == 0 {
		return nil
	}

	var lines []models.Line
	for _, row := range groupRows(runs) {
		lines = append(lines, splitRow(row)...)
	}
	sort.SliceStable(lines, func(i, j int) bool {
		if lines[i].BBox.Y0 != lines[j].BBox.Y0 {
			return lines[i].BBox.Y0 < lines[j].BBox.Y0
		}
		return lines[i].BBox.X0 < lines[j].BBox.X0
	})

	return stackLines(lines)
}

// groupRows buckets runs by top-down y, tolerating small baseline jitter.
func groupRows(runs []run) [][]run {
	type bucket struct {
		yMin, yMax float64
		runs       []run
	}
	var buckets []bucket
	for _, r := range runs {
		placed := false
		for i := range buckets {
			if r.y >= buckets[i].yMin-rowTolerance && r.y <= buckets[i].yMax+rowTolerance {
				buckets[i].runs = append(buckets[i].runs, r)
				buckets[i].yMin = geometry.Min(buckets[i].yMin, r.y)
				buckets[i].yMax = geometry.Max(buckets[i].yMax, r.y)
				placed = true
				break
			}
		}
		if !placed {
			buckets = append(buckets, bucket{yMin: r.y, yMax: r.y, runs: []run{r}})
		}
	}
	sort.SliceStable(buckets, func(i, j int) bool { return buckets[i].yMin < buckets[j].yMin })
	rows := make([][]run, len(buckets))
	for i, b := range buckets {
		rows[i] = b.runs
	}
	return rows
}

// splitRow orders a row left-to-right, breaks it into segments at gaps wide
// enough to be a column gutter, and merges each segment's runs into word
// spans.
func splitRow(row []run) []models.Line {
	sort.SliceStable(row, func(i, j int) bool { return row[i].x < row[j].x })

	var lines []models.Line
	start := 0
	for i := 1; i <= len(row); i++ {
		if i < len(row) {
			gap := row[i].x - (row[i-1].x + row[i-1].w)
			if gap <= gutterGap {
				continue
			}
		}
		lines = append(lines, segmentLine(row[start:i]))
		start = i
	}
	return lines
}

func segmentLine(seg []run) models.Line {
	line := models.Line{BBox: geometry.Empty}
	var word strings.Builder
	flush := func() {
		if word.Len() > 0 {
			line.Spans = append(line.Spans, models.Span{Text: word.String()})
			word.Reset()
		}
	}
	for i, r := range seg {
		if i > 0 {
			gap := r.x - (seg[i-1].x + seg[i-1].w)
			if gap > wordGapFactor*r.size {
				flush()
			}
		}
		word.WriteString(r.text)
		line.BBox = line.BBox.Union(geometry.Rect{X0: r.x, Y0: r.y, X1: r.x + r.w, Y1: r.y + r.size})
	}
	flush()
	return line
}

// stackLines stitches line segments into blocks. A line joins the open
// block it overlaps horizontally and sits close enough below; otherwise it
// opens a new block.
func stackLines(lines []models.Line) []models.Block {
	var blocks []models.Block
	for _, line := range lines {
		height := line.BBox.Height()
		if height <= 0 {
			height = fallbackFontSize
		}
		best, bestOverlap := -1, 0.0
		for i := range blocks {
			bb := blocks[i].BBox
			gap := line.BBox.Y0 - bb.Y1
			if gap > lineGapFactor*height {
				continue
			}
			overlap := line.BBox.OverlapX(bb)
			if narrower := geometry.Min(line.BBox.Width(), bb.Width()); narrower > 0 && overlap/narrower < minLineOverlap {
				continue
			}
			if overlap > bestOverlap {
				best, bestOverlap = i, overlap
			}
		}
		if best < 0 {
			blocks = append(blocks, models.Block{Type: models.BlockText, BBox: line.BBox, Lines: []models.Line{line}})
			continue
		}
		blocks[best].Lines = append(blocks[best].Lines, line)
		blocks[best].BBox = blocks[best].BBox.Union(line.BBox)
	}
	return blocks
}
