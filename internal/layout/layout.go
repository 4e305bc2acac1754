package layout

import (
	"sort"
	"strings"

	"github.com/tidwall/rtree"

	"github.com/trialscan/trialscan/internal/classify"
	"github.com/trialscan/trialscan/internal/models"
)

// farEdge bounds the r-tree search windows. Page coordinates are points, so
// anything this large is effectively unbounded.
const farEdge = 1e9

type Column int

const (
	ColumnLeft Column = iota
	ColumnRight
)

// Assign routes a block to a column by its horizontal center relative to the
// page mid-line. A center exactly on the mid-line goes right; that tie-break
// is part of the ordering contract.
func Assign(b models.Block, pageWidth float64) Column {
	if b.BBox.CenterX() < pageWidth/2 {
		return ColumnLeft
	}
	return ColumnRight
}

// Split partitions blocks into left and right column groups. Every input
// block lands in exactly one group.
func Split(blocks []models.ClassifiedBlock, pageWidth float64) (left, right []models.ClassifiedBlock) {
	for _, cb := range blocks {
		if Assign(cb.Block, pageWidth) == ColumnLeft {
			left = append(left, cb)
		} else {
			right = append(right, cb)
		}
	}
	return left, right
}

// Render flattens a block into text: spans of a line joined by single
// spaces, lines joined by line breaks. A block with no lines renders empty.
func Render(b models.Block) string {
	if len(b.Lines) == 0 {
		return ""
	}
	lines := make([]string, 0, len(b.Lines))
	for _, line := range b.Lines {
		parts := make([]string, 0, len(line.Spans))
		for _, span := range line.Spans {
			parts = append(parts, span.Text)
		}
		lines = append(lines, strings.Join(parts, " "))
	}
	return strings.Join(lines, "\n")
}

// Reconstruct approximates human reading order for one page: full-width
// blocks are read in vertical order and act as separators between two-column
// regions; within a region the whole left column is read top-to-bottom
// before the right column. Header/footer and table-like blocks are dropped.
func Reconstruct(page models.Page, cfg classify.Config) string {
	tagged := classify.TagPage(page, cfg)

	var fullWidth, candidates []models.ClassifiedBlock
	for _, cb := range tagged {
		switch cb.Class {
		case models.ClassFullWidth:
			fullWidth = append(fullWidth, cb)
		case models.ClassBody:
			candidates = append(candidates, cb)
		}
	}

	sort.SliceStable(fullWidth, func(i, j int) bool {
		a, b := fullWidth[i].Block.BBox, fullWidth[j].Block.BBox
		if a.Y0 != b.Y0 {
			return a.Y0 < b.Y0
		}
		return a.X0 < b.X0
	})

	// Spatial index over the column candidates; each region between two
	// full-width blocks becomes one window query.
	var index rtree.RTreeG[int]
	for i, cb := range candidates {
		p := [2]float64{cb.Block.BBox.X0, cb.Block.BBox.Y0}
		index.Insert(p, p, i)
	}

	var buf strings.Builder
	lo := -farEdge
	for i := 0; i <= len(fullWidth); i++ {
		if i > 0 {
			emit(&buf, fullWidth[i-1].Block)
		}
		// The terminal region is closed by a sentinel below the last
		// block so the remainder of the page is always swept.
		hi := farEdge
		if i < len(fullWidth) {
			hi = fullWidth[i].Block.BBox.Y0
		}
		for _, cb := range band(&index, candidates, lo, hi, page.Width) {
			emit(&buf, cb.Block)
		}
		lo = hi
	}
	return buf.String()
}

// band collects the candidates whose top edge lies in [lo, hi), in column
// reading order: left column top-to-bottom, then right column.
func band(index *rtree.RTreeG[int], candidates []models.ClassifiedBlock, lo, hi, pageWidth float64) []models.ClassifiedBlock {
	var picked []models.ClassifiedBlock
	index.Search([2]float64{-farEdge, lo}, [2]float64{farEdge, hi}, func(_, _ [2]float64, i int) bool {
		if y := candidates[i].Block.BBox.Y0; y >= lo && y < hi {
			picked = append(picked, candidates[i])
		}
		return true
	})

	left, right := Split(picked, pageWidth)
	sortByTop(left)
	sortByTop(right)
	return append(left, right...)
}

func sortByTop(blocks []models.ClassifiedBlock) {
	sort.SliceStable(blocks, func(i, j int) bool {
		a, b := blocks[i].Block.BBox, blocks[j].Block.BBox
		if a.Y0 != b.Y0 {
			return a.Y0 < b.Y0
		}
		return a.X0 < b.X0
	})
}

func emit(buf *strings.Builder, b models.Block) {
	buf.WriteString(Render(b))
	buf.WriteString("\n\n")
}
