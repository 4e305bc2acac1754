package models

import "github.com/trialscan/trialscan/internal/geometry"

type BlockType string

const (
	BlockText    BlockType = "text"
	BlockImage   BlockType = "image"
	BlockDrawing BlockType = "drawing"
)

// Span is a run of text with uniform styling, the smallest text-bearing unit.
type Span struct {
	Text string
}

// Line is an ordered sequence of spans sharing a visual line. It has no
// lifecycle of its own and is owned by its block.
type Line struct {
	BBox  geometry.Rect
	Spans []Span
}

// Block is a geometrically contiguous unit of extracted page content.
// Blocks are produced once per page by the parsing layer and never mutated.
type Block struct {
	Type  BlockType
	BBox  geometry.Rect
	Lines []Line
}

// Page owns the raw blocks the parser returned for one page. It exists only
// for the duration of processing that page.
type Page struct {
	Number int
	Width  float64
	Height float64
	Blocks []Block
}

// Class tags the layout role of a block. Classification is a tagged result
// rather than a set of booleans so further detectors (figure captions, etc.)
// can be added without changing call sites.
type Class uint8

const (
	ClassBody Class = iota
	ClassHeaderFooter
	ClassTableLike
	ClassFullWidth
)

func (c Class) String() string {
	switch c {
	case ClassBody:
		return "body"
	case ClassHeaderFooter:
		return "header-footer"
	case ClassTableLike:
		return "table-like"
	case ClassFullWidth:
		return "full-width"
	}
	return "unknown"
}

// ClassifiedBlock pairs a block with its layout class. Derived per page,
// never persisted.
type ClassifiedBlock struct {
	Block Block
	Class Class
}
