package classify

import (
	"github.com/trialscan/trialscan/internal/logger"
	"github.com/trialscan/trialscan/internal/models"
)

var Logger = logger.GetLogger("classify")

// Config holds the layout-classification thresholds. All values are in page
// coordinate units except the ratios.
type Config struct {
	// Margin is the distance from the top/bottom page edges treated as
	// running header/footer area.
	Margin float64
	// DigitThreshold is the digit fraction above which a block is
	// considered tabular. The comparison is strict, so a block exactly at
	// the threshold is not table-like.
	DigitThreshold float64
	// LineThreshold is the minimum number of lines a block needs before
	// the digit heuristic applies; short numeric captions stay prose.
	LineThreshold int
	// WidthThreshold is the fraction of the page width a block must span
	// to count as full-width.
	WidthThreshold float64
}

func DefaultConfig() Config {
	return Config{
		Margin:         25,
		DigitThreshold: 0.3,
		LineThreshold:  3,
		WidthThreshold: 0.8,
	}
}

// IsHeaderOrFooter reports whether the block sits entirely inside the top or
// bottom margin band of the page.
func IsHeaderOrFooter(b models.Block, pageHeight, margin float64) bool {
	return b.BBox.Y1 < margin || b.BBox.Y0 > pageHeight-margin
}

// IsTableLike applies the digit-density heuristic: a block with at least
// lineThreshold lines whose concatenated span text is more than
// digitThreshold digits is treated as tabular data. Dense numeric prose
// (statistical results paragraphs) trips this heuristic too; that is a known
// trade-off, not something to tune away per document.
func IsTableLike(b models.Block, digitThreshold float64, lineThreshold int) bool {
	if len(b.Lines) < lineThreshold {
		return false
	}
	digits, total := 0, 0
	for _, line := range b.Lines {
		for _, span := range line.Spans {
			for _, r := range span.Text {
				total++
				if r >= '0' && r <= '9' {
					digits++
				}
			}
		}
	}
	if total == 0 {
		return false
	}
	return float64(digits)/float64(total) > digitThreshold
}

// IsFullWidth reports whether the block spans most of the page width, which
// signals titles, section banners, and wide abstracts or figures.
func IsFullWidth(b models.Block, pageWidth, widthThreshold float64) bool {
	return b.BBox.Width() >= pageWidth*widthThreshold
}

// Tag classifies one block against the page geometry. The three predicates
// are independent; header/footer takes precedence over table-like, which
// takes precedence over full-width.
func Tag(b models.Block, pageWidth, pageHeight float64, cfg Config) models.Class {
	switch {
	case IsHeaderOrFooter(b, pageHeight, cfg.Margin):
		return models.ClassHeaderFooter
	case IsTableLike(b, cfg.DigitThreshold, cfg.LineThreshold):
		return models.ClassTableLike
	case IsFullWidth(b, pageWidth, cfg.WidthThreshold):
		return models.ClassFullWidth
	}
	return models.ClassBody
}

// TagPage classifies every admissible block of a page. Non-text blocks are
// excluded, and blocks missing usable geometry are skipped rather than
// failing the page.
func TagPage(page models.Page, cfg Config) []models.ClassifiedBlock {
	tagged := make([]models.ClassifiedBlock, 0, len(page.Blocks))
	for _, b := range page.Blocks {
		if b.Type != models.BlockText {
			continue
		}
		if b.BBox.IsEmpty() {
			Logger.Warn("skipping block without geometry", "page", page.Number)
			continue
		}
		tagged = append(tagged, models.ClassifiedBlock{
			Block: b,
			Class: Tag(b, page.Width, page.Height, cfg),
		})
	}
	return tagged
}
