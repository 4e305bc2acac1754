package pdfread

import (
	"errors"
	"testing"

	"github.com/ledongthuc/pdf"

	"github.com/trialscan/trialscan/internal/models"
)

const testPageHeight = 792.0

func spanTexts(t *testing.T, line models.Line) []string {
	t.Helper()
	texts := make([]string, 0, len(line.Spans))
	for _, s := range line.Spans {
		texts = append(texts, s.Text)
	}
	return texts
}

func TestBuildBlocksFlipsToTopDownCoordinates(t *testing.T) {
	// Baseline near the top of the page in PDF space must land near y=0.
	texts := []pdf.Text{
		{FontSize: 10, X: 100, Y: 700, W: 50, S: "title"},
	}
	blocks := buildBlocks(texts, testPageHeight)
	if len(blocks) != 1 {
		t.Fatalf("got %d blocks, want 1", len(blocks))
	}
	bbox := blocks[0].BBox
	if bbox.Y0 != 82 || bbox.Y1 != 92 {
		t.Errorf("bbox y = [%v, %v], want [82, 92]", bbox.Y0, bbox.Y1)
	}
	if bbox.X0 != 100 || bbox.X1 != 150 {
		t.Errorf("bbox x = [%v, %v], want [100, 150]", bbox.X0, bbox.X1)
	}
}

func TestBuildBlocksSeparatesColumnsOnSameBaseline(t *testing.T) {
	texts := []pdf.Text{
		{FontSize: 10, X: 50, Y: 700, W: 60, S: "alpha"},
		{FontSize: 10, X: 350, Y: 700, W: 50, S: "beta"},
	}
	blocks := buildBlocks(texts, testPageHeight)
	if len(blocks) != 2 {
		t.Fatalf("got %d blocks, want 2: a gutter-wide gap must split the row", len(blocks))
	}
	if blocks[0].BBox.X0 != 50 || blocks[1].BBox.X0 != 350 {
		t.Errorf("block x origins = %v, %v; want 50, 350", blocks[0].BBox.X0, blocks[1].BBox.X0)
	}
}

func TestBuildBlocksStacksAdjacentLines(t *testing.T) {
	texts := []pdf.Text{
		{FontSize: 10, X: 50, Y: 700, W: 200, S: "first line of the paragraph"},
		{FontSize: 10, X: 50, Y: 688, W: 200, S: "second line of the paragraph"},
	}
	blocks := buildBlocks(texts, testPageHeight)
	if len(blocks) != 1 {
		t.Fatalf("got %d blocks, want 1", len(blocks))
	}
	if len(blocks[0].Lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(blocks[0].Lines))
	}
	if y0 := blocks[0].Lines[0].BBox.Y0; y0 != 82 {
		t.Errorf("first line y0 = %v, want 82", y0)
	}
	if bbox := blocks[0].BBox; bbox.Y0 != 82 || bbox.Y1 != 104 {
		t.Errorf("block bbox y = [%v, %v], want [82, 104]", bbox.Y0, bbox.Y1)
	}
}

func TestBuildBlocksDoesNotStackDistantLines(t *testing.T) {
	texts := []pdf.Text{
		{FontSize: 10, X: 50, Y: 700, W: 200, S: "paragraph one"},
		{FontSize: 10, X: 50, Y: 640, W: 200, S: "paragraph two"},
	}
	blocks := buildBlocks(texts, testPageHeight)
	if len(blocks) != 2 {
		t.Fatalf("got %d blocks, want 2: a 60pt gap must break the block", len(blocks))
	}
}

func TestBuildBlocksMergesRunsIntoWordSpans(t *testing.T) {
	texts := []pdf.Text{
		{FontSize: 10, X: 100, Y: 700, W: 30, S: "regis"},
		{FontSize: 10, X: 130.5, Y: 700, W: 40, S: "tration"}, // sub-word gap
		{FontSize: 10, X: 180, Y: 700, W: 60, S: "NCT00361335"},
	}
	blocks := buildBlocks(texts, testPageHeight)
	if len(blocks) != 1 || len(blocks[0].Lines) != 1 {
		t.Fatalf("got %d blocks, want 1 with a single line", len(blocks))
	}
	got := spanTexts(t, blocks[0].Lines[0])
	want := []string{"registration", "NCT00361335"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("spans = %q, want %q", got, want)
	}
}

func TestBuildBlocksNormalizesLigatures(t *testing.T) {
	texts := []pdf.Text{
		{FontSize: 10, X: 100, Y: 700, W: 40, S: "eﬃcacy"}, // ffi ligature
	}
	blocks := buildBlocks(texts, testPageHeight)
	if len(blocks) != 1 {
		t.Fatalf("got %d blocks, want 1", len(blocks))
	}
	if got := blocks[0].Lines[0].Spans[0].Text; got != "efficacy" {
		t.Errorf("span = %q, want %q", got, "efficacy")
	}
}

func TestBuildBlocksIgnoresBlankRuns(t *testing.T) {
	texts := []pdf.Text{
		{FontSize: 10, X: 100, Y: 700, W: 10, S: "   "},
		{FontSize: 10, X: 200, Y: 700, W: 5, S: "\t"},
	}
	if blocks := buildBlocks(texts, testPageHeight); len(blocks) != 0 {
		t.Errorf("got %d blocks from whitespace-only runs, want 0", len(blocks))
	}
}

func TestBuildBlocksZeroFontSizeFallsBack(t *testing.T) {
	texts := []pdf.Text{
		{FontSize: 0, X: 100, Y: 700, W: 50, S: "degenerate"},
	}
	blocks := buildBlocks(texts, testPageHeight)
	if len(blocks) != 1 {
		t.Fatalf("got %d blocks, want 1", len(blocks))
	}
	if h := blocks[0].BBox.Height(); h != fallbackFontSize {
		t.Errorf("block height = %v, want fallback %v", h, fallbackFontSize)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("does-not-exist.pdf")
	if err == nil {
		t.Fatal("Load on a missing file must fail")
	}
	if !errors.Is(err, ErrUnreadable) {
		t.Errorf("err = %v, want ErrUnreadable", err)
	}
}
