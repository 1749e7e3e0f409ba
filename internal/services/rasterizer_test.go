package services

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildPDF writes a minimal but valid PDF with the given number of empty
// pages, enough for MuPDF to open and render.
func buildPDF(pages int) []byte {
	var b bytes.Buffer
	var offsets []int

	addObj := func(body string) {
		offsets = append(offsets, b.Len())
		fmt.Fprintf(&b, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	b.WriteString("%PDF-1.4\n")
	addObj("<< /Type /Catalog /Pages 2 0 R >>")

	kids := make([]string, 0, pages)
	for i := 0; i < pages; i++ {
		kids = append(kids, fmt.Sprintf("%d 0 R", i+3))
	}
	addObj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), pages))

	for i := 0; i < pages; i++ {
		addObj("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 144 144] >>")
	}

	xrefPos := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n", len(offsets)+1)
	b.WriteString("0000000000 65535 f \n")
	for _, offset := range offsets {
		fmt.Fprintf(&b, "%010d 00000 n \n", offset)
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xrefPos)

	return b.Bytes()
}

func TestPageLabel(t *testing.T) {
	tests := []struct {
		index int
		want  string
	}{
		{0, "1a"},
		{1, "1b"},
		{25, "1z"},
		{26, "2a"},
		{31, "2f"},
		{51, "2z"},
		{52, "3a"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, PageLabel(tt.index))
		})
	}
}

func TestPageLabelUniqueAndOrdered(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 32; i++ {
		label := PageLabel(i)
		assert.False(t, seen[label], "label %s repeated at index %d", label, i)
		seen[label] = true
	}
}

func TestRasterizeUploadsEveryPage(t *testing.T) {
	store := newFakeStore()
	r := NewRasterizer(store)

	uploaded, err := r.Rasterize(buildPDF(2), "deck.pdf")
	require.NoError(t, err)

	assert.Equal(t, []string{"deck.pdf/page_1a.png", "deck.pdf/page_1b.png"}, uploaded)
	assert.Equal(t, uploaded, store.uploads)

	for _, objectPath := range uploaded {
		data := store.objects[objectPath]
		require.NotEmpty(t, data)
		assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")), "object %s is not a PNG", objectPath)
	}
}

func TestRasterizeTooManyPages(t *testing.T) {
	store := newFakeStore()
	r := NewRasterizer(store)

	uploaded, err := r.Rasterize(buildPDF(33), "deck.pdf")
	require.ErrorIs(t, err, ErrTooManyPages)
	assert.Empty(t, uploaded)
	assert.Empty(t, store.uploads)
}

func TestRasterizeZeroPages(t *testing.T) {
	store := newFakeStore()
	r := NewRasterizer(store)

	uploaded, err := r.Rasterize(buildPDF(0), "deck.pdf")
	require.NoError(t, err)
	assert.Empty(t, uploaded)
	assert.Empty(t, store.uploads)
}

func TestRasterizeRejectsGarbage(t *testing.T) {
	store := newFakeStore()
	r := NewRasterizer(store)

	_, err := r.Rasterize([]byte("definitely not a document"), "deck.pdf")
	require.Error(t, err)
	assert.Empty(t, store.uploads)
}
