package metadata_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/maksverver/wikipath/internal/metadata"
)

func TestPipeTrick(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"Violet (flower)", "Violet"},
		{"Violet (color)", "Violet"},
		{"Category:Flowers", "Flowers"},
		{"Rose", "Rose"},
		{"3:10 to Yuma", "3:10 to Yuma"},
		{"e:xyz", "e:xyz"},
		{"Wikipedia:Manual of Style", "Manual of Style"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, metadata.PipeTrick(c.title), "PipeTrick(%q)", c.title)
	}
}
