package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToRatingReferenceValues(t *testing.T) {
	cases := map[int]int{
		0:    53,
		3:    75,
		20:   463,
		29:   940,
		30:   1000,
		31:   1060,
		48:   1793,
		61:   1953,
		1000: 2000,
		-100: 0,
	}
	for raw, want := range cases {
		assert.Equal(t, want, ToRating(raw), "raw=%d", raw)
	}
}

func TestToRatingMonotonicAndBounded(t *testing.T) {
	prev := ToRating(-200)
	for raw := -199; raw <= 200; raw++ {
		r := ToRating(raw)
		assert.GreaterOrEqual(t, r, prev, "raw=%d", raw)
		assert.GreaterOrEqual(t, r, 0)
		assert.LessOrEqual(t, r, MaxRating)
		prev = r
	}
}
