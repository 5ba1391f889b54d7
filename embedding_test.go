package sitetext_test

import (
	"testing"

	"github.com/fwojciec/sitetext"
	"github.com/stretchr/testify/assert"
)

func TestPoint_Validate(t *testing.T) {
	t.Parallel()

	t.Run("accepts a point with ID and vector", func(t *testing.T) {
		t.Parallel()

		p := &sitetext.Point{ID: "abc", URL: "https://example.com", Vector: []float32{0.1, 0.2}}
		assert.NoError(t, p.Validate())
	})

	t.Run("requires an ID", func(t *testing.T) {
		t.Parallel()

		p := &sitetext.Point{Vector: []float32{1}}
		err := p.Validate()
		assert.Equal(t, sitetext.EINVALID, sitetext.ErrorCode(err))
		assert.Equal(t, "point ID required", sitetext.ErrorMessage(err))
	})

	t.Run("requires a vector", func(t *testing.T) {
		t.Parallel()

		p := &sitetext.Point{ID: "abc"}
		err := p.Validate()
		assert.Equal(t, sitetext.EINVALID, sitetext.ErrorCode(err))
		assert.Contains(t, sitetext.ErrorMessage(err), "vector required")
	})
}
