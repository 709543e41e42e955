package components_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"blazectl/internal/ui/components"
)

func TestResampleTrend(t *testing.T) {
	t.Parallel()
	got := components.ResampleTrend([]float64{0, 2, 4}, []float64{0, 2, 4}, 5)
	assert.InDeltaSlice(t, []float64{0, 1, 2, 3, 4}, got, 1e-9)

	assert.Nil(t, components.ResampleTrend([]float64{1}, []float64{1}, 5))
	assert.Nil(t, components.ResampleTrend([]float64{0, 1}, []float64{1}, 5))
}

func TestRenderHoursChart(t *testing.T) {
	t.Parallel()
	assert.Contains(t, components.RenderHoursChart(nil, nil, 40, 5, ""), "No data available")

	out := components.RenderHoursChart([]float64{0, 1, 2, 1.5}, []float64{0.5, 1, 1.5, 1.5}, 40, 5, "hours")
	assert.Contains(t, out, "hours")
}
