package buoyfetcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBeaufortCategory_Boundaries(t *testing.T) {
	cases := []struct {
		mph      float64
		wantForce int
	}{
		{0, 0},
		{1.15, 0},
		{1.16, 1},
		{24.17, 5},
		{24.18, 6},
		{100, 12},
	}
	for _, c := range cases {
		got := beaufortCategory(c.mph)
		assert.Equalf(t, c.wantForce, got.Force, "windMPH=%v", c.mph)
	}
}

func TestBeaufortCategory_NamesAndDescriptionsPopulated(t *testing.T) {
	got := beaufortCategory(50)
	assert.NotEmpty(t, got.Name)
	assert.NotEmpty(t, got.SeaDescription)
}
