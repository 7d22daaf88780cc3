package gridrouter

import (
	"testing"

	"github.com/oceanwx/marine-aggregator/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoute_WCoastGridIndices(t *testing.T) {
	cell, err := Route(33.0, -117.5)
	require.NoError(t, err)
	assert.Equal(t, "wcoast.0p16", cell.Model.Name)
	assert.Equal(t, 48, cell.Row)
	assert.Equal(t, 195, cell.Col)
}

func TestRoute_OutOfGrid(t *testing.T) {
	// Station 51201 near Oahu: normalized lon ~201.88, west of every grid.
	_, err := Route(21.67, -158.12)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeOutOfGrid, apperr.CodeOf(err))
}

func TestRoute_AtlanticStation(t *testing.T) {
	cell, err := Route(42.8, -70.17)
	require.NoError(t, err)
	assert.Equal(t, "atlocn.0p16", cell.Model.Name)
}

func TestNormalizeLongitude_Idempotent(t *testing.T) {
	for _, lon := range []float64{-158.12, 0, 180, 359.999, -0.0001, 400} {
		once := NormalizeLongitude(lon)
		twice := NormalizeLongitude(once)
		assert.InDelta(t, once, twice, 1e-9)
		assert.GreaterOrEqual(t, once, 0.0)
		assert.Less(t, once, 360.0)
	}
}

func TestRoute_EdgeOfGridIsInside(t *testing.T) {
	m := Models[0]
	cell, err := Route(m.Lat.Start, m.Lon.Start)
	require.NoError(t, err)
	assert.Equal(t, 0, cell.Row)
	assert.Equal(t, 0, cell.Col)

	cell, err = Route(m.Lat.End, m.Lon.End)
	require.NoError(t, err)
	assert.Equal(t, m.Lat.Size-1, cell.Row)
	assert.Equal(t, m.Lon.Size-1, cell.Col)
}

func TestRoute_IndicesWithinBounds(t *testing.T) {
	for _, m := range Models {
		lat := (m.Lat.Start + m.Lat.End) / 2
		lon := (m.Lon.Start + m.Lon.End) / 2
		cell, err := Route(lat, lon)
		require.NoError(t, err)
		// Route picks the first containing model in scan order, which need
		// not be m (gulfmex lies inside atlocn), so the indices are checked
		// against the model it returned.
		assert.GreaterOrEqual(t, cell.Row, 0)
		assert.Less(t, cell.Row, cell.Model.Lat.Size)
		assert.GreaterOrEqual(t, cell.Col, 0)
		assert.Less(t, cell.Col, cell.Model.Lon.Size)
	}
}
