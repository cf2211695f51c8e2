package coverage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/covermap/covermap/internal/errors"
)

func writeDataset(t *testing.T, rows ...string) string {
	t.Helper()
	lines := append([]string{"Operateur;x;y;2G;3G;4G"}, rows...)
	path := filepath.Join(t.TempDir(), "sites.csv")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644))
	return path
}

func newTestBuilder(datasetPath string) *Builder {
	return NewBuilder(DefaultOperators(), DefaultDatasetConfig(datasetPath))
}

func TestBuild_GroupsByOperatorInOrder(t *testing.T) {
	path := writeDataset(t,
		"20801;102980;6847973;1;1;0",
		"20810;103113;6848661;1;1;1",
		"20801;112032;6840427;0;0;1",
	)

	catalog, err := newTestBuilder(path).Build(context.Background())
	require.NoError(t, err)

	require.Len(t, catalog, 2)
	require.Len(t, catalog[20801], 2)
	require.Len(t, catalog[20810], 1)

	// Input order preserved within an operator.
	assert.Equal(t, 102980.0, catalog[20801][0].NativeX)
	assert.Equal(t, 112032.0, catalog[20801][1].NativeX)

	first := catalog[20801][0]
	assert.InDelta(t, -5.0888561153013425, first.Coords.Lon, 1e-9)
	assert.InDelta(t, 48.456574558829914, first.Coords.Lat, 1e-9)
	assert.True(t, first.Tech.Has2G)
	assert.True(t, first.Tech.Has3G)
	assert.False(t, first.Tech.Has4G)
}

func TestBuild_DropsMalformedCoordinateRows(t *testing.T) {
	path := writeDataset(t,
		"20801;102980;6847973;1;1;0",
		"20801;not-a-number;6848661;1;1;1",
		"20801;;6848661;1;0;0",
		"20801;NaN;6848661;0;1;0",
		"20801;103113;Inf;0;0;1",
	)

	catalog, err := newTestBuilder(path).Build(context.Background())
	require.NoError(t, err)

	// Only the well-formed row survives; malformed rows are not an error.
	require.Len(t, catalog[20801], 1)
	assert.Equal(t, 102980.0, catalog[20801][0].NativeX)
}

func TestBuild_NonIntegerOperatorCodeIsFatal(t *testing.T) {
	path := writeDataset(t,
		"20801;102980;6847973;1;1;0",
		"ORANGE;103113;6848661;1;1;1",
	)

	catalog, err := newTestBuilder(path).Build(context.Background())

	require.Error(t, err)
	assert.Nil(t, catalog)
	assert.Equal(t, "INVALID_OPERATOR_CODE", errors.AsAppError(err).Code)
}

func TestBuild_UnknownOperatorCodeIsFatal(t *testing.T) {
	path := writeDataset(t,
		"20801;102980;6847973;1;1;0",
		"99999;103113;6848661;1;1;1",
	)

	catalog, err := newTestBuilder(path).Build(context.Background())

	require.Error(t, err)
	// No partial catalog is returned.
	assert.Nil(t, catalog)
	appErr := errors.AsAppError(err)
	assert.Equal(t, "UNKNOWN_OPERATOR", appErr.Code)
	assert.Equal(t, errors.ErrorTypeDataset, appErr.Type)
}

func TestBuild_MissingDatasetIsFatal(t *testing.T) {
	builder := newTestBuilder(filepath.Join(t.TempDir(), "absent.csv"))

	_, err := builder.Build(context.Background())

	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeDataset))
}

func TestBuild_MissingColumnIsFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sites.csv")
	require.NoError(t, os.WriteFile(path,
		[]byte("Operateur;x;2G;3G;4G\n20801;102980;1;1;0\n"), 0o644))

	_, err := newTestBuilder(path).Build(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), `missing column "y"`)
}

func TestBuild_CustomColumnLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sites.csv")
	require.NoError(t, os.WriteFile(path,
		[]byte("op,easting,northing,g2,g3,g4\n20815,700000,6600000,0,1,1\n"), 0o644))

	builder := NewBuilder(DefaultOperators(), DatasetConfig{
		Path:           path,
		Delimiter:      ',',
		OperatorColumn: "op",
		XColumn:        "easting",
		YColumn:        "northing",
		Column2G:       "g2",
		Column3G:       "g3",
		Column4G:       "g4",
	})

	catalog, err := builder.Build(context.Background())
	require.NoError(t, err)
	require.Len(t, catalog[20815], 1)
	assert.InDelta(t, 3.0, catalog[20815][0].Coords.Lon, 1e-9)
	assert.InDelta(t, 46.5, catalog[20815][0].Coords.Lat, 1e-9)
}
