package coverage

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/covermap/covermap/internal/errors"
	"github.com/covermap/covermap/internal/geo"
	"github.com/covermap/covermap/internal/telemetry"
)

// DatasetConfig describes the layout of the delimited survey file. Delimiter
// and column names are a contract with the data provider and therefore
// configuration, not assumptions.
type DatasetConfig struct {
	Path           string
	Delimiter      rune
	OperatorColumn string
	XColumn        string
	YColumn        string
	Column2G       string
	Column3G       string
	Column4G       string
}

// DefaultDatasetConfig returns the column layout of the French open-data
// survey file.
func DefaultDatasetConfig(path string) DatasetConfig {
	return DatasetConfig{
		Path:           path,
		Delimiter:      ';',
		OperatorColumn: "Operateur",
		XColumn:        "x",
		YColumn:        "y",
		Column2G:       "2G",
		Column3G:       "3G",
		Column4G:       "4G",
	}
}

// Builder constructs the immutable coverage catalog from the survey dataset.
type Builder struct {
	operators OperatorTable
	dataset   DatasetConfig
}

// NewBuilder creates a catalog builder for the given operator table and
// dataset layout.
func NewBuilder(operators OperatorTable, dataset DatasetConfig) *Builder {
	return &Builder{operators: operators, dataset: dataset}
}

// Build reads the survey dataset, projects every valid row to WGS84 and
// groups the resulting sites by operator, preserving input order.
//
// Rows with unparsable or non-finite coordinates are expected survey noise
// and silently dropped. A non-integer operator code, or an integer code
// outside the operator table, aborts the whole build: the engine has no
// policy for unattributable operators and must not drop them silently.
func (b *Builder) Build(ctx context.Context) (Catalog, error) {
	file, err := os.Open(b.dataset.Path)
	if err != nil {
		return nil, errors.NewDatasetError("open dataset", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = b.dataset.Delimiter
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, errors.NewDatasetError("read dataset header", err)
	}
	cols, err := b.columnIndices(header)
	if err != nil {
		return nil, err
	}

	catalog := make(Catalog)
	dropped := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewDatasetError("read dataset row", err)
		}
		if len(record) <= cols.max {
			dropped++
			continue
		}

		x, errX := strconv.ParseFloat(strings.TrimSpace(record[cols.x]), 64)
		y, errY := strconv.ParseFloat(strings.TrimSpace(record[cols.y]), 64)
		if errX != nil || errY != nil || !isFinite(x) || !isFinite(y) {
			dropped++
			continue
		}

		rawCode := strings.TrimSpace(record[cols.operator])
		code, err := strconv.Atoi(rawCode)
		if err != nil {
			return nil, errors.NewInvalidOperatorCodeError(rawCode)
		}
		if _, known := b.operators[OperatorCode(code)]; !known {
			return nil, errors.NewUnknownOperatorError(code)
		}

		lon, lat := geo.ToWGS84(x, y)
		catalog[OperatorCode(code)] = append(catalog[OperatorCode(code)], Site{
			NativeX: x,
			NativeY: y,
			Coords:  geo.Point{Lon: lon, Lat: lat},
			Tech: TechFlags{
				Has2G: parseFlag(record[cols.g2]),
				Has3G: parseFlag(record[cols.g3]),
				Has4G: parseFlag(record[cols.g4]),
			},
		})
	}

	telemetry.LogFromContext(ctx).WithFields(map[string]interface{}{
		"dataset":      b.dataset.Path,
		"operators":    len(catalog),
		"dropped_rows": dropped,
	}).Info("Coverage catalog built from dataset")

	return catalog, nil
}

type columnSet struct {
	operator, x, y, g2, g3, g4 int
	max                        int
}

func (b *Builder) columnIndices(header []string) (columnSet, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}

	cols := columnSet{}
	for _, want := range []struct {
		name string
		dst  *int
	}{
		{b.dataset.OperatorColumn, &cols.operator},
		{b.dataset.XColumn, &cols.x},
		{b.dataset.YColumn, &cols.y},
		{b.dataset.Column2G, &cols.g2},
		{b.dataset.Column3G, &cols.g3},
		{b.dataset.Column4G, &cols.g4},
	} {
		i, ok := index[want.name]
		if !ok {
			return columnSet{}, errors.NewDatasetError("locate dataset columns",
				fmt.Errorf("missing column %q in header", want.name))
		}
		*want.dst = i
		if i > cols.max {
			cols.max = i
		}
	}
	return cols, nil
}

func parseFlag(raw string) bool {
	return strings.TrimSpace(raw) == "1"
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
