package coverage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/covermap/covermap/internal/errors"
)

func TestLoadOperatorTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "operators.yml")
	require.NoError(t, os.WriteFile(path, []byte(
		"operators:\n  1: TestNet\n  2: OtherNet\n"), 0o644))

	table, err := LoadOperatorTable(path)
	require.NoError(t, err)

	assert.Equal(t, OperatorTable{1: "TestNet", 2: "OtherNet"}, table)
}

func TestLoadOperatorTable_MissingFile(t *testing.T) {
	_, err := LoadOperatorTable(filepath.Join(t.TempDir(), "absent.yml"))

	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeDataset))
}

func TestLoadOperatorTable_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "operators.yml")
	require.NoError(t, os.WriteFile(path, []byte("operators: {}\n"), 0o644))

	_, err := LoadOperatorTable(path)
	require.Error(t, err)
}

func TestDefaultOperators(t *testing.T) {
	table := DefaultOperators()

	assert.Len(t, table, 4)
	assert.Equal(t, "Orange", table[20801])
	assert.Equal(t, "Bouygues Telecom", table[20820])
}
