package coverage

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/covermap/covermap/internal/errors"
)

// operatorsFile is the on-disk shape of an operator table override.
type operatorsFile struct {
	Operators map[int]string `yaml:"operators"`
}

// LoadOperatorTable reads an operator table from a YAML file, replacing the
// built-in table. Used to run the engine against synthetic datasets.
func LoadOperatorTable(path string) (OperatorTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewDatasetError("read operators file", err)
	}

	var file operatorsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.NewDatasetError("parse operators file", err)
	}
	if len(file.Operators) == 0 {
		return nil, errors.NewDatasetError("parse operators file", nil).
			WithDetails("no operators defined")
	}

	table := make(OperatorTable, len(file.Operators))
	for code, name := range file.Operators {
		table[OperatorCode(code)] = name
	}
	return table, nil
}
