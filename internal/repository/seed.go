package repository

import (
	_ "embed"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/UnknownOlympus/staffbook/internal/form"
	"github.com/UnknownOlympus/staffbook/internal/models"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultSeed []byte

var ErrInvalidSeed = errors.New("invalid seed set")

// DefaultSeed returns a fresh copy of the built-in sample employees.
func DefaultSeed() []models.Employee {
	seed, err := ParseSeed(defaultSeed)
	if err != nil {
		panic("built-in seed set is invalid: " + err.Error())
	}

	return seed
}

// LoadSeedFile reads a YAML seed set from path.
func LoadSeedFile(afs afero.Fs, path string) ([]models.Employee, error) {
	data, err := afero.ReadFile(afs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file %s: %w", path, err)
	}

	return ParseSeed(data)
}

// ParseSeed decodes a YAML list of employees. Every entry needs a unique id
// and must pass the same checks as a submitted form.
func ParseSeed(data []byte) ([]models.Employee, error) {
	var seed []models.Employee
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to decode seed set: %w", err)
	}

	if err := checkIDs(seed); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSeed, err)
	}

	for i, entry := range seed {
		employee, errs := form.Validate(form.DraftFromEmployee(entry))
		if !errs.Valid() {
			return nil, fmt.Errorf("%w: entry %q has invalid fields %s",
				ErrInvalidSeed, entry.ID, strings.Join(slices.Sorted(maps.Keys(errs)), ", "))
		}
		employee.ID = entry.ID
		seed[i] = employee
	}

	if seed == nil {
		seed = []models.Employee{}
	}

	return seed, nil
}
