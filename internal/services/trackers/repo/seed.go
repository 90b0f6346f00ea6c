package repo

import (
	"os"

	perr "capturebox/internal/platform/errors"
	"capturebox/internal/services/trackers/domain"

	"gopkg.in/yaml.v3"
)

// seedFile is the YAML layout of CORE_TRACKERS_SEED_FILE
type seedFile struct {
	Trackers []domain.Tracker `yaml:"trackers"`
}

// LoadSeed reads tracker definitions from a YAML file
func LoadSeed(path string) ([]domain.Tracker, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "read seed %s", path)
	}
	return ParseSeed(raw)
}

// ParseSeed decodes seed YAML; every tracker needs a valid id
func ParseSeed(raw []byte) ([]domain.Tracker, error) {
	var f seedFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeValidation, "decode seed")
	}
	seen := make(map[string]bool, len(f.Trackers))
	for i, t := range f.Trackers {
		if !validID.MatchString(t.ID) {
			return nil, perr.Validationf("seed tracker %d: invalid id %q", i, t.ID)
		}
		if seen[t.ID] {
			return nil, perr.Validationf("seed tracker %q listed twice", t.ID)
		}
		seen[t.ID] = true
	}
	return f.Trackers, nil
}
