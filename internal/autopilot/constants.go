package autopilot

import (
	"encoding/json"
	"os"
)

// LoadConstants reads and parses the gains file at path. On any failure it
// returns ErrConstantsLoadFailed; the caller is expected to keep whatever
// constants it already had.
func LoadConstants(path string) (Constants, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Constants{}, ErrConstantsLoadFailed
	}
	var c Constants
	if err := json.Unmarshal(data, &c); err != nil {
		return Constants{}, ErrConstantsLoadFailed
	}
	return c, nil
}
