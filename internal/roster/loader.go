package roster

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// rosterFile is the on-disk shape of a roster document.
type rosterFile struct {
	Participants []Participant `yaml:"participants"`
}

// Load reads a YAML roster file and validates the resulting pool.
// Window participant IDs are filled in from the owning participant when
// omitted in the file, so rosters don't have to repeat the ID per window.
func Load(path string) (Pool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML roster data and validates the resulting pool.
func Parse(data []byte) (Pool, error) {
	var doc rosterFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse roster: %w", err)
	}

	pool := Pool(doc.Participants)
	for i := range pool {
		for j := range pool[i].Windows {
			if pool[i].Windows[j].ParticipantID == "" {
				pool[i].Windows[j].ParticipantID = pool[i].ID
			}
		}
	}

	if err := pool.Validate(); err != nil {
		return nil, err
	}
	return pool, nil
}

// Save writes the pool to a YAML roster file.
func Save(path string, pool Pool) error {
	data, err := yaml.Marshal(rosterFile{Participants: pool})
	if err != nil {
		return fmt.Errorf("marshal roster: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write roster file: %w", err)
	}
	return nil
}
