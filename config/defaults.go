package config

import (
	"fmt"
	"os"

	"github.com/Dosada05/pickup-scoreboard/models"
	"gopkg.in/yaml.v3"
)

// GameDefaults prefill the game setup form and replace a missing duration.
type GameDefaults struct {
	DurationMinutes int    `yaml:"duration_minutes" json:"duration_minutes"`
	Format          string `yaml:"format" json:"format"`
	TeamQuantity    int    `yaml:"team_quantity" json:"team_quantity"`
}

func DefaultGameDefaults() GameDefaults {
	return GameDefaults{
		DurationMinutes: 7,
		Format:          string(models.Format5x5),
		TeamQuantity:    int(models.ThreeTeams),
	}
}

// LoadGameDefaults reads a YAML file. Keys left out keep their built-in value.
func LoadGameDefaults(path string) (GameDefaults, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return GameDefaults{}, fmt.Errorf("read game defaults: %w", err)
	}

	d := DefaultGameDefaults()
	if err := yaml.Unmarshal(data, &d); err != nil {
		return GameDefaults{}, fmt.Errorf("parse game defaults: %w", err)
	}
	if d.DurationMinutes <= 0 {
		return GameDefaults{}, fmt.Errorf("game defaults: duration_minutes must be positive, got %d", d.DurationMinutes)
	}
	d.Format = string(models.ParseGameFormat(d.Format))
	d.TeamQuantity = int(models.ParseTeamQuantity(d.TeamQuantity))
	return d, nil
}
