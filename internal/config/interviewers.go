package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"alfredoptarigan/interview-builder/internal/models"
)

type interviewersFile struct {
	Interviewers []models.Interviewer `yaml:"interviewers"`
}

// DefaultInterviewers is the catalogue used when no persona file exists.
func DefaultInterviewers() []models.Interviewer {
	return []models.Interviewer{
		{
			ID:          1,
			Name:        "Explorer Lisa",
			Image:       "/interviewers/Lisa.png",
			Description: "Hi! I'm Lisa, an enthusiastic and empathetic interviewer who loves to explore. With a perfect balance of empathy and rapport, I delve deep into conversations while maintaining a steady pace.",
			Audio:       "Lisa.wav",
			Empathy:     7,
			Exploration: 10,
			Rapport:     7,
			Speed:       5,
		},
		{
			ID:          2,
			Name:        "Empathetic Bob",
			Image:       "/interviewers/Bob.png",
			Description: "Hi! I'm Bob, your go-to empathetic interviewer. I excel at understanding and connecting with people on a deeper level, ensuring every conversation is insightful and meaningful.",
			Audio:       "Bob.wav",
			Empathy:     10,
			Exploration: 7,
			Rapport:     7,
			Speed:       5,
		},
	}
}

// LoadInterviewers reads the persona catalogue from a YAML file. A missing
// file yields DefaultInterviewers.
func LoadInterviewers(path string) ([]models.Interviewer, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultInterviewers(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read interviewers file: %w", err)
	}

	var file interviewersFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse interviewers file: %w", err)
	}

	seen := make(map[int64]bool, len(file.Interviewers))
	for _, iv := range file.Interviewers {
		if iv.ID <= 0 {
			return nil, fmt.Errorf("interviewer %q has invalid id %d", iv.Name, iv.ID)
		}
		if iv.Name == "" {
			return nil, fmt.Errorf("interviewer %d has no name", iv.ID)
		}
		if seen[iv.ID] {
			return nil, fmt.Errorf("duplicate interviewer id %d", iv.ID)
		}
		seen[iv.ID] = true
	}

	if len(file.Interviewers) == 0 {
		return DefaultInterviewers(), nil
	}

	return file.Interviewers, nil
}
