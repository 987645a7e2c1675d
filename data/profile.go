package data

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrNoProfile is returned when onboarding has not been completed yet.
var ErrNoProfile = errors.New("no profile found, run 'fitbot onboard' first")

// UserProfile is the result of the onboarding wizard.
type UserProfile struct {
	Name               string    `yaml:"name"`
	Age                int       `yaml:"age"`
	Goal               string    `yaml:"goal"`
	FitnessLevel       string    `yaml:"fitness_level"`
	Minutes            int       `yaml:"minutes"`
	Equipment          []string  `yaml:"equipment"`
	Restrictions       []string  `yaml:"restrictions"`
	DietaryPreferences []string  `yaml:"dietary_preferences"`
	CreatedAt          time.Time `yaml:"created_at"`
}

// HasEquipment reports whether item is in the equipment list.
func (p *UserProfile) HasEquipment(item string) bool {
	return contains(p.Equipment, item)
}

// HasDiet reports whether diet is in the dietary preferences.
func (p *UserProfile) HasDiet(diet string) bool {
	return contains(p.DietaryPreferences, diet)
}

// HasRestriction reports whether r is in the restrictions list.
func (p *UserProfile) HasRestriction(r string) bool {
	return contains(p.Restrictions, r)
}

func contains(list []string, item string) bool {
	for _, v := range list {
		if v == item {
			return true
		}
	}
	return false
}

// ProfileStore reads and writes profile.yaml.
type ProfileStore struct {
	path string
}

// NewProfileStore creates a ProfileStore at the default location.
func NewProfileStore() *ProfileStore {
	return &ProfileStore{path: GetProfileFilePath()}
}

// NewProfileStoreAt creates a ProfileStore backed by path.
func NewProfileStoreAt(path string) *ProfileStore {
	return &ProfileStore{path: path}
}

// GetPath returns the profile file path.
func (s *ProfileStore) GetPath() string {
	return s.path
}

// Exists reports whether a profile has been saved.
func (s *ProfileStore) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Load reads the profile. Returns ErrNoProfile if onboarding never ran.
func (s *ProfileStore) Load() (*UserProfile, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoProfile
		}
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	var profile UserProfile
	if err := yaml.Unmarshal(raw, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse profile '%s': %w", s.path, err)
	}
	return &profile, nil
}

// Save writes the profile, creating the directory when needed.
func (s *ProfileStore) Save(profile *UserProfile) error {
	if profile == nil {
		return fmt.Errorf("profile cannot be nil")
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0750); err != nil {
		return fmt.Errorf("failed to create profile directory: %w", err)
	}
	raw, err := yaml.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0644); err != nil {
		return fmt.Errorf("failed to write profile: %w", err)
	}
	return nil
}

// Delete removes the saved profile.
func (s *ProfileStore) Delete() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	return nil
}
