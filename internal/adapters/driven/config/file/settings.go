package file

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/defectdoc/internal/core/ports/driven"
)

// Ensure SettingsStore implements the interface.
var _ driven.SettingsStore = (*SettingsStore)(nil)

// settings is the on-disk TOML shape.
type settings struct {
	Validator struct {
		MaxDisplacement    float64 `toml:"max_displacement"`
		DesorptionDistance float64 `toml:"desorption_distance"`
	} `toml:"validator"`
	Corrections struct {
		EnergyCutoff float64 `toml:"energy_cutoff"`
		SlabBuffer   float64 `toml:"slab_buffer"`
	} `toml:"corrections"`
}

func defaultSettings() settings {
	var s settings
	s.Validator.MaxDisplacement = 0.02
	s.Validator.DesorptionDistance = 3.0
	s.Corrections.EnergyCutoff = 520
	s.Corrections.SlabBuffer = 2
	return s
}

// SettingsStore is a file-based implementation of driven.SettingsStore
// using TOML. Thresholds are stored in a TOML file within the defectdoc
// config directory; a missing file yields the defaults.
type SettingsStore struct {
	mu       sync.RWMutex
	filePath string
	data     settings
}

// NewSettingsStore creates a new TOML-based settings store.
// If configDir is empty, defaults to ~/.defectdoc/settings.toml.
func NewSettingsStore(configDir string) (*SettingsStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".defectdoc")
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	s := &SettingsStore{
		filePath: filepath.Join(configDir, "settings.toml"),
		data:     defaultSettings(),
	}

	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Load reads settings from the TOML file. A missing file resets to
// defaults.
func (s *SettingsStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			s.data = defaultSettings()
			return nil
		}
		return err
	}

	loaded := defaultSettings()
	if err := toml.Unmarshal(raw, &loaded); err != nil {
		return err
	}
	s.data = loaded
	return nil
}

// Save persists the current settings to disk.
func (s *SettingsStore) Save() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	raw, err := toml.Marshal(s.data)
	if err != nil {
		return err
	}

	// Write with restricted permissions
	return os.WriteFile(s.filePath, raw, 0600)
}

// MaxDisplacement returns the atomic-relaxation threshold in angstroms.
func (s *SettingsStore) MaxDisplacement() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Validator.MaxDisplacement
}

// DesorptionDistance returns the desorption threshold in angstroms.
func (s *SettingsStore) DesorptionDistance() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Validator.DesorptionDistance
}

// EnergyCutoff returns the 2-D correction energy cutoff in eV.
func (s *SettingsStore) EnergyCutoff() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Corrections.EnergyCutoff
}

// SlabBuffer returns the 2-D correction out-of-plane buffer in
// angstroms.
func (s *SettingsStore) SlabBuffer() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Corrections.SlabBuffer
}

// SetThresholds replaces the validator thresholds and persists.
func (s *SettingsStore) SetThresholds(maxDisplacement, desorptionDistance float64) error {
	s.mu.Lock()
	s.data.Validator.MaxDisplacement = maxDisplacement
	s.data.Validator.DesorptionDistance = desorptionDistance
	s.mu.Unlock()
	return s.Save()
}

// SetCorrectionParams replaces the correction parameters and persists.
func (s *SettingsStore) SetCorrectionParams(energyCutoff, slabBuffer float64) error {
	s.mu.Lock()
	s.data.Corrections.EnergyCutoff = energyCutoff
	s.data.Corrections.SlabBuffer = slabBuffer
	s.mu.Unlock()
	return s.Save()
}

// Path returns the settings file path.
func (s *SettingsStore) Path() string {
	return s.filePath
}
