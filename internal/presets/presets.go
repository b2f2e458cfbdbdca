// Package presets persists named report filter configurations per shop.
package presets

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// ValidationError is a user-visible input problem, distinct from storage
// failures so handlers can flash it instead of erroring the request.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError creates a ValidationError for a named field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// ReportPreset is a saved set of report filter/sort/page-size parameters.
type ReportPreset struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ShopID    uint      `gorm:"not null;index" json:"shop_id"`
	Name      string    `gorm:"not null;size:255" json:"name"`
	Config    string    `gorm:"type:text" json:"config"` // serialized JSON parameter map
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM
func (ReportPreset) TableName() string {
	return "report_presets"
}

// Config is stored as a flat string map so presets survive parameter
// additions without schema churn.
type Config map[string]string

// DecodedPreset pairs a stored preset with its decoded configuration.
type DecodedPreset struct {
	Preset ReportPreset `json:"preset"`
	Config Config       `json:"config"`
}

// CreatePreset stores a named configuration for a shop. An empty name is a
// ValidationError; storage failures pass through unchanged.
func CreatePreset(db *gorm.DB, shopID uint, name string, config Config) (*ReportPreset, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, NewValidationError("report_name", "preset name is required")
	}

	serialized, err := json.Marshal(config)
	if err != nil {
		return nil, fmt.Errorf("presets: config serialization failed: %w", err)
	}

	preset := &ReportPreset{
		ShopID:    shopID,
		Name:      name,
		Config:    string(serialized),
		CreatedAt: time.Now().UTC(),
	}
	if err := db.Create(preset).Error; err != nil {
		return nil, fmt.Errorf("presets: create failed: %w", err)
	}
	return preset, nil
}

// DeletePreset removes a preset by id. There is no shop-ownership check on
// delete; callers pass whatever id the form submitted.
func DeletePreset(db *gorm.DB, id uint) error {
	if err := db.Delete(&ReportPreset{}, id).Error; err != nil {
		return fmt.Errorf("presets: delete failed: %w", err)
	}
	return nil
}

// ListPresets returns a shop's presets newest first, each with its decoded
// configuration. A preset whose stored config no longer parses is listed
// with an empty configuration rather than failing the whole listing.
func ListPresets(db *gorm.DB, shopID uint) ([]DecodedPreset, error) {
	var stored []ReportPreset
	if err := db.Where("shop_id = ?", shopID).Order("created_at DESC, id DESC").Find(&stored).Error; err != nil {
		return nil, fmt.Errorf("presets: list failed: %w", err)
	}

	decoded := make([]DecodedPreset, 0, len(stored))
	for _, preset := range stored {
		decoded = append(decoded, DecodedPreset{Preset: preset, Config: decodeConfig(preset.Config)})
	}
	return decoded, nil
}

// decodeConfig is the fallible decode for stored preset configuration:
// malformed JSON yields an explicit empty map, never an error.
func decodeConfig(raw string) Config {
	config := Config{}
	if strings.TrimSpace(raw) == "" {
		return config
	}
	if err := json.Unmarshal([]byte(raw), &config); err != nil {
		return Config{}
	}
	return config
}
