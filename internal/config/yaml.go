package config

import (
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
)

// maxConfigSize limits config input to prevent memory exhaustion.
const maxConfigSize = 64 << 10

var (
	errEmptyData     = errors.New("empty config data")
	errInputTooLarge = errors.New("config exceeds maximum size")
)

// decodeStrict unmarshals YAML into v, rejecting unknown fields.
// Fields absent from data keep the values already present in v.
func decodeStrict(data []byte, v any) error {
	if len(data) == 0 {
		return errEmptyData
	}
	if len(data) > maxConfigSize {
		return fmt.Errorf("%w: %d bytes (max %d)", errInputTooLarge, len(data), maxConfigSize)
	}
	if err := yaml.UnmarshalWithOptions(data, v, yaml.Strict()); err != nil {
		return fmt.Errorf("yaml: %w", err)
	}
	return nil
}
