package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Validate rejects configurations the comparison pipeline cannot run with.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
