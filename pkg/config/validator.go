package config

import (
	"fmt"
	"net/url"
	"strings"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	// Validate API config
	if c.API.BaseURL == "" {
		errors = append(errors, ValidationError{
			Field:   "api.base_url",
			Message: "API base URL is required",
		})
	} else if u, err := url.Parse(c.API.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errors = append(errors, ValidationError{
			Field:   "api.base_url",
			Message: "invalid API base URL",
		})
	}

	if c.API.Timeout < 1 || c.API.Timeout > 300 {
		errors = append(errors, ValidationError{
			Field:   "api.timeout",
			Message: "timeout must be between 1 and 300 seconds",
		})
	}

	if c.API.RateLimit <= 0 {
		errors = append(errors, ValidationError{
			Field:   "api.rate_limit",
			Message: "rate_limit must be positive",
		})
	}

	// Validate Upload config
	if c.Upload.MaxFileMB < 1 {
		errors = append(errors, ValidationError{
			Field:   "upload.max_file_mb",
			Message: "max_file_mb must be positive",
		})
	}

	// Validate extensions format
	for _, ext := range c.Upload.AllowedExtensions {
		if !strings.HasPrefix(ext, ".") {
			errors = append(errors, ValidationError{
				Field:   "upload.allowed_extensions",
				Message: fmt.Sprintf("invalid extension format: %s", ext),
			})
		}
	}

	return errors
}
