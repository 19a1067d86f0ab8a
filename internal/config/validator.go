package config

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/aleister1102/doccrawler/internal/urlhandler"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

var schemeNamePattern = regexp.MustCompile(`^[a-z][a-z0-9+.-]*$`)

// ValidateConfig performs validation on the GlobalConfig structure.
// Seed URLs are checked with an engine built from cfg's own url_engine_config,
// so a seed is accepted exactly when the crawler would accept it.
func ValidateConfig(cfg *GlobalConfig) error {
	validate := validator.New()

	_ = validate.RegisterValidation("loglevel", func(fl validator.FieldLevel) bool {
		switch strings.ToLower(fl.Field().String()) {
		case "", "debug", "info", "warn", "error", "fatal", "panic":
			return true
		default:
			return false
		}
	})

	_ = validate.RegisterValidation("logformat", func(fl validator.FieldLevel) bool {
		switch strings.ToLower(fl.Field().String()) {
		case "", "console", "text", "json":
			return true
		default:
			return false
		}
	})

	_ = validate.RegisterValidation("scheme", func(fl validator.FieldLevel) bool {
		scheme := strings.ToLower(strings.TrimSpace(fl.Field().String()))
		return schemeNamePattern.MatchString(scheme) &&
			!urlhandler.DefaultSecurityConfig().IsSchemeDisallowed(scheme)
	})

	seedEngine := seedValidationEngine(cfg.URLEngineConfig)
	_ = validate.RegisterValidation("seedurls", func(fl validator.FieldLevel) bool {
		if fl.Field().Kind() != reflect.Slice {
			return false
		}
		seeds, ok := fl.Field().Interface().([]string)
		if !ok {
			return false
		}
		if seedEngine == nil {
			// The engine section is invalid and is reported on its own.
			return true
		}
		for _, s := range seeds {
			if !seedEngine.Create(s, "").IsValid() {
				return false
			}
		}
		return true
	})

	if err := validate.Struct(cfg); err != nil {
		var errs validator.ValidationErrors
		if errors.As(err, &errs) {
			validationErrorMessages := make([]string, 0, len(errs))
			for _, e := range errs {
				validationErrorMessages = append(validationErrorMessages, formatFieldError(e))
			}
			return fmt.Errorf("configuration validation failed:\n  %s", strings.Join(validationErrorMessages, "\n  "))
		}
		return fmt.Errorf("configuration validation error: %w", err)
	}
	return nil
}

func seedValidationEngine(c URLEngineConfig) *urlhandler.Engine {
	sec, err := urlhandler.NewSecurityConfig(c.SecurityOptions())
	if err != nil {
		return nil
	}
	engine, err := urlhandler.NewEngine(sec, zerolog.Nop())
	if err != nil {
		return nil
	}
	return engine
}

// formatFieldError drops the leading struct name so messages read like
// "CrawlerConfig.MaxDepth".
func formatFieldError(e validator.FieldError) string {
	fieldName := e.StructNamespace()
	if i := strings.Index(fieldName, "."); i >= 0 {
		fieldName = fieldName[i+1:]
	}
	msg := fmt.Sprintf("Validation failed for '%s': rule '%s'", fieldName, e.Tag())
	if e.Param() != "" {
		msg += fmt.Sprintf(" (expected: %s)", e.Param())
	}
	if e.Value() != nil && e.Value() != "" {
		msg += fmt.Sprintf(", actual: '%v'", e.Value())
	}
	return msg
}
