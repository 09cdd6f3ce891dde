// package validate
package validate

import (
	"fmt"
	"strings"
)

// Validator is a function that validates a string and returns an error if invalid
type Validator func(value string) error

// Field creates a labeled validator with a custom name for better error messages
func Field(name string, validators ...Validator) Validator {
	return func(value string) error {
		for _, v := range validators {
			if err := v(value); err != nil {
				if !strings.Contains(err.Error(), name) {
					return fmt.Errorf("%s: %w", name, err)
				}
				return err
			}
		}
		return nil
	}
}

// Compose chains multiple validators, first error wins
func Compose(validators ...Validator) Validator {
	return func(value string) error {
		for _, v := range validators {
			if err := v(value); err != nil {
				return err
			}
		}
		return nil
	}
}

// Required ensures the field is not empty
func Required() Validator {
	return func(v string) error {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("this field is required")
		}
		return nil
	}
}

// MaxLength checks maximum length
func MaxLength(max int) Validator {
	return func(v string) error {
		if len(v) > max {
			return fmt.Errorf("must be no more than %d characters", max)
		}
		return nil
	}
}

// OneOf checks if value is in allowed list
func OneOf(allowed ...string) Validator {
	set := make(map[string]bool)
	for _, a := range allowed {
		set[a] = true
	}
	return func(v string) error {
		if !set[v] {
			return fmt.Errorf("must be one of: %s", strings.Join(allowed, ", "))
		}
		return nil
	}
}

// Slug ensures lowercase letters, digits and single hyphens only
func Slug() Validator {
	return func(v string) error {
		if v == "" {
			return nil // let Required handle empty
		}
		lastHyphen := true
		for _, c := range v {
			switch {
			case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
				lastHyphen = false
			case c == '-':
				if lastHyphen {
					return fmt.Errorf("must not contain leading or repeated hyphens")
				}
				lastHyphen = true
			default:
				return fmt.Errorf("must contain only lowercase letters, digits and hyphens")
			}
		}
		if lastHyphen {
			return fmt.Errorf("must not end with a hyphen")
		}
		return nil
	}
}
