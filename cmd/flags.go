package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// addFlagValidation wraps a flag's value so bad input is rejected while the
// command line is parsed, before any scanning starts.
func addFlagValidation(cmd *cobra.Command, flagName string, validator func(string) error) {
	flag := cmd.Flags().Lookup(flagName)
	if flag == nil {
		return
	}
	flag.Value = &validatingValue{Value: flag.Value, validator: validator}
}

type validatingValue struct {
	pflag.Value
	validator func(string) error
}

func (v *validatingValue) Set(val string) error {
	if v.validator != nil {
		if err := v.validator(val); err != nil {
			return err
		}
	}
	return v.Value.Set(val)
}

// formatValidator restricts a format flag to the renderers a command has.
func formatValidator(allowed ...string) func(string) error {
	return func(value string) error {
		for _, format := range allowed {
			if value == format {
				return nil
			}
		}
		return fmt.Errorf("unsupported format: %s", value)
	}
}

// validateThreshold accepts a similarity value in the closed interval [0, 1].
func validateThreshold(value string) error {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("invalid threshold: %s", value)
	}
	if f < 0 || f > 1 {
		return fmt.Errorf("threshold must be between 0 and 1, got %v", f)
	}
	return nil
}
