package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// preMergeFields is the slice of the raw user configuration that is checked
// before merging. The enum checks run here, on the normalized user mapping,
// because they gate whether the user intended an override at all — and they
// run identically no matter how the value was produced (file, function or
// direct override).
type preMergeFields struct {
	Target    string `validate:"omitempty,oneof=server serverless experimental-serverless-trace"`
	ReactMode string `validate:"omitempty,oneof=legacy blocking concurrent"`
}

// validatePreMerge checks the raw user tree's target and reactMode enums.
func validatePreMerge(user map[string]any) error {
	var fields preMergeFields

	if v, ok := user["target"]; ok && v != nil {
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("%w: target must be a string, got %T", ErrTypeMismatch, v)
		}
		fields.Target = s
	}

	if exp, ok := asRecord(user[experimentalKey]); ok {
		if v, ok := exp["reactMode"]; ok && v != nil {
			s, ok := v.(string)
			if !ok {
				return fmt.Errorf("%w: experimental.reactMode must be a string, got %T", ErrTypeMismatch, v)
			}
			fields.ReactMode = s
		}
	}

	if err := validate.Struct(&fields); err != nil {
		return formatEnumError(err, fields)
	}
	return nil
}

func formatEnumError(err error, fields preMergeFields) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return err
	}
	switch verrs[0].StructField() {
	case "Target":
		return fmt.Errorf("%w: invalid target %q, expected one of: %s", ErrEnumViolation, fields.Target,
			strings.Join([]string{TargetServer, TargetServerless, TargetExperimentalServerlessTrace}, ", "))
	case "ReactMode":
		return fmt.Errorf("%w: invalid experimental.reactMode %q, expected one of: %s", ErrEnumViolation, fields.ReactMode,
			strings.Join([]string{ReactModeLegacy, ReactModeBlocking, ReactModeConcurrent}, ", "))
	}
	return fmt.Errorf("%w: %s", ErrEnumViolation, verrs[0].Field())
}

// applyPreMergeFixups returns a copy of the user tree with the raw-value
// normalizations applied. Today that is a single rule: amp.canonicalBase
// loses one trailing slash. The input is never mutated.
func applyPreMergeFixups(user map[string]any) map[string]any {
	amp, ok := asRecord(user["amp"])
	if !ok {
		return user
	}
	base, ok := amp["canonicalBase"].(string)
	if !ok || !strings.HasSuffix(base, "/") {
		return user
	}

	out := make(map[string]any, len(user))
	for k, v := range user {
		out[k] = v
	}
	fixed := make(map[string]any, len(amp))
	for k, v := range amp {
		fixed[k] = v
	}
	fixed["canonicalBase"] = strings.TrimSuffix(base, "/")
	out["amp"] = fixed

	return out
}
