package validation

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
)

var (
	// validate is a singleton validator instance
	validate *validator.Validate

	// Validation constants
	MaxNodes        = 5_000_000
	MaxEdges        = 50_000_000
	MaxNodeIDLength = 256
)

func init() {
	validate = validator.New()
}

// EdgeRequest is one edge of a graph document. A nil weight means the
// default weight.
type EdgeRequest struct {
	Source string   `json:"source" yaml:"source" validate:"required,max=256"`
	Target string   `json:"target" yaml:"target" validate:"required,max=256"`
	Weight *float64 `json:"weight,omitempty" yaml:"weight,omitempty" validate:"omitempty"`
}

// GraphRequest is a graph document after node ids have been normalized to
// strings
type GraphRequest struct {
	Nodes []string      `json:"nodes" yaml:"nodes" validate:"max=5000000,unique,dive,required,max=256"`
	Edges []EdgeRequest `json:"edges" yaml:"edges" validate:"max=50000000,dive"`
}

// ValidateGraphRequest validates a graph document: node ids must be unique
// and non-empty, every edge must reference declared nodes, and weights must
// be finite.
func ValidateGraphRequest(req *GraphRequest) error {
	if req == nil {
		return errors.New("graph request cannot be nil")
	}

	// Validate using struct tags
	if err := validate.Struct(req); err != nil {
		return formatValidationError(err)
	}

	declared := make(map[string]struct{}, len(req.Nodes))
	for _, id := range req.Nodes {
		declared[id] = struct{}{}
	}

	for i, e := range req.Edges {
		if _, ok := declared[e.Source]; !ok {
			return fmt.Errorf("Edges[%d]: source %q is not a declared node", i, e.Source)
		}
		if _, ok := declared[e.Target]; !ok {
			return fmt.Errorf("Edges[%d]: target %q is not a declared node", i, e.Target)
		}
		if e.Weight != nil {
			if err := ValidateWeight(*e.Weight); err != nil {
				return fmt.Errorf("Edges[%d]: %w", i, err)
			}
		}
	}

	return nil
}

// ValidateWeight rejects NaN and infinite edge weights
func ValidateWeight(w float64) error {
	if math.IsNaN(w) || math.IsInf(w, 0) {
		return fmt.Errorf("weight %v is not finite", w)
	}
	return nil
}

// ValidateNodeID validates a single node id
func ValidateNodeID(id string) error {
	if id == "" {
		return errors.New("node id cannot be empty")
	}
	if len(id) > MaxNodeIDLength {
		return fmt.Errorf("node id '%s' exceeds maximum length of %d characters", id, MaxNodeIDLength)
	}
	return nil
}

// formatValidationError converts validator errors to a more user-friendly format
func formatValidationError(err error) error {
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	// Return the first validation error in a user-friendly format
	for _, e := range validationErrs {
		field := e.Namespace()
		tag := e.Tag()
		param := e.Param()

		switch tag {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "min":
			return fmt.Errorf("%s: must be at least %s", field, param)
		case "max":
			return fmt.Errorf("%s: must not exceed %s", field, param)
		case "unique":
			return fmt.Errorf("%s: contains duplicate values", field)
		case "oneof":
			return fmt.Errorf("%s: must be one of [%s]", field, param)
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, tag)
		}
	}

	return err
}

// Struct validates any struct against its validate tags and formats the
// first failure
func Struct(s any) error {
	return formatValidationError(validate.Struct(s))
}
