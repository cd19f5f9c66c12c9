package validation

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// validate is a singleton validator instance
	validate *validator.Validate

	// Validation constants
	MaxTitleLength = 200
	MaxTextLength  = 1000
	MaxLabelLength = 100
	MaxCoordinate  = 1e6
	MaxBatchSize   = 500

	colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{3}([0-9a-fA-F]{3})?$`)
)

func init() {
	validate = validator.New()
}

// MapRequest is a request to create or rename a map
type MapRequest struct {
	Title string `json:"title" validate:"required,min=1,max=200"`
}

// StyleRequest carries optional node styling
type StyleRequest struct {
	Fill     string `json:"fill" validate:"omitempty"`
	Stroke   string `json:"stroke" validate:"omitempty"`
	FontSize int    `json:"fontSize" validate:"omitempty,min=6,max=96"`
}

// NodeRequest is a request to create or update a node
type NodeRequest struct {
	Text   string        `json:"text" validate:"omitempty,max=1000"`
	X      float64       `json:"x"`
	Y      float64       `json:"y"`
	Width  float64       `json:"width" validate:"omitempty,min=0"`
	Height float64       `json:"height" validate:"omitempty,min=0"`
	Style  *StyleRequest `json:"style" validate:"omitempty"`
}

// EdgeRequest is a request to connect two nodes
type EdgeRequest struct {
	A     string `json:"a" validate:"required"`
	B     string `json:"b" validate:"required"`
	Label string `json:"label" validate:"omitempty,max=100"`
}

// ValidateMapRequest validates a map create/rename request
func ValidateMapRequest(req *MapRequest) error {
	if req == nil {
		return errors.New("map request cannot be nil")
	}
	if strings.TrimSpace(req.Title) == "" {
		return errors.New("Title: cannot be blank")
	}
	if err := validate.Struct(req); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// ValidateNodeRequest validates a node create/update request
func ValidateNodeRequest(req *NodeRequest) error {
	if req == nil {
		return errors.New("node request cannot be nil")
	}
	if err := validate.Struct(req); err != nil {
		return formatValidationError(err)
	}
	if err := validateCoordinate("X", req.X); err != nil {
		return err
	}
	if err := validateCoordinate("Y", req.Y); err != nil {
		return err
	}
	if req.Style != nil {
		if err := validateColor("Style.Fill", req.Style.Fill); err != nil {
			return err
		}
		if err := validateColor("Style.Stroke", req.Style.Stroke); err != nil {
			return err
		}
	}
	return nil
}

// ValidatePosition validates a bare coordinate pair (node moves,
// layout overrides)
func ValidatePosition(x, y float64) error {
	if err := validateCoordinate("X", x); err != nil {
		return err
	}
	return validateCoordinate("Y", y)
}

// ValidateEdgeRequest validates an edge creation request
func ValidateEdgeRequest(req *EdgeRequest) error {
	if req == nil {
		return errors.New("edge request cannot be nil")
	}
	if err := validate.Struct(req); err != nil {
		return formatValidationError(err)
	}
	if req.A == req.B {
		return errors.New("Edge: endpoints must be different nodes")
	}
	return nil
}

// ValidateBatchSize checks a bulk-operation size against the cap
func ValidateBatchSize(size int) error {
	if size < 1 {
		return errors.New("batch cannot be empty")
	}
	if size > MaxBatchSize {
		return fmt.Errorf("batch size %d exceeds maximum of %d", size, MaxBatchSize)
	}
	return nil
}

// validateCoordinate rejects NaN, infinities and coordinates far outside
// any reasonable canvas
func validateCoordinate(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%s: must be a finite number", field)
	}
	if math.Abs(v) > MaxCoordinate {
		return fmt.Errorf("%s: magnitude exceeds maximum of %g", field, MaxCoordinate)
	}
	return nil
}

// validateColor accepts empty or #rgb / #rrggbb hex colors
func validateColor(field, color string) error {
	if color == "" {
		return nil
	}
	if !colorPattern.MatchString(color) {
		return fmt.Errorf("%s: '%s' is not a valid hex color", field, color)
	}
	return nil
}

// formatValidationError converts validator errors into readable messages
func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		messages := make([]string, 0, len(validationErrors))
		for _, fieldErr := range validationErrors {
			messages = append(messages, fmt.Sprintf("%s: failed '%s' validation", fieldErr.Field(), fieldErr.Tag()))
		}
		return errors.New(strings.Join(messages, "; "))
	}
	return err
}
