package validation

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateMapRequest(t *testing.T) {
	tests := []struct {
		name    string
		req     *MapRequest
		wantErr bool
	}{
		{"valid", &MapRequest{Title: "Project Ideas"}, false},
		{"nil request", nil, true},
		{"empty title", &MapRequest{Title: ""}, true},
		{"whitespace title", &MapRequest{Title: "   "}, true},
		{"too long", &MapRequest{Title: strings.Repeat("x", 201)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMapRequest(tt.req)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateNodeRequest(t *testing.T) {
	tests := []struct {
		name    string
		req     *NodeRequest
		wantErr bool
	}{
		{"valid", &NodeRequest{Text: "idea", X: 100, Y: 50}, false},
		{"empty text is allowed", &NodeRequest{X: 0, Y: 0}, false},
		{"nil request", nil, true},
		{"text too long", &NodeRequest{Text: strings.Repeat("x", 1001)}, true},
		{"NaN coordinate", &NodeRequest{X: math.NaN()}, true},
		{"infinite coordinate", &NodeRequest{Y: math.Inf(1)}, true},
		{"coordinate out of range", &NodeRequest{X: 2e6}, true},
		{"valid style", &NodeRequest{Style: &StyleRequest{Fill: "#fffacd", Stroke: "#333"}}, false},
		{"bad fill color", &NodeRequest{Style: &StyleRequest{Fill: "yellow"}}, true},
		{"font size too small", &NodeRequest{Style: &StyleRequest{FontSize: 2}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNodeRequest(tt.req)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateEdgeRequest(t *testing.T) {
	tests := []struct {
		name    string
		req     *EdgeRequest
		wantErr bool
	}{
		{"valid", &EdgeRequest{A: "n1", B: "n2"}, false},
		{"valid with label", &EdgeRequest{A: "n1", B: "n2", Label: "relates"}, false},
		{"nil request", nil, true},
		{"missing endpoint", &EdgeRequest{A: "n1"}, true},
		{"self loop", &EdgeRequest{A: "n1", B: "n1"}, true},
		{"label too long", &EdgeRequest{A: "n1", B: "n2", Label: strings.Repeat("x", 101)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEdgeRequest(tt.req)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateBatchSize(t *testing.T) {
	assert.Error(t, ValidateBatchSize(0))
	assert.NoError(t, ValidateBatchSize(1))
	assert.NoError(t, ValidateBatchSize(MaxBatchSize))
	assert.Error(t, ValidateBatchSize(MaxBatchSize+1))
}
