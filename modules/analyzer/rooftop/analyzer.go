package rooftop

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/voltmesh/solarbot/internal/energy"
	"github.com/voltmesh/solarbot/internal/provider"
)

// visionPrompt asks the model for a machine-readable suitability verdict.
const visionPrompt = `You are a solar installation surveyor. Analyze the attached rooftop photo
and estimate its solar potential.

Reply with a single JSON object and nothing else, using these fields:
{"suitable": bool, "suitable_area_sqm": number, "estimated_capacity_kw": number,
"annual_generation_kwh": number, "shading_factor": number (0-1),
"roof_orientation": "south"|"south-west"|"south-east"|"west"|"east"|"north",
"confidence": number (0-1), "reason": string (only when unsuitable)}`

// orientations and unsuitableReasons drive the deterministic mock result.
var (
	orientations      = []string{"south", "south-west", "south-east", "west", "east"}
	unsuitableReasons = []string{
		"Excessive shading detected",
		"Roof orientation not optimal",
		"Roof area too small",
		"Complex roof structure",
	}
)

// mockAnalysis derives a stable pseudo-result from the image reference so
// repeated analyses of the same photo agree. Roughly 80% of references
// come out suitable.
func mockAnalysis(ref string) energy.RoofAnalysis {
	var sum int
	for _, r := range ref {
		sum += int(r)
	}
	hash := sum % 100

	if hash <= 20 {
		return energy.RoofAnalysis{
			Suitable:   false,
			Confidence: energy.Round2(0.6 + float64(hash%40)/100),
			Reason:     unsuitableReasons[hash%len(unsuitableReasons)],
		}
	}

	area := float64(20 + hash%30)
	capacity := area * 0.15
	return energy.RoofAnalysis{
		Suitable:            true,
		RoofAreaSqm:         energy.Round1(area),
		CapacityKW:          energy.Round1(capacity),
		AnnualGenerationKWh: float64(int(capacity * 1500)),
		ShadingFactor:       energy.Round2(float64(hash%30) / 100),
		Orientation:         orientations[hash%len(orientations)],
		Confidence:          energy.Round2(0.7 + float64(hash%30)/100),
	}
}

// visionResult is the JSON shape requested from the vision model.
type visionResult struct {
	Suitable            bool    `json:"suitable"`
	SuitableAreaSqm     float64 `json:"suitable_area_sqm"`
	EstimatedCapacityKW float64 `json:"estimated_capacity_kw"`
	AnnualGenerationKWh float64 `json:"annual_generation_kwh"`
	ShadingFactor       float64 `json:"shading_factor"`
	RoofOrientation     string  `json:"roof_orientation"`
	Confidence          float64 `json:"confidence"`
	Reason              string  `json:"reason"`
}

// visionAnalysis sends the photo to the vision provider and parses the reply.
func (a *Analyzer) visionAnalysis(ctx context.Context, image []byte, mimeType string) (energy.RoofAnalysis, error) {
	p, err := a.chain.GetProvider(provider.RoleVision)
	if err != nil {
		return energy.RoofAnalysis{}, err
	}
	if vc, ok := p.(provider.VisionCapable); !ok || !vc.SupportsVision() {
		return energy.RoofAnalysis{}, errors.New("rooftop: vision provider does not accept images")
	}

	resp, err := a.chain.Complete(ctx, provider.RoleVision, provider.CompletionRequest{
		Messages: []provider.LLMMessage{
			{
				Role:    provider.MessageRoleUser,
				Content: visionPrompt,
				Images:  []provider.ImagePart{{MIMEType: mimeType, Data: image}},
			},
		},
		MaxTokens: 512,
	})
	if err != nil {
		return energy.RoofAnalysis{}, err
	}

	return parseVisionReply(resp.Content)
}

// parseVisionReply extracts the JSON object from a model reply, tolerating
// surrounding prose and markdown fences.
func parseVisionReply(reply string) (energy.RoofAnalysis, error) {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start < 0 || end <= start {
		return energy.RoofAnalysis{}, fmt.Errorf("rooftop: no JSON object in reply %q", reply)
	}

	var vr visionResult
	if err := json.Unmarshal([]byte(reply[start:end+1]), &vr); err != nil {
		return energy.RoofAnalysis{}, fmt.Errorf("rooftop: parse reply: %w", err)
	}

	return energy.RoofAnalysis{
		Suitable:            vr.Suitable,
		RoofAreaSqm:         vr.SuitableAreaSqm,
		CapacityKW:          vr.EstimatedCapacityKW,
		AnnualGenerationKWh: vr.AnnualGenerationKWh,
		ShadingFactor:       vr.ShadingFactor,
		Orientation:         vr.RoofOrientation,
		Confidence:          vr.Confidence,
		Reason:              vr.Reason,
	}, nil
}
