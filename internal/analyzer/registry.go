package analyzer

import "fmt"

// NewDetector returns the detector for a trim mode. "none" and "" return nil.
func NewDetector(variant string) (Detector, error) {
	switch variant {
	case "", "none":
		return nil, nil
	case "edges":
		return NewEdgeDetector(), nil
	default:
		return nil, fmt.Errorf("unknown trim mode: %s", variant)
	}
}
