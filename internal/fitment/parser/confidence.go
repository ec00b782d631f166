package parser

import "strings"

// Score turns the running contributions collected by Extract into the final
// confidence plus human-readable warnings. It performs no I/O and never
// fails; callers clamp to [0,100] before persisting.
func Score(p Partial, description string) (int, []string) {
	var warnings []string

	if p.Width == nil {
		warnings = append(warnings, "width not detected")
	}
	if p.RimDiameter == nil {
		warnings = append(warnings, "rim diameter not detected")
	}
	if p.Construction == "" {
		warnings = append(warnings, "construction type not detected")
	}
	if p.LoadIndex == nil {
		warnings = append(warnings, "load index not detected")
	}
	if p.SpeedRating == "" {
		warnings = append(warnings, "speed rating not detected")
	}

	// a description that looks like a size but resisted extraction deserves
	// a human look
	if strings.Contains(description, "/") && strings.ContainsAny(description, "Rr") && len(warnings) > 2 {
		warnings = append(warnings, "complex format - manual review recommended")
	}

	return p.Confidence, warnings
}

// Clamp bounds a confidence value to the persistable [0,100] range.
func Clamp(confidence int) int {
	if confidence < 0 {
		return 0
	}
	if confidence > 100 {
		return 100
	}
	return confidence
}
