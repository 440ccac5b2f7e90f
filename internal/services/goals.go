package services

import (
	"encoding/json"
	"math"
	"strings"
)

type Milestone struct {
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// ComputeProgress returns round(100 * completed / total), or 0 for an empty
// list. Recomputed on every write that touches milestones, never on read.
func ComputeProgress(milestones []Milestone) int {
	if len(milestones) == 0 {
		return 0
	}
	completed := 0
	for _, m := range milestones {
		if m.Completed {
			completed++
		}
	}
	return int(math.Round(float64(completed) / float64(len(milestones)) * 100))
}

// ValidateMilestones trims milestone text and enforces the 200-char limit.
func ValidateMilestones(milestones []Milestone) ([]Milestone, error) {
	cleaned := make([]Milestone, 0, len(milestones))
	for _, m := range milestones {
		text := strings.TrimSpace(m.Text)
		if text == "" {
			return nil, ErrBadRequest("Milestone text is required")
		}
		if len(text) > 200 {
			return nil, ErrBadRequest("Milestone text cannot be more than 200 characters")
		}
		cleaned = append(cleaned, Milestone{Text: text, Completed: m.Completed})
	}
	return cleaned, nil
}

func EncodeMilestones(milestones []Milestone) ([]byte, error) {
	if milestones == nil {
		milestones = []Milestone{}
	}
	return json.Marshal(milestones)
}

func DecodeMilestones(raw []byte) []Milestone {
	milestones := []Milestone{}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &milestones)
	}
	return milestones
}
