// Package flowcount counts generative-answer actions in a dialog definition.
package flowcount

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

const (
	KindGenerative     = "SearchAndSummarizeContent"
	KindConditionGroup = "ConditionGroup"
)

// Summary is the count of generative actions, per flow and in total.
type Summary struct {
	MainFlow   Flow `json:"main_flow"`
	TotalCount int  `json:"total_count"`
}

// Flow counts generative actions directly in one action list and lists its condition groups.
type Flow struct {
	Count  int              `json:"count"`
	Groups map[string]Group `json:"groups,omitempty"`
}

type Group struct {
	Conditions map[string]Flow `json:"conditions"`
}

type dialog struct {
	BeginDialog *struct {
		Actions []action `yaml:"actions"`
	} `yaml:"beginDialog"`
}

type action struct {
	Kind       string      `yaml:"kind"`
	ID         string      `yaml:"id"`
	Conditions []condition `yaml:"conditions"`
}

type condition struct {
	ID      string   `yaml:"id"`
	Actions []action `yaml:"actions"`
}

// Count parses a dialog YAML document and counts SearchAndSummarizeContent
// actions in the main flow and, recursively, in every condition branch.
func Count(data []byte) (Summary, error) {
	var d dialog
	if err := yaml.Unmarshal(data, &d); err != nil {
		return Summary{}, fmt.Errorf("invalid dialog yaml: %w", err)
	}

	var summary Summary
	if d.BeginDialog == nil {
		return summary, nil
	}

	summary.MainFlow = countActions(d.BeginDialog.Actions, &summary.TotalCount)
	return summary, nil
}

func countActions(actions []action, total *int) Flow {
	var flow Flow
	for i, a := range actions {
		switch a.Kind {
		case KindGenerative:
			flow.Count++
			*total++
		case KindConditionGroup:
			if flow.Groups == nil {
				flow.Groups = make(map[string]Group)
			}
			group := Group{Conditions: make(map[string]Flow, len(a.Conditions))}
			for j, c := range a.Conditions {
				group.Conditions[idOr(c.ID, "condition", j)] = countActions(c.Actions, total)
			}
			flow.Groups[idOr(a.ID, "group", i)] = group
		}
	}
	return flow
}

// idOr names anonymous nodes by position so that siblings do not collide.
func idOr(id string, prefix string, idx int) string {
	if id != "" {
		return id
	}
	return fmt.Sprintf("%s-%d", prefix, idx)
}
