package analysis

import (
	"fmt"
	"strings"

	"github.com/m-mizutani/tamarin/pkg/model"
)

// Rule fires when an analyte is outside its safe range. Exactly one of
// Above and Below must be set.
type Rule struct {
	Analyte    string           `yaml:"analyte"`
	Above      *float64         `yaml:"above,omitempty"`
	Below      *float64         `yaml:"below,omitempty"`
	Specialist model.Specialist `yaml:"specialist"`
	// Reasoning is a fmt template receiving the measured value
	Reasoning string `yaml:"reasoning"`
}

func (r *Rule) match(value float64) bool {
	if r.Above != nil {
		return value > *r.Above
	}
	if r.Below != nil {
		return value < *r.Below
	}
	return false
}

func ptr(v float64) *float64 { return &v }

// defaultRules are the built-in critical thresholds. A missing analyte
// reads as 0, so the glucose low rule also fires when the value is absent;
// callers that need the distinction must check presence before evaluating.
func defaultRules() []Rule {
	return []Rule{
		{
			Analyte:    "glucose",
			Above:      ptr(300),
			Specialist: model.SpecialistEndocrinologist,
			Reasoning:  "Hiperglicemia crítica: %vmg/dL (>300). Risco de cetoacidose.",
		},
		{
			Analyte:    "glucose",
			Below:      ptr(50),
			Specialist: model.SpecialistEndocrinologist,
			Reasoning:  "Hipoglicemia severa: %vmg/dL (<50). Risco de coma.",
		},
	}
}

// Evaluator classifies lab results into critical or not. It is pure and
// deterministic: no I/O, no side effects.
type Evaluator struct {
	rules []Rule
}

// NewEvaluator creates an evaluator with the given rules, falling back to
// the built-in thresholds when none are given
func NewEvaluator(rules ...Rule) *Evaluator {
	if len(rules) == 0 {
		rules = defaultRules()
	}
	return &Evaluator{rules: rules}
}

// Evaluate runs all rules over the results. A single firing rule yields its
// assessment directly; several firing rules escalate into a combined
// multiple-critical-values assessment.
func (x *Evaluator) Evaluate(results map[string]model.LabValue) *model.CriticalAssessment {
	var (
		fired      []Rule
		reasonings []string
	)

	for _, rule := range x.rules {
		value := results[rule.Analyte].Value
		if rule.match(value) {
			fired = append(fired, rule)
			reasonings = append(reasonings, fmt.Sprintf(rule.Reasoning, value))
		}
	}

	if len(fired) == 0 {
		return &model.CriticalAssessment{IsCritical: false}
	}

	reasoning := reasonings[0]
	if len(fired) > 1 {
		reasoning = "Múltiplos valores críticos: " + strings.Join(reasonings, " ")
	}

	return &model.CriticalAssessment{
		IsCritical: true,
		Action:     model.ActionEmergencyAppointment,
		Specialist: fired[0].Specialist,
		Reasoning:  reasoning,
	}
}
