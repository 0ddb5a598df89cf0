package analysis_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/tamarin/pkg/model"
	"github.com/m-mizutani/tamarin/pkg/usecase/analysis"
)

func glucose(v float64) map[string]model.LabValue {
	return map[string]model.LabValue{
		"glucose": {Value: v, Unit: "mg/dL"},
	}
}

func TestEvaluateGlucoseBoundaries(t *testing.T) {
	evaluator := analysis.NewEvaluator()

	testCases := []struct {
		name     string
		value    float64
		critical bool
	}{
		{"low boundary", 50, false},
		{"high boundary", 300, false},
		{"just below low", 49.99, true},
		{"just above high", 300.01, true},
		{"normal", 120, false},
		{"severe hyperglycemia", 350, true},
		{"severe hypoglycemia", 30, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assessment := evaluator.Evaluate(glucose(tc.value))
			gt.Equal(t, assessment.IsCritical, tc.critical)
		})
	}
}

func TestEvaluateHyperglycemia(t *testing.T) {
	assessment := analysis.NewEvaluator().Evaluate(glucose(350))

	gt.True(t, assessment.IsCritical)
	gt.Equal(t, assessment.Action, model.ActionEmergencyAppointment)
	gt.Equal(t, assessment.Specialist, model.SpecialistEndocrinologist)
	gt.S(t, assessment.Reasoning).Contains("Hiperglicemia")
	gt.S(t, assessment.Reasoning).Contains("350")
}

func TestEvaluateHypoglycemia(t *testing.T) {
	assessment := analysis.NewEvaluator().Evaluate(glucose(42))

	gt.True(t, assessment.IsCritical)
	gt.Equal(t, assessment.Specialist, model.SpecialistEndocrinologist)
	gt.S(t, assessment.Reasoning).Contains("Hipoglicemia")
}

// A missing glucose value reads as 0, which is below the low threshold.
// The absence of data is treated as a critical low reading on purpose; see
// the note on defaultRules.
func TestEvaluateMissingGlucose(t *testing.T) {
	assessment := analysis.NewEvaluator().Evaluate(map[string]model.LabValue{})

	gt.True(t, assessment.IsCritical)
	gt.Equal(t, assessment.Specialist, model.SpecialistEndocrinologist)
	gt.S(t, assessment.Reasoning).Contains("Hipoglicemia")
}

func TestEvaluateIsPure(t *testing.T) {
	evaluator := analysis.NewEvaluator()
	results := glucose(350)

	first := evaluator.Evaluate(results)
	second := evaluator.Evaluate(results)

	gt.Equal(t, first, second)
	gt.Equal(t, results["glucose"].Value, 350.0)
}

func TestEvaluateMultipleCriticalValues(t *testing.T) {
	high := 3.0
	rules := []analysis.Rule{
		{
			Analyte:    "glucose",
			Above:      ptr(300),
			Specialist: model.SpecialistEndocrinologist,
			Reasoning:  "Hiperglicemia crítica: %vmg/dL (>300). Risco de cetoacidose.",
		},
		{
			Analyte:    "creatinine",
			Above:      &high,
			Specialist: model.SpecialistNephrologist,
			Reasoning:  "Creatinina elevada: %vmg/dL (>3.0). Risco de insuficiência renal.",
		},
	}
	evaluator := analysis.NewEvaluator(rules...)

	assessment := evaluator.Evaluate(map[string]model.LabValue{
		"glucose":    {Value: 320},
		"creatinine": {Value: 4.5},
	})

	gt.True(t, assessment.IsCritical)
	gt.Equal(t, assessment.Specialist, model.SpecialistEndocrinologist)
	gt.S(t, assessment.Reasoning).Contains("Múltiplos valores críticos")
	gt.S(t, assessment.Reasoning).Contains("Hiperglicemia")
	gt.S(t, assessment.Reasoning).Contains("Creatinina")
}

func ptr(v float64) *float64 { return &v }
