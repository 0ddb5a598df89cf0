package analysis

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/tamarin/pkg/model"
	"gopkg.in/yaml.v3"
)

type ruleFile struct {
	Rules []Rule `yaml:"rules"`
}

// LoadRules reads critical-value threshold rules from a YAML file
func LoadRules(path string) ([]Rule, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read rules file", goerr.V("path", path))
	}

	var file ruleFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, goerr.Wrap(err, "failed to parse rules file", goerr.V("path", path))
	}

	if len(file.Rules) == 0 {
		return nil, goerr.Wrap(model.ErrValidation, "rules file has no rules", goerr.V("path", path))
	}

	for i, rule := range file.Rules {
		if rule.Analyte == "" {
			return nil, goerr.Wrap(model.ErrValidation, "rule has no analyte", goerr.V("index", i))
		}
		if (rule.Above == nil) == (rule.Below == nil) {
			return nil, goerr.Wrap(model.ErrValidation, "rule must set exactly one of above/below",
				goerr.V("analyte", rule.Analyte))
		}
		if err := rule.Specialist.Validate(); err != nil {
			return nil, goerr.Wrap(err, "rule has invalid specialist", goerr.V("analyte", rule.Analyte))
		}
		if rule.Reasoning == "" {
			return nil, goerr.Wrap(model.ErrValidation, "rule has no reasoning", goerr.V("analyte", rule.Analyte))
		}
	}

	return file.Rules, nil
}
