package orchestrator

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/examforge/examforge/internal/model"
)

// QuotaOverrides is the on-disk shape of an operator-supplied quota file,
// one subtopic-count map per exam type, loaded at startup to override
// model.DefaultQuota without a rebuild. Grounded on the teacher's
// orchestration.WorkflowDefinition (yaml-tagged struct loaded with
// yaml.Unmarshal) — generalized from a workflow-step definition to a
// quota table, the shape this façade actually needs.
type QuotaOverrides struct {
	ThinkingSkills map[string]int `yaml:"thinking_skills"`
	Math           map[string]int `yaml:"math"`
}

// LoadQuotaOverrides reads a YAML quota file from path. A missing file is
// not an error — callers fall back to model.DefaultQuota entirely.
func LoadQuotaOverrides(path string) (QuotaOverrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return QuotaOverrides{}, nil
		}
		return QuotaOverrides{}, fmt.Errorf("read quota config %s: %w", path, err)
	}

	var overrides QuotaOverrides
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return QuotaOverrides{}, fmt.Errorf("parse quota config %s: %w", path, err)
	}
	return overrides, nil
}

// Quota returns the override for exam if one was loaded, else the
// built-in default.
func (o QuotaOverrides) Quota(exam model.ExamType) map[string]int {
	src := o.ThinkingSkills
	if exam == model.ExamMath {
		src = o.Math
	}
	if len(src) == 0 {
		return model.DefaultQuota(exam)
	}
	out := make(map[string]int, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
