package fsm

import (
	"os"

	"gopkg.in/yaml.v3"
)

type sampleState struct {
	Accept bool   `yaml:"accept"`
	Label  string `yaml:"label,omitempty"`
}

type sampleTransition struct {
	To string `yaml:"to"`
	On string `yaml:"on"`
}

type sampleDocument struct {
	Name        string                        `yaml:"name"`
	Description string                        `yaml:"description"`
	DFA         bool                          `yaml:"dfa"`
	Alphabet    []string                      `yaml:"alphabet"`
	States      map[string]sampleState        `yaml:"states"`
	StartState  string                        `yaml:"start_state"`
	Transitions map[string][]sampleTransition `yaml:"transitions"`
}

// GenerateSample writes a sample specification to filePath: a two-state DFA
// over {0,1} accepting strings with an odd number of ones.
func GenerateSample(filePath string) error {
	doc := sampleDocument{
		Name:        "odd-ones",
		Description: "accepts binary strings containing an odd number of ones",
		DFA:         true,
		Alphabet:    []string{"01"},
		States: map[string]sampleState{
			"even": {Accept: false, Label: "even ones"},
			"odd":  {Accept: true, Label: "odd ones"},
		},
		StartState: "even",
		Transitions: map[string][]sampleTransition{
			"even": {
				{To: "even", On: "0"},
				{To: "odd", On: "1"},
			},
			"odd": {
				{To: "odd", On: "0"},
				{To: "even", On: "1"},
			},
		},
	}
	bin, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, bin, 0644)
}
