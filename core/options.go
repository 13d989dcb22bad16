package core

import (
	_ "embed"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

//go:embed assets/options.yaml
var optionsYAML []byte

// Option is one entry of a dropdown selection.
type Option struct {
	Value string `yaml:"value"`
	Label string `yaml:"label"`
}

type OptionList []Option

// Has reports whether value is one of the list's values.
func (ol OptionList) Has(value string) bool {
	for _, opt := range ol {
		if opt.Value == value {
			return true
		}
	}
	return false
}

// Label returns the label of value, or value itself when unknown.
func (ol OptionList) Label(value string) string {
	for _, opt := range ol {
		if opt.Value == value {
			return opt.Label
		}
	}
	return value
}

// Options holds the dropdown catalogs used across the forms.
type Options struct {
	Programs      OptionList `yaml:"programs"`
	FAQCategories OptionList `yaml:"faqCategories"`
	ProjectRoles  []string   `yaml:"projectRoles"`
}

// LoadOptions parses the embedded option catalogs.
func LoadOptions() (Options, error) {
	return ParseOptions(optionsYAML)
}

func ParseOptions(data []byte) (Options, error) {
	var opts Options
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return Options{}, errors.Wrap(err, "parsing options")
	}
	for i, opt := range opts.Programs {
		if opt.Label == "" {
			opts.Programs[i].Label = opt.Value
		}
	}
	for i, opt := range opts.FAQCategories {
		if opt.Label == "" {
			opts.FAQCategories[i].Label = opt.Value
		}
	}
	return opts, nil
}
