package main

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/specworks/refcrawl"
)

// specList is the YAML shape accepted by --list.
type specList struct {
	Specs []string `yaml:"specs"`
}

// LoadSpecList reads spec URLs or shortnames from a YAML file. Both a
// top-level `specs:` list and a bare list of strings are accepted.
func LoadSpecList(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, refcrawl.Errorf(refcrawl.EINVALID, "reading spec list: %v", err)
	}

	var list specList
	if err := yaml.Unmarshal(data, &list); err == nil && len(list.Specs) > 0 {
		return trimEmpty(list.Specs), nil
	}

	var bare []string
	if err := yaml.Unmarshal(data, &bare); err != nil {
		return nil, refcrawl.Errorf(refcrawl.EINVALID, "spec list %s: expected a 'specs:' list or a list of strings", path)
	}
	return trimEmpty(bare), nil
}

func trimEmpty(specs []string) []string {
	out := specs[:0]
	for _, s := range specs {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
