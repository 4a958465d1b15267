package director

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// WriteScript writes a script to a YAML file
func WriteScript(script *Script, path string) error {
	return writeYAML(script, path)
}

// ReadScript reads a script from a YAML file and orders its keyframes by time
func ReadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var script Script
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("parse script %s: %w", path, err)
	}
	if len(script.Keyframes) == 0 {
		return nil, fmt.Errorf("script %s has no keyframes", path)
	}

	sort.SliceStable(script.Keyframes, func(i, j int) bool {
		return script.Keyframes[i].Time < script.Keyframes[j].Time
	})
	if last := script.Keyframes[len(script.Keyframes)-1].Time; script.Duration < last {
		script.Duration = last
	}

	return &script, nil
}

// WriteStateDump writes sampled timeline states to a YAML file
func WriteStateDump(dump *StateDump, path string) error {
	return writeYAML(dump, path)
}

func writeYAML(v any, path string) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
