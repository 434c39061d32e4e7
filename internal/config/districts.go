package config

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default_districts.yaml
var defaultDistrictsFS embed.FS

type districtFile struct {
	State     string   `yaml:"state"`
	Districts []string `yaml:"districts"`
}

// Districts is the list of police districts offered on the dashboard.
type Districts struct {
	State string
	Names []string
}

// Contains reports whether name is one of the configured districts (case-insensitive).
func (d Districts) Contains(name string) bool {
	for _, n := range d.Names {
		if strings.EqualFold(n, name) {
			return true
		}
	}
	return false
}

// LoadDistricts reads the district list from path, or the embedded default when path is empty.
func LoadDistricts(path string) (Districts, error) {
	var (
		data []byte
		err  error
	)
	if path == "" {
		data, err = defaultDistrictsFS.ReadFile("default_districts.yaml")
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return Districts{}, fmt.Errorf("reading districts: %w", err)
	}
	return parseDistricts(data)
}

func parseDistricts(data []byte) (Districts, error) {
	var f districtFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Districts{}, fmt.Errorf("parsing districts: %w", err)
	}
	names := make([]string, 0, len(f.Districts))
	for _, n := range f.Districts {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	if len(names) == 0 {
		return Districts{}, errors.New("districts: list is empty")
	}
	return Districts{State: f.State, Names: names}, nil
}
