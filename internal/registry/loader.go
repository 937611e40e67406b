package registry

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Loader handles loading and parsing of the services.yaml registry file.
type Loader struct {
	filePath string
}

func NewLoader(filePath string) *Loader {
	return &Loader{filePath: filePath}
}

// Load reads and parses the registry file.
func (l *Loader) Load() (*File, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read services file: %w", err)
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse services yaml: %w", err)
	}

	if len(file.Groups) == 0 {
		return nil, fmt.Errorf("services file %s declares no groups", l.filePath)
	}
	for gi, group := range file.Groups {
		if strings.TrimSpace(group.Name) == "" {
			return nil, fmt.Errorf("group %d has no name", gi)
		}
	}
	return &file, nil
}
