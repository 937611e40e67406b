package registry

// File is the top-level structure of services.yaml.
type File struct {
	Groups []GroupConfig `yaml:"groups"`
}

// GroupConfig is a display grouping of related service endpoints.
type GroupConfig struct {
	Name     string          `yaml:"name"`
	Services []ServiceConfig `yaml:"services"`
}

// ServiceConfig is one registry entry as written in services.yaml.
type ServiceConfig struct {
	Key   string `yaml:"key"`
	Label string `yaml:"label"`
	Kind  string `yaml:"kind"`
	URL   string `yaml:"url"`
}
