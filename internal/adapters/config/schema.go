package config

// Hotswapfile represents the structure of the hotswap.yaml configuration file.
type Hotswapfile struct {
	Root      string `yaml:"root"`
	Pattern   string `yaml:"pattern"`
	Recursive bool   `yaml:"recursive"`
	Delay     string `yaml:"delay"`
	Log       LogDTO `yaml:"log"`
	Trace     bool   `yaml:"trace"`
}

// LogDTO represents the logging section of the configuration.
type LogDTO struct {
	JSON bool `yaml:"json"`
}
