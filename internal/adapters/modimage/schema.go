package modimage

// Image is the YAML symbol document a host runtime publishes for a compiled module.
type Image struct {
	Module string    `yaml:"module"`
	Types  []TypeDTO `yaml:"types"`
}

// TypeDTO is one type declared by the module.
type TypeDTO struct {
	Name    string      `yaml:"name"`
	Methods []MethodDTO `yaml:"methods"`
}

// MethodDTO is one method of a type. Address is absent for methods that have
// not been compiled yet.
type MethodDTO struct {
	Name       string   `yaml:"name"`
	Visibility string   `yaml:"visibility"`
	Static     bool     `yaml:"static"`
	Flags      []string `yaml:"flags"`
	Address    *uint64  `yaml:"address"`
}
