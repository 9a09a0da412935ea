package config

// Config is the generator configuration.
type Config struct {
	// Version is the schema version of the file.
	Version string `yaml:"version"`
	// RuntimeImport is the import path of the factory runtime package.
	RuntimeImport string `yaml:"runtime_import"`
	// OutputSuffix replaces ".go" in the declaring file name.
	OutputSuffix string `yaml:"output_suffix"`
	// Defaults apply to declarations that omit the corresponding option.
	Defaults Defaults `yaml:"defaults"`
	// GenerateComments enables doc comments in generated code.
	GenerateComments *bool `yaml:"generate_comments,omitempty"`
	// DebugUnformatted writes a .unformatted.go sidecar when formatting fails.
	DebugUnformatted *bool `yaml:"debug_unformatted,omitempty"`
}

// Defaults are the directive option defaults.
type Defaults struct {
	IDName     string `yaml:"id_name"`
	IDType     string `yaml:"id_type"`
	Connection string `yaml:"connection"`
}

// CommentsEnabled reports whether generated code carries doc comments.
func (c *Config) CommentsEnabled() bool {
	return c.GenerateComments == nil || *c.GenerateComments
}

// DebugEnabled reports whether unformatted debug sidecars are written.
func (c *Config) DebugEnabled() bool {
	return c.DebugUnformatted == nil || *c.DebugUnformatted
}
