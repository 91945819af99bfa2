package config

// Built-in preprocessor names
const (
	PreprocessorFrontMatter = "frontmatter"
	PreprocessorSentinels   = "sentinels"
)

// PreprocessorConfig holds configuration for a single built-in preprocessor
type PreprocessorConfig struct {
	// Enable turns the preprocessor on or off. Unset keeps its default.
	Enable *bool `toml:"enable"`
}

// PreprocessorConfigs is a map of preprocessor name -> config
type PreprocessorConfigs map[string]*PreprocessorConfig

// Enabled reports whether the named preprocessor should run, falling back to
// def when the book does not say.
func (p PreprocessorConfigs) Enabled(name string, def bool) bool {
	if pc, ok := p[name]; ok && pc != nil && pc.Enable != nil {
		return *pc.Enable
	}
	return def
}

func (p PreprocessorConfigs) set(name string, enable bool) {
	pc, ok := p[name]
	if !ok || pc == nil {
		pc = &PreprocessorConfig{}
		p[name] = pc
	}
	pc.Enable = &enable
}
