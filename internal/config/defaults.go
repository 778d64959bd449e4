package config

// Default configuration values. Required build-mode structure gets no
// defaults; these cover only cosmetic fields.
const (
	DefaultConfigFile  = "project.yaml"
	DefaultLanguage    = "c"
	DefaultOutputName  = "a.out"
	DefaultOutputDir   = "build/"
	DefaultCCompiler   = "gcc"
	DefaultCXXCompiler = "g++"
)
