package config

// ExtractorConfig defines configuration for the artifact extraction modules
type ExtractorConfig struct {
	// BasePath is the root of the (already decrypted) device filesystem tree
	// the extraction modules read from.
	BasePath string `json:"base_path,omitempty" yaml:"base_path,omitempty" validate:"omitempty,dirpath"`

	EnableVersionHistory   bool `json:"enable_version_history,omitempty" yaml:"enable_version_history,omitempty"`
	EnableCallHistory      bool `json:"enable_call_history,omitempty" yaml:"enable_call_history,omitempty"`
	EnableBrowserHistory   bool `json:"enable_browser_history,omitempty" yaml:"enable_browser_history,omitempty"`
	EnableRunningProcesses bool `json:"enable_running_processes,omitempty" yaml:"enable_running_processes,omitempty"`
}

// NewDefaultExtractorConfig creates default extractor configuration.
// File-based modules are enabled; the live process snapshot is opt-in
// because it inspects the scanning host, not the target image.
func NewDefaultExtractorConfig() ExtractorConfig {
	return ExtractorConfig{
		BasePath:               DefaultExtractorBasePath,
		EnableVersionHistory:   true,
		EnableCallHistory:      true,
		EnableBrowserHistory:   true,
		EnableRunningProcesses: false,
	}
}
