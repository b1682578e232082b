package marketplace

import "github.com/goliatone/go-marketplace/internal/runtimeconfig"

var (
	ErrAdvancedCacheRequiresEnabledCache = runtimeconfig.ErrAdvancedCacheRequiresEnabledCache
	ErrLoggingProviderRequired           = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown            = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid               = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid              = runtimeconfig.ErrLoggingFormatInvalid
	ErrWorkflowProviderUnknown           = runtimeconfig.ErrWorkflowProviderUnknown
	ErrWorkflowDefinitionsRequired       = runtimeconfig.ErrWorkflowDefinitionsRequired
)

type (
	Config                   = runtimeconfig.Config
	StorageConfig            = runtimeconfig.StorageConfig
	CacheConfig              = runtimeconfig.CacheConfig
	Features                 = runtimeconfig.Features
	LoggingConfig            = runtimeconfig.LoggingConfig
	CommandsConfig           = runtimeconfig.CommandsConfig
	WorkflowConfig           = runtimeconfig.WorkflowConfig
	WorkflowDefinitionConfig = runtimeconfig.WorkflowDefinitionConfig
	WorkflowStateConfig      = runtimeconfig.WorkflowStateConfig
	WorkflowTransitionConfig = runtimeconfig.WorkflowTransitionConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// DefaultWorkflowDefinitions exposes the built-in submission lifecycle tables
// so hosts can extend them before constructing the module.
func DefaultWorkflowDefinitions() []WorkflowDefinitionConfig {
	return runtimeconfig.DefaultWorkflowDefinitions()
}
