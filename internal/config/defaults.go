package config

const (
	defaultConfigPath        = "~/.config/savekeeper/config.toml"
	defaultDataDir           = "~/.local/share/savekeeper"
	defaultCachePath         = "~/.local/share/savekeeper/cache.bin"
	defaultLogDir            = "~/.local/share/savekeeper/logs"
	defaultBackupDir         = "~/savekeeper"
	defaultRegistryPath      = "~/.local/share/savekeeper/registry.db"
	defaultMetadataLanguage  = "en"
	defaultReconcileInterval = 2
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:   defaultDataDir,
			CachePath: defaultCachePath,
			LogDir:    defaultLogDir,
			BackupDir: defaultBackupDir,
		},
		Device: Device{
			RegistryPath: defaultRegistryPath,
		},
		Catalog: Catalog{
			MetadataLanguage:  defaultMetadataLanguage,
			ReconcileInterval: defaultReconcileInterval,
			UseNetlink:        true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
