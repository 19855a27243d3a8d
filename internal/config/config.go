package config

type Config interface {
	EnvConfig
	OAuthConfig
	CacheConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
}

type mainConfig struct {
	EnvVars
	OAuth
	Cache
}

func New() Config {
	return mainConfig{}
}
