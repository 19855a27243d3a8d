package config

type CacheConfig interface {
	GetRedisAddr() string
	GetRedisPassword() string
	GetRedisDB() int
}

type Cache struct{}

var _ CacheConfig = Cache{}

func (Cache) GetRedisAddr() string {
	return GetEnv("REDIS_ADDR", "localhost:6379")
}

func (Cache) GetRedisPassword() string {
	return GetEnv("REDIS_PASSWORD", "")
}

func (Cache) GetRedisDB() int {
	return envInt("REDIS_DB", 0)
}
