package database

import "testing"

// Без REDIS_HOST инициализация не валит процесс, а оставляет клиент nil:
// геокодер в этом режиме просто не кеширует результаты
func TestInitRedisWithoutHost(t *testing.T) {
	t.Setenv("REDIS_HOST", "")

	RedisClient = nil
	InitRedis()

	if RedisClient != nil {
		t.Error("без REDIS_HOST клиент Redis должен оставаться nil")
	}
}
