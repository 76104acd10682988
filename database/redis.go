package database

import (
	"context"
	"log"
	"os"

	"github.com/go-redis/redis/v8"
)

// RedisClient — глобальный клиент Redis, используется как кеш геокодера.
// Остаётся nil, если REDIS_HOST не задан: тогда геокодер работает без кеша
var RedisClient *redis.Client
var ctx = context.Background()

func InitRedis() {
	redisHost := os.Getenv("REDIS_HOST")
	redisPort := os.Getenv("REDIS_PORT")
	redisPassword := os.Getenv("REDIS_PASSWORD")

	if redisHost == "" {
		log.Println("REDIS_HOST не задан, кеширование геокодера отключено")
		return
	}
	if redisPort == "" {
		redisPort = "6379"
	}

	client := redis.NewClient(&redis.Options{
		Addr:     redisHost + ":" + redisPort,
		Password: redisPassword, // Пароль (если есть)
		DB:       0,
	})

	// Проверяем подключение
	if _, err := client.Ping(ctx).Result(); err != nil {
		log.Fatalf("Ошибка подключения к Redis: %v", err)
	}

	RedisClient = client
	log.Println("Подключение к Redis успешно установлено!")
}
