package models

import "time"

// Location — географические координаты места
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Place представляет сущность места
type Place struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title" gorm:"not null"`                             // Название места
	Description string    `json:"description" gorm:"not null"`                       // Описание места
	Address     string    `json:"address" gorm:"not null"`                           // Почтовый адрес
	Location    Location  `json:"location" gorm:"embedded;embeddedPrefix:location_"` // Координаты, вычисляются из адреса при создании
	Image       string    `json:"image"`                                             // Путь к загруженному изображению
	CreatorID   uint      `json:"creator" gorm:"not null;index"`                     // Внешний ключ для связи с User
	CreatedAt   time.Time `json:"created_at" gorm:"default:CURRENT_TIMESTAMP"`       // Время создания записи
	Creator     User      `json:"-" gorm:"foreignKey:CreatorID;constraint:onUpdate:CASCADE,onDelete:CASCADE"`
}
