package models

// User представляет сущность пользователя
type User struct {
	ID       uint   `json:"id" gorm:"primary_key"`
	Username string `json:"username" gorm:"unique"`
	Password string `json:"-"`
	Email    string `json:"email" gorm:"unique"`
	// PlacesCount обновляется в той же транзакции, что и запись места,
	// чтобы пользователь и его места не расходились при сбое
	PlacesCount uint    `json:"places_count" gorm:"not null;default:0"`
	Places      []Place `json:"places,omitempty" gorm:"foreignKey:CreatorID"` // Места пользователя в порядке создания
}
