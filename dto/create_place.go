package dto

// CreatePlaceDTO — данные multipart-формы для создания места.
// Файл изображения передаётся отдельным полем "image".
// Поле coordinates принимается от клиента, но не используется:
// координаты всегда пересчитываются по адресу на сервере.
type CreatePlaceDTO struct {
	Title       string `form:"title" binding:"required"`
	Description string `form:"description" binding:"required,min=5"`
	Address     string `form:"address" binding:"required"`
	Coordinates string `form:"coordinates"`
}
