package dto

// UpdatePlaceDTO используется при редактировании места.
// Менять можно только название и описание
type UpdatePlaceDTO struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required,min=5"`
}
