package controllers

import (
	"errors"
	"net/http"

	"github.com/dev-kani/MERN-FavPlaces-Project-Backend/models"

	"github.com/gin-gonic/gin"
)

// respondError — единая точка отправки ошибок клиенту.
// Тело ошибки всегда имеет вид {"message": "..."}.
// Для models.HTTPError берётся его статус, любая другая ошибка уходит как 500
func respondError(ctx *gin.Context, err error) {
	var httpErr *models.HTTPError
	if errors.As(err, &httpErr) {
		ctx.JSON(httpErr.Status(), MessageResponse{Message: httpErr.Message})
		return
	}
	ctx.JSON(http.StatusInternalServerError, MessageResponse{Message: err.Error()})
}
