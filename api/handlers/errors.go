package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"filmorate/services"

	"github.com/gin-gonic/gin"
)

// errorClass - класс ошибки для ответа и метрик
func errorClass(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, services.ErrValidation):
		return "validation"
	case errors.Is(err, services.ErrNotFound):
		return "not_found"
	default:
		return "internal"
	}
}

// respondError переводит ошибку сервиса в HTTP-статус
func respondError(c *gin.Context, err error) {
	switch errorClass(err) {
	case "validation":
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case "not_found":
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		log.Printf("ERROR: %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// pathID читает числовой параметр пути, при ошибке сразу отвечает 400
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return id, true
}

// queryInt читает необязательный целый параметр запроса
func queryInt(c *gin.Context, name string, def int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return v, true
}

// queryID читает необязательный id из параметров запроса; nil - параметр не передан
func queryID(c *gin.Context, name string) (*int64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return nil, false
	}
	return &id, true
}

func bindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}
