package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/Nirob844/mini-e-commerce-microservices/shared/apperr"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/validation"
)

// BindAndValidate decodes the JSON body into obj and checks its validate
// tags. On failure it writes the error response and returns false.
func BindAndValidate(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		RespondWithError(c, apperr.Validation("Invalid request data", nil))
		return false
	}
	if err := validation.Check(obj); err != nil {
		RespondWithError(c, err)
		return false
	}
	return true
}
