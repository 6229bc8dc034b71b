package response

import (
	"bookingdesk/internal/shared/apperror"

	"github.com/gin-gonic/gin"
)

func RespondJSON(c *gin.Context, status string, code int, message string, data interface{}, errors interface{}) {
	c.JSON(code, StandardApiResponse{
		Status:     status,
		StatusCode: code,
		Message:    message,
		Data:       data,
		Errors:     errors,
	})
}

// RespondError writes err using the status code of its error kind
func RespondError(c *gin.Context, message string, err error) {
	code := apperror.HTTPStatus(err)
	RespondJSON(c, "error", code, message, nil, err.Error())
}

// RespondPDF streams a PDF as an attachment download
func RespondPDF(c *gin.Context, filename string, data []byte) {
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(200, "application/pdf", data)
}
