package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorMapping binds a sentinel error to the status and code it should
// produce on the wire. Handlers declare their mappings once and route
// every service error through HandleError.
type ErrorMapping struct {
	Err    error
	Status int
	Code   string
}

// HandleError writes the failure envelope for err using the first
// matching mapping. Unmapped errors are logged and reported as a
// generic internal error so vendor payloads never leak to clients.
func HandleError(c *gin.Context, log *zap.Logger, err error, mappings []ErrorMapping) {
	for _, m := range mappings {
		if errors.Is(err, m.Err) {
			Fail(c, m.Status, m.Code, err.Error())
			return
		}
	}
	log.Error("unhandled error",
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	Fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}
