package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope is the wire format shared by every endpoint. Data carries the
// payload on success and optional context (such as balance details) on
// failure. ErrCode and ErrorMsg are set only on failure.
type Envelope struct {
	Success  bool   `json:"success"`
	Data     any    `json:"data"`
	ErrCode  string `json:"errCode,omitempty"`
	ErrorMsg string `json:"errorMsg,omitempty"`
}

// Success writes a 200 success envelope.
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

// Created writes a 201 success envelope.
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: data})
}

// Fail writes a failure envelope with a null data field.
func Fail(c *gin.Context, status int, errCode, errorMsg string) {
	c.JSON(status, Envelope{Success: false, Data: nil, ErrCode: errCode, ErrorMsg: errorMsg})
}

// FailWithData writes a failure envelope carrying extra context, such as
// the current balance on an insufficient-balance rejection.
func FailWithData(c *gin.Context, status int, errCode, errorMsg string, data any) {
	c.JSON(status, Envelope{Success: false, Data: data, ErrCode: errCode, ErrorMsg: errorMsg})
}
