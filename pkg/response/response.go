// Package response renders the JSON envelope shared by every endpoint:
// {success, data?, message?, error?, total?}.
package response

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Envelope is the wire shape of every API response.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
	Total   *int        `json:"total,omitempty"`
}

// OK writes a 200 envelope with data.
func OK(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

// OKMessage writes a 200 envelope with a message and no data.
func OKMessage(c echo.Context, message string) error {
	return c.JSON(http.StatusOK, Envelope{Success: true, Message: message})
}

// Created writes a 201 envelope with data and a message.
func Created(c echo.Context, message string, data interface{}) error {
	return c.JSON(http.StatusCreated, Envelope{Success: true, Message: message, Data: data})
}

// List writes a 200 envelope with a collection and its total.
func List(c echo.Context, data interface{}, total int) error {
	return c.JSON(http.StatusOK, Envelope{Success: true, Data: data, Total: &total})
}

// Fail writes an error envelope. code is the stable error code clients
// switch on; message is human-readable.
func Fail(c echo.Context, status int, code, message string) error {
	return c.JSON(status, Envelope{Success: false, Error: code, Message: message})
}
