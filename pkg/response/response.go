// Package response centralizes the JSON bodies handlers reply with so every
// endpoint speaks the same wire format.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Message writes a {"message": ...} body, the format used by every plain
// error response (validation, not-found, conflict, auth).
func Message(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"message": msg})
}

// Internal writes the generic 500 body. Details stay in the server log.
func Internal(c *gin.Context) {
	Message(c, http.StatusInternalServerError, "Internal server error")
}

// Envelope is the {success,...} wrapper used by the prescriptions endpoints.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Count   *int        `json:"count,omitempty"`
	Message string      `json:"message,omitempty"`
}

// EnvelopeData writes a successful envelope.
func EnvelopeData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Envelope{Success: true, Data: data})
}

// EnvelopeList writes a successful envelope including a count.
func EnvelopeList(c *gin.Context, status int, data interface{}, count int) {
	c.JSON(status, Envelope{Success: true, Data: data, Count: &count})
}

// EnvelopeFail writes a failed envelope with a human-readable message.
func EnvelopeFail(c *gin.Context, status int, msg string) {
	c.JSON(status, Envelope{Success: false, Message: msg})
}
