package middleware

import (
	"strconv"

	"notekeep/utils"

	"github.com/gin-gonic/gin"
)

const NoteIDKey = "note_id"

// ParseNoteID reads the :id path parameter. A malformed id is answered the
// same way as any other store failure: 500 with the underlying message.
func ParseNoteID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			utils.TrackError("validation", "note_id")
			utils.InternalError(c, err.Error())
			c.Abort()
			return
		}
		c.Set(NoteIDKey, id)
		c.Next()
	}
}
