package file

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"sitetrack/backend/foundation/web"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	*web.App
	mediaDir string
}

func NewController(app *web.App, mediaDir string) *Controller {
	return &Controller{app, mediaDir}
}

// File serves uploaded media. Paths are cleaned so a request cannot
// escape the media directory.
func (cf Controller) File(c *gin.Context) {
	name := filepath.Clean(c.Param("filepath"))
	if strings.Contains(name, "..") {
		c.JSON(http.StatusBadRequest, map[string]any{
			"error":  "incorrect link",
			"status": false,
		})
		return
	}

	full := filepath.Join(cf.mediaDir, name)
	if info, err := os.Stat(full); err != nil || info.IsDir() {
		c.JSON(http.StatusNotFound, map[string]any{
			"error":  "file not found",
			"status": false,
		})
		return
	}

	c.File(full)
}
