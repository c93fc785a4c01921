package server

import (
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"
)

// SetupAssets serves the embedded front-end: the chat page at / and the rest
// of the bundle under /static.
func SetupAssets(r *gin.Engine, assets fs.FS) error {
	staticFiles, err := fs.Sub(assets, "static")
	if err != nil {
		return err
	}
	r.StaticFS("/static", http.FS(staticFiles))
	r.GET("/", func(c *gin.Context) {
		c.FileFromFS("index.html", http.FS(staticFiles))
	})
	return nil
}
