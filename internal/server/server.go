// Package server serves rendered assay pages and the document assembler
// over HTTP.
package server

import (
	"encoding/hex"
	"errors"
	"io/fs"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pachterlab/seqspec/config"
	"github.com/pachterlab/seqspec/internal/assemble"
	"github.com/pachterlab/seqspec/internal/load"
	"github.com/pachterlab/seqspec/internal/render"
	"github.com/pachterlab/seqspec/internal/spec"
	"github.com/zeebo/blake3"
)

var stderr = log.New(os.Stderr, "", 0)

// New returns the router of the server.
func New(conf *config.Config) *gin.Engine {
	router := gin.Default()

	// a local stylesheet is served from the root so every page finds it
	c := *conf
	if s := c.Render.Stylesheet; s != "" && !strings.Contains(s, ":") {
		c.Render.Stylesheet = "/" + strings.TrimLeft(s, "/")
		router.GET(c.Render.Stylesheet, NewStyleHandler())
	}

	renderer := render.New(&c)
	if c.Verbose {
		renderer.Warn = func(w spec.MissingFieldWarning) { stderr.Println(w) }
	}

	router.POST("/render", NewRenderHandler(renderer))
	router.GET("/assays/:name", NewAssayHandler(conf.Serve.Dir, renderer))
	router.POST("/assemble/:kind", NewAssembleHandler())
	return router
}

// Run serves on the configured address until the server fails.
func Run(conf *config.Config) error {
	return New(conf).Run(conf.Serve.Addr)
}

// NewStyleHandler returns a handler that serves the page stylesheet.
func NewStyleHandler() func(c *gin.Context) {
	return func(c *gin.Context) {
		c.Data(http.StatusOK, "text/css; charset=utf-8", []byte(render.Palette))
	}
}

// NewRenderHandler returns a handler that renders the assay document in the
// request body. JSON bodies may have comments and trailing commas.
func NewRenderHandler(renderer *render.Renderer) func(c *gin.Context) {
	return func(c *gin.Context) {
		body, err := c.GetRawData()
		if err != nil {
			c.String(http.StatusBadRequest, "Error reading body")
			return
		}

		var assay *spec.Assay
		if strings.Contains(c.ContentType(), "json") {
			assay, err = load.AssayJSONC(body)
		} else {
			assay, err = load.Assay(body)
		}
		if err != nil {
			fail(c, err)
			return
		}

		page(c, renderer, assay)
	}
}

// NewAssayHandler returns a handler that renders <directory>/<name>.yaml.
func NewAssayHandler(directory string, renderer *render.Renderer) func(c *gin.Context) {
	return func(c *gin.Context) {
		name := c.Param("name")
		if name == "" || filepath.Base(name) != name {
			c.String(http.StatusBadRequest, "Invalid assay name")
			return
		}

		assay, err := load.File(filepath.Join(directory, name+".yaml"))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				c.String(http.StatusNotFound, "Error finding the assay")
				return
			}
			fail(c, err)
			return
		}

		page(c, renderer, assay)
	}
}

// NewAssembleHandler returns a handler that builds a document fragment from
// the posted form.
func NewAssembleHandler() func(c *gin.Context) {
	return func(c *gin.Context) {
		kind, err := assemble.ParseKind(c.Param("kind"))
		if err != nil {
			c.String(http.StatusNotFound, err.Error())
			return
		}
		if err := c.Request.ParseForm(); err != nil {
			c.String(http.StatusBadRequest, "Error parsing form")
			return
		}

		doc, err := assemble.Build(kind, formFields(kind, c))
		if err != nil {
			c.String(http.StatusBadRequest, err.Error())
			return
		}
		c.Data(http.StatusOK, "application/yaml; charset=utf-8", doc)
	}
}

// formFields orders the posted form: the kind's keys first, then the rest
// by name.
func formFields(kind assemble.Kind, c *gin.Context) assemble.Fields {
	var fields assemble.Fields
	known := map[string]bool{}
	for _, key := range assemble.Keys(kind) {
		known[key] = true
		if v, ok := c.GetPostForm(key); ok {
			fields = append(fields, assemble.Field{Key: key, Value: v})
		}
	}

	var rest []string
	for key := range c.Request.PostForm {
		if !known[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	for _, key := range rest {
		fields = append(fields, assemble.Field{Key: key, Value: c.Request.PostForm.Get(key)})
	}
	return fields
}

// page writes a rendered assay, or 304 if the client has it already.
func page(c *gin.Context, renderer *render.Renderer, assay *spec.Assay) {
	html, err := renderer.RenderAssayPage(assay)
	if err != nil {
		fail(c, err)
		return
	}

	tag := ETag([]byte(html))
	c.Header("ETag", tag)
	if c.GetHeader("If-None-Match") == tag {
		c.Status(http.StatusNotModified)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

// ETag is the quoted blake3 digest of a page.
func ETag(page []byte) string {
	sum := blake3.Sum256(page)
	return `"` + hex.EncodeToString(sum[:16]) + `"`
}

// fail writes the status of an error: 400 for a document that won't load,
// 422 for a region tree that can't be rendered.
func fail(c *gin.Context, err error) {
	var loadErr *spec.LoadError
	var structErr *spec.StructuralError
	switch {
	case errors.As(err, &structErr):
		c.String(http.StatusUnprocessableEntity, structErr.Error())
	case errors.As(err, &loadErr):
		c.String(http.StatusBadRequest, loadErr.Error())
	default:
		c.String(http.StatusInternalServerError, err.Error())
	}
}
