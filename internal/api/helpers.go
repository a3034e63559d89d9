package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"fixdict/internal/dict"
)

// Deps is what every handler factory needs: the version registry and the
// version served when the caller names none.
type Deps struct {
	Registry       *dict.Registry
	DefaultVersion string
}

// dictionary resolves the request's version (query param "version", falling
// back to the configured default) to a loaded dictionary.
func (d Deps) dictionary(c *gin.Context) (*dict.Dictionary, bool) {
	version := strings.TrimSpace(c.Query("version"))
	if version == "" {
		version = d.DefaultVersion
	}
	dc, err := d.Registry.Get(version)
	if err != nil {
		writeError(c, err)
		return nil, false
	}
	return dc, true
}

// writeError maps the dict error taxonomy onto HTTP statuses.
func writeError(c *gin.Context, err error) {
	var (
		loadErr     *dict.LoadError
		notFound    *dict.NotFoundError
		validation  *dict.ValidationError
		internalErr *dict.InternalError
	)
	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_error",
			"param":   validation.Param,
			"message": validation.Message,
		})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "not_found",
			"message": notFound.Error(),
		})
	case errors.As(err, &loadErr):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "version_unavailable",
			"message": loadErr.Error(),
		})
	case errors.As(err, &internalErr):
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": internalErr.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": err.Error(),
		})
	}
}

// pageParams reads the shared pagination and sort query parameters.
func pageParams(c *gin.Context) (page, pageSize int, sortBy, sortDir string, err error) {
	page, err = intQuery(c, "page", 1)
	if err != nil {
		return
	}
	pageSize, err = intQuery(c, "page_size", 50)
	if err != nil {
		return
	}
	sortBy = strings.TrimSpace(c.Query("sort_by"))
	sortDir = strings.TrimSpace(c.Query("sort_dir"))
	return
}

func intQuery(c *gin.Context, name string, def int) (int, error) {
	v := strings.TrimSpace(c.Query(name))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, &dict.ValidationError{Param: name, Message: "must be an integer"}
	}
	return n, nil
}

func boolQuery(c *gin.Context, name string) bool {
	switch strings.ToLower(strings.TrimSpace(c.Query(name))) {
	case "1", "true", "yes":
		return true
	}
	return false
}
