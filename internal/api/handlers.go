package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"fixdict/internal/dict"
)

// GET /health
func HealthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "fixdict"})
	}
}

// GET /api/versions
func VersionsHandler(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, d.Registry.Versions())
	}
}

// GET /api/search
func SearchHandler(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		dc, ok := d.dictionary(c)
		if !ok {
			return
		}
		term := strings.TrimSpace(c.Query("query"))
		if term == "" {
			writeError(c, &dict.ValidationError{Param: "query", Message: "must not be empty"})
			return
		}
		typ := dict.SearchType(strings.ToLower(strings.TrimSpace(c.Query("search_type"))))
		resp, err := dc.Search(term, typ, boolQuery(c, "is_regex"), boolQuery(c, "match_abbr_only"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// listHandler builds a paginated listing endpoint from an entity type and its
// query-param filter mapping.
func listHandler(d Deps, entity dict.EntityType, filters func(*gin.Context) (dict.Filters, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		dc, ok := d.dictionary(c)
		if !ok {
			return
		}
		page, pageSize, sortBy, sortDir, err := pageParams(c)
		if err != nil {
			writeError(c, err)
			return
		}
		fs, err := filters(c)
		if err != nil {
			writeError(c, err)
			return
		}
		result, err := dc.QueryPage(entity, fs, sortBy, sortDir, page, pageSize)
		if err != nil {
			writeError(c, err)
			return
		}
		c.Header("X-Total-Count", strconv.Itoa(result.TotalCount))
		c.JSON(http.StatusOK, result)
	}
}

// GET /api/messages
func ListMessagesHandler(d Deps) gin.HandlerFunc {
	return listHandler(d, dict.EntityMessages, func(c *gin.Context) (dict.Filters, error) {
		fs := dict.Filters{}
		addEquals(fs, "category", c.Query("category"))
		addEquals(fs, "section", c.Query("section"))
		addEquals(fs, "msg_type", c.Query("msg_type"))
		addContains(fs, "name", c.Query("name_contains"))
		return fs, nil
	})
}

// GET /api/fields
func ListFieldsHandler(d Deps) gin.HandlerFunc {
	return listHandler(d, dict.EntityFields, func(c *gin.Context) (dict.Filters, error) {
		fs := dict.Filters{}
		addEquals(fs, "datatype", c.Query("datatype"))
		addContains(fs, "name", c.Query("name_contains"))
		if err := addRange(fs, "tag", c); err != nil {
			return nil, err
		}
		return fs, nil
	})
}

// GET /api/components
func ListComponentsHandler(d Deps) gin.HandlerFunc {
	return listHandler(d, dict.EntityComponents, func(c *gin.Context) (dict.Filters, error) {
		fs := dict.Filters{}
		addEquals(fs, "category", c.Query("category"))
		addEquals(fs, "component_type", c.Query("component_type"))
		addContains(fs, "name", c.Query("name_contains"))
		return fs, nil
	})
}

// GET /api/codesets
func ListCodesetsHandler(d Deps) gin.HandlerFunc {
	return listHandler(d, dict.EntityCodesets, func(c *gin.Context) (dict.Filters, error) {
		fs := dict.Filters{}
		addEquals(fs, "datatype", c.Query("datatype"))
		addContains(fs, "name", c.Query("name_contains"))
		return fs, nil
	})
}

func addEquals(fs dict.Filters, col, val string) {
	if strings.TrimSpace(val) != "" {
		fs[col] = dict.Filter{Op: dict.OpEquals, Value: strings.TrimSpace(val)}
	}
}

func addContains(fs dict.Filters, col, val string) {
	if strings.TrimSpace(val) != "" {
		fs[col] = dict.Filter{Op: dict.OpContains, Value: strings.TrimSpace(val)}
	}
}

func addRange(fs dict.Filters, col string, c *gin.Context) error {
	f := dict.Filter{Op: dict.OpRange}
	if v := strings.TrimSpace(c.Query(col + "_min")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return &dict.ValidationError{Param: col + "_min", Message: "must be an integer"}
		}
		f.Min, f.HasMin = n, true
	}
	if v := strings.TrimSpace(c.Query(col + "_max")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return &dict.ValidationError{Param: col + "_max", Message: "must be an integer"}
		}
		f.Max, f.HasMax = n, true
	}
	if f.HasMin || f.HasMax {
		fs[col] = f
	}
	return nil
}

// GET /api/messages/:msgType
func GetMessageHandler(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		dc, ok := d.dictionary(c)
		if !ok {
			return
		}
		detail, err := dc.MessageDetailByType(c.Param("msgType"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, detail)
	}
}

// GET /api/fields/:tag
func GetFieldHandler(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		dc, ok := d.dictionary(c)
		if !ok {
			return
		}
		tag, err := strconv.Atoi(c.Param("tag"))
		if err != nil {
			writeError(c, &dict.ValidationError{Param: "tag", Message: "must be an integer"})
			return
		}
		detail, err := dc.FieldDetailByTag(tag)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, detail)
	}
}

// GET /api/fields/name/:name
func GetFieldByNameHandler(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		dc, ok := d.dictionary(c)
		if !ok {
			return
		}
		detail, err := dc.FieldDetailByName(c.Param("name"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, detail)
	}
}

// GET /api/components/:name
func GetComponentHandler(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		dc, ok := d.dictionary(c)
		if !ok {
			return
		}
		detail, err := dc.ComponentDetailByName(c.Param("name"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, detail)
	}
}

// GET /api/codesets/:tag
func GetCodesetHandler(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		dc, ok := d.dictionary(c)
		if !ok {
			return
		}
		tag, err := strconv.Atoi(c.Param("tag"))
		if err != nil {
			writeError(c, &dict.ValidationError{Param: "tag", Message: "must be an integer"})
			return
		}
		enums, err := dc.Codeset(tag)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, enums)
	}
}

// GET /api/sections
func SectionsHandler(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		dc, ok := d.dictionary(c)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, dc.Sections)
	}
}

// GET /api/categories
func CategoriesHandler(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		dc, ok := d.dictionary(c)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, dc.Categories)
	}
}

// GET /api/datatypes
func DatatypesHandler(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		dc, ok := d.dictionary(c)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, dc.Datatypes)
	}
}

// GET /api/abbreviations
func AbbreviationsHandler(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		dc, ok := d.dictionary(c)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, dc.Abbreviations)
	}
}

// POST /api/grid/:entity — server-driven row model requests from the grid.
func GridHandler(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		dc, ok := d.dictionary(c)
		if !ok {
			return
		}
		var req dict.GetRowsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, &dict.ValidationError{Param: "body", Message: "invalid JSON: " + err.Error()})
			return
		}
		result, err := dc.GetRows(c.Param("entity"), req)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}
