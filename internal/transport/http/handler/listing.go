package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"issue-tracker/internal/query"
)

// 这些 key 是分页/排序参数，其余一律当作列表过滤条件
var reservedParams = map[string]struct{}{
	"search": {}, "sort_key": {}, "sort_value": {},
	"page": {}, "page_size": {}, "limit": {},
}

func setScalar(r *query.Request, key, val string) {
	switch key {
	case "search":
		r.Search = val
	case "sort_key":
		r.SortKey = val
	case "sort_value":
		r.SortValue = val
	case "page":
		r.Page = val
	case "page_size", "limit":
		if r.PageSize == "" || key == "page_size" {
			r.PageSize = val
		}
	}
}

// listRequest collects listing parameters from the query string. Filter keys
// may be repeated (?title=a&title=b) and may carry a [] suffix.
func listRequest(c *gin.Context) query.Request {
	r := query.Request{Lists: map[string][]string{}}
	q := c.Request.URL.Query()
	keys := make([]string, 0, len(q))
	for k := range q {
		keys = append(keys, k)
	}
	// limit 先于 page_size 处理，page_size 优先
	sort.Strings(keys)
	for _, k := range keys {
		vals := q[k]
		name := strings.TrimSuffix(k, "[]")
		if _, ok := reservedParams[name]; ok {
			setScalar(&r, name, vals[len(vals)-1])
			continue
		}
		r.Lists[name] = append(r.Lists[name], vals...)
	}
	return r
}

// mergeJSONBody overlays listing parameters sent as a JSON object body. Body
// values win over the query string. Filter values that are not an array of
// strings are reported as malformed.
func mergeJSONBody(c *gin.Context, r *query.Request) error {
	if c.Request.Body == nil || c.Request.Body == http.NoBody || c.Request.ContentLength == 0 {
		return nil
	}
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	var body map[string]json.RawMessage
	if err := json.Unmarshal(raw, &body); err != nil {
		return err
	}
	keys := make([]string, 0, len(body))
	for k := range body {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := body[k]
		if _, ok := reservedParams[k]; ok {
			setScalar(r, k, scalar(v))
			continue
		}
		var list []string
		if err := json.Unmarshal(v, &list); err != nil {
			r.Malformed = append(r.Malformed, k)
			continue
		}
		r.Lists[k] = list
	}
	return nil
}

// scalar renders a JSON string or number as the raw text a query string would carry.
func scalar(v json.RawMessage) string {
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(v, &n); err == nil {
		return n.String()
	}
	return strings.TrimSpace(string(v))
}

func parseID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	return id, err == nil && id > 0
}
