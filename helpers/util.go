package helpers

import (
	"fmt"
	"strings"
)

// PageURL returns the catalog URL of a 1-based page index. Page 1 is the
// bare base URL, later pages append /page{k}.
func PageURL(baseURL string, page int) string {
	if page <= 1 {
		return baseURL
	}
	return fmt.Sprintf("%s/page%d", strings.TrimRight(baseURL, "/"), page)
}
