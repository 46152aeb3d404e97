package shared

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// DecodeJSON reads the request body as JSON into dst. Handlers validate the
// decoded struct themselves; this only covers malformed bodies.
func DecodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("failed to decode request body: %w", err)
	}
	return nil
}
