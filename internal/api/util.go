package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/ericogr/kids-games/internal/auth"
	"github.com/ericogr/kids-games/internal/constants"
	"github.com/ericogr/kids-games/internal/service"
	"github.com/gin-gonic/gin"
)

// renamedKeys maps gorm.Model's exported field names to the snake_case keys
// clients expect.
var renamedKeys = map[string]string{
	"ID":        "id",
	"CreatedAt": "created_at",
	"UpdatedAt": "updated_at",
	"DeletedAt": "deleted_at",
}

// normalizeModelKeys recursively renames gorm.Model keys so clients
// consistently receive snake_case names.
func normalizeModelKeys(v interface{}) interface{} {
	switch vv := v.(type) {
	case map[string]interface{}:
		for k, val := range vv {
			vv[k] = normalizeModelKeys(val)
		}
		for from, to := range renamedKeys {
			if val, ok := vv[from]; ok {
				vv[to] = val
				delete(vv, from)
			}
		}
		return vv
	case []interface{}:
		for i := range vv {
			vv[i] = normalizeModelKeys(vv[i])
		}
		return vv
	default:
		return v
	}
}

// MarshalSnakeModel marshals v into JSON, decodes it into a generic value and
// normalizes gorm.Model keys. It is used for API responses built from
// persisted models.
func MarshalSnakeModel(v interface{}) (interface{}, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out interface{}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return normalizeModelKeys(out), nil
}

func principal(c *gin.Context) auth.Principal {
	return auth.PrincipalFromContext(c.Request.Context())
}

func parseID(s string) (uint, bool) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

// statusFor maps service errors onto HTTP statuses and user-facing messages.
func statusFor(err error, fallback string) (int, string) {
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusForbidden, constants.ErrNotAllowed
	case errors.Is(err, service.ErrInvalidRequest):
		return http.StatusBadRequest, constants.ErrInvalidRequest
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, constants.ErrGameNotFound
	case errors.Is(err, service.ErrHostUnavailable):
		return http.StatusServiceUnavailable, constants.ErrServiceUnavailable
	default:
		return http.StatusInternalServerError, fallback
	}
}

func writeError(c *gin.Context, err error, fallback string) {
	status, msg := statusFor(err, fallback)
	body := gin.H{constants.JSONKeyError: msg}
	if status == http.StatusBadRequest {
		body[constants.JSONKeyDetails] = err.Error()
	}
	c.JSON(status, body)
}
