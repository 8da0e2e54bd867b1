package sqlxrepos

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/pkg/errors"
)

// jsonColumn wraps any JSON-serializable value as a JSONB column.
type jsonColumn struct {
	v interface{}
}

func jsonVal(v interface{}) jsonColumn   { return jsonColumn{v: v} }
func jsonDest(v interface{}) *jsonColumn { return &jsonColumn{v: v} }

func (c jsonColumn) Value() (driver.Value, error) {
	return json.Marshal(c.v)
}

func (c *jsonColumn) Scan(src interface{}) error {
	switch data := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(data, c.v)
	case string:
		return json.Unmarshal([]byte(data), c.v)
	default:
		return errors.Errorf("unsupported JSONB source type %T", src)
	}
}
