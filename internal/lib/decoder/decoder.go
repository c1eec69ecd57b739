package decoder

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/gorilla/schema"
)

const tagName = "query"

// QueryDecoder fills structs tagged with `query:"name"` from url query values.
// Fields missing from the query keep the value they had before decoding.
type QueryDecoder struct {
	dec *schema.Decoder
}

func New() *QueryDecoder {
	dec := schema.NewDecoder()
	dec.SetAliasTag(tagName)
	dec.IgnoreUnknownKeys(true)
	return &QueryDecoder{dec: dec}
}

// Decode returns *Errors when some of the values couldn't be converted.
func (d *QueryDecoder) Decode(dst any, src url.Values) error {
	err := d.dec.Decode(dst, src)
	if err == nil {
		return nil
	}
	var multi schema.MultiError
	if !errors.As(err, &multi) {
		return err
	}
	fieldErrs := make(Errors, len(multi))
	for key, e := range multi {
		var conv schema.ConversionError
		if errors.As(e, &conv) {
			fieldErrs[key] = fmt.Sprintf("Value must be of type %s", conv.Type)
			continue
		}
		fieldErrs[key] = e.Error()
	}
	return fieldErrs
}

// Errors maps query keys to a human readable description of the problem.
type Errors map[string]string

func (e Errors) Error() string {
	return fmt.Sprintf("query decoder: %d invalid values", len(e))
}
