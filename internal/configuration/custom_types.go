package configuration

import (
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// TermRow is one row of a fuzzy consequent matrix. In YAML a row is
// most naturally written as a single whitespace separated string
// ("PB PB PM PM PS ZE ZE"), which the decode hook splits into cells;
// a plain list of strings is accepted as well.
type TermRow []string

// TermRowHookFunc returns a mapstructure decode hook that converts a
// whitespace separated string into a TermRow.
func TermRowHookFunc() mapstructure.DecodeHookFuncType {
	termRowType := reflect.TypeOf(TermRow{})

	return func(
		f reflect.Type,
		t reflect.Type,
		data interface{},
	) (interface{}, error) {
		if t != termRowType {
			return data, nil
		}

		switch v := data.(type) {
		case string:
			return TermRow(strings.Fields(v)), nil
		case []interface{}:
			row := make(TermRow, 0, len(v))
			for _, cell := range v {
				if s, ok := cell.(string); ok {
					row = append(row, strings.TrimSpace(s))
				}
			}
			return row, nil
		}
		return data, nil
	}
}
