package configuration

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTermRowHookSplitsString(t *testing.T) {
	// GIVEN
	hook := TermRowHookFunc()
	input := "PB PB PM  PM PS ZE ZE"

	// WHEN
	result, err := hook(reflect.TypeOf(""), reflect.TypeOf(TermRow{}), input)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, TermRow{"PB", "PB", "PM", "PM", "PS", "ZE", "ZE"}, result)
}

func TestTermRowHookAcceptsList(t *testing.T) {
	// GIVEN
	hook := TermRowHookFunc()
	input := []interface{}{"PB", " PM", "ZE "}

	// WHEN
	result, err := hook(reflect.TypeOf([]interface{}{}), reflect.TypeOf(TermRow{}), input)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, TermRow{"PB", "PM", "ZE"}, result)
}

func TestTermRowHookIgnoresOtherTypes(t *testing.T) {
	// GIVEN
	hook := TermRowHookFunc()
	input := "unrelated"

	// WHEN
	result, err := hook(reflect.TypeOf(""), reflect.TypeOf(""), input)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, "unrelated", result)
}
