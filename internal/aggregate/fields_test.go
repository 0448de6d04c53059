package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/AdventureAdmin_Go/internal/domain"
)

func TestFieldsTruthy(t *testing.T) {
	f := mustFields(t, `{
		"zero": 0, "zeroFloat": 0.0, "num": 30, "neg": -1,
		"empty": "", "str": "x", "null": null,
		"no": false, "yes": true, "obj": {}, "arr": []
	}`)

	tests := []struct {
		key  string
		want bool
	}{
		{"zero", false},
		{"zeroFloat", false},
		{"num", true},
		{"neg", true},
		{"empty", false},
		{"str", true},
		{"null", false},
		{"no", false},
		{"yes", true},
		{"obj", true},
		{"arr", true},
		{"missing", false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, f.Truthy(tt.key))
		})
	}
}

func TestParseFields(t *testing.T) {
	f, err := ParseFields(nil)
	require.NoError(t, err)
	assert.Empty(t, f)

	f, err = ParseFields([]byte("null"))
	require.NoError(t, err)
	assert.NotNil(t, f)

	_, err = ParseFields([]byte(`["not","an","object"]`))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestFieldsPickAndString(t *testing.T) {
	f := mustFields(t, `{"userId":"admin-1","title":"x","secret":true}`)

	picked := f.Pick([]string{"title", "absent"})
	assert.Equal(t, Fields{"title": f["title"]}, picked)
	assert.Equal(t, "admin-1", f.String("userId"))
	assert.Equal(t, "", f.String("secret"))
	assert.Equal(t, "", f.String("absent"))
}
