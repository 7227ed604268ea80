package configirl

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripComments(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"slash comment", `{"A": 1} // trailing`, `{"A": 1}`},
		{"hash comment", `{"A": 1} # trailing`, `{"A": 1}`},
		{"whole line", "# header\n{}", "\n{}"},
		{"markers in strings", `{"URL": "http://x#y"}`, `{"URL": "http://x#y"}`},
		{"escaped quote", `{"Q": "a\"#b"} # c`, `{"Q": "a\"#b"}`},
		{"single slash", `{"P": 1 / 2}`, `{"P": 1 / 2}`},
		{"trailing spaces", "{}   \n", "{}\n"},
		{"crlf", "{\r\n}\r\n", "{\n}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripComments(tt.in))
		})
	}
}

func TestParseJSONWithComments(t *testing.T) {
	d, err := ParseJSON("{\"A\": 1, // comment\n \"B\": \"value#not-a-comment\"}")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"A": float64(1), "B": "value#not-a-comment"}, d)
}

func TestParseJSONRejects(t *testing.T) {
	for _, in := range []string{"", "[1, 2]", "null", `{"A": }`} {
		_, err := ParseJSON(in)
		assert.Error(t, err, in)
	}
}

func TestReadJSONValue(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/cfg.json", []byte(`{
    # deployment
    "aws": {"region": "us-east-1", "tags": {"team": "data"}},
    "name": "demo"
}`), 0o644))

	v, err := ReadJSONValue(fs, "/cfg.json", "$.aws.region")
	require.NoError(t, err)
	assert.Equal(t, "us-east-1", v)

	v, err = ReadJSONValue(fs, "/cfg.json", "aws.tags.team")
	require.NoError(t, err)
	assert.Equal(t, "data", v)

	v, err = ReadJSONValue(fs, "/cfg.json", "$.name")
	require.NoError(t, err)
	assert.Equal(t, "demo", v)

	_, err = ReadJSONValue(fs, "/cfg.json", "$.aws.zone")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "'$.aws.zone' not found")

	_, err = ReadJSONValue(fs, "/cfg.json", "$.name.first")
	assert.Error(t, err)

	_, err = ReadJSONValue(fs, "/absent.json", "$.name")
	assert.Error(t, err)
}
