package configirl

import (
	"strings"

	"github.com/spf13/afero"

	perrors "github.com/ajitpratap0/pygitrepo/pkg/errors"
	"github.com/ajitpratap0/pygitrepo/pkg/json"
)

// StripComments removes "#" and "//" line comments from JSON text. Markers
// inside string literals are kept. Every line loses its trailing whitespace.
func StripComments(text string) string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(stripLine(line), " \t\r")
	}
	return strings.Join(lines, "\n")
}

func stripLine(line string) string {
	inString := false
	escaped := false
	for i := 0; i < len(line); i++ {
		ch := line[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch {
		case ch == '"':
			inString = true
		case ch == '#':
			return line[:i]
		case ch == '/' && i+1 < len(line) && line[i+1] == '/':
			return line[:i]
		}
	}
	return line
}

// ParseJSON decodes a comment tolerant JSON object.
func ParseJSON(text string) (map[string]any, error) {
	var d map[string]any
	if err := json.Unmarshal([]byte(StripComments(text)), &d); err != nil {
		return nil, perrors.Wrap(err, perrors.ErrorTypeParse, "failed to parse JSON")
	}
	if d == nil {
		return nil, perrors.New(perrors.ErrorTypeParse, "JSON document is not an object")
	}
	return d, nil
}

// ReadJSONFile reads a UTF-8 comment tolerant JSON object from fs.
func ReadJSONFile(fs afero.Fs, path string) (map[string]any, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, perrors.Wrap(err, perrors.ErrorTypeFile, "failed to read config file").
			WithDetail("path", path)
	}
	d, err := ParseJSON(string(data))
	if err != nil {
		var e *perrors.Error
		if perrors.As(err, &e) {
			e.WithDetail("path", path)
		}
		return nil, err
	}
	return d, nil
}

// ReadJSONValue returns the value at a dotted path such as "$.aws.region"
// (the "$." is optional) of a comment tolerant JSON file.
func ReadJSONValue(fs afero.Fs, path, field string) (any, error) {
	d, err := ReadJSONFile(fs, path)
	if err != nil {
		return nil, err
	}
	jsonPath := strings.TrimPrefix(field, "$.")

	var value any = d
	for _, part := range strings.Split(jsonPath, ".") {
		obj, ok := value.(map[string]any)
		if !ok {
			return nil, notFound(jsonPath, path)
		}
		value, ok = obj[part]
		if !ok {
			return nil, notFound(jsonPath, path)
		}
	}
	return value, nil
}

func notFound(jsonPath, path string) error {
	return perrors.Newf(perrors.ErrorTypeConfig, "'$.%s' not found in %s", jsonPath, path).
		WithDetail("path", path)
}
