package secret

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rigtools/rigup/pkg/errors"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		wantKind string
	}{
		{name: "empty", value: "", wantKind: "empty"},
		{name: "seven chars too short", value: "abcdefg", wantKind: "too-short"},
		{name: "257 chars too long", value: strings.Repeat("a", 257), wantKind: "too-long"},
		{name: "backtick", value: "abc`defghij", wantKind: "forbidden-characters"},
		{name: "dollar sign", value: "abc$defghij", wantKind: "forbidden-characters"},
		{name: "semicolon", value: "abc;defghij", wantKind: "forbidden-characters"},
		{name: "double quote", value: `abc"defghij`, wantKind: "forbidden-characters"},
		{name: "space", value: "abc defghij", wantKind: "forbidden-characters"},
		{name: "newline", value: "abc\ndefghij", wantKind: "forbidden-characters"},
		{name: "32 alphanumeric ok", value: "sk0000000000abcdefABCDEF12345678"},
		{name: "eight chars ok", value: "abcd1234"},
		{name: "256 chars ok", value: strings.Repeat("a", 256)},
		{name: "dashes and underscores ok", value: "sk-test_key.0001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.value)
			if tt.wantKind == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrSecretFormat))
			var rerr *errors.RigupError
			require.ErrorAs(t, err, &rerr)
			assert.Equal(t, tt.wantKind, rerr.Details["kind"])
		})
	}
}

func TestRenderRoundTrips(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)
	content := Render("sk-test-0123456789", "1.2.3", now)

	assert.Contains(t, content, "2024-03-01T10:30:00Z")
	assert.Contains(t, content, "rigup version: 1.2.3")
	assert.Contains(t, content, `export RIG_API_KEY="sk-test-0123456789"`)

	got, ok := ParseFile(content)
	require.True(t, ok)
	assert.Equal(t, "sk-test-0123456789", got)
}

func TestParseFileRejectsUnrecognized(t *testing.T) {
	for _, content := range []string{
		"",
		"# just a comment\n",
		"export OTHER_VAR=\"x\"\n",
		"RIG_API_KEY=unquoted\n",
	} {
		_, ok := ParseFile(content)
		assert.False(t, ok, "content %q should not parse", content)
	}
}
