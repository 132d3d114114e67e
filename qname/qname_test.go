package qname

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemeGenerateParseRoundTrip(t *testing.T) {
	scheme, err := NewScheme("probe.$ip.$ts.$tsu")
	require.NoError(t, err)

	args := map[string]any{
		"ip_addr":   "128.187.22.25",
		"timestamp": time.Unix(1609459200, 123456789),
	}
	name, err := scheme.Generate("example.com", args)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(name, ".example.com"), "domain must close the name, got %q", name)
	assert.Equal(t, strings.ToLower(name), name, "labels must be lowercase, got %q", name)

	parsed, err := scheme.Parse(name)
	require.NoError(t, err)
	require.Len(t, parsed, 4)
	assert.Equal(t, ParsedLabel{Key: "probe", Value: "probe"}, parsed[0])
	assert.Equal(t, ParsedLabel{Key: "$ip", Value: "128.187.22.25"}, parsed[1])
	assert.Equal(t, ParsedLabel{Key: "$ts", Value: int64(1609459200)}, parsed[2])
	assert.Equal(t, ParsedLabel{Key: "$tsu", Value: int64(1234567)}, parsed[3])
}

func TestIPComponentLabels(t *testing.T) {
	testCases := []struct {
		name        string
		ip          string
		labelLength int
		parsed      string
	}{
		{
			name:        "ipv4",
			ip:          "1.2.3.4",
			labelLength: 7,
			parsed:      "1.2.3.4",
		},
		{
			name:        "ipv6",
			ip:          "2001:db8::1",
			labelLength: 26,
			parsed:      "2001:db8::1",
		},
		{
			name:        "ipv4_mapped_stays_v4",
			ip:          "::ffff:9.9.9.9",
			labelLength: 7,
			parsed:      "9.9.9.9",
		},
	}

	component := ipComponent{}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			label, err := component.Generate(map[string]any{"ip_addr": tc.ip})
			require.NoError(t, err)
			assert.Len(t, label, tc.labelLength)
			assert.NotContains(t, label, "=")

			value, err := component.Parse(label)
			require.NoError(t, err)
			assert.Equal(t, tc.parsed, value)
		})
	}
}

func TestIPComponentRejectsGarbage(t *testing.T) {
	_, err := ipComponent{}.Generate(map[string]any{"ip_addr": "not-an-ip"})
	require.Error(t, err)

	_, err = ipComponent{}.Parse("!!!!")
	require.Error(t, err)
}

func TestTimestampRoundTrip(t *testing.T) {
	component := timestampComponent{}

	label, err := component.Generate(map[string]any{"timestamp": int64(1609459200)})
	require.NoError(t, err)
	assert.Len(t, label, 7)

	value, err := component.Parse(label)
	require.NoError(t, err)
	assert.Equal(t, int64(1609459200), value)
}

func TestMicrosecondsLabel(t *testing.T) {
	component := microsComponent{}

	label, err := component.Generate(map[string]any{"timestamp": time.Unix(1609459200, 123456789)})
	require.NoError(t, err)
	assert.Equal(t, "1234567", label)

	value, err := component.Parse(label)
	require.NoError(t, err)
	assert.Equal(t, int64(1234567), value)
}

func TestUniqueComponent(t *testing.T) {
	component := uniqueComponent{}

	first, err := component.Generate(nil)
	require.NoError(t, err)
	second, err := component.Generate(nil)
	require.NoError(t, err)

	assert.Len(t, first, 26)
	assert.NotEqual(t, first, second)

	value, err := component.Parse(first)
	require.NoError(t, err)
	assert.Equal(t, first, value)
}

func TestUUIDComponent(t *testing.T) {
	component := uuidComponent{}

	label, err := component.Generate(nil)
	require.NoError(t, err)
	require.Len(t, label, 32)

	value, err := component.Parse(label)
	require.NoError(t, err)
	canonical, ok := value.(string)
	require.True(t, ok)
	assert.Len(t, canonical, 36)
	assert.Equal(t, label, strings.ReplaceAll(canonical, "-", ""))
}

func TestRandomComponents(t *testing.T) {
	testCases := []struct {
		name     string
		id       string
		args     map[string]any
		length   int
		alphabet string
	}{
		{
			name:     "randalpha_default_length",
			id:       "$randalpha",
			length:   8,
			alphabet: lowerAlpha,
		},
		{
			name:     "randnum_custom_length",
			id:       "$randnum",
			args:     map[string]any{"length": 12},
			length:   12,
			alphabet: digits,
		},
		{
			name:     "randalphanum",
			id:       "$randalphanum",
			args:     map[string]any{"length": 20},
			length:   20,
			alphabet: lowerAlpha + digits,
		},
	}

	components := map[string]Component{}
	for _, component := range Defaults() {
		components[component.ID()] = component
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			component, ok := components[tc.id]
			require.True(t, ok)

			label, err := component.Generate(tc.args)
			require.NoError(t, err)
			require.Len(t, label, tc.length)
			for _, c := range label {
				assert.Contains(t, tc.alphabet, string(c))
			}
		})
	}
}

func TestRandomBase32Component(t *testing.T) {
	label, err := base32Component{}.Generate(map[string]any{"timestamp": time.Unix(1609459200, 0)})
	require.NoError(t, err)
	assert.Len(t, label, 13)
	for _, c := range label {
		assert.Contains(t, lowerAlpha+"234567", string(c))
	}
}

func TestSchemeKeywordMismatch(t *testing.T) {
	scheme, err := NewScheme("static.$randnum")
	require.NoError(t, err)

	_, err = scheme.Parse("other.12345678.example.com")
	require.ErrorIs(t, err, ErrLabelMismatch)

	_, err = scheme.Parse("static")
	require.ErrorIs(t, err, ErrLabelMismatch)
}

func TestSchemeUnknownComponent(t *testing.T) {
	_, err := NewScheme("$ip.$nope")
	require.ErrorIs(t, err, ErrUnknownComponent)
}

func TestSchemeMissingArgument(t *testing.T) {
	scheme, err := NewScheme("$key")
	require.NoError(t, err)

	_, err = scheme.Generate("example.com", nil)
	require.ErrorIs(t, err, ErrMissingArgument)

	name, err := scheme.Generate("example.com", map[string]any{"val": 42})
	require.NoError(t, err)
	assert.Equal(t, "42.example.com", name)
}

type staticComponent struct{}

func (staticComponent) ID() string             { return "$test" }
func (staticComponent) RequiredArgs() []string { return nil }
func (staticComponent) OptionalArgs() []string { return nil }

func (staticComponent) Generate(map[string]any) (string, error) { return "hellothere", nil }

func (staticComponent) Parse(label string) (any, error) { return label, nil }

func TestSchemeCustomComponent(t *testing.T) {
	scheme, err := NewScheme("$ip.$test", staticComponent{})
	require.NoError(t, err)

	name, err := scheme.Generate("example.com", map[string]any{"ip_addr": "1.1.1.1"})
	require.NoError(t, err)
	assert.Contains(t, name, ".hellothere.example.com")

	parsed, err := scheme.Parse(name)
	require.NoError(t, err)
	require.Len(t, parsed, 2)
	assert.Equal(t, ParsedLabel{Key: "$test", Value: "hellothere"}, parsed[1])
}

func TestSchemeEmptyLabelString(t *testing.T) {
	scheme, err := NewScheme("")
	require.NoError(t, err)

	name, err := scheme.Generate("example.com", nil)
	require.NoError(t, err)
	assert.Equal(t, "example.com", name)

	parsed, err := scheme.Parse("example.com")
	require.NoError(t, err)
	assert.Empty(t, parsed)
}

func TestSchemeExpectedArgs(t *testing.T) {
	scheme, err := NewScheme("$ip.$randalpha.fixed")
	require.NoError(t, err)

	listing := scheme.ExpectedArgs()
	assert.Contains(t, listing, "$ip")
	assert.Contains(t, listing, "ip_addr")
	assert.Contains(t, listing, "$randalpha")
	assert.Contains(t, listing, "length")
	assert.NotContains(t, listing, "fixed")
}
