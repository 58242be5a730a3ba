package lua

import (
	"errors"
	"strings"
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// decodeShortString parses a double-quoted Lua 5.4 short string literal
// following the reference manual's escape rules.
func decodeShortString(lit string) (string, error) {
	if len(lit) < 2 || lit[0] != '"' || lit[len(lit)-1] != '"' {
		return "", errors.New("not a quoted literal")
	}
	body := lit[1 : len(lit)-1]
	var b strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		switch c {
		case '"':
			return "", errors.New("unescaped quote")
		case '\n', '\r':
			return "", errors.New("unfinished string")
		case '\\':
		default:
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(body) {
			return "", errors.New("dangling backslash")
		}
		switch e := body[i]; e {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'a':
			b.WriteByte('\a')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'v':
			b.WriteByte('\v')
		case '\\', '"', '\'':
			b.WriteByte(e)
		default:
			if e < '0' || e > '9' {
				return "", errors.New("invalid escape")
			}
			// \ddd reads up to three decimal digits.
			n := 0
			j := i
			for ; j < len(body) && j < i+3 && body[j] >= '0' && body[j] <= '9'; j++ {
				n = n*10 + int(body[j]-'0')
			}
			if n > 255 {
				return "", errors.New("decimal escape too large")
			}
			b.WriteByte(byte(n))
			i = j - 1
		}
	}
	return b.String(), nil
}

func TestString_Escapes(t *testing.T) {
	cases := map[string]string{
		"":              `""`,
		"hello":         `"hello"`,
		`a\b`:           `"a\\b"`,
		`say "hi"`:      `"say \"hi\""`,
		"line1\nline2":  `"line1\nline2"`,
		"cr\rlf":        `"cr\rlf"`,
		"nul\x00":       `"nul\000"`,
		`"); os.exit()`: `"\"); os.exit()"`,
	}
	for in, want := range cases {
		assert.Equal(t, want, String(in), "String(%q)", in)
	}
}

func TestString_RoundTrip(t *testing.T) {
	inputs := []string{
		"",
		`\`,
		`\\"`,
		"\x00",
		"\x001",
		"\x00123",
		"a\x009b",
		"\r\n\"\\\x00",
		"]] --[[",
		"\xff\xfe invalid utf-8",
		"tab\tbell\a",
		"ünïcødé ✓",
		`C:\Users\me\sprite.aseprite`,
	}
	for _, in := range inputs {
		got, err := decodeShortString(String(in))
		require.NoError(t, err, "decoding String(%q)", in)
		assert.Equal(t, in, got)
	}
}

func TestString_RoundTripQuick(t *testing.T) {
	roundTrip := func(s string) bool {
		got, err := decodeShortString(String(s))
		return err == nil && got == s
	}
	require.NoError(t, quick.Check(roundTrip, &quick.Config{MaxCount: 2000}))

	bytesRoundTrip := func(raw []byte) bool {
		return roundTrip(string(raw))
	}
	require.NoError(t, quick.Check(bytesRoundTrip, &quick.Config{MaxCount: 2000}))
}

func TestNormalizePath(t *testing.T) {
	got := NormalizePath(`C:\art\player\walk.aseprite`)
	assert.Equal(t, "C:/art/player/walk.aseprite", got)
	assert.NotContains(t, got, `\`)

	assert.Equal(t, "/already/posix.png", NormalizePath("/already/posix.png"))
	assert.Equal(t, "mixed/a/b", NormalizePath(`mixed\a/b`))
}

func TestNormalizePath_PreservesSegments(t *testing.T) {
	in := `a\b\\c\d`
	got := NormalizePath(in)
	assert.Equal(t, strings.Split(strings.ReplaceAll(in, `\`, "/"), "/"), strings.Split(got, "/"))
	assert.NotContains(t, got, `\`)
}

func TestPath(t *testing.T) {
	assert.Equal(t, `"C:/My Art/\"quoted\".png"`, Path(`C:\My Art\"quoted".png`))
}

func TestSelectLayer(t *testing.T) {
	required := SelectLayer(`Bad"Name`, true)
	assert.Contains(t, required, `find_layer(spr.layers, "Bad\"Name")`)
	assert.Contains(t, required, "return")

	optional := SelectLayer("Outline", false)
	assert.Contains(t, optional, `if target_layer then app.layer = target_layer end`)
	assert.NotContains(t, optional, "return")
}
