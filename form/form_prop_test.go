package form

import (
	"bytes"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

const propBoundary = "PROPBOUNDARY"

type field struct {
	name  string
	value string
}

// extractFields walks the serialized body line by line and collects the
// name/value pairs of the text fields.
func extractFields(body []byte) []field {
	const prefix = `Content-Disposition: form-data; name="`
	lines := strings.Split(string(body), "\r\n")
	var fields []field
	for i := 0; i+2 < len(lines); i++ {
		if !strings.HasPrefix(lines[i], prefix) {
			continue
		}
		name := strings.TrimSuffix(strings.TrimPrefix(lines[i], prefix), `"`)
		fields = append(fields, field{name: name, value: lines[i+2]})
	}
	return fields
}

func Test_FieldsRoundTrip(t *testing.T) {
	properties := gopter.NewProperties(nil)
	properties.Property("Serialized fields are recovered in insertion order", prop.ForAll(
		func(names []string, value string) bool {
			f := NewWithBoundary(propBoundary)
			for i, n := range names {
				if err := f.AddField(n, value+strings.Repeat("x", i)); err != nil {
					return false
				}
			}
			got := extractFields(f.Bytes())
			if len(got) != len(names) {
				return false
			}
			for i, n := range names {
				if got[i].name != n || got[i].value != value+strings.Repeat("x", i) {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Identifier()),
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}

func Test_FieldsFraming(t *testing.T) {
	properties := gopter.NewProperties(nil)
	properties.Property("Body starts with a delimiter and ends with the closing delimiter", prop.ForAll(
		func(names []string) bool {
			f := NewWithBoundary(propBoundary)
			f.AddField("path", "BIGELOW/BALCH/gnats")
			for _, n := range names {
				f.AddField(n, n)
			}
			b := f.Bytes()
			return bytes.HasPrefix(b, []byte("--"+propBoundary+"\r\n")) &&
				bytes.HasSuffix(b, []byte("--"+propBoundary+"--\r\n"))
		},
		gen.SliceOf(gen.Identifier()),
	))

	properties.TestingRun(t)
}

func Test_FileSegmentOverhead(t *testing.T) {
	properties := gopter.NewProperties(nil)
	properties.Property("File segment is content plus fixed framing", prop.ForAll(
		func(fieldName, fileName string, content []byte) bool {
			f := NewWithBoundary(propBoundary)
			if err := f.AddFileWithType(fieldName, fileName, "text/plain", content); err != nil {
				return false
			}
			closing := len("--" + propBoundary + "--\r\n")
			segment := len(f.Bytes()) - closing

			overhead := len("--"+propBoundary+"\r\n") +
				len(`Content-Disposition: form-data; name=""; filename=""`+"\r\n") + len(fieldName) + len(fileName) +
				len("Content-Type: text/plain\r\n") +
				len("\r\n") +
				len("\r\n")
			return segment == len(content)+overhead
		},
		gen.Identifier(),
		gen.Identifier(),
		gen.SliceOf(gen.UInt8()),
	))

	properties.TestingRun(t)
}

func Test_BytesIdempotent(t *testing.T) {
	properties := gopter.NewProperties(nil)
	properties.Property("Serializing twice yields identical output", prop.ForAll(
		func(name, value string, content []byte) bool {
			f := New()
			f.AddField(name, value)
			f.AddFile(name, name+".dat", content)
			return bytes.Equal(f.Bytes(), f.Bytes())
		},
		gen.Identifier(),
		gen.AnyString(),
		gen.SliceOf(gen.UInt8()),
	))

	properties.TestingRun(t)
}
