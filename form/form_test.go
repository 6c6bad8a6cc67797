package form

import (
	"bytes"
	"io/ioutil"
	"mime"
	"mime/multipart"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
)

func TestBytesExact(t *testing.T) {
	f := NewWithBoundary("TESTBOUNDARY")
	if err := f.AddField("path", "A/B/C"); err != nil {
		t.Fatal(err)
	}
	if err := f.AddFile("dataset_files", "d.txt", []byte("abc")); err != nil {
		t.Fatal(err)
	}

	want := "--TESTBOUNDARY\r\n" +
		"Content-Disposition: form-data; name=\"path\"\r\n" +
		"\r\n" +
		"A/B/C\r\n" +
		"--TESTBOUNDARY\r\n" +
		"Content-Disposition: form-data; name=\"dataset_files\"; filename=\"d.txt\"\r\n" +
		"Content-Type: text/plain\r\n" +
		"\r\n" +
		"abc\r\n" +
		"--TESTBOUNDARY--\r\n"
	if diff := cmp.Diff(want, string(f.Bytes())); diff != "" {
		t.Errorf("Bytes() mismatch (-want +got):\n%s", diff)
	}
}

func TestEmptyForm(t *testing.T) {
	f := NewWithBoundary("b")
	if got := string(f.Bytes()); got != "--b--\r\n" {
		t.Fatalf("Expected only the closing delimiter, got: %q", got)
	}
}

func TestInterleavedOrder(t *testing.T) {
	f := NewWithBoundary("xyz")
	f.AddFile("docfiles", "a.cal", []byte("1"))
	f.AddField("path", "p")
	f.AddFile("datasetfiles", "b.sub", []byte("2"))
	f.AddField("userid", "1")

	r := multipart.NewReader(bytes.NewReader(f.Bytes()), f.Boundary())
	var names []string
	for {
		p, err := r.NextPart()
		if err != nil {
			break
		}
		names = append(names, p.FormName())
	}
	want := []string{"docfiles", "path", "datasetfiles", "userid"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("part order mismatch (-want +got):\n%s", diff)
	}
}

func TestParsedByMultipartReader(t *testing.T) {
	f := New()
	f.AddField("submissionid", "sub-1")
	f.AddFileWithType("datasetfiles", "chl.sub", "text/plain", []byte("/begin_header\n/end_header\n"))
	f.AddFile("docfiles", "DI7125f.cal", []byte{0x00, 0x01, '\r', '\n', 0xff})

	_, params, err := mime.ParseMediaType(f.ContentType())
	if err != nil {
		t.Fatal(err)
	}
	if params["boundary"] != f.Boundary() {
		t.Fatalf("Expected boundary %q in content type, got %q", f.Boundary(), params["boundary"])
	}

	r := multipart.NewReader(bytes.NewReader(f.Bytes()), params["boundary"])
	mf, err := r.ReadForm(1 << 20)
	if err != nil {
		t.Fatal(err)
	}
	defer mf.RemoveAll()

	if got := mf.Value["submissionid"]; len(got) != 1 || got[0] != "sub-1" {
		t.Errorf("Expected submissionid=sub-1, got %v", got)
	}
	for field, want := range map[string]string{
		"datasetfiles": "/begin_header\n/end_header\n",
		"docfiles":     "\x00\x01\r\n\xff",
	} {
		headers := mf.File[field]
		if len(headers) != 1 {
			t.Fatalf("Expected one file for %s, got %d", field, len(headers))
		}
		fh, err := headers[0].Open()
		if err != nil {
			t.Fatal(err)
		}
		got, _ := ioutil.ReadAll(fh)
		fh.Close()
		if string(got) != want {
			t.Errorf("%s: expected %q, got %q", field, want, got)
		}
	}
	if ct := mf.File["docfiles"][0].Header.Get("Content-Type"); ct != TypeByFileName("DI7125f.cal") {
		t.Errorf("Expected inferred type for .cal file, got %s", ct)
	}
}

func TestBoundaryIsRandomHex(t *testing.T) {
	a, b := New(), New()
	if a.Boundary() == b.Boundary() {
		t.Fatalf("Expected distinct boundaries, got %q twice", a.Boundary())
	}
	if len(a.Boundary()) != 32 {
		t.Errorf("Expected 128 bit hex boundary, got %q", a.Boundary())
	}
	if strings.Trim(a.Boundary(), "0123456789abcdef") != "" {
		t.Errorf("Expected lowercase hex boundary, got %q", a.Boundary())
	}
}

func TestContentTypeAndMethod(t *testing.T) {
	f := NewWithBoundary("bibo")
	if f.ContentType() != "multipart/form-data; boundary=bibo" {
		t.Errorf("Unexpected content type: %s", f.ContentType())
	}
	if f.Method() != "POST" {
		t.Errorf("Unexpected method: %s", f.Method())
	}
}

func TestTypeInference(t *testing.T) {
	tests := []struct {
		fileName string
		want     string
	}{
		{"report.json", "application/json"},
		{"x.bin", "application/octet-stream"},
		{"index.html", "text/html"},
		{"d.txt", "text/plain"},
		{"sbm.zip", "application/zip"},
		{"noext", "application/octet-stream"},
	}
	for _, test := range tests {
		f := NewWithBoundary("b")
		if err := f.AddFile("f", test.fileName, []byte("{}")); err != nil {
			t.Fatal(err)
		}
		if got := f.parts[0].contentType; got != test.want {
			t.Errorf("%s: expected %s, got %s", test.fileName, test.want, got)
		}
	}
}

func TestEmptyNamesRejected(t *testing.T) {
	f := NewWithBoundary("b")
	if err := f.AddField("", "v"); errors.Cause(err) != ErrEmptyName {
		t.Errorf("Expected ErrEmptyName for empty field name, got %v", err)
	}
	if err := f.AddFile("", "a.txt", nil); errors.Cause(err) != ErrEmptyName {
		t.Errorf("Expected ErrEmptyName for empty file field name, got %v", err)
	}
	if err := f.AddFile("files", "", nil); errors.Cause(err) != ErrEmptyName {
		t.Errorf("Expected ErrEmptyName for empty file name, got %v", err)
	}
	if f.Len() != 0 {
		t.Errorf("Expected rejected parts not to be added, got %d parts", f.Len())
	}
}

func TestFallbackTypesRegistered(t *testing.T) {
	for ext := range fallbackTypes {
		if got := TypeByFileName("file" + ext); got == DefaultContentType {
			t.Errorf("Expected a registered type for %s, got %s", ext, got)
		}
	}
}
