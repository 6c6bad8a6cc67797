// Package form builds multipart/form-data request bodies.
//
// A Form collects text fields and file attachments in the order they are
// added and serializes them into a single body:
//
//	--<boundary>\r\n
//	Content-Disposition: form-data; name="<field>"\r\n
//	\r\n
//	<value>\r\n
//	--<boundary>\r\n
//	Content-Disposition: form-data; name="<field>"; filename="<name>"\r\n
//	Content-Type: <mime>\r\n
//	\r\n
//	<bytes>\r\n
//	--<boundary>--\r\n
//
// Fields and files are interleaved exactly as added. A Form is not safe for
// concurrent use.
package form

import (
	"bytes"
	"mime"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/bcdev/ocdb-client/common"
)

const (
	// DefaultContentType is used for files whose extension has no known type.
	DefaultContentType = "application/octet-stream"

	method = "POST"
	crlf   = "\r\n"
)

// fallbackTypes fills gaps in hosts without a system MIME database.
var fallbackTypes = map[string]string{
	".txt":  "text/plain",
	".csv":  "text/csv",
	".json": "application/json",
	".zip":  "application/zip",
	".pdf":  "application/pdf",
}

func init() {
	for ext, typ := range fallbackTypes {
		if mime.TypeByExtension(ext) != "" {
			continue
		}
		if err := mime.AddExtensionType(ext, typ); err != nil {
			panic(err)
		}
	}
}

// ErrEmptyName is returned when a field or file is added without a name.
var ErrEmptyName = errors.New("form: empty name")

type part struct {
	fieldName   string
	value       string // fields only
	fileName    string // files only
	contentType string
	content     []byte
	isFile      bool
}

// Form accumulates parts of a multipart/form-data body.
type Form struct {
	boundary string
	parts    []part
}

// New returns an empty Form with a random 128 bit hex boundary.
func New() *Form {
	return NewWithBoundary(common.GenHexUUID())
}

// NewWithBoundary returns an empty Form delimited by boundary.
func NewWithBoundary(boundary string) *Form {
	return &Form{boundary: boundary}
}

// Boundary returns the delimiter token of f.
func (f *Form) Boundary() string {
	return f.boundary
}

// Method is the HTTP method a form body is normally sent with.
func (f *Form) Method() string {
	return method
}

// ContentType returns the value for the Content-Type header of a request
// carrying f.
func (f *Form) ContentType() string {
	return "multipart/form-data; boundary=" + f.boundary
}

// Len returns the number of parts added so far.
func (f *Form) Len() int {
	return len(f.parts)
}

// AddField appends a text field.
func (f *Form) AddField(name, value string) error {
	if name == "" {
		return errors.Wrap(ErrEmptyName, "add field")
	}
	f.parts = append(f.parts, part{fieldName: name, value: value})
	return nil
}

// AddFile appends a file attachment whose content type is derived from the
// extension of fileName.
func (f *Form) AddFile(fieldName, fileName string, content []byte) error {
	return f.AddFileWithType(fieldName, fileName, "", content)
}

// AddFileWithType appends a file attachment. An empty contentType is
// inferred from fileName as in AddFile.
func (f *Form) AddFileWithType(fieldName, fileName, contentType string, content []byte) error {
	if fieldName == "" || fileName == "" {
		return errors.Wrapf(ErrEmptyName, "add file %q as %q", fileName, fieldName)
	}
	if contentType == "" {
		contentType = TypeByFileName(fileName)
	}
	f.parts = append(f.parts, part{
		fieldName:   fieldName,
		fileName:    fileName,
		contentType: contentType,
		content:     content,
		isFile:      true,
	})
	return nil
}

// Bytes serializes f. Repeated calls return identical output.
func (f *Form) Bytes() []byte {
	var buf bytes.Buffer
	delim := "--" + f.boundary + crlf
	for _, p := range f.parts {
		buf.WriteString(delim)
		if p.isFile {
			buf.WriteString(`Content-Disposition: form-data; name="` + p.fieldName + `"; filename="` + p.fileName + `"` + crlf)
			buf.WriteString("Content-Type: " + p.contentType + crlf)
			buf.WriteString(crlf)
			buf.Write(p.content)
		} else {
			buf.WriteString(`Content-Disposition: form-data; name="` + p.fieldName + `"` + crlf)
			buf.WriteString(crlf)
			buf.WriteString(p.value)
		}
		buf.WriteString(crlf)
	}
	buf.WriteString("--" + f.boundary + "--" + crlf)
	return buf.Bytes()
}

// TypeByFileName looks up the media type for the extension of name without
// any parameters, falling back to DefaultContentType.
func TypeByFileName(name string) string {
	t := mime.TypeByExtension(filepath.Ext(name))
	if i := strings.IndexByte(t, ';'); i >= 0 {
		t = t[:i]
	}
	t = strings.TrimSpace(t)
	if t == "" {
		return DefaultContentType
	}
	return t
}
