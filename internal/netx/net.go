// Package netx builds multipart request bodies for file uploads.
package netx

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
)

type formField struct {
	name  string
	value string
}

type formFile struct {
	field       string
	fileName    string
	contentType string
	path        string
	data        []byte
}

// Form collects multipart fields and files in insertion order. Files added
// with File are read from disk only when the form is encoded.
type Form struct {
	fields []formField
	files  []formFile
}

func NewForm() *Form {
	return &Form{}
}

// Field appends a text field.
func (f *Form) Field(name, value string) *Form {
	f.fields = append(f.fields, formField{name: name, value: value})
	return f
}

// File appends the file at path under field. An empty fileName defaults to
// the base name of path.
func (f *Form) File(field, path, fileName string) *Form {
	if fileName == "" {
		fileName = filepath.Base(path)
	}
	f.files = append(f.files, formFile{field: field, path: path, fileName: fileName, contentType: ImageContentType(fileName)})
	return f
}

// FileBytes appends an in-memory file.
func (f *Form) FileBytes(field, fileName, contentType string, data []byte) *Form {
	f.files = append(f.files, formFile{field: field, fileName: fileName, contentType: contentType, data: data})
	return f
}

// Len reports the number of parts.
func (f *Form) Len() int {
	return len(f.fields) + len(f.files)
}

// Encode renders the form. The returned content type carries the boundary.
func (f *Form) Encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, fld := range f.fields {
		if err := w.WriteField(fld.name, fld.value); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", fld.name, err)
		}
	}

	for _, file := range f.files {
		data := file.data
		if file.path != "" {
			b, err := os.ReadFile(file.path)
			if err != nil {
				return nil, "", fmt.Errorf("read %s: %w", file.path, err)
			}
			data = b
		}

		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, file.field, file.fileName))
		h.Set("Content-Type", file.contentType)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("create part %s: %w", file.field, err)
		}
		if _, err := part.Write(data); err != nil {
			return nil, "", fmt.Errorf("write part %s: %w", file.field, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

// ImageContentType guesses a content type from the file extension, falling
// back to "image/<ext>" and finally application/octet-stream.
func ImageContentType(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return "application/octet-stream"
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "image/" + strings.TrimPrefix(ext, ".")
}
