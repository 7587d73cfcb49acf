// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package content decides how fetched file bytes are treated before they are
// written to the working tree: binary files pass through untouched, text files
// go through the configured character encoding.
package content

import (
	"bytes"
	"path/filepath"
	"strings"

	"gitlab.com/tozd/go/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
)

// DefaultEncoding is used when no encoding is configured.
const DefaultEncoding = "utf-8"

// 🖼️ binaryExtensions is the fixed set of extensions written as raw bytes
var binaryExtensions = map[string]struct{}{
	"png":   {},
	"jpg":   {},
	"jpeg":  {},
	"gif":   {},
	"ico":   {},
	"woff":  {},
	"woff2": {},
	"ttf":   {},
	"otf":   {},
	"eot":   {},
	"pdf":   {},
	"zip":   {},
}

// NormalizeExtension lowercases an extension and strips any leading dot.
func NormalizeExtension(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}

// 🔍 IsBinary reports whether path has a binary extension. Extra extensions
// extend the fixed set for this call only.
func IsBinary(path string, extra ...string) bool {
	ext := NormalizeExtension(filepath.Ext(path))
	if ext == "" {
		return false
	}
	if _, ok := binaryExtensions[ext]; ok {
		return true
	}
	for _, e := range extra {
		if NormalizeExtension(e) == ext {
			return true
		}
	}
	return false
}

// 🔤 Codec converts text between the configured encoding and UTF-8.
type Codec interface {
	// Name returns the canonical encoding name
	Name() string
	// Decode converts encoded bytes to UTF-8
	Decode(data []byte) ([]byte, error)
	// Encode converts UTF-8 bytes back to the encoding
	Encode(data []byte) ([]byte, error)
}

// LookupCodec resolves an IANA encoding name. An empty name means UTF-8.
func LookupCodec(name string) (Codec, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultEncoding
	}

	if isUTF8(name) {
		return passthrough{name: "UTF-8"}, nil
	}

	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, errors.Errorf("unknown encoding %q: %w", name, err)
	}
	if enc == nil {
		return nil, errors.Errorf("unsupported encoding %q", name)
	}

	canonical, err := ianaindex.IANA.Name(enc)
	if err != nil {
		canonical = name
	}

	return &codec{name: canonical, enc: enc}, nil
}

func isUTF8(name string) bool {
	switch strings.ToLower(strings.ReplaceAll(name, "_", "-")) {
	case "utf-8", "utf8":
		return true
	}
	return false
}

// passthrough leaves UTF-8 content byte-for-byte intact, including invalid
// sequences a strict decoder would rewrite.
type passthrough struct {
	name string
}

func (p passthrough) Name() string                       { return p.name }
func (p passthrough) Decode(data []byte) ([]byte, error) { return data, nil }
func (p passthrough) Encode(data []byte) ([]byte, error) { return data, nil }

type codec struct {
	name string
	enc  encoding.Encoding
}

func (c *codec) Name() string {
	return c.name
}

func (c *codec) Decode(data []byte) ([]byte, error) {
	out, err := c.enc.NewDecoder().Bytes(data)
	if err != nil {
		return nil, errors.Errorf("decoding %s: %w", c.name, err)
	}
	return out, nil
}

func (c *codec) Encode(data []byte) ([]byte, error) {
	out, err := c.enc.NewEncoder().Bytes(data)
	if err != nil {
		return nil, errors.Errorf("encoding %s: %w", c.name, err)
	}
	return out, nil
}

// UTF8 returns the passthrough codec.
func UTF8() Codec {
	return passthrough{name: "UTF-8"}
}

// StripBOM removes a leading UTF-8 byte order mark.
func StripBOM(data []byte) []byte {
	return bytes.TrimPrefix(data, utf8BOM)
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}
