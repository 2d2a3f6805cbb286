// Package share implements the shareable-document codec: editor content
// compressed with DEFLATE and encoded with the URL-safe base64 alphabet
// (no padding), suitable for embedding in a URL fragment.
package share

import (
	"bytes"
	"compress/flate"
	"encoding/base64"
	"io"
	"strings"
)

// FragmentPrefix marks a URL fragment as carrying a share token.
// Fragments look like "mk,<token>".
const FragmentPrefix = "mk"

// maxDecodedSize caps decompression output. Tokens arrive from
// untrusted URLs, so a tiny token must not be allowed to inflate into
// an arbitrarily large document.
const maxDecodedSize = 1 << 20

// Encode compresses s into a URL-safe token. The empty string encodes
// to an empty token, so empty documents produce no fragment.
func Encode(s string) string {
	if s == "" {
		return ""
	}
	var buf bytes.Buffer
	zw, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		// Only reachable with an invalid compression level.
		return ""
	}
	_, _ = zw.Write([]byte(s)) // writes to a bytes.Buffer cannot fail
	_ = zw.Close()
	return base64.RawURLEncoding.EncodeToString(buf.Bytes())
}

// Decode reverses Encode. Malformed, truncated, foreign or oversized
// tokens yield ok == false; Decode never panics and never returns an
// error value, since callers treat a bad token as a silent no-op.
func Decode(token string) (string, bool) {
	if token == "" {
		return "", true
	}
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return "", false
	}
	zr := flate.NewReader(bytes.NewReader(raw))
	defer zr.Close()

	data, err := io.ReadAll(io.LimitReader(zr, maxDecodedSize+1))
	if err != nil {
		return "", false
	}
	if len(data) > maxDecodedSize {
		return "", false
	}
	return string(data), true
}

// Fragment returns the URL fragment carrying s, without the leading
// "#". Empty content yields an empty fragment.
func Fragment(s string) string {
	token := Encode(s)
	if token == "" {
		return ""
	}
	return FragmentPrefix + "," + token
}

// ParseFragment extracts document content from a URL fragment. An
// optional leading "#" is tolerated. Fragments without the marker
// prefix belong to someone else and are reported as not ok.
func ParseFragment(frag string) (string, bool) {
	frag = strings.TrimPrefix(frag, "#")
	prefix, token, found := strings.Cut(frag, ",")
	if !found || prefix != FragmentPrefix {
		return "", false
	}
	return Decode(token)
}
