package intake

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"net/textproto"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
)

// maxMultipartDepth bounds recursion into nested multipart bodies
const maxMultipartDepth = 5

// extractTextFromMessage returns the text/plain content of a message.
// Nested multipart bodies are walked depth first and every text/plain part
// that is not an attachment is decoded and kept.
func extractTextFromMessage(msg *mail.Message) (string, error) {
	var text bytes.Buffer
	err := collectText(&text, textproto.MIMEHeader(msg.Header), msg.Body, 0)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text.String()), nil
}

func collectText(out *bytes.Buffer, header textproto.MIMEHeader, body io.Reader, depth int) error {
	contentType := header.Get("Content-Type")
	if contentType == "" {
		contentType = "text/plain; charset=us-ascii"
	}

	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		// unparseable type, treat the body as plain text
		mediaType, params = "text/plain", map[string]string{}
	}

	switch {
	case strings.HasPrefix(mediaType, "multipart/"):
		boundary := params["boundary"]
		if boundary == "" || depth >= maxMultipartDepth {
			return nil
		}
		mr := multipart.NewReader(body, boundary)
		for {
			part, err := mr.NextPart()
			if err == io.EOF {
				return nil
			}
			if err != nil {
				if out.Len() > 0 {
					return nil
				}
				return fmt.Errorf("failed to read multipart body: %w", err)
			}
			if isAttachment(part.Header) {
				continue
			}
			if err := collectText(out, part.Header, part, depth+1); err != nil {
				return err
			}
		}
	case mediaType == "text/plain":
		decoded, err := decodeBody(body, header.Get("Content-Transfer-Encoding"), params["charset"])
		if err != nil {
			return err
		}
		if out.Len() > 0 {
			out.WriteString("\n")
		}
		out.WriteString(decoded)
	}

	return nil
}

// isAttachment reports whether a part is marked as a file attachment
func isAttachment(header textproto.MIMEHeader) bool {
	disposition, _, err := mime.ParseMediaType(header.Get("Content-Disposition"))
	return err == nil && disposition == "attachment"
}

// decodeBody undoes the transfer encoding and converts the charset to UTF-8
func decodeBody(body io.Reader, transferEncoding, charset string) (string, error) {
	// multipart.Part already decodes quoted-printable and drops the header
	switch strings.ToLower(strings.TrimSpace(transferEncoding)) {
	case "base64":
		body = base64.NewDecoder(base64.StdEncoding, newlineStripper{r: body})
	case "quoted-printable":
		body = quotedprintable.NewReader(body)
	}

	raw, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("failed to decode message body: %w", err)
	}

	return toUTF8(raw, charset), nil
}

// toUTF8 converts raw bytes in the named charset. Unknown charsets are
// passed through unchanged.
func toUTF8(raw []byte, charset string) string {
	charset = strings.ToLower(strings.TrimSpace(charset))
	if charset == "" || charset == "utf-8" || charset == "us-ascii" {
		return string(bytes.ToValidUTF8(raw, []byte("�")))
	}

	enc, err := htmlindex.Get(charset)
	if err != nil {
		return string(bytes.ToValidUTF8(raw, []byte("�")))
	}
	decoded, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return string(bytes.ToValidUTF8(raw, []byte("�")))
	}
	return string(decoded)
}

// newlineStripper drops CR and LF so base64 bodies split over lines decode
type newlineStripper struct {
	r io.Reader
}

func (n newlineStripper) Read(p []byte) (int, error) {
	count, err := n.r.Read(p)
	kept := 0
	for _, b := range p[:count] {
		if b != '\r' && b != '\n' {
			p[kept] = b
			kept++
		}
	}
	return kept, err
}

const maxHeaderLineLength = 76

// encodeHeaderValue renders a header value as folded RFC 2047 encoded words.
// Plain ASCII is left readable and folded at whitespace.
func encodeHeaderValue(value string) string {
	value = strings.Join(strings.Fields(value), " ")
	encoded := mime.QEncoding.Encode("utf-8", value)
	if encoded == value {
		return foldHeaderValue(value)
	}
	return strings.ReplaceAll(encoded, "?= =?", "?=\r\n =?")
}

func foldHeaderValue(value string) string {
	var b strings.Builder
	lineLen := 0
	for i, word := range strings.Fields(value) {
		if i > 0 {
			if lineLen+1+len(word) > maxHeaderLineLength {
				b.WriteString("\r\n")
				lineLen = 0
			}
			b.WriteByte(' ')
			lineLen++
		}
		b.WriteString(word)
		lineLen += len(word)
	}
	return b.String()
}

// decodeEncodedHeader decodes RFC 2047 encoded words
func decodeEncodedHeader(value string) (string, error) {
	dec := new(mime.WordDecoder)
	return dec.DecodeHeader(value)
}

// stripHeaders removes the named header fields, continuation lines
// included, from the header block of a raw message
func stripHeaders(raw []byte, names ...string) []byte {
	var out bytes.Buffer
	out.Grow(len(raw))

	skipping := false
	rest := raw
	for len(rest) > 0 {
		end := bytes.IndexByte(rest, '\n')
		var line []byte
		if end == -1 {
			line, rest = rest, nil
		} else {
			line, rest = rest[:end+1], rest[end+1:]
		}

		trimmed := bytes.TrimRight(line, "\r\n")
		if len(trimmed) == 0 {
			// end of the header block, the body is copied verbatim
			out.Write(line)
			out.Write(rest)
			break
		}

		if trimmed[0] == ' ' || trimmed[0] == '\t' {
			if !skipping {
				out.Write(line)
			}
			continue
		}

		skipping = false
		if colon := bytes.IndexByte(trimmed, ':'); colon > 0 {
			field := string(bytes.TrimSpace(trimmed[:colon]))
			for _, name := range names {
				if strings.EqualFold(field, name) {
					skipping = true
					break
				}
			}
		}
		if !skipping {
			out.Write(line)
		}
	}

	return out.Bytes()
}
