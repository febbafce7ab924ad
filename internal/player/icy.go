package player

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/ytget/harmonic-vibes/internal/model"
)

// ICY protocol constants
const (
	ICYMetaDataHeader = "Icy-MetaData"
	ICYMetaIntHeader  = "icy-metaint"
	ICYBlockUnit      = 16
	ICYMaxBlockSize   = 255 * ICYBlockUnit

	ICYKeyStreamTitle = "StreamTitle"
	ICYKeyStreamURL   = "StreamUrl"

	// ICYTitleSeparator splits "Artist - Title" in StreamTitle
	ICYTitleSeparator = " - "
)

// icyReader strips ICY metadata blocks out of a shoutcast/icecast body.
// Every metaint audio bytes the server inserts one length byte followed by
// length*16 bytes of metadata. Non-empty blocks are passed to onMeta.
type icyReader struct {
	r         *bufio.Reader
	metaint   int
	remaining int
	onMeta    func(string)
}

func newICYReader(r io.Reader, metaint int, onMeta func(string)) *icyReader {
	return &icyReader{
		r:         bufio.NewReader(r),
		metaint:   metaint,
		remaining: metaint,
		onMeta:    onMeta,
	}
}

// Read returns audio bytes only
func (ir *icyReader) Read(p []byte) (int, error) {
	if ir.remaining == 0 {
		if err := ir.readBlock(); err != nil {
			return 0, err
		}
		ir.remaining = ir.metaint
	}

	if len(p) > ir.remaining {
		p = p[:ir.remaining]
	}
	n, err := ir.r.Read(p)
	ir.remaining -= n
	return n, err
}

func (ir *icyReader) readBlock() error {
	lengthByte, err := ir.r.ReadByte()
	if err != nil {
		return err
	}

	size := int(lengthByte) * ICYBlockUnit
	if size == 0 {
		return nil
	}

	block := make([]byte, size)
	if _, err := io.ReadFull(ir.r, block); err != nil {
		return fmt.Errorf("metadata read error: %w", err)
	}

	meta := strings.TrimRight(string(block), "\x00")
	if meta != "" && ir.onMeta != nil {
		ir.onMeta(meta)
	}
	return nil
}

// ParseICYMetadata parses a block like "StreamTitle='A - B';StreamUrl='';"
// into its key/value pairs. Values may contain quotes and semicolons as long
// as they are not followed by the "';" terminator.
func ParseICYMetadata(block string) map[string]string {
	fields := make(map[string]string)

	rest := block
	for {
		eq := strings.Index(rest, "='")
		if eq < 0 {
			break
		}
		key := strings.TrimSpace(strings.TrimLeft(rest[:eq], ";"))
		rest = rest[eq+2:]

		end := strings.Index(rest, "';")
		var value string
		if end < 0 {
			value = strings.TrimSuffix(rest, "'")
			rest = ""
		} else {
			value = rest[:end]
			rest = rest[end+2:]
		}

		if key != "" {
			fields[key] = value
		}
		if rest == "" {
			break
		}
	}

	return fields
}

// tagsFromICY maps ICY fields to inline tags. StreamTitle is split on the
// first " - " into artist and title. Raw ICY fields are kept under their own
// keys.
func tagsFromICY(fields map[string]string) model.InlineTags {
	tags := make(model.InlineTags, len(fields)+2)
	for k, v := range fields {
		tags[k] = v
	}

	title := strings.TrimSpace(fields[ICYKeyStreamTitle])
	if title == "" {
		return tags
	}

	if artist, name, found := strings.Cut(title, ICYTitleSeparator); found {
		if a := strings.TrimSpace(artist); a != "" {
			tags[model.TagArtist] = a
		}
		if n := strings.TrimSpace(name); n != "" {
			tags[model.TagTitle] = n
		}
		return tags
	}

	tags[model.TagTitle] = title
	return tags
}
