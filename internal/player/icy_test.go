package player

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/harmonic-vibes/internal/model"
)

// icyBody builds a stream body with one metadata block after every chunk
func icyBody(chunks []string, metas []string) []byte {
	var buf bytes.Buffer
	for i, chunk := range chunks {
		buf.WriteString(chunk)
		meta := metas[i]
		size := (len(meta) + ICYBlockUnit - 1) / ICYBlockUnit
		buf.WriteByte(byte(size))
		buf.WriteString(meta)
		buf.Write(make([]byte, size*ICYBlockUnit-len(meta)))
	}
	return buf.Bytes()
}

func TestICYReaderStripsMetadata(t *testing.T) {
	body := icyBody(
		[]string{"aaaaaaaa", "bbbbbbbb", "cccccccc"},
		[]string{"StreamTitle='A - One';", "", "StreamTitle='B - Two';"},
	)

	var blocks []string
	r := newICYReader(bytes.NewReader(body), 8, func(meta string) {
		blocks = append(blocks, meta)
	})

	audio, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "aaaaaaaabbbbbbbbcccccccc", string(audio))
	assert.Equal(t, []string{"StreamTitle='A - One';", "StreamTitle='B - Two';"}, blocks)
}

func TestICYReaderTruncatedBlock(t *testing.T) {
	body := append([]byte("aaaa"), 2, 'x')
	r := newICYReader(bytes.NewReader(body), 4, nil)

	_, err := io.ReadAll(r)
	assert.Error(t, err)
}

func TestParseICYMetadata(t *testing.T) {
	tests := []struct {
		name  string
		block string
		want  map[string]string
	}{
		{
			name:  "title and url",
			block: "StreamTitle='Tycho - Awake';StreamUrl='https://img.example/a.jpg';",
			want: map[string]string{
				ICYKeyStreamTitle: "Tycho - Awake",
				ICYKeyStreamURL:   "https://img.example/a.jpg",
			},
		},
		{
			name:  "quote inside value",
			block: "StreamTitle='Guns N' Roses - Don't Cry';",
			want:  map[string]string{ICYKeyStreamTitle: "Guns N' Roses - Don't Cry"},
		},
		{
			name:  "missing terminator",
			block: "StreamTitle='Solo'",
			want:  map[string]string{ICYKeyStreamTitle: "Solo"},
		},
		{
			name:  "empty",
			block: "",
			want:  map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseICYMetadata(tt.block))
		})
	}
}

func TestTagsFromICY(t *testing.T) {
	tags := tagsFromICY(map[string]string{ICYKeyStreamTitle: "Bonobo - Kerala - Edit"})
	assert.Equal(t, "Bonobo", tags[model.TagArtist])
	assert.Equal(t, "Kerala - Edit", tags[model.TagTitle])
	assert.Equal(t, "Bonobo - Kerala - Edit", tags[ICYKeyStreamTitle])

	tags = tagsFromICY(map[string]string{ICYKeyStreamTitle: "Station ID"})
	assert.Equal(t, "Station ID", tags[model.TagTitle])
	assert.NotContains(t, tags, model.TagArtist)

	tags = tagsFromICY(map[string]string{ICYKeyStreamURL: "x"})
	assert.NotContains(t, tags, model.TagTitle)
	assert.Equal(t, "x", tags[ICYKeyStreamURL])
}
