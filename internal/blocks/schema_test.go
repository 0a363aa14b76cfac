// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package blocks

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blockpress/internal/models"
)

func TestDecodeEmptyContent(t *testing.T) {
	for _, raw := range []string{"", "  ", "null", "{}"} {
		c, err := Decode[TextContent](json.RawMessage(raw))
		require.NoError(t, err, "raw=%q", raw)
		assert.Empty(t, c.HTMLContent)
	}
}

func TestDecodeMalformedIsIncomplete(t *testing.T) {
	_, err := Decode[TextContent](json.RawMessage(`{"html_content": `))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIncomplete)

	var ie *IncompleteError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, "content", ie.Field)
}

func TestDecodeWrongFieldType(t *testing.T) {
	_, err := Decode[TextContent](json.RawMessage(`{"html_content": 42}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIncomplete)

	var ie *IncompleteError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, "html_content", ie.Field)
}

func TestDecodeHeading(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"level 1", `{"level":1,"text_content":"Hi"}`, false},
		{"level 6", `{"level":6,"text_content":"Hi"}`, false},
		{"level 0", `{"level":0,"text_content":"Hi"}`, true},
		{"level 7", `{"level":7,"text_content":"Hi"}`, true},
		{"missing level", `{"text_content":"Hi"}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Decode[HeadingContent](json.RawMessage(tt.raw))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrIncomplete)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Hi", c.TextContent)
		})
	}
}

func TestDecodeImage(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr error
	}{
		{"complete", `{"media_id":"m1","object_key":"a.jpg","width":800,"height":600}`, nil},
		{"no media", `{"object_key":"a.jpg","width":800,"height":600}`, ErrMissingMedia},
		{"null media", `{"media_id":null,"object_key":"a.jpg","width":800,"height":600}`, ErrMissingMedia},
		{"no object key", `{"media_id":"m1","width":800,"height":600}`, ErrMissingMedia},
		{"blank object key", `{"media_id":"m1","object_key":" ","width":800,"height":600}`, ErrMissingMedia},
		{"width only", `{"media_id":"m1","object_key":"a.jpg","width":800}`, ErrInvalidDimensions},
		{"height only", `{"media_id":"m1","object_key":"a.jpg","height":600}`, ErrInvalidDimensions},
		{"zero width", `{"media_id":"m1","object_key":"a.jpg","width":0,"height":600}`, ErrInvalidDimensions},
		{"negative height", `{"media_id":"m1","object_key":"a.jpg","width":800,"height":-1}`, ErrInvalidDimensions},
		{"no dimensions", `{"media_id":"m1","object_key":"a.jpg"}`, ErrInvalidDimensions},
		{"string width", `{"media_id":"m1","object_key":"a.jpg","width":"800","height":600}`, ErrInvalidDimensions},
		{"fractional width", `{"media_id":"m1","object_key":"a.jpg","width":800.5,"height":600}`, ErrInvalidDimensions},
		{"string height, no media", `{"width":800,"height":"600"}`, ErrMissingMedia},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Decode[ImageContent](json.RawMessage(tt.raw))
			if tt.wantErr == nil {
				require.NoError(t, err)
				w, h, ok := c.Dimensions()
				assert.True(t, ok)
				assert.Equal(t, 800, w)
				assert.Equal(t, 600, h)
				assert.Equal(t, "a.jpg", c.Key())
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, ErrIncomplete)
		})
	}
}

func TestButtonDefaults(t *testing.T) {
	c, err := Decode[ButtonContent](json.RawMessage(`{"text":"Go","url":"/x","variant":"neon","size":"lg"}`))
	require.NoError(t, err)
	assert.Equal(t, "default", c.VariantOrDefault())
	assert.Equal(t, "lg", c.SizeOrDefault())

	_, err = Decode[ButtonContent](json.RawMessage(`{"text":"Go"}`))
	assert.ErrorIs(t, err, ErrIncomplete)
}

func TestDecodePostsGrid(t *testing.T) {
	c, err := Decode[PostsGridContent](json.RawMessage(`{"postsPerPage":6,"columns":3,"showPagination":true,"title":"Latest"}`))
	require.NoError(t, err)
	assert.Equal(t, PostsGridContent{PostsPerPage: 6, Columns: 3, ShowPagination: true, Title: "Latest"}, c)

	_, err = Decode[PostsGridContent](json.RawMessage(`{"postsPerPage":6,"columns":7}`))
	assert.ErrorIs(t, err, ErrIncomplete)
	_, err = Decode[PostsGridContent](json.RawMessage(`{"postsPerPage":0,"columns":3}`))
	assert.ErrorIs(t, err, ErrIncomplete)
}

func TestDecodeSection(t *testing.T) {
	raw := `{
		"container_type": "full-width",
		"responsive_columns": {"mobile": 1, "tablet": 2, "desktop": 2},
		"column_blocks": [
			[{"block_type": "text", "content": {"html_content": "<p>a</p>"}}],
			[{"block_type": "heading", "content": {"level": 2, "text_content": "b"}}]
		]
	}`
	c, err := Decode[SectionContent](json.RawMessage(raw))
	require.NoError(t, err)
	require.Len(t, c.ColumnBlocks, 2)
	assert.Equal(t, "heading", c.ColumnBlocks[1][0].BlockType)
	assert.Equal(t, "full-width", c.ContainerOrDefault())

	_, err = Decode[SectionContent](json.RawMessage(`{"responsive_columns":{"desktop":5}}`))
	var ie *IncompleteError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "responsive_columns.desktop", ie.Field)

	_, err = Decode[SectionContent](json.RawMessage(`{"column_blocks":[[{"content":{}}]]}`))
	assert.ErrorIs(t, err, ErrIncomplete)
}

func TestDecodeHeroUsesSectionShape(t *testing.T) {
	c, err := Decode[HeroContent](json.RawMessage(`{"min_height":"80vh","column_blocks":[[{"block_type":"heading","content":{"level":1,"text_content":"Welcome"}}]]}`))
	require.NoError(t, err)
	assert.Equal(t, "80vh", c.MinHeight)
	assert.Equal(t, "container", c.ContainerOrDefault())
	require.Len(t, c.ColumnBlocks, 1)
}

func TestSortBlocks(t *testing.T) {
	bs := []models.Block{
		{ID: 5, Order: 2},
		{ID: 3, Order: 1},
		{ID: 9, Order: 1},
		{ID: 1, Order: 2},
		{ID: 2, Order: 0},
	}
	SortBlocks(bs)

	var ids []int64
	for _, b := range bs {
		ids = append(ids, b.ID)
	}
	assert.Equal(t, []int64{2, 3, 9, 1, 5}, ids)
}
