package services

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTable(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		columns  []string
		rowCount int
	}{
		{
			name:     "header and rows",
			content:  "id,name,value\n1,alpha,10\n2,beta,20\n",
			columns:  []string{"id", "name", "value"},
			rowCount: 2,
		},
		{
			name:     "header only",
			content:  "id,name,value",
			columns:  []string{"id", "name", "value"},
			rowCount: 0,
		},
		{
			name:     "crlf line endings",
			content:  "a,b\r\n1,2\r\n3,4\r\n",
			columns:  []string{"a", "b"},
			rowCount: 2,
		},
		{
			name:     "quoted delimiter and newline",
			content:  "id,comment\n1,\"hello, world\"\n2,\"line one\nline two\"\n",
			columns:  []string{"id", "comment"},
			rowCount: 2,
		},
		{
			name:     "quoted header spanning lines",
			content:  "\"first\nname\",last\nada,lovelace\n",
			columns:  []string{"firstname", "last"},
			rowCount: 1,
		},
		{
			name:     "lone carriage returns",
			content:  "id,name\r1,a\r2,b",
			columns:  []string{"id", "name"},
			rowCount: 2,
		},
		{
			name:     "unicode line separators",
			content:  "id,name\u20281,a\f2,b\u0085",
			columns:  []string{"id", "name"},
			rowCount: 2,
		},
		{
			name:     "quote inside unquoted field",
			content:  "id,size\n1,5\" monitor\n",
			columns:  []string{"id", "size"},
			rowCount: 1,
		},
		{
			name:     "text after closing quote in header",
			content:  "\"x\"y,z\n1,2\n",
			columns:  []string{"xy", "z"},
			rowCount: 1,
		},
		{
			name:     "escaped quotes in header",
			content:  "\"say \"\"hi\"\"\",b\n1,2\n",
			columns:  []string{"say \"hi\"", "b"},
			rowCount: 1,
		},
		{
			name:     "ragged rows are counted",
			content:  "a,b,c\n1\n1,2,3,4,5\n",
			columns:  []string{"a", "b", "c"},
			rowCount: 2,
		},
		{
			name:     "byte order mark dropped",
			content:  "\xEF\xBB\xBFid,name\n1,x\n",
			columns:  []string{"id", "name"},
			rowCount: 1,
		},
		{
			name:     "blank lines are rows",
			content:  "id\n\n1\n\n2\n",
			columns:  []string{"id"},
			rowCount: 4,
		},
		{
			name:     "only newlines",
			content:  "\n\n\n",
			columns:  []string{},
			rowCount: 2,
		},
		{
			name:     "trailing empty field",
			content:  "a,b,\n1,2,3\n",
			columns:  []string{"a", "b", ""},
			rowCount: 1,
		},
		{
			name:     "non-ascii text",
			content:  "città,naïve\nRoma,日本\n",
			columns:  []string{"città", "naïve"},
			rowCount: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary, err := ParseTable([]byte(tt.content))
			require.NoError(t, err)
			assert.Equal(t, tt.columns, summary.ColumnNames)
			assert.Equal(t, tt.rowCount, summary.RowCount)
		})
	}
}

func TestParseTableErrors(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
		kind    Kind
		target  error
	}{
		{name: "empty", content: []byte{}, kind: KindParse, target: ErrNoHeaderRow},
		{name: "invalid utf-8", content: []byte("id,name\n1,\xff\xfe\n"), kind: KindDecoding, target: ErrInvalidEncoding},
		{name: "unterminated quote", content: []byte("id,name\n1,\"open\n2,b\n"), kind: KindParse, target: ErrUnterminatedQuote},
		{name: "unterminated quote in header", content: []byte("\"id,name\n"), kind: KindParse, target: ErrUnterminatedQuote},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary, err := ParseTable(tt.content)
			require.Error(t, err)
			assert.Nil(t, summary)
			assert.Equal(t, tt.kind, KindOf(err))
			if tt.target != nil {
				assert.ErrorIs(t, err, tt.target)
			}
		})
	}
}

func TestParseTableColumnCountMatchesNames(t *testing.T) {
	summary, err := ParseTable([]byte("a,b,c,d\n1,2,3,4\n"))
	require.NoError(t, err)
	assert.Len(t, summary.ColumnNames, 4)
	assert.Equal(t, 1, summary.RowCount)
}

func TestParseTableAcceptsStrayQuotes(t *testing.T) {
	for _, content := range []string{
		"id,c\n1,\"x\"y\n",
		"id,c\n1,a\"b\n",
		"id,size\n1,5\" monitor\n",
	} {
		summary, err := ParseTable([]byte(content))
		require.NoError(t, err, content)
		assert.Equal(t, 1, summary.RowCount, content)
	}
}

func TestRowReaderFields(t *testing.T) {
	reader := newRowReader("1,\"x\"y,5\" monitor,\"a \"\"b\"\"\",\n\n\"multi\nline\"")

	row, err := reader.Read()
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "xy", "5\" monitor", "a \"b\"", ""}, row)

	row, err = reader.Read()
	require.NoError(t, err)
	assert.Empty(t, row)

	row, err = reader.Read()
	require.NoError(t, err)
	assert.Equal(t, []string{"multiline"}, row)

	_, err = reader.Read()
	assert.ErrorIs(t, err, io.EOF)
}
