package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetEncoding(t *testing.T) {
	defer SetEncoding("")

	require.NoError(t, SetEncoding("Windows 1252"))
	assert.NotNil(t, GetEncoding())

	out, err := DecodeText([]byte{'o', ' ', 0xe9})
	require.NoError(t, err)
	assert.Equal(t, "o é", string(out))

	require.NoError(t, SetEncoding(""))
	assert.Nil(t, GetEncoding())

	assert.Error(t, SetEncoding("no such page"))
}

func TestListEncodingsContainsLatin1(t *testing.T) {
	assert.Contains(t, ListEncodings(), "ISO 8859-1")
}

func TestDefaultCatalogEmbedded(t *testing.T) {
	assert.Contains(t, string(DefaultCatalog()), "resources:")
}
