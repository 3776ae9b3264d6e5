package animelists

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleMapping = `[
   {
      "idAL": 1,
      "titles": {
         "english": "Cowboy Bebop",
         "romaji": "Kaubooi Bebappu"
      }
   },
   {
      "idAL": 5,
      "titles": {
         "romaji": "Tenkuu no Shiro Laputa"
      }
   }
]`

func TestParse(t *testing.T) {
	al, err := Parse([]byte(sampleMapping))
	require.NoError(t, err)

	titles, ok := al.GetTitles(1)
	require.True(t, ok)
	require.Equal(t, "Cowboy Bebop", titles.English)
	require.Equal(t, "Kaubooi Bebappu", titles.Romaji)

	titles, ok = al.GetTitles(5)
	require.True(t, ok)
	require.Equal(t, "", titles.English)
	require.Equal(t, "Tenkuu no Shiro Laputa", titles.Romaji)

	_, ok = al.GetTitles(999)
	require.False(t, ok)
}

func TestParseInvalidJSON(t *testing.T) {
	_, err := Parse([]byte("{not json"))
	require.Error(t, err)
}
