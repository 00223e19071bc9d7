package translator

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	c := New()
	c.apiURL = srv.URL
	return c, srv
}

func TestTranslateParsesRankedMatches(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "hello", r.URL.Query().Get("q"))
		assert.Equal(t, "en|sv", r.URL.Query().Get("langpair"))
		fmt.Fprint(w, `{
			"responseStatus": 200,
			"responseData": {"translatedText": "hej"},
			"matches": [
				{"translation": "hej", "source": "MyMemory", "quality": "74"},
				{"translation": "hallå", "source": "Wikipedia", "quality": 0.8}
			]
		}`)
	})
	defer srv.Close()

	res, err := c.Translate("hello", "en", "sv")
	require.NoError(t, err)
	assert.Equal(t, "hej", res.BestTranslation)
	require.Len(t, res.Matches, 2)
	assert.Equal(t, "hej", res.Matches[0].Translation)
	assert.Equal(t, "MyMemory", res.Matches[0].Source)
	// quality arrives as a string or a number; both decode
	assert.Equal(t, 7400, res.Matches[0].Quality.Percent())
	assert.Equal(t, 80, res.Matches[1].Quality.Percent())
}

func TestTranslateAPIErrorSurfacesDetails(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"responseStatus": "403", "responseDetails": "INVALID LANGUAGE PAIR"}`)
	})
	defer srv.Close()

	_, err := c.Translate("hello", "en", "xx")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INVALID LANGUAGE PAIR")
}

func TestTranslateNetworkErrorIsAnError(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {})
	srv.Close() // refuse connections

	_, err := c.Translate("hello", "en", "sv")
	require.Error(t, err)
}

func TestTranslateGarbageBodyIsAnError(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html>nope</html>")
	})
	defer srv.Close()

	_, err := c.Translate("hello", "en", "sv")
	require.Error(t, err)
}
