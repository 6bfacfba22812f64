package cookiejar

import (
	"net/http"
	neturl "net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, raw string) *neturl.URL {
	t.Helper()
	u, err := neturl.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestJar_IngestSelectRoundTrip(t *testing.T) {
	jar := New()
	jar.Ingest(mustParse(t, "https://example.com/"), []*http.Cookie{
		{Name: "a", Value: "1", Domain: "example.com", Path: "/"},
	})

	assert.Equal(t, "a=1", jar.Select(mustParse(t, "https://example.com/x")))
	assert.Equal(t, "", jar.Select(mustParse(t, "https://other.com/")))
}

func TestJar_SubdomainMatching(t *testing.T) {
	jar := New()
	jar.Ingest(mustParse(t, "https://example.com/"), []*http.Cookie{
		{Name: "a", Value: "1", Domain: "example.com", Path: "/"},
	})

	assert.Equal(t, "a=1", jar.Select(mustParse(t, "https://api.example.com/")))
	assert.Equal(t, "", jar.Select(mustParse(t, "https://notexample.com/")))
}

func TestJar_HostOnlyCookieExcludesSubdomains(t *testing.T) {
	jar := New()
	jar.Ingest(mustParse(t, "https://example.com/"), []*http.Cookie{
		{Name: "a", Value: "1"}, // no Domain attribute: host-only
	})

	assert.Equal(t, "a=1", jar.Select(mustParse(t, "https://example.com/")))
	assert.Equal(t, "", jar.Select(mustParse(t, "https://api.example.com/")))
}

func TestJar_PathPrefixMatching(t *testing.T) {
	jar := New()
	jar.Ingest(mustParse(t, "https://example.com/"), []*http.Cookie{
		{Name: "a", Value: "1", Path: "/admin"},
	})

	assert.Equal(t, "a=1", jar.Select(mustParse(t, "https://example.com/admin")))
	assert.Equal(t, "a=1", jar.Select(mustParse(t, "https://example.com/admin/users")))
	assert.Equal(t, "", jar.Select(mustParse(t, "https://example.com/administrator")))
	assert.Equal(t, "", jar.Select(mustParse(t, "https://example.com/")))
}

func TestJar_DefaultPathFromResponseURL(t *testing.T) {
	jar := New()
	jar.Ingest(mustParse(t, "https://example.com/a/b/c"), []*http.Cookie{
		{Name: "x", Value: "1"},
	})

	assert.Equal(t, "x=1", jar.Select(mustParse(t, "https://example.com/a/b/other")))
	assert.Equal(t, "", jar.Select(mustParse(t, "https://example.com/a")))
}

func TestJar_SecureExcludedOnPlaintext(t *testing.T) {
	jar := New()
	jar.Ingest(mustParse(t, "https://example.com/"), []*http.Cookie{
		{Name: "s", Value: "1", Path: "/", Secure: true},
		{Name: "p", Value: "2", Path: "/"},
	})

	assert.Equal(t, "p=2", jar.Select(mustParse(t, "http://example.com/")))
	assert.Contains(t, jar.Select(mustParse(t, "https://example.com/")), "s=1")
}

func TestJar_UpsertByNameDomainPath(t *testing.T) {
	jar := New()
	u := mustParse(t, "https://example.com/")

	jar.Ingest(u, []*http.Cookie{{Name: "a", Value: "old", Path: "/"}})
	jar.Ingest(u, []*http.Cookie{{Name: "a", Value: "new", Path: "/"}})

	assert.Equal(t, 1, jar.Len())
	assert.Equal(t, "a=new", jar.Select(u))
}

func TestJar_ExpiredCookiesPurged(t *testing.T) {
	jar := New()
	now := time.Now()
	jar.now = func() time.Time { return now }

	u := mustParse(t, "https://example.com/")
	jar.Ingest(u, []*http.Cookie{
		{Name: "a", Value: "1", Path: "/", Expires: now.Add(time.Minute)},
	})
	assert.Equal(t, "a=1", jar.Select(u))

	jar.now = func() time.Time { return now.Add(2 * time.Minute) }
	assert.Equal(t, "", jar.Select(u))
	assert.Equal(t, 0, jar.Len())
}

func TestJar_MaxAgeDeletesAndExpires(t *testing.T) {
	jar := New()
	u := mustParse(t, "https://example.com/")

	jar.Ingest(u, []*http.Cookie{{Name: "a", Value: "1", Path: "/"}})
	jar.Ingest(u, []*http.Cookie{{Name: "a", Value: "", Path: "/", MaxAge: -1}})

	assert.Equal(t, "", jar.Select(u))
}

func TestJar_LongerPathsFirst(t *testing.T) {
	jar := New()
	u := mustParse(t, "https://example.com/a/b")

	jar.Ingest(u, []*http.Cookie{
		{Name: "root", Value: "1", Path: "/"},
		{Name: "deep", Value: "2", Path: "/a/b"},
	})

	assert.Equal(t, "deep=2; root=1", jar.Select(u))
}

func TestJar_ConcurrentAccess(t *testing.T) {
	jar := New()
	u := mustParse(t, "https://example.com/")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			jar.Ingest(u, []*http.Cookie{{Name: "a", Value: "1", Path: "/"}})
		}()
		go func() {
			defer wg.Done()
			_ = jar.Select(u)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, jar.Len())
	assert.Equal(t, "a=1", jar.Select(u))
}
