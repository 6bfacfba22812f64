// Package cookiejar implements an in-memory, session-scoped cookie store
// reconciling Set-Cookie response headers with future Cookie request
// headers. Matching follows the RFC 6265 rules the core needs: domain
// suffix matching with host-only cookies, path prefix matching, Secure
// excluded on plaintext requests, and lazy expiry.
package cookiejar

import (
	"net/http"
	neturl "net/url"
	"sort"
	"strings"
	"sync"
	"time"
)

// Cookie is one stored entry. The (Name, Domain, Path) triple is the
// identity: a later Set-Cookie with the same triple overwrites.
type Cookie struct {
	Name     string
	Value    string
	Domain   string
	Path     string
	Expires  time.Time // zero means session cookie
	Secure   bool
	HostOnly bool

	created time.Time
}

func (c *Cookie) expired(now time.Time) bool {
	return !c.Expires.IsZero() && !c.Expires.After(now)
}

// Jar is safe for concurrent use by many in-flight requests. The lock
// covers individual read/write operations only and is never held across
// network activity.
type Jar struct {
	mu      sync.Mutex
	cookies map[string]*Cookie
	now     func() time.Time
}

func New() *Jar {
	return &Jar{
		cookies: make(map[string]*Cookie),
		now:     time.Now,
	}
}

func key(name, domain, path string) string {
	return name + ";" + domain + ";" + path
}

// Ingest records every parsed Set-Cookie from a response, resolving the
// default domain and path from the response URL when the cookie omits
// them. A negative Max-Age (surfaced by the parser as MaxAge < 0)
// deletes the entry.
func (j *Jar) Ingest(u *neturl.URL, cookies []*http.Cookie) {
	if len(cookies) == 0 {
		return
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	now := j.now()
	for _, hc := range cookies {
		c := &Cookie{
			Name:    hc.Name,
			Value:   hc.Value,
			Secure:  hc.Secure,
			created: now,
		}

		if hc.Domain != "" {
			c.Domain = strings.ToLower(strings.TrimPrefix(hc.Domain, "."))
		} else {
			c.Domain = strings.ToLower(u.Hostname())
			c.HostOnly = true
		}

		if hc.Path != "" && strings.HasPrefix(hc.Path, "/") {
			c.Path = hc.Path
		} else {
			c.Path = defaultPath(u.Path)
		}

		switch {
		case hc.MaxAge < 0:
			delete(j.cookies, key(c.Name, c.Domain, c.Path))
			continue
		case hc.MaxAge > 0:
			c.Expires = now.Add(time.Duration(hc.MaxAge) * time.Second)
		case !hc.Expires.IsZero():
			c.Expires = hc.Expires
		}

		if c.expired(now) {
			delete(j.cookies, key(c.Name, c.Domain, c.Path))
			continue
		}

		j.cookies[key(c.Name, c.Domain, c.Path)] = c
	}
}

// Select returns the Cookie header value for a request URL, or the empty
// string when nothing matches. Expired entries are purged on the way.
func (j *Jar) Select(u *neturl.URL) string {
	j.mu.Lock()
	defer j.mu.Unlock()

	now := j.now()
	host := strings.ToLower(u.Hostname())
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	secure := u.Scheme == "https"

	var matched []*Cookie
	for k, c := range j.cookies {
		if c.expired(now) {
			delete(j.cookies, k)
			continue
		}
		if c.Secure && !secure {
			continue
		}
		if !domainMatch(host, c) || !pathMatch(path, c.Path) {
			continue
		}
		matched = append(matched, c)
	}

	if len(matched) == 0 {
		return ""
	}

	// Longer paths first, then older cookies, per RFC 6265 §5.4.
	sort.Slice(matched, func(i, k int) bool {
		if len(matched[i].Path) != len(matched[k].Path) {
			return len(matched[i].Path) > len(matched[k].Path)
		}
		if !matched[i].created.Equal(matched[k].created) {
			return matched[i].created.Before(matched[k].created)
		}
		return matched[i].Name < matched[k].Name
	})

	pairs := make([]string, len(matched))
	for i, c := range matched {
		pairs[i] = c.Name + "=" + c.Value
	}
	return strings.Join(pairs, "; ")
}

// Len reports the number of live entries.
func (j *Jar) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()

	n := 0
	now := j.now()
	for _, c := range j.cookies {
		if !c.expired(now) {
			n++
		}
	}
	return n
}

// Clear drops every entry.
func (j *Jar) Clear() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.cookies = make(map[string]*Cookie)
}

func domainMatch(host string, c *Cookie) bool {
	if host == c.Domain {
		return true
	}
	if c.HostOnly {
		return false
	}
	return strings.HasSuffix(host, "."+c.Domain)
}

// pathMatch implements the RFC 6265 §5.1.4 path-match rules: exact
// match, or prefix match at a '/' boundary.
func pathMatch(reqPath, cookiePath string) bool {
	if reqPath == cookiePath {
		return true
	}
	if !strings.HasPrefix(reqPath, cookiePath) {
		return false
	}
	return strings.HasSuffix(cookiePath, "/") || reqPath[len(cookiePath)] == '/'
}

// defaultPath derives the cookie default-path from a request path per
// RFC 6265 §5.1.4: everything up to, but not including, the last '/'.
func defaultPath(p string) string {
	if p == "" || !strings.HasPrefix(p, "/") {
		return "/"
	}
	i := strings.LastIndex(p, "/")
	if i == 0 {
		return "/"
	}
	return p[:i]
}
