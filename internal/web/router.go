package web

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// ErrRouteShadowed reports a registration that could never be reached because
// an earlier route with the same method already matches every path it would.
var ErrRouteShadowed = errors.New("route shadowed by earlier registration")

type segment struct {
	lit   string
	param string
}

func (s segment) isParam() bool { return s.param != "" }

type route struct {
	method  string
	pattern string
	segs    []segment
	h       http.Handler
}

// Router dispatches on an ordered list of routes: the first registered route
// whose method and path match wins. Literal segments match only themselves;
// {name} segments match any single non-empty segment and are exposed through
// (*http.Request).PathValue.
//
// Specific routes must be registered before parameterized siblings that share
// their method and prefix; Handle refuses registrations that break this.
type Router struct {
	routes []route
}

func NewRouter() *Router {
	return &Router{}
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

func parsePattern(pattern string) ([]segment, error) {
	parts := splitPath(pattern)
	segs := make([]segment, 0, len(parts))
	seen := map[string]bool{}
	for _, part := range parts {
		if strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}") {
			name := strings.TrimSpace(part[1 : len(part)-1])
			if name == "" {
				return nil, fmt.Errorf("route %q: empty parameter name", pattern)
			}
			if seen[name] {
				return nil, fmt.Errorf("route %q: duplicate parameter %q", pattern, name)
			}
			seen[name] = true
			segs = append(segs, segment{param: name})
			continue
		}
		if part == "" || strings.ContainsAny(part, "{}") {
			return nil, fmt.Errorf("route %q: invalid segment %q", pattern, part)
		}
		segs = append(segs, segment{lit: part})
	}
	return segs, nil
}

// covers reports whether every path matched by b is also matched by a.
func covers(a, b route) bool {
	if a.method != b.method || len(a.segs) != len(b.segs) {
		return false
	}
	for i := range a.segs {
		as, bs := a.segs[i], b.segs[i]
		if as.isParam() {
			continue
		}
		if bs.isParam() || as.lit != bs.lit {
			return false
		}
	}
	return true
}

func (rt *Router) Handle(method, pattern string, h http.Handler) error {
	method = strings.ToUpper(strings.TrimSpace(method))
	if method == "" {
		return fmt.Errorf("route %q: missing method", pattern)
	}
	if h == nil {
		return fmt.Errorf("route %s %s: nil handler", method, pattern)
	}
	segs, err := parsePattern(pattern)
	if err != nil {
		return err
	}
	next := route{method: method, pattern: pattern, segs: segs, h: h}
	for _, prev := range rt.routes {
		if covers(prev, next) {
			return fmt.Errorf("%w: %s %s is captured by %s %s", ErrRouteShadowed, method, pattern, prev.method, prev.pattern)
		}
	}
	rt.routes = append(rt.routes, next)
	return nil
}

func (rt *Router) HandleFunc(method, pattern string, h http.HandlerFunc) error {
	return rt.Handle(method, pattern, h)
}

func (r route) match(parts []string) (map[string]string, bool) {
	if len(parts) != len(r.segs) {
		return nil, false
	}
	var params map[string]string
	for i, s := range r.segs {
		if s.isParam() {
			if parts[i] == "" {
				return nil, false
			}
			if params == nil {
				params = map[string]string{}
			}
			params[s.param] = parts[i]
			continue
		}
		if parts[i] != s.lit {
			return nil, false
		}
	}
	return params, true
}

func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	parts := splitPath(r.URL.Path)
	allowed := map[string]bool{}
	for _, rr := range rt.routes {
		params, ok := rr.match(parts)
		if !ok {
			continue
		}
		if rr.method != r.Method {
			allowed[rr.method] = true
			continue
		}
		for k, v := range params {
			r.SetPathValue(k, v)
		}
		rr.h.ServeHTTP(w, r)
		return
	}
	if len(allowed) > 0 {
		methods := make([]string, 0, len(allowed))
		for m := range allowed {
			methods = append(methods, m)
		}
		sort.Strings(methods)
		w.Header().Set("Allow", strings.Join(methods, ", "))
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeError(w, http.StatusNotFound, "not found")
}

// Routes lists registrations in dispatch order as "METHOD pattern".
func (rt *Router) Routes() []string {
	out := make([]string, 0, len(rt.routes))
	for _, r := range rt.routes {
		out = append(out, r.method+" "+r.pattern)
	}
	return out
}
