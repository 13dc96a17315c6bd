package routes

import "strings"

type Params map[string]string

func splitPath(path string) []string {
	path = strings.TrimSpace(path)
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

// Match reports whether path matches pattern. A ":name" segment matches any
// single segment and a trailing "*" matches the remainder, including nothing.
func Match(pattern, path string) (Params, bool) {
	patternParts := splitPath(pattern)
	pathParts := splitPath(path)
	params := Params{}
	for i, part := range patternParts {
		if part == "*" && i == len(patternParts)-1 {
			params["*"] = strings.Join(pathParts[min(i, len(pathParts)):], "/")
			return params, true
		}
		if i >= len(pathParts) {
			return nil, false
		}
		if strings.HasPrefix(part, ":") {
			params[part[1:]] = pathParts[i]
			continue
		}
		if part != pathParts[i] {
			return nil, false
		}
	}
	if len(pathParts) != len(patternParts) {
		return nil, false
	}
	return params, true
}

func MatchAny(path string, patterns ...string) bool {
	for _, pattern := range patterns {
		if _, ok := Match(pattern, path); ok {
			return true
		}
	}
	return false
}

func Expand(pattern string, params Params) string {
	parts := splitPath(pattern)
	for i, part := range parts {
		if strings.HasPrefix(part, ":") {
			parts[i] = params[part[1:]]
		} else if part == "*" {
			parts[i] = params["*"]
		}
	}
	return Clean("/" + strings.Join(parts, "/"))
}

func Clean(path string) string {
	parts := splitPath(path)
	kept := parts[:0]
	for _, part := range parts {
		if part != "" {
			kept = append(kept, part)
		}
	}
	return "/" + strings.Join(kept, "/")
}

func Scope(path string) string {
	parts := splitPath(path)
	if len(parts) == 0 {
		return ""
	}
	return parts[0]
}
