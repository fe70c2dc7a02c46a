package translate

// cleanJSON locates the first '{' in raw and scans forward balancing
// brace depth, returning the substring through the matching closing
// '}'. Anything outside that range — preamble, trailing prose, code
// fences — is discarded. Returns ok=false if no balanced object is
// found.
func cleanJSON(raw string) (cleaned string, ok bool) {
	start := -1
	depth := 0
	for i := 0; i < len(raw); i++ {
		switch raw[i] {
		case '{':
			if start == -1 {
				start = i
			}
			depth++
		case '}':
			if start == -1 {
				continue
			}
			depth--
			if depth == 0 {
				return raw[start : i+1], true
			}
		}
	}
	return "", false
}
