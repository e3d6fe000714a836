package request

// Method is the closed set of verbs the server understands. Anything else
// parses to MethodUnsupported; it is never coerced to GET.
type Method int

const (
	MethodUnsupported Method = iota
	MethodGet
	MethodPost
)

// ParseMethod maps a request-line token to a Method. Matching is exact, so
// "get" is unsupported.
func ParseMethod(token string) Method {
	switch token {
	case "GET":
		return MethodGet
	case "POST":
		return MethodPost
	default:
		return MethodUnsupported
	}
}

func (m Method) String() string {
	switch m {
	case MethodGet:
		return "GET"
	case MethodPost:
		return "POST"
	default:
		return "UNSUPPORTED"
	}
}
