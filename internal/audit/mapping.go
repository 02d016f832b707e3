package audit

import (
	"strings"
	"unicode"
)

// ActionResource holds action and resource derived from a gRPC full method name.
type ActionResource struct {
	Action   string
	Resource string
}

// ParseFullMethod maps a gRPC full method such as
// /grunzimmer.auth.v1.AuthService/SignInWithGoogle to action "sign_in_with_google"
// on resource "auth".
func ParseFullMethod(fullMethod string) ActionResource {
	slash := strings.LastIndex(fullMethod, "/")
	if slash < 0 {
		return ActionResource{Action: "unknown", Resource: "unknown"}
	}
	action := snakeCase(fullMethod[slash+1:])
	if action == "" {
		action = "unknown"
	}
	service := fullMethod[:slash]
	if dot := strings.LastIndex(service, "."); dot >= 0 {
		service = service[dot+1:]
	} else {
		return ActionResource{Action: action, Resource: "unknown"}
	}
	resource := snakeCase(strings.TrimSuffix(service, "Service"))
	if resource == "" {
		resource = "unknown"
	}
	return ActionResource{Action: action, Resource: resource}
}

// snakeCase converts CamelCase to snake_case, keeping acronyms together (SendOTP -> send_otp).
func snakeCase(s string) string {
	rs := []rune(s)
	var sb strings.Builder
	for i, r := range rs {
		if unicode.IsUpper(r) {
			prevLower := i > 0 && unicode.IsLower(rs[i-1])
			acronymEnd := i > 0 && unicode.IsUpper(rs[i-1]) && i+1 < len(rs) && unicode.IsLower(rs[i+1])
			if prevLower || acronymEnd {
				sb.WriteByte('_')
			}
			sb.WriteRune(unicode.ToLower(r))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
