package policy

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatcher_Classify_DefaultRules(t *testing.T) {
	matcher := NewDefaultMatcher()

	tests := []struct {
		name   string
		method string
		path   string
		want   Access
	}{
		{"auth login is public", http.MethodPost, "/api/auth/login", Public},
		{"auth register is public", http.MethodPost, "/api/auth/register", Public},
		{"auth forgot password is public", http.MethodPost, "/api/auth/forgot-password", Public},
		{"auth any method is public", http.MethodDelete, "/api/auth/whatever", Public},

		{"uploads get is public", http.MethodGet, "/uploads/abc.jpg", Public},
		{"uploads post requires auth", http.MethodPost, "/uploads/abc.jpg", RequiresAuthentication},

		{"pets list is public", http.MethodGet, "/api/pets", Public},
		{"pet detail is public", http.MethodGet, "/api/pets/42", Public},
		{"pet create requires auth", http.MethodPost, "/api/pets", RequiresAuthentication},
		{"pet update requires auth", http.MethodPut, "/api/pets/42", RequiresAuthentication},
		{"pet delete requires auth", http.MethodDelete, "/api/pets/42", RequiresAuthentication},
		{"pet image upload requires auth", http.MethodPost, "/api/pets/42/image", RequiresAuthentication},

		{"shelters get is public", http.MethodGet, "/api/shelters", Public},
		{"shelters post requires auth", http.MethodPost, "/api/shelters", RequiresAuthentication},
		{"announcements get is public", http.MethodGet, "/api/announcements", Public},
		{"announcements post requires auth", http.MethodPost, "/api/announcements", RequiresAuthentication},

		{"blog create requires auth", http.MethodPost, "/api/blogs/create", RequiresAuthentication},
		{"blog create get still requires auth", http.MethodGet, "/api/blogs/create", RequiresAuthentication},
		{"blog list all is public", http.MethodGet, "/api/blogs/all", Public},
		{"blog image is public", http.MethodGet, "/api/blogs/image/7", Public},
		{"blog by user is public", http.MethodGet, "/api/blogs/user/7", Public},
		{"blog by user post requires auth", http.MethodPost, "/api/blogs/user/7", RequiresAuthentication},

		{"health is public", http.MethodGet, "/health", Public},
		{"ready is public", http.MethodGet, "/ready", Public},

		{"users list requires auth", http.MethodGet, "/api/users", RequiresAuthentication},
		{"user approve requires auth", http.MethodPut, "/api/users/1/approve", RequiresAuthentication},
		{"unknown path requires auth", http.MethodGet, "/api/unknown", RequiresAuthentication},
		{"root requires auth", http.MethodGet, "/", RequiresAuthentication},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, matcher.Classify(tt.method, tt.path))
		})
	}
}

func TestMatcher_FirstMatchWins(t *testing.T) {
	matcher := NewMatcher([]Rule{
		{PathPrefix: "/api/things/special", Access: RequiresAuthentication},
		{PathPrefix: "/api/things", Methods: []string{http.MethodGet}, Access: Public},
	})

	assert.Equal(t, RequiresAuthentication, matcher.Classify(http.MethodGet, "/api/things/special"))
	assert.Equal(t, Public, matcher.Classify(http.MethodGet, "/api/things/other"))
}

func TestMatcher_CatchAllIsTotal(t *testing.T) {
	matcher := NewMatcher(nil)

	assert.Equal(t, RequiresAuthentication, matcher.Classify(http.MethodGet, "/anything"))
	assert.Equal(t, RequiresAuthentication, matcher.Classify(http.MethodOptions, "/"))
}

func TestMatcher_EmptyMethodSetMatchesAll(t *testing.T) {
	matcher := NewMatcher([]Rule{{PathPrefix: "/open/", Access: Public}})

	for _, method := range []string{
		http.MethodGet, http.MethodPost, http.MethodPut,
		http.MethodPatch, http.MethodDelete,
	} {
		assert.Equal(t, Public, matcher.Classify(method, "/open/resource"))
	}
}
