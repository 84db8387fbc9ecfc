package cache

import (
	"net/url"
	"testing"
)

func TestKey_String(t *testing.T) {
	tests := []struct {
		name string
		key  Key
		want string
	}{
		{
			name: "path only",
			key:  Key{Path: "/organizations"},
			want: "itglue:organizations",
		},
		{
			name: "trims slashes",
			key:  Key{Path: "/organizations/42/relationships/locations"},
			want: "itglue:organizations/42/relationships/locations",
		},
		{
			name: "with pagination query",
			key: Key{
				Path: "/organizations",
				Query: url.Values{
					"page[size]":   []string{"1000"},
					"page[number]": []string{"3"},
				},
			},
			want: "itglue:organizations:page[number]=3:page[size]=1000",
		},
		{
			name: "with filter",
			key: Key{
				Path: "/configurations",
				Query: url.Values{
					"filter[organization-id]": []string{"42"},
					"page[size]":              []string{"1"},
				},
			},
			want: "itglue:configurations:filter[organization-id]=42:page[size]=1",
		},
		{
			name: "empty path",
			key:  Key{},
			want: "itglue",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.key.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKey_Determinism(t *testing.T) {
	key := Key{
		Path: "/configurations",
		Query: url.Values{
			"filter[organization-id]": []string{"42"},
			"page[number]":            []string{"2"},
			"page[size]":              []string{"500"},
		},
	}

	first := key.String()
	for i := 0; i < 50; i++ {
		if got := key.String(); got != first {
			t.Fatalf("String() not deterministic: %q vs %q", got, first)
		}
	}
}
