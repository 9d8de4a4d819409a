package imagepolicy

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/tourfront/internal/models"
)

func TestPolicy_Allowed(t *testing.T) {
	p := New([]string{"images.unsplash.com", "*.cdn.example.com", " "})

	tests := []struct {
		src  string
		want bool
	}{
		{"", true},
		{"/media/tours/alps.jpg", true},
		{"https://images.unsplash.com/photo-1.jpg", true},
		{"https://IMAGES.unsplash.com/photo-1.jpg", true},
		{"https://eu.cdn.example.com/a.jpg", true},
		{"https://a.b.cdn.example.com/a.jpg", true},
		{"https://cdn.example.com/a.jpg", false},
		{"https://evil.com/a.jpg", false},
		{"https://images.unsplash.com.evil.com/a.jpg", false},
		{"javascript:alert(1)", false},
		{"ftp://images.unsplash.com/a.jpg", false},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			require.Equal(t, tt.want, p.Allowed(tt.src))
		})
	}
}

func TestPolicy_Tour(t *testing.T) {
	p := New([]string{"images.unsplash.com"})

	got := p.Tour(models.Tour{
		Image:   "https://evil.com/a.jpg",
		Gallery: []string{"https://images.unsplash.com/1.jpg", "https://evil.com/2.jpg"},
	})

	require.Empty(t, got.Image)
	require.Equal(t, []string{"https://images.unsplash.com/1.jpg"}, got.Gallery)
}
