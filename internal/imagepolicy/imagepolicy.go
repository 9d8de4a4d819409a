// Package imagepolicy drops remote images whose host is not allowed
package imagepolicy

import (
	"net/url"
	"strings"

	"github.com/nkiryanov/tourfront/internal/models"
)

type Policy struct {
	hosts map[string]struct{}
}

// New builds a policy from host names. "*.example.com" allows any subdomain of example.com
func New(hosts []string) *Policy {
	p := &Policy{hosts: make(map[string]struct{}, len(hosts))}
	for _, h := range hosts {
		h = strings.ToLower(strings.TrimSpace(h))
		if h != "" {
			p.hosts[h] = struct{}{}
		}
	}
	return p
}

// Allowed reports src may be loaded. Relative paths are served by us and always allowed
func (p *Policy) Allowed(src string) bool {
	if src == "" {
		return true
	}
	u, err := url.Parse(src)
	if err != nil {
		return false
	}
	if u.Host == "" {
		return u.Scheme == ""
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return false
	}

	host := strings.ToLower(u.Hostname())
	if _, ok := p.hosts[host]; ok {
		return true
	}
	for i := strings.IndexByte(host, '.'); i >= 0; i = strings.IndexByte(host, '.') {
		host = host[i+1:]
		if _, ok := p.hosts["*."+host]; ok {
			return true
		}
	}
	return false
}

// Filter returns src when allowed, empty string otherwise
func (p *Policy) Filter(src string) string {
	if p.Allowed(src) {
		return src
	}
	return ""
}

func (p *Policy) Tour(t models.Tour) models.Tour {
	t.Image = p.Filter(t.Image)
	if len(t.Gallery) > 0 {
		gallery := make([]string, 0, len(t.Gallery))
		for _, src := range t.Gallery {
			if p.Allowed(src) && src != "" {
				gallery = append(gallery, src)
			}
		}
		t.Gallery = gallery
	}
	return t
}

func (p *Policy) Tours(tours []models.Tour) []models.Tour {
	for i := range tours {
		tours[i] = p.Tour(tours[i])
	}
	return tours
}

func (p *Policy) Destination(d models.Destination) models.Destination {
	d.Image = p.Filter(d.Image)
	return d
}

func (p *Policy) Destinations(ds []models.Destination) []models.Destination {
	for i := range ds {
		ds[i] = p.Destination(ds[i])
	}
	return ds
}

func (p *Policy) Post(post models.Post) models.Post {
	post.Image = p.Filter(post.Image)
	return post
}

func (p *Policy) Posts(posts []models.Post) []models.Post {
	for i := range posts {
		posts[i] = p.Post(posts[i])
	}
	return posts
}
