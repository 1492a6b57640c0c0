package store

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePath(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", "/"},
		{"/", "/"},
		{"docs", "/docs"},
		{"/docs", "/docs"},
		{"/docs/", "/docs"},
		{"//docs//2024//", "/docs/2024"},
		{"\\docs\\2024", "/docs/2024"},
		{"/docs/./2024", "/docs/2024"},
		{"/docs/../2024", "/docs/2024"},
		{"  /docs /  ", "/docs"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, NormalizePath(c.in), "input %q", c.in)
	}
}

func TestJoinAndParent(t *testing.T) {
	assert.Equal(t, "/docs", JoinPath("/", "docs"))
	assert.Equal(t, "/docs/2024", JoinPath("/docs", "2024"))
	assert.Equal(t, "/docs", ParentPath("/docs/2024"))
	assert.Equal(t, "/", ParentPath("/docs"))
	assert.Equal(t, "/", ParentPath("/"))
	assert.Equal(t, "2024", BaseName("/docs/2024"))
	assert.Equal(t, "", BaseName("/"))
}

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "report", SanitizeName("report"))
	assert.Equal(t, "report", SanitizeName("  re/po\\rt  "))
	assert.Equal(t, "", SanitizeName("///"))
	assert.Equal(t, "", SanitizeName(".."))
	assert.Equal(t, "", SanitizeName("\x00\x1f"))
}

func TestKeyMapping(t *testing.T) {
	assert.Equal(t, "u1/", PrefixFor("u1", "/"))
	assert.Equal(t, "u1/docs/", PrefixFor("u1", "/docs"))
	assert.Equal(t, "u1/docs/2024/", PrefixFor("u1", "docs/2024"))

	assert.Equal(t, "/docs", PathFromKey("u1", "u1/docs/"))
	assert.Equal(t, "/docs/a.txt", PathFromKey("u1", "u1/docs/a.txt"))
	assert.Equal(t, "/", PathFromKey("u1", "u1/"))

	assert.True(t, IsMarker("u1/docs/"))
	assert.False(t, IsMarker("u1/docs/a.txt"))
}

func TestStoredNameRoundTrip(t *testing.T) {
	stored := StoredName("report.pdf")
	assert.True(t, strings.HasSuffix(stored, "-report.pdf"))
	assert.Equal(t, "report.pdf", RecoverName("u1/docs/"+stored, nil))
}

func TestRecoverName(t *testing.T) {
	// Metadata wins over the naming convention.
	name := RecoverName("u1/docs/1700000000000-abcd-x.bin", map[string]string{
		MetaOriginalName: "real.bin",
	})
	assert.Equal(t, "real.bin", name)

	// Canonicalized metadata keys still resolve.
	name = RecoverName("u1/docs/x.bin", map[string]string{
		"original-name": "canon.bin",
	})
	assert.Equal(t, "canon.bin", name)

	// Convention strips the timestamp and nonce.
	assert.Equal(t, "photo.png", RecoverName("u1/1700000000000-a1b2c3d4-photo.png", nil))

	// Keys outside the convention fall back to the raw base name.
	assert.Equal(t, "plain.txt", RecoverName("u1/docs/plain.txt", nil))
	assert.Equal(t, "123-notahex-x", RecoverName("u1/123-notahex-x", nil))
}

func TestBreadcrumbs(t *testing.T) {
	assert.Nil(t, Breadcrumbs("/"))

	crumbs := Breadcrumbs("/docs/2024/q1")
	assert.Len(t, crumbs, 3)
	assert.Equal(t, "docs", crumbs[0].Name)
	assert.Equal(t, "/docs", crumbs[0].Path)
	assert.Equal(t, "/docs/2024/q1", crumbs[2].Path)
}
