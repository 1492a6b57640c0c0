package store

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
	"time"

	"drive-manager/feature/drive/models"
)

// Delimiter separates path segments in object keys. A zero-byte object whose
// key ends in the delimiter is a folder marker.
const Delimiter = "/"

// Object user-metadata keys. Minio canonicalizes metadata names, so reads go
// through metaLookup rather than direct map access.
const (
	MetaOriginalName = "Original-Name"
	MetaFolderName   = "Folder-Name"
	MetaOwner        = "Owner"
	MetaCreatedAt    = "Created-At"
)

// storedNamePattern matches the upload naming convention for object base
// names: unix-millis, a dash, a hex nonce, a dash, then the original name.
var storedNamePattern = regexp.MustCompile(`^\d{10,16}-[0-9a-f]{4,16}-(.+)$`)

// NormalizePath canonicalizes a virtual path: forward slashes, a single
// leading "/", no trailing "/", no empty segments. The root is "/".
func NormalizePath(p string) string {
	p = strings.ReplaceAll(p, "\\", Delimiter)
	segments := make([]string, 0, 8)
	for _, seg := range strings.Split(p, Delimiter) {
		seg = strings.TrimSpace(seg)
		if seg == "" || seg == "." || seg == ".." {
			continue
		}
		segments = append(segments, seg)
	}
	if len(segments) == 0 {
		return Delimiter
	}
	return Delimiter + strings.Join(segments, Delimiter)
}

// JoinPath appends a child name to a normalized parent path.
func JoinPath(parent, name string) string {
	parent = NormalizePath(parent)
	if parent == Delimiter {
		return Delimiter + name
	}
	return parent + Delimiter + name
}

// ParentPath returns the parent of a normalized path ("/" for top-level).
func ParentPath(p string) string {
	p = NormalizePath(p)
	if p == Delimiter {
		return Delimiter
	}
	idx := strings.LastIndex(p, Delimiter)
	if idx <= 0 {
		return Delimiter
	}
	return p[:idx]
}

// BaseName returns the last segment of a normalized path.
func BaseName(p string) string {
	p = NormalizePath(p)
	if p == Delimiter {
		return ""
	}
	return p[strings.LastIndex(p, Delimiter)+1:]
}

// SanitizeName strips path separators and control characters from a
// user-supplied folder or file name. Empty results mean the name is invalid.
func SanitizeName(name string) string {
	name = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, name)
	name = strings.ReplaceAll(name, "/", "")
	name = strings.ReplaceAll(name, "\\", "")
	name = strings.TrimSpace(name)
	if name == "." || name == ".." {
		return ""
	}
	return name
}

// OwnerPrefix is the key prefix scoping one owner's namespace.
func OwnerPrefix(ownerID string) string {
	return ownerID + Delimiter
}

// PrefixFor maps a normalized virtual path to its delimiter-terminated key
// prefix. For a folder this is also its marker key.
func PrefixFor(ownerID, path string) string {
	path = NormalizePath(path)
	if path == Delimiter {
		return OwnerPrefix(ownerID)
	}
	return ownerID + path + Delimiter
}

// PathFromKey maps an object key back to the virtual path of its directory
// content, e.g. "u1/docs/x" -> "/docs/x" and marker "u1/docs/" -> "/docs".
func PathFromKey(ownerID, key string) string {
	rel := strings.TrimPrefix(key, OwnerPrefix(ownerID))
	rel = strings.TrimSuffix(rel, Delimiter)
	if rel == "" {
		return Delimiter
	}
	return Delimiter + rel
}

// IsMarker reports whether a key names a folder marker object.
func IsMarker(key string) bool {
	return strings.HasSuffix(key, Delimiter)
}

// StoredName builds the object base name for an uploaded file:
// "<unix-millis>-<hex nonce>-<sanitized original>". The convention lets
// listing recover the original name even when object metadata is gone.
func StoredName(originalName string) string {
	nonce := make([]byte, 4)
	_, _ = rand.Read(nonce)
	return fmt.Sprintf("%d-%s-%s", time.Now().UnixMilli(), hex.EncodeToString(nonce), SanitizeName(originalName))
}

// RecoverName derives the user-visible file name for an object. Object
// metadata wins; otherwise the stored-name convention is stripped; otherwise
// the raw base name stands.
func RecoverName(key string, meta map[string]string) string {
	if name := metaLookup(meta, MetaOriginalName); name != "" {
		return name
	}
	base := key
	if idx := strings.LastIndex(key, Delimiter); idx >= 0 {
		base = key[idx+1:]
	}
	if m := storedNamePattern.FindStringSubmatch(base); m != nil {
		return m[1]
	}
	return base
}

// metaLookup reads a user-metadata value tolerating header canonicalization.
func metaLookup(meta map[string]string, name string) string {
	if meta == nil {
		return ""
	}
	if v, ok := meta[name]; ok {
		return v
	}
	for k, v := range meta {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

// Breadcrumbs expands a normalized path into its segment chain,
// e.g. "/docs/2024" -> [docs:/docs, 2024:/docs/2024]. Root yields none.
func Breadcrumbs(path string) []models.Breadcrumb {
	path = NormalizePath(path)
	if path == Delimiter {
		return nil
	}
	segments := strings.Split(strings.TrimPrefix(path, Delimiter), Delimiter)
	crumbs := make([]models.Breadcrumb, 0, len(segments))
	acc := ""
	for _, seg := range segments {
		acc += Delimiter + seg
		crumbs = append(crumbs, models.Breadcrumb{Name: seg, Path: acc})
	}
	return crumbs
}
