package utils

import (
	"fmt"
	"hash/fnv"
	"net/url"
	"strings"
)

// HashWord is a stable 32-bit FNV-1a hash of the normalized word.
func HashWord(word string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(strings.ToLower(strings.TrimSpace(word))))
	return h.Sum32()
}

// PlaceholderImageURL derives the same image reference for the same place
// name on every call.
func PlaceholderImageURL(place string) string {
	name := strings.TrimSpace(place)
	if name == "" {
		name = "Destination"
	}
	color := HashWord(name) & 0xffffff
	return fmt.Sprintf("https://placehold.co/800x600/%06x/ffffff?text=%s", color, url.QueryEscape(name))
}
