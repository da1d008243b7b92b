package cache

import (
	"fmt"
	"strings"
)

// set holding every cached listing query key, cleared on any listing write.
const ListingKeysSetKey = "listings:keys"

// cache key for a listing query; the signature is built by the caller.
func ListingQueryKey(signature string) string {
	return fmt.Sprintf("listings:query:%s", signature)
}

// cache key for a single listing.
func ListingKey(id string) string {
	return fmt.Sprintf("listing:%s", id)
}

// cache key for a geocoded address.
func GeocodeKey(address string) string {
	return fmt.Sprintf("geocode:%s", NormalizeAddress(address))
}

var addressAbbreviations = []struct{ full, abbr string }{
	{"drive", "dr"},
	{"street", "st"},
	{"avenue", "ave"},
	{"road", "rd"},
	{"boulevard", "blvd"},
	{"lane", "ln"},
	{"circle", "cir"},
	{"court", "ct"},
	{"terrace", "ter"},
	{"place", "pl"},
	{"highway", "hwy"},
}

// normalize an address by lowercasing, collapsing whitespace and abbreviating common terms.
func NormalizeAddress(s string) string {
	s = strings.Join(strings.Fields(strings.ToLower(s)), " ")
	words := strings.Split(s, " ")
	for i, w := range words {
		trimmed := strings.TrimRight(w, ",.")
		for _, a := range addressAbbreviations {
			if trimmed == a.full {
				words[i] = a.abbr + w[len(trimmed):]
				break
			}
		}
	}
	return strings.Join(words, " ")
}
