package validation

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strconv"
	"strings"
)

// Signature builds the canonical cache key of a request. Products are
// sorted by product id so two requests differing only in array order
// hash identically.
func Signature(request *Request) string {
	lines := make([]string, 0, len(request.Products))
	for _, p := range request.Products {
		pt := p.PackagingTypeID
		if pt == "" {
			pt = "default"
		}
		lines = append(lines, fmt.Sprintf("%s:%s:%s",
			p.ProductID,
			strconv.FormatFloat(p.Quantity, 'f', -1, 64),
			pt))
	}
	sort.Strings(lines)

	palletID := request.PalletID
	if palletID == "" {
		palletID = "auto"
	}

	var b strings.Builder
	b.WriteString(strings.Join(lines, "|"))
	b.WriteString("|pallet=")
	b.WriteString(palletID)
	b.WriteString("|constraints=")
	b.WriteString(normalizeConstraints(request.Constraints))
	return b.String()
}

// Checksum is a fast FNV-1a hash of the canonical signature, used to
// detect logical change independent of cache entry timestamps.
func Checksum(request *Request) uint64 {
	h := fnv.New64a()
	h.Write([]byte(Signature(request)))
	return h.Sum64()
}

func normalizeConstraints(c Constraints) string {
	return fmt.Sprintf("w=%s,h=%s,v=%s",
		strconv.FormatFloat(c.MaxWeight, 'f', -1, 64),
		strconv.FormatFloat(c.MaxHeight, 'f', -1, 64),
		strconv.FormatFloat(c.MaxVolume, 'f', -1, 64))
}
