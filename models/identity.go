package models

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// SpecificID builds the composite reconciliation key of a modifier or
// modifier group. Absent min/max amounts collapse to zero so that the key
// stays stable across feeds that omit them.
func SpecificID(id string, minAmount, maxAmount *int) string {
	return fmt.Sprintf("%s/%d/%d", id, amountOrZero(minAmount), amountOrZero(maxAmount))
}

// HashedID content-addresses a modifier group by the sorted external ids of
// its members plus its min/max amounts. Sorting is what makes two groups
// with identical content but different member order hash the same.
func HashedID(externalIDs []string, minAmount, maxAmount *int) string {
	ids := make([]string, len(externalIDs))
	copy(ids, externalIDs)
	sort.Strings(ids)

	payload := strings.Join(ids, "/") + fmt.Sprintf("/%d/%d", amountOrZero(minAmount), amountOrZero(maxAmount))
	sum := md5.Sum([]byte(payload))
	return hex.EncodeToString(sum[:])
}

// JoinExternalIDs produces the canonical stored form of a group's member
// external ids: sorted and slash-joined.
func JoinExternalIDs(externalIDs []string) string {
	ids := make([]string, len(externalIDs))
	copy(ids, externalIDs)
	sort.Strings(ids)
	return strings.Join(ids, "/")
}

func amountOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

// Amount is a convenience for literal min/max pointers.
func Amount(v int) *int {
	return &v
}
